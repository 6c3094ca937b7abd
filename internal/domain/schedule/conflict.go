package schedule

// SlotSet is the set of slot ids already taken on one date
type SlotSet map[SlotID]struct{}

func NewSlotSet(ids ...SlotID) SlotSet {
	s := make(SlotSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s SlotSet) Add(id SlotID) { s[id] = struct{}{} }

func (s SlotSet) Has(id SlotID) bool {
	_, ok := s[id]
	return ok
}

// OccupiedSlots collects the blocks held on date by every booking except exclude.
// A zero exclude id excludes nothing.
func OccupiedSlots(catalog *Catalog, bookings []*Booking, date Date, exclude BookingID, policy Policy) SlotSet {
	occupied := make(SlotSet)
	for _, b := range bookings {
		if b == nil || !b.date.Equal(date) {
			continue
		}
		if exclude != 0 && b.id == exclude {
			continue
		}
		for _, id := range b.HeldSlots(catalog, policy) {
			occupied.Add(id)
		}
	}
	return occupied
}

type ConflictDetector struct {
	policy Policy
}

func NewConflictDetector(policy Policy) ConflictDetector {
	return ConflictDetector{policy: policy}
}

// HasConflict reports whether the run of blocks starting at startSlotID collides with another booking.
// An unknown slot or a run past the last slot of the day counts as a conflict.
func (d ConflictDetector) HasConflict(
	catalog *Catalog,
	date Date,
	startSlotID SlotID,
	blocks int,
	bookings []*Booking,
	exclude BookingID,
) bool {
	run, ok := catalog.RunIDs(startSlotID, blocks)
	if !ok {
		return true
	}
	occupied := OccupiedSlots(catalog, bookings, date, exclude, d.policy)
	for _, id := range run {
		if occupied.Has(id) {
			return true
		}
	}
	return false
}

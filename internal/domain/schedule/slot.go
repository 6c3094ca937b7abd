package schedule

type SlotID int64

// TimeSlot is one bookable block of the clinic day
type TimeSlot struct {
	id    SlotID
	start TimeOfDay
}

func NewTimeSlot(id SlotID, start TimeOfDay) TimeSlot {
	return TimeSlot{id: id, start: start}
}

func (s TimeSlot) ID() SlotID       { return s.id }
func (s TimeSlot) Start() TimeOfDay { return s.start }

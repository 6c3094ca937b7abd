package schedule

import "time"

type BookingID int64

// Booking is a scheduled appointment occupying a contiguous run of blocks on one date.
// The block count is fixed when the booking is written so later service edits do not move it.
type Booking struct {
	id          BookingID
	petID       int64
	staffID     int64
	serviceID   ServiceID
	serviceName string
	blocks      int
	date        Date
	startSlotID SlotID
	status      Status
	createdAt   time.Time
	updatedAt   time.Time
}

func ReconstructBooking(
	id BookingID,
	petID, staffID int64,
	serviceID ServiceID,
	serviceName string,
	blocks int,
	date Date,
	startSlotID SlotID,
	status Status,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:          id,
		petID:       petID,
		staffID:     staffID,
		serviceID:   serviceID,
		serviceName: serviceName,
		blocks:      blocks,
		date:        date,
		startSlotID: startSlotID,
		status:      status,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (b *Booking) ID() BookingID        { return b.id }
func (b *Booking) PetID() int64         { return b.petID }
func (b *Booking) StaffID() int64       { return b.staffID }
func (b *Booking) ServiceID() ServiceID { return b.serviceID }
func (b *Booking) ServiceName() string  { return b.serviceName }
func (b *Booking) Blocks() int          { return b.blocks }
func (b *Booking) Date() Date           { return b.date }
func (b *Booking) StartSlotID() SlotID  { return b.startSlotID }
func (b *Booking) Status() Status       { return b.status }
func (b *Booking) CreatedAt() time.Time { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// WithID stamps the id assigned by storage onto a freshly validated draft
func (b *Booking) WithID(id BookingID) *Booking {
	c := b.clone()
	c.id = id
	return c
}

func (b *Booking) clone() *Booking {
	c := *b
	return &c
}

// HeldSlots lists the slot ids this booking blocks for others under policy.
// A cancelled booking holds nothing when the policy frees cancelled slots.
func (b *Booking) HeldSlots(catalog *Catalog, policy Policy) []SlotID {
	if b.status == StatusCancelled && policy.CancelledFreesSlots {
		return nil
	}
	pos, ok := catalog.IndexOf(b.startSlotID)
	if !ok {
		return []SlotID{b.startSlotID}
	}
	ids := make([]SlotID, 0, b.blocks)
	for i := pos; i < pos+max(1, b.blocks) && i < catalog.Len(); i++ {
		ids = append(ids, catalog.At(i).ID())
	}
	return ids
}

package queries

import (
	"time"

	"clinic-scheduler/internal/domain/schedule"
)

type SlotView struct {
	SlotID int64  `json:"slotId"`
	Start  string `json:"start"`
}

type ServiceView struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"durationMinutes"`
	Blocks          int    `json:"blocks"`
}

// AvailabilityView lists valid start times. Reason is set when the list is empty because the request was refused.
type AvailabilityView struct {
	Date      string     `json:"date"`
	ServiceID int64      `json:"serviceId"`
	Slots     []SlotView `json:"slots"`
	Reason    string     `json:"reason,omitempty"`
}

type BookingView struct {
	ID          int64     `json:"id"`
	PetID       int64     `json:"petId"`
	StaffID     int64     `json:"staffId"`
	ServiceID   int64     `json:"serviceId"`
	ServiceName string    `json:"serviceName"`
	Date        string    `json:"date"`
	SlotID      int64     `json:"slotId"`
	Start       string    `json:"start"`
	Blocks      int       `json:"blocks"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type BookingFilters struct {
	From   schedule.Date
	To     schedule.Date
	Status *schedule.Status
}

func NewBookingView(b *schedule.Booking, catalog *schedule.Catalog) *BookingView {
	v := &BookingView{
		ID:          int64(b.ID()),
		PetID:       b.PetID(),
		StaffID:     b.StaffID(),
		ServiceID:   int64(b.ServiceID()),
		ServiceName: b.ServiceName(),
		Date:        b.Date().String(),
		SlotID:      int64(b.StartSlotID()),
		Blocks:      b.Blocks(),
		Status:      b.Status().String(),
		CreatedAt:   b.CreatedAt(),
		UpdatedAt:   b.UpdatedAt(),
	}
	if catalog != nil {
		if pos, ok := catalog.IndexOf(b.StartSlotID()); ok {
			v.Start = catalog.At(pos).Start().String()
		}
	}
	return v
}

func NewSlotViews(slots []schedule.TimeSlot) []SlotView {
	out := make([]SlotView, 0, len(slots))
	for _, s := range slots {
		out = append(out, SlotView{SlotID: int64(s.ID()), Start: s.Start().String()})
	}
	return out
}

package request

import (
	"strings"

	"clinic-scheduler/internal/domain/schedule"
	"clinic-scheduler/internal/usecase/commands"
)

// Fields left out of the body reach the validator as zero values and are refused there
type CreateBookingRequest struct {
	PetID     int64  `json:"petId"`
	StaffID   int64  `json:"staffId"`
	ServiceID int64  `json:"serviceId"`
	Date      string `json:"date" example:"2025-06-02"`
	SlotID    int64  `json:"slotId"`
	Status    string `json:"status,omitempty" example:"pending"`
}

type UpdateBookingRequest struct {
	PetID     *int64  `json:"petId,omitempty"`
	StaffID   *int64  `json:"staffId,omitempty"`
	ServiceID *int64  `json:"serviceId,omitempty"`
	Date      *string `json:"date,omitempty" example:"2025-06-02"`
	SlotID    *int64  `json:"slotId,omitempty"`
	Status    *string `json:"status,omitempty" example:"confirmed"`
}

func (r *CreateBookingRequest) ToInput() (commands.CreateBookingInput, error) {
	date, err := parseOptionalDate(r.Date)
	if err != nil {
		return commands.CreateBookingInput{}, err
	}
	return commands.CreateBookingInput{
		PetID:     r.PetID,
		StaffID:   r.StaffID,
		ServiceID: schedule.ServiceID(r.ServiceID),
		Date:      date,
		SlotID:    schedule.SlotID(r.SlotID),
		Status:    r.Status,
	}, nil
}

func (r *UpdateBookingRequest) ToInput(id schedule.BookingID) (commands.EditBookingInput, error) {
	in := commands.EditBookingInput{
		ID:      id,
		PetID:   r.PetID,
		StaffID: r.StaffID,
		Status:  r.Status,
	}
	if r.Date != nil {
		date, err := parseOptionalDate(*r.Date)
		if err != nil {
			return commands.EditBookingInput{}, err
		}
		in.Date = &date
	}
	if r.ServiceID != nil {
		sid := schedule.ServiceID(*r.ServiceID)
		in.ServiceID = &sid
	}
	if r.SlotID != nil {
		slot := schedule.SlotID(*r.SlotID)
		in.SlotID = &slot
	}
	return in, nil
}

// parseOptionalDate keeps a blank date as the zero Date
func parseOptionalDate(s string) (schedule.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return schedule.Date{}, nil
	}
	return schedule.ParseDate(s)
}

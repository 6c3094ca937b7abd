package schedule

import "errors"

// Reason is the stable code a caller can branch on when a booking is refused
type Reason string

const (
	ReasonMissingField            Reason = "missing_field"
	ReasonInvalidService          Reason = "invalid_service"
	ReasonInvalidSlot             Reason = "invalid_slot"
	ReasonPastDate                Reason = "past_date"
	ReasonNonOperatingDay         Reason = "non_operating_day"
	ReasonPastTimeToday           Reason = "past_time_today"
	ReasonSlotConflict            Reason = "slot_conflict"
	ReasonIllegalStatusTransition Reason = "illegal_status_transition"
	ReasonBookingLocked           Reason = "booking_locked"
	ReasonNotFound                Reason = "not_found"
)

// Rejection is an expected business refusal, never an infrastructure failure.
// Two rejections match under errors.Is when their reasons match.
type Rejection struct {
	Reason  Reason
	Message string
}

func (r *Rejection) Error() string {
	return r.Message
}

func (r *Rejection) Is(target error) bool {
	t, ok := target.(*Rejection)
	return ok && t.Reason == r.Reason
}

// With returns a rejection carrying the same reason and a more specific message
func (r *Rejection) With(message string) *Rejection {
	return &Rejection{Reason: r.Reason, Message: message}
}

var (
	ErrMissingField            = &Rejection{Reason: ReasonMissingField, Message: "date and time slot are required"}
	ErrInvalidService          = &Rejection{Reason: ReasonInvalidService, Message: "service does not exist"}
	ErrInvalidSlot             = &Rejection{Reason: ReasonInvalidSlot, Message: "time slot does not exist"}
	ErrPastDate                = &Rejection{Reason: ReasonPastDate, Message: "date is in the past"}
	ErrNonOperatingDay         = &Rejection{Reason: ReasonNonOperatingDay, Message: "clinic is closed on that day"}
	ErrPastTimeToday           = &Rejection{Reason: ReasonPastTimeToday, Message: "time slot has already started today"}
	ErrSlotConflict            = &Rejection{Reason: ReasonSlotConflict, Message: "time slot overlaps an existing booking"}
	ErrIllegalStatusTransition = &Rejection{Reason: ReasonIllegalStatusTransition, Message: "status change is not allowed"}
	ErrBookingLocked           = &Rejection{Reason: ReasonBookingLocked, Message: "booking can no longer be changed"}
	ErrNotFound                = &Rejection{Reason: ReasonNotFound, Message: "booking not found"}
)

func ReasonOf(err error) (Reason, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej.Reason, true
	}
	return "", false
}

func IsRejection(err error) bool {
	_, ok := ReasonOf(err)
	return ok
}

package schedule

import (
	"errors"
	"strings"

	"clinic-scheduler/internal/domain/user"
)

var ErrUnknownStatus = errors.New("unknown booking status")

// Status is the closed set of booking lifecycle states. The zero value is not a valid status.
type Status uint8

const (
	StatusPending Status = iota + 1
	StatusConfirmed
	StatusUrgent
	StatusCompleted
	StatusCancelled
)

var AllStatuses = []Status{StatusPending, StatusConfirmed, StatusUrgent, StatusCompleted, StatusCancelled}

// ParseStatus canonicalizes free-form input; comparison is case-insensitive
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return StatusPending, nil
	case "confirmed":
		return StatusConfirmed, nil
	case "urgent":
		return StatusUrgent, nil
	case "completed":
		return StatusCompleted, nil
	case "cancelled", "canceled":
		return StatusCancelled, nil
	default:
		return 0, ErrUnknownStatus
	}
}

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusConfirmed:
		return "confirmed"
	case StatusUrgent:
		return "urgent"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

func (s Status) IsValid() bool {
	return s >= StatusPending && s <= StatusCancelled
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, ErrUnknownStatus
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	parsed, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// CanTransition reports whether the lifecycle allows moving from one status to another.
// Staying in the same status is always allowed, terminal ones included.
func CanTransition(from, to Status) bool {
	if !from.IsValid() || !to.IsValid() {
		return false
	}
	if from == to {
		return true
	}
	switch from {
	case StatusPending:
		switch to {
		case StatusConfirmed, StatusUrgent, StatusCompleted, StatusCancelled:
			return true
		case StatusPending:
		}
	case StatusConfirmed:
		switch to {
		case StatusUrgent, StatusCompleted, StatusCancelled:
			return true
		case StatusPending, StatusConfirmed:
		}
	case StatusUrgent:
		switch to {
		case StatusConfirmed, StatusCompleted, StatusCancelled:
			return true
		case StatusPending, StatusUrgent:
		}
	case StatusCompleted, StatusCancelled:
	}
	return false
}

// InitialStatus picks the status of a new booking. Clients may only ask for pending or urgent;
// anything else they send becomes pending.
func InitialStatus(role user.Role, requested string) (Status, error) {
	if strings.TrimSpace(requested) == "" {
		return StatusPending, nil
	}
	status, err := ParseStatus(requested)
	if !role.IsClinicStaff() {
		if err == nil && (status == StatusPending || status == StatusUrgent) {
			return status, nil
		}
		return StatusPending, nil
	}
	if err != nil {
		return 0, ErrIllegalStatusTransition.With("unknown status " + requested)
	}
	return status, nil
}

// ApplyEditPolicy decides the status a booking ends up with after an edit by role.
// An empty request keeps the current status.
func ApplyEditPolicy(role user.Role, current Status, requested string) (Status, error) {
	if current == StatusCompleted {
		return current, ErrBookingLocked.With("completed bookings cannot be edited")
	}
	if strings.TrimSpace(requested) == "" {
		return current, nil
	}
	next, err := ParseStatus(requested)
	if err != nil {
		return current, ErrIllegalStatusTransition.With("unknown status " + requested)
	}
	if next == current {
		return current, nil
	}
	if current == StatusConfirmed {
		return current, ErrBookingLocked.With("status of a confirmed booking cannot change")
	}
	if !role.IsClinicStaff() {
		return current, ErrIllegalStatusTransition.With("clients cannot change booking status")
	}
	if !CanTransition(current, next) {
		return current, ErrIllegalStatusTransition.With("cannot move from " + current.String() + " to " + next.String())
	}
	return next, nil
}

package commands

import (
	"time"

	"clinic-scheduler/internal/domain/schedule"
	"clinic-scheduler/internal/domain/user"

	"github.com/google/uuid"
)

// Actor is the authenticated caller, taken from the JWT claims
type Actor struct {
	UserID uuid.UUID
	Role   user.Role
}

// A zero Date or SlotID means the field was not supplied
type CreateBookingInput struct {
	PetID     int64
	StaffID   int64
	ServiceID schedule.ServiceID
	Date      schedule.Date
	SlotID    schedule.SlotID
	Status    string
}

// Nil fields are left as they are
type EditBookingInput struct {
	ID        schedule.BookingID
	PetID     *int64
	StaffID   *int64
	ServiceID *schedule.ServiceID
	Date      *schedule.Date
	SlotID    *schedule.SlotID
	Status    *string
}

const (
	EventBookingCreated       = "booking.created"
	EventBookingUpdated       = "booking.updated"
	EventBookingStatusChanged = "booking.status_changed"
	EventBookingDeleted       = "booking.deleted"

	notificationTopic = "bookings"
)

// BookingEvent is the outbox payload relayed to the broker
type BookingEvent struct {
	Type           string    `json:"type"`
	BookingID      int64     `json:"bookingId"`
	PetID          int64     `json:"petId"`
	StaffID        int64     `json:"staffId"`
	ServiceName    string    `json:"serviceName"`
	Date           string    `json:"date"`
	SlotID         int64     `json:"slotId"`
	Start          string    `json:"start,omitempty"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previousStatus,omitempty"`
	ActorID        uuid.UUID `json:"actorId"`
	OccurredAt     time.Time `json:"occurredAt"`
}

package query

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type TimeSlot struct {
	ID        int64
	StartTime pgtype.Time
}

type Service struct {
	ID              int64
	Name            string
	DurationMinutes int32
}

type Booking struct {
	ID          int64
	PetID       int64
	StaffID     int64
	ServiceID   int64
	ServiceName string
	BlockCount  int32
	BookingDate pgtype.Date
	StartSlotID int64
	Status      string
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
}

// BookingViewRow is a booking joined with its start slot
type BookingViewRow struct {
	Booking
	StartTime pgtype.Time
}

type NotificationJob struct {
	ID        int64
	Kind      string
	Topic     string
	Payload   []byte
	Status    string
	Attempts  int32
	RunAt     pgtype.Timestamptz
	LastError pgtype.Text
	CreatedAt pgtype.Timestamptz
}

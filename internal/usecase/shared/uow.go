package shared

import (
	"context"
	"time"

	"clinic-scheduler/internal/domain/schedule"
	"clinic-scheduler/internal/infra/query"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, reads CommandReads) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	// LockDate serializes every booking write for date until the transaction ends
	LockDate(ctx context.Context, date schedule.Date) error
	Bookings() BookingRepository
	Notifications() NotificationRepository
	Reads() CommandReads
	DB() query.DBTX
}

type CommandReads interface {
	SlotCatalog(ctx context.Context) (*schedule.Catalog, error)
	ServiceByID(ctx context.Context, id schedule.ServiceID) (*schedule.Service, error)
	Services(ctx context.Context) ([]*schedule.Service, error)
	BookingByID(ctx context.Context, id schedule.BookingID) (*schedule.Booking, error)
	BookingsOnDate(ctx context.Context, date schedule.Date) ([]*schedule.Booking, error)
}

type BookingRepository interface {
	// Create stores the booking and claims held, the slot ids it blocks for others
	Create(ctx context.Context, tx query.DBTX, b *schedule.Booking, held []schedule.SlotID) (schedule.BookingID, error)
	Update(ctx context.Context, tx query.DBTX, b *schedule.Booking, held []schedule.SlotID) error
	Delete(ctx context.Context, tx query.DBTX, id schedule.BookingID) error
}

const (
	JobStatusQueued = "queued"
	JobStatusSent   = "sent"
	JobStatusFailed = "failed"
)

// NotificationJob is an outbox row waiting to be handed to the broker
type NotificationJob struct {
	ID       int64
	Kind     string
	Topic    string
	Payload  []byte
	Attempts int
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, tx query.DBTX, kind, topic string, payload []byte, runAt time.Time) error
	// ClaimDue locks up to limit queued jobs whose run time has passed until the transaction ends
	ClaimDue(ctx context.Context, tx query.DBTX, now time.Time, limit int32) ([]NotificationJob, error)
	// UpdateJobStatus records an attempt. A non-nil retryAt reschedules the job.
	UpdateJobStatus(ctx context.Context, tx query.DBTX, jobID int64, status string, lastError *string, retryAt *time.Time) error
	CountQueued(ctx context.Context, tx query.DBTX) (int64, error)
}

// DateGuard is an optional cross-process lock taken before the transaction opens.
// The returned release func is always safe to call.
type DateGuard interface {
	Acquire(ctx context.Context, dates ...schedule.Date) (release func(), err error)
}

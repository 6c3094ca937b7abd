//go:build unit || e2e

package dbtest

import (
	"context"
	"testing"
	"time"

	"clinic-scheduler/internal/domain/schedule"

	"github.com/stretchr/testify/require"
)

// InsertBooking writes a booking row and its block claims directly, bypassing the engine
func InsertBooking(t *testing.T, db DBLike, b *schedule.Booking, held []schedule.SlotID) schedule.BookingID {
	t.Helper()

	ctx := context.Background()
	var id int64
	err := db.QueryRow(ctx, `
		INSERT INTO bookings (pet_id, staff_id, service_id, service_name, block_count,
		                      booking_date, start_slot_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING id`,
		b.PetID(), b.StaffID(), int64(b.ServiceID()), b.ServiceName(), b.Blocks(),
		b.Date().Time(), int64(b.StartSlotID()), b.Status().String(), b.CreatedAt(),
	).Scan(&id)
	require.NoError(t, err)

	for _, slot := range held {
		_, err := db.Exec(ctx,
			"INSERT INTO booking_blocks (booking_date, slot_id, booking_id) VALUES ($1, $2, $3)",
			b.Date().Time(), int64(slot), id)
		require.NoError(t, err)
	}

	return schedule.BookingID(id)
}

func CountQueuedJobs(t *testing.T, db DBLike) int {
	t.Helper()
	var n int
	err := db.QueryRow(context.Background(), "SELECT count(*) FROM notification_jobs WHERE status = 'queued'").Scan(&n)
	require.NoError(t, err)
	return n
}

// ResetDB clears booking state. Reference data (time_slots, services) comes from migrations and is kept.
func ResetDB(db DBLike) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := db.Exec(ctx, "TRUNCATE booking_blocks, bookings, notification_jobs RESTART IDENTITY CASCADE")
	return err
}

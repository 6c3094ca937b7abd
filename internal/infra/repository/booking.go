package repository

import (
	"context"

	"clinic-scheduler/internal/domain/schedule"
	"clinic-scheduler/internal/infra"
	"clinic-scheduler/internal/infra/query"
	"clinic-scheduler/internal/pkg/pgconv"
)

type BookingWriteQueries interface {
	CreateBooking(ctx context.Context, db query.DBTX, arg query.CreateBookingParams) (int64, error)
	UpdateBooking(ctx context.Context, db query.DBTX, arg query.UpdateBookingParams) (int64, error)
	DeleteBooking(ctx context.Context, db query.DBTX, id int64) (int64, error)
	InsertBookingBlocks(ctx context.Context, db query.DBTX, arg query.InsertBookingBlocksParams) error
	DeleteBookingBlocks(ctx context.Context, db query.DBTX, bookingID int64) error
	ReleaseCancelledBlocks(ctx context.Context, db query.DBTX, arg query.ReleaseCancelledBlocksParams) error
}

// BookingRepository writes bookings together with the booking_blocks rows that back the
// one-booking-per-block constraint.
type BookingRepository struct {
	queries BookingWriteQueries
}

func NewBookingRepository(queries BookingWriteQueries) *BookingRepository {
	return &BookingRepository{queries: queries}
}

func (r *BookingRepository) Create(ctx context.Context, tx query.DBTX, b *schedule.Booking, held []schedule.SlotID) (schedule.BookingID, error) {
	params := query.CreateBookingParams{
		PetID:       b.PetID(),
		StaffID:     b.StaffID(),
		ServiceID:   int64(b.ServiceID()),
		ServiceName: b.ServiceName(),
		BlockCount:  int32(b.Blocks()), // #nosec G115 -- bounded by catalog length
		BookingDate: pgconv.DateToPgtype(b.Date().Time()),
		StartSlotID: int64(b.StartSlotID()),
		Status:      b.Status().String(),
		CreatedAt:   pgconv.TimestamptzToPgtype(b.CreatedAt()),
	}

	id, err := r.queries.CreateBooking(ctx, tx, params)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to create booking", err)
	}

	if err := r.claimBlocks(ctx, tx, id, b.Date(), held); err != nil {
		return 0, err
	}

	return schedule.BookingID(id), nil
}

func (r *BookingRepository) Update(ctx context.Context, tx query.DBTX, b *schedule.Booking, held []schedule.SlotID) error {
	params := query.UpdateBookingParams{
		ID:          int64(b.ID()),
		PetID:       b.PetID(),
		StaffID:     b.StaffID(),
		ServiceID:   int64(b.ServiceID()),
		ServiceName: b.ServiceName(),
		BlockCount:  int32(b.Blocks()), // #nosec G115 -- bounded by catalog length
		BookingDate: pgconv.DateToPgtype(b.Date().Time()),
		StartSlotID: int64(b.StartSlotID()),
		Status:      b.Status().String(),
		UpdatedAt:   pgconv.TimestamptzToPgtype(b.UpdatedAt()),
	}

	affected, err := r.queries.UpdateBooking(ctx, tx, params)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}

	if err := r.queries.DeleteBookingBlocks(ctx, tx, params.ID); err != nil {
		return infra.WrapRepoErr("failed to release booking blocks", err)
	}
	return r.claimBlocks(ctx, tx, params.ID, b.Date(), held)
}

// Delete relies on ON DELETE CASCADE to drop the booking_blocks rows
func (r *BookingRepository) Delete(ctx context.Context, tx query.DBTX, id schedule.BookingID) error {
	affected, err := r.queries.DeleteBooking(ctx, tx, int64(id))
	if err != nil {
		return infra.WrapRepoErr("failed to delete booking", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

// claimBlocks is only reached after the validator accepted the run, so a cancelled owner of one of
// these blocks no longer counts and its row is dropped before the insert.
func (r *BookingRepository) claimBlocks(ctx context.Context, tx query.DBTX, id int64, date schedule.Date, held []schedule.SlotID) error {
	if len(held) == 0 {
		return nil
	}

	ids := make([]int64, len(held))
	for i, s := range held {
		ids[i] = int64(s)
	}
	bookingDate := pgconv.DateToPgtype(date.Time())

	err := r.queries.ReleaseCancelledBlocks(ctx, tx, query.ReleaseCancelledBlocksParams{
		BookingDate: bookingDate,
		SlotIds:     ids,
	})
	if err != nil {
		return infra.WrapRepoErr("failed to release cancelled booking blocks", err)
	}

	err = r.queries.InsertBookingBlocks(ctx, tx, query.InsertBookingBlocksParams{
		BookingID:   id,
		BookingDate: bookingDate,
		SlotIds:     ids,
	})
	if err != nil {
		if infra.IsUniqueViolation(err) {
			return infra.WrapRepoErr("booking blocks already taken", err, infra.KindConflict)
		}
		return infra.WrapRepoErr("failed to claim booking blocks", err)
	}
	return nil
}

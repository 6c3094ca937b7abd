package readstore

import (
	"context"

	"clinic-scheduler/internal/domain/schedule"
	"clinic-scheduler/internal/infra"
	"clinic-scheduler/internal/infra/query"
	"clinic-scheduler/internal/pkg/pgconv"
	"clinic-scheduler/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgtype"
)

type BookingReadQueries interface {
	GetBookingByID(ctx context.Context, db query.DBTX, id int64) (query.Booking, error)
	ListBookingsByDate(ctx context.Context, db query.DBTX, bookingDate pgtype.Date) ([]query.Booking, error)
}

type BookingViewQueries interface {
	GetBookingViewByID(ctx context.Context, db query.DBTX, id int64) (query.BookingViewRow, error)
	ListBookingViewsByDate(ctx context.Context, db query.DBTX, bookingDate pgtype.Date) ([]query.BookingViewRow, error)
	ListBookingViewsRangeFirstPage(ctx context.Context, db query.DBTX, arg query.ListBookingViewsRangeParams) ([]query.BookingViewRow, error)
	ListBookingViewsRangeKeyset(ctx context.Context, db query.DBTX, arg query.ListBookingViewsRangeKeysetParams) ([]query.BookingViewRow, error)
}

// BookingStore loads domain bookings for command-side validation
type BookingStore struct {
	queries BookingReadQueries
	db      query.DBTX
}

func NewBookingStore(queries BookingReadQueries, db query.DBTX) *BookingStore {
	return &BookingStore{
		queries: queries,
		db:      db,
	}
}

func (r *BookingStore) FindByID(ctx context.Context, id schedule.BookingID) (*schedule.Booking, error) {
	row, err := r.queries.GetBookingByID(ctx, r.db, int64(id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}
	return rowToBooking(row)
}

func (r *BookingStore) FindByDate(ctx context.Context, date schedule.Date) ([]*schedule.Booking, error) {
	rows, err := r.queries.ListBookingsByDate(ctx, r.db, pgconv.DateToPgtype(date.Time()))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings by date", err)
	}

	result := make([]*schedule.Booking, 0, len(rows))
	for _, row := range rows {
		b, err := rowToBooking(row)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, nil
}

// BookingReadStore serves the query side with start times already joined in
type BookingReadStore struct {
	queries BookingViewQueries
	db      query.DBTX
}

func NewBookingReadStore(queries BookingViewQueries, db query.DBTX) *BookingReadStore {
	return &BookingReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *BookingReadStore) FindByID(ctx context.Context, id schedule.BookingID) (*queries.BookingView, error) {
	row, err := r.queries.GetBookingViewByID(ctx, r.db, int64(id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}
	return rowToBookingView(row)
}

func (r *BookingReadStore) FindByDate(ctx context.Context, date schedule.Date) ([]*queries.BookingView, error) {
	rows, err := r.queries.ListBookingViewsByDate(ctx, r.db, pgconv.DateToPgtype(date.Time()))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings by date", err)
	}
	return rowsToBookingViews(rows)
}

func (r *BookingReadStore) FindRangeFirstPage(ctx context.Context, filters queries.BookingFilters, limit int32) ([]*queries.BookingView, error) {
	rows, err := r.queries.ListBookingViewsRangeFirstPage(ctx, r.db, rangeParams(filters, limit))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings first page", err)
	}
	return rowsToBookingViews(rows)
}

func (r *BookingReadStore) FindRangeKeyset(
	ctx context.Context,
	filters queries.BookingFilters,
	lastDate schedule.Date,
	lastID schedule.BookingID,
	limit int32,
) ([]*queries.BookingView, error) {
	params := query.ListBookingViewsRangeKeysetParams{
		ListBookingViewsRangeParams: rangeParams(filters, limit),
		LastDate:                    pgconv.DateToPgtype(lastDate.Time()),
		LastID:                      int64(lastID),
	}

	rows, err := r.queries.ListBookingViewsRangeKeyset(ctx, r.db, params)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings with keyset", err)
	}
	return rowsToBookingViews(rows)
}

func rangeParams(filters queries.BookingFilters, limit int32) query.ListBookingViewsRangeParams {
	params := query.ListBookingViewsRangeParams{
		FromDate: pgconv.DateToPgtype(filters.From.Time()),
		ToDate:   pgconv.DateToPgtype(filters.To.Time()),
		Limit:    limit,
	}
	if filters.Status != nil {
		params.Status = pgconv.StringToPgtype(filters.Status.String())
	}
	return params
}

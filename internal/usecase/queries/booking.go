package queries

import (
	"context"

	"clinic-scheduler/internal/domain/schedule"
	"clinic-scheduler/internal/infra"
	"clinic-scheduler/internal/pkg/errs"
)

var ErrInvalidCursor = errs.New("invalid cursor")

type BookingReadStore interface {
	FindByID(ctx context.Context, id schedule.BookingID) (*BookingView, error)
	FindByDate(ctx context.Context, date schedule.Date) ([]*BookingView, error)
	FindRangeFirstPage(ctx context.Context, filters BookingFilters, limit int32) ([]*BookingView, error)
	FindRangeKeyset(ctx context.Context, filters BookingFilters, lastDate schedule.Date, lastID schedule.BookingID, limit int32) ([]*BookingView, error)
}

type BookingQueries interface {
	GetByID(ctx context.Context, id schedule.BookingID) (*BookingView, error)
	ListByDate(ctx context.Context, date schedule.Date) ([]*BookingView, error)
	ListRange(ctx context.Context, filters BookingFilters, cursor *Cursor, limit int) ([]*BookingView, *Cursor, error)
}

type bookingQueriesImpl struct {
	repo BookingReadStore
}

func NewBookingQueries(repo BookingReadStore) BookingQueries {
	return &bookingQueriesImpl{repo: repo}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id schedule.BookingID) (*BookingView, error) {
	v, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, schedule.ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

func (q *bookingQueriesImpl) ListByDate(ctx context.Context, date schedule.Date) ([]*BookingView, error) {
	if date.IsZero() {
		return nil, schedule.ErrMissingField.With("date is required")
	}
	return q.repo.FindByDate(ctx, date)
}

func (q *bookingQueriesImpl) ListRange(ctx context.Context, filters BookingFilters, cursor *Cursor, limit int) ([]*BookingView, *Cursor, error) {
	if filters.From.IsZero() || filters.To.IsZero() {
		return nil, nil, schedule.ErrMissingField.With("from and to are required")
	}
	limit = ValidateLimit(limit)

	var rows []*BookingView
	var err error
	if cursor == nil || cursor.After == "" {
		rows, err = q.repo.FindRangeFirstPage(ctx, filters, int32(limit+1))
	} else {
		lastDate, lastID, derr := DecodeAfterCursor(cursor.After)
		if derr != nil {
			return nil, nil, ErrInvalidCursor
		}
		rows, err = q.repo.FindRangeKeyset(ctx, filters, lastDate, lastID, int32(limit+1))
	}
	if err != nil {
		return nil, nil, err
	}

	var next *Cursor
	if len(rows) > limit {
		last := rows[limit-1]
		lastDate, perr := schedule.ParseDate(last.Date)
		if perr != nil {
			return nil, nil, errs.Wrap(perr, "read store returned an unparseable date")
		}
		next = &Cursor{After: EncodeAfterCursor(lastDate, schedule.BookingID(last.ID))}
		rows = rows[:limit]
	}
	return rows, next, nil
}

package query

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const bookingColumns = `b.id, b.pet_id, b.staff_id, b.service_id, b.service_name, b.block_count,
       b.booking_date, b.start_slot_id, b.status, b.created_at, b.updated_at`

func scanBooking(row interface{ Scan(...any) error }, i *Booking, extra ...any) error {
	dest := []any{
		&i.ID, &i.PetID, &i.StaffID, &i.ServiceID, &i.ServiceName, &i.BlockCount,
		&i.BookingDate, &i.StartSlotID, &i.Status, &i.CreatedAt, &i.UpdatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

const getBookingByID = `-- name: GetBookingByID :one
SELECT ` + bookingColumns + `
FROM bookings b
WHERE b.id = $1
`

func (q *Queries) GetBookingByID(ctx context.Context, db DBTX, id int64) (Booking, error) {
	var i Booking
	err := scanBooking(db.QueryRow(ctx, getBookingByID, id), &i)
	return i, err
}

const listBookingsByDate = `-- name: ListBookingsByDate :many
SELECT ` + bookingColumns + `
FROM bookings b
WHERE b.booking_date = $1
ORDER BY b.id
`

func (q *Queries) ListBookingsByDate(ctx context.Context, db DBTX, bookingDate pgtype.Date) ([]Booking, error) {
	rows, err := db.Query(ctx, listBookingsByDate, bookingDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Booking
	for rows.Next() {
		var i Booking
		if err := scanBooking(rows, &i); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getBookingViewByID = `-- name: GetBookingViewByID :one
SELECT ` + bookingColumns + `, ts.start_time
FROM bookings b
JOIN time_slots ts ON ts.id = b.start_slot_id
WHERE b.id = $1
`

func (q *Queries) GetBookingViewByID(ctx context.Context, db DBTX, id int64) (BookingViewRow, error) {
	var i BookingViewRow
	err := scanBooking(db.QueryRow(ctx, getBookingViewByID, id), &i.Booking, &i.StartTime)
	return i, err
}

const listBookingViewsByDate = `-- name: ListBookingViewsByDate :many
SELECT ` + bookingColumns + `, ts.start_time
FROM bookings b
JOIN time_slots ts ON ts.id = b.start_slot_id
WHERE b.booking_date = $1
ORDER BY ts.start_time, b.id
`

func (q *Queries) ListBookingViewsByDate(ctx context.Context, db DBTX, bookingDate pgtype.Date) ([]BookingViewRow, error) {
	return q.listBookingViews(ctx, db, listBookingViewsByDate, bookingDate)
}

type ListBookingViewsRangeParams struct {
	FromDate pgtype.Date
	ToDate   pgtype.Date
	Status   pgtype.Text
	Limit    int32
}

const listBookingViewsRangeFirstPage = `-- name: ListBookingViewsRangeFirstPage :many
SELECT ` + bookingColumns + `, ts.start_time
FROM bookings b
JOIN time_slots ts ON ts.id = b.start_slot_id
WHERE b.booking_date BETWEEN $1 AND $2
  AND ($3::text IS NULL OR b.status = $3)
ORDER BY b.booking_date, b.id
LIMIT $4
`

func (q *Queries) ListBookingViewsRangeFirstPage(ctx context.Context, db DBTX, arg ListBookingViewsRangeParams) ([]BookingViewRow, error) {
	return q.listBookingViews(ctx, db, listBookingViewsRangeFirstPage, arg.FromDate, arg.ToDate, arg.Status, arg.Limit)
}

type ListBookingViewsRangeKeysetParams struct {
	ListBookingViewsRangeParams
	LastDate pgtype.Date
	LastID   int64
}

const listBookingViewsRangeKeyset = `-- name: ListBookingViewsRangeKeyset :many
SELECT ` + bookingColumns + `, ts.start_time
FROM bookings b
JOIN time_slots ts ON ts.id = b.start_slot_id
WHERE b.booking_date BETWEEN $1 AND $2
  AND ($3::text IS NULL OR b.status = $3)
  AND (b.booking_date, b.id) > ($5, $6)
ORDER BY b.booking_date, b.id
LIMIT $4
`

func (q *Queries) ListBookingViewsRangeKeyset(ctx context.Context, db DBTX, arg ListBookingViewsRangeKeysetParams) ([]BookingViewRow, error) {
	return q.listBookingViews(ctx, db, listBookingViewsRangeKeyset,
		arg.FromDate, arg.ToDate, arg.Status, arg.Limit, arg.LastDate, arg.LastID)
}

func (q *Queries) listBookingViews(ctx context.Context, db DBTX, sql string, args ...any) ([]BookingViewRow, error) {
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []BookingViewRow
	for rows.Next() {
		var i BookingViewRow
		if err := scanBooking(rows, &i.Booking, &i.StartTime); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type CreateBookingParams struct {
	PetID       int64
	StaffID     int64
	ServiceID   int64
	ServiceName string
	BlockCount  int32
	BookingDate pgtype.Date
	StartSlotID int64
	Status      string
	CreatedAt   pgtype.Timestamptz
}

const createBooking = `-- name: CreateBooking :one
INSERT INTO bookings (pet_id, staff_id, service_id, service_name, block_count,
                      booking_date, start_slot_id, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
RETURNING id
`

func (q *Queries) CreateBooking(ctx context.Context, db DBTX, arg CreateBookingParams) (int64, error) {
	row := db.QueryRow(ctx, createBooking,
		arg.PetID,
		arg.StaffID,
		arg.ServiceID,
		arg.ServiceName,
		arg.BlockCount,
		arg.BookingDate,
		arg.StartSlotID,
		arg.Status,
		arg.CreatedAt,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

type UpdateBookingParams struct {
	ID          int64
	PetID       int64
	StaffID     int64
	ServiceID   int64
	ServiceName string
	BlockCount  int32
	BookingDate pgtype.Date
	StartSlotID int64
	Status      string
	UpdatedAt   pgtype.Timestamptz
}

const updateBooking = `-- name: UpdateBooking :execrows
UPDATE bookings
SET pet_id = $2, staff_id = $3, service_id = $4, service_name = $5, block_count = $6,
    booking_date = $7, start_slot_id = $8, status = $9, updated_at = $10
WHERE id = $1
`

func (q *Queries) UpdateBooking(ctx context.Context, db DBTX, arg UpdateBookingParams) (int64, error) {
	result, err := db.Exec(ctx, updateBooking,
		arg.ID,
		arg.PetID,
		arg.StaffID,
		arg.ServiceID,
		arg.ServiceName,
		arg.BlockCount,
		arg.BookingDate,
		arg.StartSlotID,
		arg.Status,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const deleteBooking = `-- name: DeleteBooking :execrows
DELETE FROM bookings WHERE id = $1
`

func (q *Queries) DeleteBooking(ctx context.Context, db DBTX, id int64) (int64, error) {
	result, err := db.Exec(ctx, deleteBooking, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

type InsertBookingBlocksParams struct {
	BookingID   int64
	BookingDate pgtype.Date
	SlotIds     []int64
}

// booking_blocks has a primary key on (booking_date, slot_id); a second claim on a block fails with 23505
const insertBookingBlocks = `-- name: InsertBookingBlocks :exec
INSERT INTO booking_blocks (booking_date, slot_id, booking_id)
SELECT $1, unnest($2::bigint[]), $3
`

func (q *Queries) InsertBookingBlocks(ctx context.Context, db DBTX, arg InsertBookingBlocksParams) error {
	_, err := db.Exec(ctx, insertBookingBlocks, arg.BookingDate, arg.SlotIds, arg.BookingID)
	return err
}

type ReleaseCancelledBlocksParams struct {
	BookingDate pgtype.Date
	SlotIds     []int64
}

// Rows left behind by bookings that were cancelled before cancelled bookings started freeing their blocks
const releaseCancelledBlocks = `-- name: ReleaseCancelledBlocks :exec
DELETE FROM booking_blocks bb
USING bookings b
WHERE bb.booking_id = b.id
  AND b.status = 'cancelled'
  AND bb.booking_date = $1
  AND bb.slot_id = ANY($2::bigint[])
`

func (q *Queries) ReleaseCancelledBlocks(ctx context.Context, db DBTX, arg ReleaseCancelledBlocksParams) error {
	_, err := db.Exec(ctx, releaseCancelledBlocks, arg.BookingDate, arg.SlotIds)
	return err
}

const deleteBookingBlocks = `-- name: DeleteBookingBlocks :exec
DELETE FROM booking_blocks WHERE booking_id = $1
`

func (q *Queries) DeleteBookingBlocks(ctx context.Context, db DBTX, bookingID int64) error {
	_, err := db.Exec(ctx, deleteBookingBlocks, bookingID)
	return err
}

// The key is derived from the date alone so every writer for one day queues on the same lock
const lockBookingDate = `-- name: LockBookingDate :exec
SELECT pg_advisory_xact_lock(hashtextextended('booking_date:' || $1::date::text, 0))
`

func (q *Queries) LockBookingDate(ctx context.Context, db DBTX, bookingDate pgtype.Date) error {
	_, err := db.Exec(ctx, lockBookingDate, bookingDate)
	return err
}

package query

import (
	"context"
)

const listTimeSlots = `-- name: ListTimeSlots :many
SELECT id, start_time FROM time_slots ORDER BY start_time
`

func (q *Queries) ListTimeSlots(ctx context.Context, db DBTX) ([]TimeSlot, error) {
	rows, err := db.Query(ctx, listTimeSlots)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TimeSlot
	for rows.Next() {
		var i TimeSlot
		if err := rows.Scan(&i.ID, &i.StartTime); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getServiceByID = `-- name: GetServiceByID :one
SELECT id, name, duration_minutes FROM services WHERE id = $1
`

func (q *Queries) GetServiceByID(ctx context.Context, db DBTX, id int64) (Service, error) {
	row := db.QueryRow(ctx, getServiceByID, id)
	var i Service
	err := row.Scan(&i.ID, &i.Name, &i.DurationMinutes)
	return i, err
}

const listServices = `-- name: ListServices :many
SELECT id, name, duration_minutes FROM services ORDER BY id
`

func (q *Queries) ListServices(ctx context.Context, db DBTX) ([]Service, error) {
	rows, err := db.Query(ctx, listServices)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Service
	for rows.Next() {
		var i Service
		if err := rows.Scan(&i.ID, &i.Name, &i.DurationMinutes); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertTimeSlot = `-- name: UpsertTimeSlot :exec
INSERT INTO time_slots (id, start_time) VALUES ($1, $2)
ON CONFLICT (id) DO UPDATE SET start_time = EXCLUDED.start_time
`

func (q *Queries) UpsertTimeSlot(ctx context.Context, db DBTX, arg TimeSlot) error {
	_, err := db.Exec(ctx, upsertTimeSlot, arg.ID, arg.StartTime)
	return err
}

const deleteTimeSlotsAfter = `-- name: DeleteTimeSlotsAfter :execrows
DELETE FROM time_slots WHERE id > $1
`

func (q *Queries) DeleteTimeSlotsAfter(ctx context.Context, db DBTX, id int64) (int64, error) {
	result, err := db.Exec(ctx, deleteTimeSlotsAfter, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

package query

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

type CreateNotificationJobParams struct {
	Kind    string
	Topic   string
	Payload []byte
	RunAt   pgtype.Timestamptz
	Status  string
}

const createNotificationJob = `-- name: CreateNotificationJob :exec
INSERT INTO notification_jobs (kind, topic, payload, run_at, status)
VALUES ($1, $2, $3, $4, $5)
`

func (q *Queries) CreateNotificationJob(ctx context.Context, db DBTX, arg CreateNotificationJobParams) error {
	_, err := db.Exec(ctx, createNotificationJob, arg.Kind, arg.Topic, arg.Payload, arg.RunAt, arg.Status)
	return err
}

type ClaimNotificationJobsParams struct {
	Now   pgtype.Timestamptz
	Limit int32
}

const claimNotificationJobs = `-- name: ClaimNotificationJobs :many
SELECT id, kind, topic, payload, status, attempts, run_at, last_error, created_at
FROM notification_jobs
WHERE status = 'queued' AND run_at <= $1
ORDER BY run_at, id
LIMIT $2
FOR UPDATE SKIP LOCKED
`

func (q *Queries) ClaimNotificationJobs(ctx context.Context, db DBTX, arg ClaimNotificationJobsParams) ([]NotificationJob, error) {
	rows, err := db.Query(ctx, claimNotificationJobs, arg.Now, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []NotificationJob
	for rows.Next() {
		var i NotificationJob
		if err := rows.Scan(
			&i.ID,
			&i.Kind,
			&i.Topic,
			&i.Payload,
			&i.Status,
			&i.Attempts,
			&i.RunAt,
			&i.LastError,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type UpdateNotificationJobStatusParams struct {
	ID        int64
	Status    string
	LastError pgtype.Text
	RunAt     pgtype.Timestamptz
}

const updateNotificationJobStatus = `-- name: UpdateNotificationJobStatus :exec
UPDATE notification_jobs
SET status = $2,
    last_error = $3,
    attempts = attempts + 1,
    run_at = COALESCE($4, run_at)
WHERE id = $1
`

func (q *Queries) UpdateNotificationJobStatus(ctx context.Context, db DBTX, arg UpdateNotificationJobStatusParams) error {
	_, err := db.Exec(ctx, updateNotificationJobStatus, arg.ID, arg.Status, arg.LastError, arg.RunAt)
	return err
}

const countQueuedNotificationJobs = `-- name: CountQueuedNotificationJobs :one
SELECT count(*) FROM notification_jobs WHERE status = 'queued'
`

func (q *Queries) CountQueuedNotificationJobs(ctx context.Context, db DBTX) (int64, error) {
	row := db.QueryRow(ctx, countQueuedNotificationJobs)
	var count int64
	err := row.Scan(&count)
	return count, err
}

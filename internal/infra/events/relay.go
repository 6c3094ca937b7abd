package events

import (
	"context"
	"log/slog"
	"time"

	"clinic-scheduler/internal/pkg/clock"
	"clinic-scheduler/internal/pkg/errs"
	"clinic-scheduler/internal/pkg/metrics"
	"clinic-scheduler/internal/usecase/shared"
)

const (
	maxAttempts  = 5
	retryBackoff = 30 * time.Second
)

// Relay drains notification_jobs into the broker. Jobs are claimed with SKIP LOCKED so several
// replicas can run a relay at once.
//
// Delivery is at-least-once: messages go out while the claim transaction is still open, so a failed
// status update or commit leaves the jobs queued and the next batch publishes them again.
// Consumers de-duplicate on bookingId plus type.
type Relay struct {
	uow       shared.UnitOfWork
	publisher Publisher
	clock     clock.Clock
	interval  time.Duration
	batchSize int32
}

func NewRelay(uow shared.UnitOfWork, publisher Publisher, clk clock.Clock, interval time.Duration, batchSize int) *Relay {
	return &Relay{
		uow:       uow,
		publisher: publisher,
		clock:     clk,
		interval:  interval,
		batchSize: int32(batchSize), // #nosec G115 -- small config value
	}
}

// Run polls until ctx is cancelled
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	slog.Info("outbox relay started", "interval", r.interval.String(), "batch_size", r.batchSize)
	for {
		select {
		case <-ctx.Done():
			slog.Info("outbox relay stopped")
			return
		case <-ticker.C:
			if _, err := r.ProcessBatch(ctx); err != nil && ctx.Err() == nil {
				slog.Error("outbox relay batch failed", "error", err.Error())
			}
		}
	}
}

// ProcessBatch publishes one batch of due jobs and reports how many were sent
func (r *Relay) ProcessBatch(ctx context.Context) (int, error) {
	sent := 0
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		sent = 0
		now := r.clock.Now()
		repo := tx.Notifications()

		jobs, err := repo.ClaimDue(ctx, tx.DB(), now, r.batchSize)
		if err != nil {
			return err
		}

		for _, job := range jobs {
			if perr := r.publisher.Publish(ctx, job.Kind, job.Payload); perr != nil {
				status, retryAt := r.nextAttempt(job, now)
				msg := perr.Error()
				slog.Warn("failed to publish booking event",
					"job_id", job.ID,
					"kind", job.Kind,
					"attempt", job.Attempts+1,
					"error", msg)
				metrics.RecordNotification(job.Kind, status)
				if err := repo.UpdateJobStatus(ctx, tx.DB(), job.ID, status, &msg, retryAt); err != nil {
					return err
				}
				continue
			}

			metrics.RecordNotification(job.Kind, shared.JobStatusSent)
			if err := repo.UpdateJobStatus(ctx, tx.DB(), job.ID, shared.JobStatusSent, nil, nil); err != nil {
				return err
			}
			sent++
		}

		backlog, err := repo.CountQueued(ctx, tx.DB())
		if err != nil {
			return err
		}
		metrics.OutboxBacklog.Set(float64(backlog))
		return nil
	})
	if err != nil {
		return 0, errs.Wrap(err, "relay notification jobs")
	}
	return sent, nil
}

func (r *Relay) nextAttempt(job shared.NotificationJob, now time.Time) (string, *time.Time) {
	if job.Attempts+1 >= maxAttempts {
		return shared.JobStatusFailed, nil
	}
	retryAt := now.Add(time.Duration(job.Attempts+1) * retryBackoff)
	return shared.JobStatusQueued, &retryAt
}

package repository

import (
	"context"

	"clinic-scheduler/internal/domain/schedule"
	"clinic-scheduler/internal/infra"
	"clinic-scheduler/internal/infra/query"
	"clinic-scheduler/internal/pkg/pgconv"
)

type CatalogWriteQueries interface {
	UpsertTimeSlot(ctx context.Context, db query.DBTX, arg query.TimeSlot) error
	DeleteTimeSlotsAfter(ctx context.Context, db query.DBTX, id int64) (int64, error)
}

type CatalogRepository struct {
	queries CatalogWriteQueries
}

func NewCatalogRepository(queries CatalogWriteQueries) *CatalogRepository {
	return &CatalogRepository{queries: queries}
}

// Replace lays out the stored catalog to match c. Catalog ids must be 1..n; slots past n are
// removed, which fails with KindForeignKeyViolated while a booking still references one.
func (r *CatalogRepository) Replace(ctx context.Context, tx query.DBTX, c *schedule.Catalog) error {
	slots := c.OrderedSlots()
	for _, s := range slots {
		err := r.queries.UpsertTimeSlot(ctx, tx, query.TimeSlot{
			ID:        int64(s.ID()),
			StartTime: pgconv.ClockToPgtype(s.Start().Offset()),
		})
		if err != nil {
			return infra.WrapRepoErr("failed to upsert time slot "+s.Start().String(), err)
		}
	}

	last := int64(slots[len(slots)-1].ID())
	if _, err := r.queries.DeleteTimeSlotsAfter(ctx, tx, last); err != nil {
		return infra.WrapRepoErr("failed to trim time slots", err)
	}
	return nil
}

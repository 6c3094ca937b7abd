package readstore

import (
	"context"

	"clinic-scheduler/internal/domain/schedule"
	"clinic-scheduler/internal/infra"
	"clinic-scheduler/internal/infra/query"
	"clinic-scheduler/internal/pkg/pgconv"
)

type ReferenceQueries interface {
	ListTimeSlots(ctx context.Context, db query.DBTX) ([]query.TimeSlot, error)
	GetServiceByID(ctx context.Context, db query.DBTX, id int64) (query.Service, error)
	ListServices(ctx context.Context, db query.DBTX) ([]query.Service, error)
}

// ReferenceReadStore reads the slot catalog and the service list
type ReferenceReadStore struct {
	queries ReferenceQueries
	db      query.DBTX
}

func NewReferenceReadStore(queries ReferenceQueries, db query.DBTX) *ReferenceReadStore {
	return &ReferenceReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *ReferenceReadStore) Catalog(ctx context.Context) (*schedule.Catalog, error) {
	rows, err := r.queries.ListTimeSlots(ctx, r.db)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list time slots", err)
	}

	slots := make([]schedule.TimeSlot, 0, len(rows))
	for _, row := range rows {
		start, err := schedule.TimeOfDayFromOffset(pgconv.ClockFromPgtype(row.StartTime))
		if err != nil {
			return nil, infra.WrapRepoErr("time slot has invalid start time", err)
		}
		slots = append(slots, schedule.NewTimeSlot(schedule.SlotID(row.ID), start))
	}

	catalog, err := schedule.NewCatalog(slots)
	if err != nil {
		return nil, infra.WrapRepoErr("time slot catalog is inconsistent", err)
	}
	return catalog, nil
}

func (r *ReferenceReadStore) ServiceByID(ctx context.Context, id schedule.ServiceID) (*schedule.Service, error) {
	row, err := r.queries.GetServiceByID(ctx, r.db, int64(id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("service not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find service by ID", err)
	}
	return rowToService(row), nil
}

func (r *ReferenceReadStore) Services(ctx context.Context) ([]*schedule.Service, error) {
	rows, err := r.queries.ListServices(ctx, r.db)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list services", err)
	}
	result := make([]*schedule.Service, len(rows))
	for i, row := range rows {
		result[i] = rowToService(row)
	}
	return result, nil
}

func rowToService(row query.Service) *schedule.Service {
	return schedule.ReconstructService(schedule.ServiceID(row.ID), row.Name, int(row.DurationMinutes))
}

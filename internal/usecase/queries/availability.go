package queries

import (
	"context"

	"clinic-scheduler/internal/domain/schedule"
	"clinic-scheduler/internal/infra"
	"clinic-scheduler/internal/pkg/clock"
	"clinic-scheduler/internal/pkg/metrics"
	"clinic-scheduler/internal/usecase/shared"
)

type AvailabilityQueries interface {
	// ValidStartTimes never fails for a refused date or service; the view carries the reason instead
	ValidStartTimes(ctx context.Context, date schedule.Date, serviceID schedule.ServiceID) (*AvailabilityView, error)
	Slots(ctx context.Context) ([]SlotView, error)
	Services(ctx context.Context) ([]ServiceView, error)
}

type availabilityQueriesImpl struct {
	uow    shared.UnitOfWork
	calc   *schedule.AvailabilityCalculator
	policy schedule.Policy
	clock  clock.Clock
}

func NewAvailabilityQueries(uow shared.UnitOfWork, policy schedule.Policy, clk clock.Clock) AvailabilityQueries {
	return &availabilityQueriesImpl{
		uow:    uow,
		calc:   schedule.NewAvailabilityCalculator(policy),
		policy: policy,
		clock:  clk,
	}
}

func (q *availabilityQueriesImpl) ValidStartTimes(ctx context.Context, date schedule.Date, serviceID schedule.ServiceID) (*AvailabilityView, error) {
	view := &AvailabilityView{
		ServiceID: int64(serviceID),
		Slots:     []SlotView{},
	}
	if date.IsZero() {
		view.Reason = string(schedule.ReasonMissingField)
		metrics.RecordAvailabilityQuery(view.Reason)
		return view, nil
	}
	view.Date = date.String()

	now := q.clock.Now()
	today, _ := q.policy.Localize(now)
	if err := q.calc.CheckDate(date, today); err != nil {
		return q.refused(view, err)
	}

	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, reads shared.CommandReads) error {
		catalog, err := reads.SlotCatalog(ctx)
		if err != nil {
			return err
		}
		var service *schedule.Service
		if serviceID != 0 {
			service, err = reads.ServiceByID(ctx, serviceID)
			if err != nil && !infra.IsKind(err, infra.KindNotFound) {
				return err
			}
		}
		bookings, err := reads.BookingsOnDate(ctx, date)
		if err != nil {
			return err
		}

		booked := schedule.OccupiedSlots(catalog, bookings, date, 0, q.policy)
		seq, err := q.calc.ValidStartBlocks(now, date, catalog, service, booked)
		if err != nil {
			return err
		}
		for c := range seq {
			view.Slots = append(view.Slots, SlotView{SlotID: int64(c.SlotID), Start: c.Start.String()})
		}
		return nil
	})
	if err != nil {
		if schedule.IsRejection(err) {
			return q.refused(view, err)
		}
		metrics.RecordAvailabilityQuery("error")
		return nil, err
	}

	metrics.RecordAvailabilityQuery("ok")
	return view, nil
}

func (q *availabilityQueriesImpl) refused(view *AvailabilityView, err error) (*AvailabilityView, error) {
	reason, _ := schedule.ReasonOf(err)
	view.Reason = string(reason)
	view.Slots = []SlotView{}
	metrics.RecordAvailabilityQuery(view.Reason)
	return view, nil
}

func (q *availabilityQueriesImpl) Slots(ctx context.Context) ([]SlotView, error) {
	catalog, err := q.uow.CommandReads().SlotCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return NewSlotViews(catalog.OrderedSlots()), nil
}

// Services lists bookable services with the block count they would occupy under the current policy
func (q *availabilityQueriesImpl) Services(ctx context.Context) ([]ServiceView, error) {
	services, err := q.uow.CommandReads().Services(ctx)
	if err != nil {
		return nil, err
	}

	resolver := q.policy.Resolver()
	out := make([]ServiceView, 0, len(services))
	for _, s := range services {
		blocks, err := resolver.BlocksNeeded(s)
		if err != nil {
			// misconfigured rows stay visible so staff can spot them
			blocks = 0
		}
		out = append(out, ServiceView{
			ID:              int64(s.ID()),
			Name:            s.Name(),
			DurationMinutes: s.DurationMinutes(),
			Blocks:          blocks,
		})
	}
	return out, nil
}

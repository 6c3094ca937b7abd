package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"time"

	"clinic-scheduler/internal/domain/schedule"
	"clinic-scheduler/internal/infra"
	"clinic-scheduler/internal/pkg/clock"
	"clinic-scheduler/internal/pkg/errs"
	"clinic-scheduler/internal/pkg/metrics"
	"clinic-scheduler/internal/usecase/queries"
	"clinic-scheduler/internal/usecase/shared"
)

var ErrForbidden = errs.New("actor is not allowed to perform this operation")

type BookingCommands interface {
	Create(ctx context.Context, in CreateBookingInput, actor Actor) (*queries.BookingView, error)
	Edit(ctx context.Context, in EditBookingInput, actor Actor) (*queries.BookingView, error)
	Delete(ctx context.Context, id schedule.BookingID, actor Actor) error
}

type bookingCommandsImpl struct {
	uow       shared.UnitOfWork
	guard     shared.DateGuard
	validator *schedule.Validator
	clock     clock.Clock
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	guard shared.DateGuard,
	validator *schedule.Validator,
	clk clock.Clock,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:       uow,
		guard:     guard,
		validator: validator,
		clock:     clk,
	}
}

func (uc *bookingCommandsImpl) Create(ctx context.Context, in CreateBookingInput, actor Actor) (*queries.BookingView, error) {
	view, err := uc.create(ctx, in, actor)
	uc.record("create", err)
	return view, err
}

func (uc *bookingCommandsImpl) create(ctx context.Context, in CreateBookingInput, actor Actor) (*queries.BookingView, error) {
	release, err := uc.guard.Acquire(ctx, in.Date)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrLockUnavailable)
	}
	defer release()

	var view *queries.BookingView
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.LockDate(ctx, in.Date); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		catalog, err := tx.Reads().SlotCatalog(ctx)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		service, err := loadService(ctx, tx.Reads(), in.ServiceID)
		if err != nil {
			return err
		}
		bookings, err := tx.Reads().BookingsOnDate(ctx, in.Date)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		now := uc.clock.Now()
		draft, err := uc.validator.ValidateCreate(now, schedule.CreateRequest{
			Date:    in.Date,
			SlotID:  in.SlotID,
			Service: service,
			PetID:   in.PetID,
			StaffID: in.StaffID,
			Status:  in.Status,
			Role:    actor.Role,
		}, schedule.DayState{Catalog: catalog, Bookings: bookings})
		if err != nil {
			return err
		}

		id, err := tx.Bookings().Create(ctx, tx.DB(), draft, draft.HeldSlots(catalog, uc.validator.Policy()))
		if err != nil {
			return mapWriteErr(err)
		}
		saved := draft.WithID(id)

		if err := uc.enqueue(ctx, tx, newEvent(EventBookingCreated, saved, catalog, actor, now)); err != nil {
			return err
		}
		view = queries.NewBookingView(saved, catalog)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (uc *bookingCommandsImpl) Edit(ctx context.Context, in EditBookingInput, actor Actor) (*queries.BookingView, error) {
	view, err := uc.edit(ctx, in, actor)
	uc.record("edit", err)
	return view, err
}

func (uc *bookingCommandsImpl) edit(ctx context.Context, in EditBookingInput, actor Actor) (*queries.BookingView, error) {
	current, err := findBooking(ctx, uc.uow.CommandReads(), in.ID)
	if err != nil {
		return nil, err
	}
	dates := datesTouched(current.Date(), in.Date)

	release, err := uc.guard.Acquire(ctx, dates...)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrLockUnavailable)
	}
	defer release()

	var view *queries.BookingView
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		for _, d := range dates {
			if err := tx.LockDate(ctx, d); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
		}

		// Re-read under the lock; another edit may have landed since the first read
		existing, err := findBooking(ctx, tx.Reads(), in.ID)
		if err != nil {
			return err
		}
		if !slices.ContainsFunc(dates, existing.Date().Equal) {
			if err := tx.LockDate(ctx, existing.Date()); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
		}

		catalog, err := tx.Reads().SlotCatalog(ctx)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		req := schedule.EditRequest{
			Date:    in.Date,
			SlotID:  in.SlotID,
			PetID:   in.PetID,
			StaffID: in.StaffID,
			Status:  in.Status,
			Role:    actor.Role,
		}
		if in.ServiceID != nil && *in.ServiceID != existing.ServiceID() {
			service, err := loadService(ctx, tx.Reads(), *in.ServiceID)
			if err != nil {
				return err
			}
			req.ServiceChanged = true
			req.Service = service
		}

		target := existing.Date()
		if in.Date != nil {
			target = *in.Date
		}
		bookings, err := tx.Reads().BookingsOnDate(ctx, target)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		now := uc.clock.Now()
		updated, err := uc.validator.ValidateEdit(now, existing, req, schedule.DayState{Catalog: catalog, Bookings: bookings})
		if err != nil {
			return err
		}

		if err := tx.Bookings().Update(ctx, tx.DB(), updated, updated.HeldSlots(catalog, uc.validator.Policy())); err != nil {
			return mapWriteErr(err)
		}

		kind := EventBookingUpdated
		if updated.Status() != existing.Status() {
			kind = EventBookingStatusChanged
		}
		event := newEvent(kind, updated, catalog, actor, now)
		event.PreviousStatus = existing.Status().String()
		if err := uc.enqueue(ctx, tx, event); err != nil {
			return err
		}

		view = queries.NewBookingView(updated, catalog)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (uc *bookingCommandsImpl) Delete(ctx context.Context, id schedule.BookingID, actor Actor) error {
	err := uc.delete(ctx, id, actor)
	uc.record("delete", err)
	return err
}

func (uc *bookingCommandsImpl) delete(ctx context.Context, id schedule.BookingID, actor Actor) error {
	if !actor.Role.IsClinicStaff() {
		return ErrForbidden
	}

	current, err := findBooking(ctx, uc.uow.CommandReads(), id)
	if err != nil {
		return err
	}

	release, err := uc.guard.Acquire(ctx, current.Date())
	if err != nil {
		return errs.Mark(err, errs.ErrLockUnavailable)
	}
	defer release()

	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.LockDate(ctx, current.Date()); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		existing, err := findBooking(ctx, tx.Reads(), id)
		if err != nil {
			return err
		}
		catalog, err := tx.Reads().SlotCatalog(ctx)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if err := tx.Bookings().Delete(ctx, tx.DB(), id); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return schedule.ErrNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return uc.enqueue(ctx, tx, newEvent(EventBookingDeleted, existing, catalog, actor, uc.clock.Now()))
	})
}

func (uc *bookingCommandsImpl) enqueue(ctx context.Context, tx shared.Tx, event BookingEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errs.Wrap(err, "failed to encode booking event")
	}
	if err := tx.Notifications().CreateJob(ctx, tx.DB(), event.Type, notificationTopic, payload, event.OccurredAt); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

func (uc *bookingCommandsImpl) record(operation string, err error) {
	switch reason, rejected := schedule.ReasonOf(err); {
	case err == nil:
		metrics.RecordBookingOutcome(operation, "ok")
	case rejected:
		slog.Info("booking rejected", "operation", operation, "reason", string(reason), "message", err.Error())
		metrics.RecordBookingOutcome(operation, string(reason))
	case errs.Is(err, ErrForbidden):
		metrics.RecordBookingOutcome(operation, "forbidden")
	default:
		slog.Error("booking command failed", "operation", operation, "error", err.Error())
		metrics.RecordBookingOutcome(operation, "error")
	}
}

// loadService returns nil for an unknown service so the validator can refuse it in order
func loadService(ctx context.Context, reads shared.CommandReads, id schedule.ServiceID) (*schedule.Service, error) {
	if id == 0 {
		return nil, nil
	}
	service, err := reads.ServiceByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return service, nil
}

func findBooking(ctx context.Context, reads shared.CommandReads, id schedule.BookingID) (*schedule.Booking, error) {
	b, err := reads.BookingByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, schedule.ErrNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return b, nil
}

// mapWriteErr turns the storage-level overlap backstop into the business rejection
func mapWriteErr(err error) error {
	if infra.IsKind(err, infra.KindConflict) {
		return schedule.ErrSlotConflict
	}
	if infra.IsKind(err, infra.KindNotFound) {
		return schedule.ErrNotFound
	}
	return errs.Mark(err, errs.ErrDatabaseOperationFailed)
}

// datesTouched lists the dates an edit can affect in a stable order so concurrent edits lock alike
func datesTouched(current schedule.Date, requested *schedule.Date) []schedule.Date {
	dates := []schedule.Date{current}
	if requested != nil && !requested.IsZero() && !requested.Equal(current) {
		dates = append(dates, *requested)
	}
	slices.SortFunc(dates, func(a, b schedule.Date) int {
		return a.Time().Compare(b.Time())
	})
	return dates
}

func newEvent(kind string, b *schedule.Booking, catalog *schedule.Catalog, actor Actor, now time.Time) BookingEvent {
	event := BookingEvent{
		Type:        kind,
		BookingID:   int64(b.ID()),
		PetID:       b.PetID(),
		StaffID:     b.StaffID(),
		ServiceName: b.ServiceName(),
		Date:        b.Date().String(),
		SlotID:      int64(b.StartSlotID()),
		Status:      b.Status().String(),
		ActorID:     actor.UserID,
		OccurredAt:  now,
	}
	if pos, ok := catalog.IndexOf(b.StartSlotID()); ok {
		event.Start = catalog.At(pos).Start().String()
	}
	return event
}

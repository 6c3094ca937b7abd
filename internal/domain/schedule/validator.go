package schedule

import (
	"time"

	"clinic-scheduler/internal/domain/user"
	"clinic-scheduler/internal/pkg/patch"
)

// DayState is everything already on the books for the date being validated
type DayState struct {
	Catalog  *Catalog
	Bookings []*Booking
}

type CreateRequest struct {
	Date    Date
	SlotID  SlotID
	Service *Service
	PetID   int64
	StaffID int64
	Status  string
	Role    user.Role
}

// EditRequest leaves a field unchanged when its pointer is nil.
// Service is the resolved replacement service and is only consulted when ServiceChanged is set.
type EditRequest struct {
	Date           *Date
	SlotID         *SlotID
	PetID          *int64
	StaffID        *int64
	ServiceChanged bool
	Service        *Service
	Status         *string
	Role           user.Role
}

// Validator accepts or refuses booking changes. It never writes anything.
type Validator struct {
	policy       Policy
	resolver     DurationResolver
	availability *AvailabilityCalculator
	conflicts    ConflictDetector
}

func NewValidator(policy Policy) *Validator {
	return &Validator{
		policy:       policy,
		resolver:     policy.Resolver(),
		availability: NewAvailabilityCalculator(policy),
		conflicts:    NewConflictDetector(policy),
	}
}

func (v *Validator) Policy() Policy { return v.policy }

// ValidateCreate returns the booking draft to persist or the first rejection hit
func (v *Validator) ValidateCreate(now time.Time, req CreateRequest, day DayState) (*Booking, error) {
	if req.Date.IsZero() || req.SlotID == 0 {
		return nil, ErrMissingField
	}
	if req.PetID == 0 || req.StaffID == 0 {
		return nil, ErrMissingField.With("pet and staff are required")
	}

	blocks, err := v.checkSchedule(now, req.Date, req.SlotID, req.Service, day, 0)
	if err != nil {
		return nil, err
	}

	status, err := InitialStatus(req.Role, req.Status)
	if err != nil {
		return nil, err
	}

	return &Booking{
		petID:       req.PetID,
		staffID:     req.StaffID,
		serviceID:   req.Service.id,
		serviceName: req.Service.name,
		blocks:      blocks,
		date:        req.Date,
		startSlotID: req.SlotID,
		status:      status,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ValidateEdit returns an updated copy of existing. existing itself is never modified.
// Schedule checks only run when the date, slot or block count changes.
func (v *Validator) ValidateEdit(now time.Time, existing *Booking, req EditRequest, day DayState) (*Booking, error) {
	if existing == nil {
		return nil, ErrNotFound
	}
	// Status rules are decided before any schedule check so a locked status wins over a conflict
	status, err := ApplyEditPolicy(req.Role, existing.status, patch.Coalesce(req.Status, ""))
	if err != nil {
		return nil, err
	}

	next := existing.clone()
	next.date = patch.Coalesce(req.Date, existing.date)
	next.startSlotID = patch.Coalesce(req.SlotID, existing.startSlotID)
	next.petID = patch.Coalesce(req.PetID, existing.petID)
	next.staffID = patch.Coalesce(req.StaffID, existing.staffID)

	if req.ServiceChanged {
		blocks, err := v.resolver.BlocksNeeded(req.Service)
		if err != nil {
			return nil, err
		}
		next.serviceID = req.Service.id
		next.serviceName = req.Service.name
		next.blocks = blocks
	}

	if next.date.IsZero() || next.startSlotID == 0 || next.petID == 0 || next.staffID == 0 {
		return nil, ErrMissingField
	}

	scheduleChanged := !next.date.Equal(existing.date) ||
		next.startSlotID != existing.startSlotID ||
		next.blocks != existing.blocks
	if scheduleChanged {
		if err := v.checkDate(now, next.date); err != nil {
			return nil, err
		}
		if err := v.checkRun(now, next.date, next.startSlotID, next.blocks, day, existing.id); err != nil {
			return nil, err
		}
	}

	next.status = status
	next.updatedAt = now
	return next, nil
}

func (v *Validator) checkSchedule(now time.Time, date Date, slotID SlotID, service *Service, day DayState, exclude BookingID) (int, error) {
	if err := v.checkDate(now, date); err != nil {
		return 0, err
	}
	blocks, err := v.resolver.BlocksNeeded(service)
	if err != nil {
		return 0, err
	}
	if err := v.checkRun(now, date, slotID, blocks, day, exclude); err != nil {
		return 0, err
	}
	return blocks, nil
}

func (v *Validator) checkDate(now time.Time, date Date) error {
	today, _ := v.policy.Localize(now)
	return v.availability.CheckDate(date, today)
}

func (v *Validator) checkRun(now time.Time, date Date, slotID SlotID, blocks int, day DayState, exclude BookingID) error {
	today, clock := v.policy.Localize(now)
	pos, ok := day.Catalog.IndexOf(slotID)
	if !ok {
		return ErrInvalidSlot
	}
	if date.Equal(today) && !day.Catalog.At(pos).start.After(clock) {
		return ErrPastTimeToday
	}
	if v.conflicts.HasConflict(day.Catalog, date, slotID, blocks, day.Bookings, exclude) {
		return ErrSlotConflict
	}
	return nil
}

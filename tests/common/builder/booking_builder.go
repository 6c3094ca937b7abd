//go:build unit || e2e

package builder

import (
	"time"

	"clinic-scheduler/internal/domain/schedule"
	reqdto "clinic-scheduler/internal/handler/dto/request"
	"clinic-scheduler/internal/usecase/queries"
)

// Monday 2025-03-10, the reference "today" used across booking tests
var (
	Today = schedule.NewDate(2025, time.March, 10)
	Now   = time.Date(2025, time.March, 10, 14, 5, 0, 0, time.UTC)
)

// StandardCatalog is the 09:00-17:00 day in 30 minute blocks, slot ids 1..16
func StandardCatalog() *schedule.Catalog {
	c, err := schedule.GenerateCatalog(schedule.MustTimeOfDay(9, 0), schedule.MustTimeOfDay(17, 0), 30)
	if err != nil {
		panic(err)
	}
	return c
}

// SlotAt returns the id of the standard catalog slot starting at hh:mm
func SlotAt(hour, minute int) schedule.SlotID {
	return schedule.SlotID((hour-9)*2 + minute/30 + 1)
}

func Checkup() *schedule.Service {
	return schedule.ReconstructService(1, "Checkup", 60)
}

func Vaccination() *schedule.Service {
	return schedule.ReconstructService(2, "Vaccination", 15)
}

func Surgery() *schedule.Service {
	return schedule.ReconstructService(3, "Surgery", 120)
}

type BookingBuilder struct {
	ID          schedule.BookingID
	PetID       int64
	StaffID     int64
	ServiceID   schedule.ServiceID
	ServiceName string
	Blocks      int
	Date        schedule.Date
	StartSlotID schedule.SlotID
	Status      schedule.Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewBookingBuilder() *BookingBuilder {
	created := Now.Add(-24 * time.Hour)
	return &BookingBuilder{
		ID:          1,
		PetID:       10,
		StaffID:     20,
		ServiceID:   1,
		ServiceName: "Checkup",
		Blocks:      2,
		Date:        Today.AddDays(1),
		StartSlotID: SlotAt(10, 0),
		Status:      schedule.StatusPending,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) WithID(id schedule.BookingID) *BookingBuilder {
	b.ID = id
	return b
}

func (b *BookingBuilder) WithDate(d schedule.Date) *BookingBuilder {
	b.Date = d
	return b
}

func (b *BookingBuilder) WithSlot(id schedule.SlotID) *BookingBuilder {
	b.StartSlotID = id
	return b
}

func (b *BookingBuilder) WithBlocks(n int) *BookingBuilder {
	b.Blocks = n
	return b
}

func (b *BookingBuilder) WithStatus(s schedule.Status) *BookingBuilder {
	b.Status = s
	return b
}

// Build methods
func (b *BookingBuilder) BuildDomain() *schedule.Booking {
	return schedule.ReconstructBooking(
		b.ID,
		b.PetID,
		b.StaffID,
		b.ServiceID,
		b.ServiceName,
		b.Blocks,
		b.Date,
		b.StartSlotID,
		b.Status,
		b.CreatedAt,
		b.UpdatedAt,
	)
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	return queries.NewBookingView(b.BuildDomain(), StandardCatalog())
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		PetID:     b.PetID,
		StaffID:   b.StaffID,
		ServiceID: int64(b.ServiceID),
		Date:      b.Date.String(),
		SlotID:    int64(b.StartSlotID),
	}
}

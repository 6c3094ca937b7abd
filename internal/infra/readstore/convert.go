package readstore

import (
	"clinic-scheduler/internal/domain/schedule"
	"clinic-scheduler/internal/infra"
	"clinic-scheduler/internal/infra/query"
	"clinic-scheduler/internal/pkg/pgconv"
	"clinic-scheduler/internal/usecase/queries"
)

func rowToBooking(row query.Booking) (*schedule.Booking, error) {
	status, err := schedule.ParseStatus(row.Status)
	if err != nil {
		return nil, infra.WrapRepoErr("booking row has unknown status "+row.Status, err)
	}

	return schedule.ReconstructBooking(
		schedule.BookingID(row.ID),
		row.PetID,
		row.StaffID,
		schedule.ServiceID(row.ServiceID),
		row.ServiceName,
		int(row.BlockCount),
		schedule.DateOf(pgconv.DateFromPgtype(row.BookingDate)),
		schedule.SlotID(row.StartSlotID),
		status,
		pgconv.TimeFromPgtype(row.CreatedAt),
		pgconv.TimeFromPgtype(row.UpdatedAt),
	), nil
}

func rowToBookingView(row query.BookingViewRow) (*queries.BookingView, error) {
	status, err := schedule.ParseStatus(row.Status)
	if err != nil {
		return nil, infra.WrapRepoErr("booking row has unknown status "+row.Status, err)
	}
	start, err := schedule.TimeOfDayFromOffset(pgconv.ClockFromPgtype(row.StartTime))
	if err != nil {
		return nil, infra.WrapRepoErr("booking row has invalid start time", err)
	}

	return &queries.BookingView{
		ID:          row.ID,
		PetID:       row.PetID,
		StaffID:     row.StaffID,
		ServiceID:   row.ServiceID,
		ServiceName: row.ServiceName,
		Date:        schedule.DateOf(pgconv.DateFromPgtype(row.BookingDate)).String(),
		SlotID:      row.StartSlotID,
		Start:       start.String(),
		Blocks:      int(row.BlockCount),
		Status:      status.String(),
		CreatedAt:   pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:   pgconv.TimeFromPgtype(row.UpdatedAt),
	}, nil
}

func rowsToBookingViews(rows []query.BookingViewRow) ([]*queries.BookingView, error) {
	result := make([]*queries.BookingView, 0, len(rows))
	for _, row := range rows {
		v, err := rowToBookingView(row)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, nil
}

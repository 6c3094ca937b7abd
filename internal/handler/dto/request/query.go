package request

import (
	"clinic-scheduler/internal/domain/schedule"
	"clinic-scheduler/internal/usecase/queries"
)

type AvailabilityQuery struct {
	Date      string `form:"date"`
	ServiceID int64  `form:"serviceId"`
}

// ListBookingsQuery selects one day with Date, or a paged range with From and To
type ListBookingsQuery struct {
	Date   string `form:"date"`
	From   string `form:"from"`
	To     string `form:"to"`
	Status string `form:"status"`
	Cursor string `form:"cursor"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=200"`
}

func (q *AvailabilityQuery) ParseDate() (schedule.Date, error) {
	return parseOptionalDate(q.Date)
}

func (q *ListBookingsQuery) IsRange() bool {
	return q.Date == "" && (q.From != "" || q.To != "")
}

func (q *ListBookingsQuery) ToFilters() (queries.BookingFilters, error) {
	from, err := parseOptionalDate(q.From)
	if err != nil {
		return queries.BookingFilters{}, err
	}
	to, err := parseOptionalDate(q.To)
	if err != nil {
		return queries.BookingFilters{}, err
	}

	filters := queries.BookingFilters{From: from, To: to}
	if q.Status != "" {
		status, err := schedule.ParseStatus(q.Status)
		if err != nil {
			return queries.BookingFilters{}, err
		}
		filters.Status = &status
	}
	return filters, nil
}

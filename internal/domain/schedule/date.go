package schedule

import (
	"errors"
	"time"
)

const dateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

// Date is a calendar day without a time component
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, dayOfMonth int) Date {
	return Date{t: time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC)}
}

// DateOf takes the calendar day of t in t's own location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return DateOf(t), nil
}

func (d Date) IsZero() bool               { return d.t.IsZero() }
func (d Date) Weekday() time.Weekday      { return d.t.Weekday() }
func (d Date) Before(o Date) bool         { return d.t.Before(o.t) }
func (d Date) After(o Date) bool          { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool          { return d.t.Equal(o.t) }
func (d Date) AddDays(n int) Date         { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) Time() time.Time            { return d.t }
func (d Date) String() string             { return d.t.Format(dateLayout) }
func (d Date) At(tod TimeOfDay) time.Time { return d.t.Add(tod.offset) }

package schedule

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidTimeOfDay = errors.New("invalid time of day")

const fullDay = 24 * time.Hour

// TimeOfDay is an offset from midnight, independent of any calendar date
type TimeOfDay struct {
	offset time.Duration
}

func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	return TimeOfDay{offset: time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute}, nil
}

func MustTimeOfDay(hour, minute int) TimeOfDay {
	t, err := NewTimeOfDay(hour, minute)
	if err != nil {
		panic(fmt.Sprintf("schedule: %02d:%02d is not a valid time of day", hour, minute))
	}
	return t
}

// TimeOfDayFromOffset accepts the microsecond-precision offsets stored for TIME columns
func TimeOfDayFromOffset(offset time.Duration) (TimeOfDay, error) {
	if offset < 0 || offset >= fullDay {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	return TimeOfDay{offset: offset}, nil
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDayOf(t), nil
		}
	}
	return TimeOfDay{}, ErrInvalidTimeOfDay
}

// TimeOfDayOf reads the wall clock of t in its own location, keeping seconds
func TimeOfDayOf(t time.Time) TimeOfDay {
	h, m, s := t.Clock()
	return TimeOfDay{offset: time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(t.Nanosecond())}
}

func (t TimeOfDay) Offset() time.Duration { return t.offset }

// Add does not wrap past midnight; callers compare the result against the day's close
func (t TimeOfDay) Add(d time.Duration) TimeOfDay {
	return TimeOfDay{offset: t.offset + d}
}

func (t TimeOfDay) Compare(o TimeOfDay) int {
	switch {
	case t.offset < o.offset:
		return -1
	case t.offset > o.offset:
		return 1
	default:
		return 0
	}
}

func (t TimeOfDay) Before(o TimeOfDay) bool { return t.offset < o.offset }
func (t TimeOfDay) After(o TimeOfDay) bool  { return t.offset > o.offset }
func (t TimeOfDay) Equal(o TimeOfDay) bool  { return t.offset == o.offset }

func (t TimeOfDay) String() string {
	total := int(t.offset / time.Minute)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

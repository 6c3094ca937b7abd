package schedule

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

var (
	ErrInvalidBlockLength = errors.New("block length must be a positive number of minutes")
	ErrInvalidWeekday     = errors.New("unknown weekday")
	ErrMissingLocation    = errors.New("schedule time zone is required")
)

const DefaultBlockMinutes = 30

// Policy carries the clinic calendar rules every computation depends on
type Policy struct {
	BlockMinutes   int
	ClosedWeekdays []time.Weekday
	Rounding       Rounding
	// CancelledFreesSlots releases a cancelled booking's blocks for new bookings.
	// Off by default: a cancelled booking keeps its blocks.
	CancelledFreesSlots bool
	Location            *time.Location
}

func DefaultPolicy() Policy {
	return Policy{
		BlockMinutes:   DefaultBlockMinutes,
		ClosedWeekdays: []time.Weekday{time.Saturday, time.Sunday},
		Rounding:       RoundingFloor,
		Location:       time.UTC,
	}
}

func (p Policy) Validate() error {
	if p.BlockMinutes <= 0 {
		return ErrInvalidBlockLength
	}
	if p.Rounding != RoundingFloor && p.Rounding != RoundingCeil {
		return ErrInvalidRounding
	}
	if p.Location == nil {
		return ErrMissingLocation
	}
	return nil
}

func (p Policy) IsOperatingDay(d Date) bool {
	return !slices.Contains(p.ClosedWeekdays, d.Weekday())
}

func (p Policy) Resolver() DurationResolver {
	return NewDurationResolver(p.BlockMinutes, p.Rounding)
}

// Localize splits an instant into the clinic's calendar day and wall-clock time
func (p Policy) Localize(now time.Time) (Date, TimeOfDay) {
	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	return DateOf(local), TimeOfDayOf(local)
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekdays accepts full English names or their three-letter forms, in any case
func ParseWeekdays(names []string) ([]time.Weekday, error) {
	var out []time.Weekday
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		wd, ok := lookupWeekday(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidWeekday, raw)
		}
		if !slices.Contains(out, wd) {
			out = append(out, wd)
		}
	}
	return out, nil
}

func lookupWeekday(name string) (time.Weekday, bool) {
	if wd, ok := weekdayNames[name]; ok {
		return wd, true
	}
	for full, wd := range weekdayNames {
		if len(name) == 3 && strings.HasPrefix(full, name) {
			return wd, true
		}
	}
	return 0, false
}

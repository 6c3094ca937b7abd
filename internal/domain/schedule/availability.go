package schedule

import (
	"iter"
	"time"
)

// Candidate is a slot a booking of the requested service may start at
type Candidate struct {
	SlotID SlotID
	Start  TimeOfDay
}

type AvailabilityCalculator struct {
	policy   Policy
	resolver DurationResolver
}

func NewAvailabilityCalculator(policy Policy) *AvailabilityCalculator {
	return &AvailabilityCalculator{policy: policy, resolver: policy.Resolver()}
}

// CheckDate refuses dates before today and days the clinic is closed
func (a *AvailabilityCalculator) CheckDate(date, today Date) error {
	if date.Before(today) {
		return ErrPastDate
	}
	if !a.policy.IsOperatingDay(date) {
		return ErrNonOperatingDay
	}
	return nil
}

// ValidStartBlocks yields, in catalog order, every slot where the whole service fits without touching
// a booked block. On today's date a slot starting at or before the current time is skipped.
// The sequence is computed as it is ranged over and may be ranged over more than once.
// When the date or service is refused the error says why and the sequence is empty.
func (a *AvailabilityCalculator) ValidStartBlocks(
	now time.Time,
	date Date,
	catalog *Catalog,
	service *Service,
	booked SlotSet,
) (iter.Seq[Candidate], error) {
	today, clock := a.policy.Localize(now)
	if err := a.CheckDate(date, today); err != nil {
		return emptyCandidates, err
	}
	blocks, err := a.resolver.BlocksNeeded(service)
	if err != nil {
		return emptyCandidates, err
	}
	sameDay := date.Equal(today)

	return func(yield func(Candidate) bool) {
		for pos := 0; pos < catalog.Len(); pos++ {
			run, ok := catalog.Run(pos, blocks)
			if !ok {
				return
			}
			if sameDay && !run[0].start.After(clock) {
				continue
			}
			if anyBooked(run, booked) {
				continue
			}
			if !yield(Candidate{SlotID: run[0].id, Start: run[0].start}) {
				return
			}
		}
	}, nil
}

func anyBooked(run []TimeSlot, booked SlotSet) bool {
	for _, s := range run {
		if booked.Has(s.id) {
			return true
		}
	}
	return false
}

func emptyCandidates(func(Candidate) bool) {}

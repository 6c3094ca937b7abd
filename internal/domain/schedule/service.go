package schedule

import (
	"errors"
	"strings"
)

var ErrInvalidRounding = errors.New("rounding must be floor or ceil")

type ServiceID int64

// Service is read-only reference data describing a bookable treatment
type Service struct {
	id              ServiceID
	name            string
	durationMinutes int
}

func ReconstructService(id ServiceID, name string, durationMinutes int) *Service {
	return &Service{id: id, name: name, durationMinutes: durationMinutes}
}

func (s *Service) ID() ServiceID        { return s.id }
func (s *Service) Name() string         { return s.name }
func (s *Service) DurationMinutes() int { return s.durationMinutes }

type Rounding string

const (
	// RoundingFloor truncates, so a 45 minute service takes one 30 minute block
	RoundingFloor Rounding = "floor"
	RoundingCeil  Rounding = "ceil"
)

func ParseRounding(s string) (Rounding, error) {
	switch r := Rounding(strings.ToLower(strings.TrimSpace(s))); r {
	case RoundingFloor, RoundingCeil:
		return r, nil
	case "":
		return RoundingFloor, nil
	default:
		return "", ErrInvalidRounding
	}
}

type DurationResolver struct {
	blockMinutes int
	rounding     Rounding
}

func NewDurationResolver(blockMinutes int, rounding Rounding) DurationResolver {
	return DurationResolver{blockMinutes: blockMinutes, rounding: rounding}
}

// BlocksNeeded is never less than one for a resolvable service
func (r DurationResolver) BlocksNeeded(s *Service) (int, error) {
	if s == nil || s.durationMinutes <= 0 || r.blockMinutes <= 0 {
		return 0, ErrInvalidService
	}
	n := s.durationMinutes / r.blockMinutes
	if r.rounding == RoundingCeil && s.durationMinutes%r.blockMinutes != 0 {
		n++
	}
	return max(1, n), nil
}

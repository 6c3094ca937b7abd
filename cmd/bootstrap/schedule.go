package bootstrap

import (
	"time"

	"clinic-scheduler/internal/domain/schedule"
	"clinic-scheduler/internal/pkg/clock"
	"clinic-scheduler/internal/pkg/config"
	"clinic-scheduler/internal/pkg/errs"

	"go.uber.org/fx"
)

var ScheduleModule = fx.Module("schedule",
	fx.Provide(
		NewPolicy,
		schedule.NewValidator,
		NewClock,
	),
)

// NewPolicy turns the SCHEDULE_* settings into the calendar rules; a bad value stops startup
func NewPolicy(cfg config.Config) (schedule.Policy, error) {
	closed, err := schedule.ParseWeekdays(cfg.Schedule.ClosedWeekdays)
	if err != nil {
		return schedule.Policy{}, errs.Wrap(err, "SCHEDULE_CLOSED_WEEKDAYS")
	}
	rounding, err := schedule.ParseRounding(cfg.Schedule.Rounding)
	if err != nil {
		return schedule.Policy{}, errs.Wrap(err, "SCHEDULE_ROUNDING")
	}
	loc, err := time.LoadLocation(cfg.Schedule.TimeZone)
	if err != nil {
		return schedule.Policy{}, errs.Wrap(err, "SCHEDULE_TIMEZONE")
	}

	policy := schedule.Policy{
		BlockMinutes:        cfg.Schedule.BlockMinutes,
		ClosedWeekdays:      closed,
		Rounding:            rounding,
		CancelledFreesSlots: cfg.Schedule.CancelledFreesSlots,
		Location:            loc,
	}
	if err := policy.Validate(); err != nil {
		return schedule.Policy{}, errs.Wrap(err, "invalid schedule policy")
	}
	return policy, nil
}

func NewClock(policy schedule.Policy) clock.Clock {
	return clock.NewRealClock(policy.Location)
}

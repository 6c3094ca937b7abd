package bootstrap

import (
	"context"
	"log/slog"

	"clinic-scheduler/internal/infra/events"
	"clinic-scheduler/internal/pkg/clock"
	"clinic-scheduler/internal/pkg/config"
	"clinic-scheduler/internal/usecase/shared"

	"go.uber.org/fx"
)

var EventsModule = fx.Module("events",
	fx.Provide(
		NewPublisher,
		NewRelay,
	),
	fx.Invoke(StartRelay),
)

// NewPublisher falls back to logging events when AMQP_URL is unset
func NewPublisher(lc fx.Lifecycle, cfg config.Config) (events.Publisher, error) {
	if !cfg.Events.Enabled() {
		slog.Warn("AMQP_URL is not set; booking events are only logged")
		return events.LogPublisher{}, nil
	}

	publisher, err := events.NewAMQPPublisher(cfg.Events.AMQPURL, cfg.Events.Exchange)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return publisher.Close()
		},
	})
	return publisher, nil
}

func NewRelay(uow shared.UnitOfWork, publisher events.Publisher, clk clock.Clock, cfg config.Config) *events.Relay {
	return events.NewRelay(uow, publisher, clk, cfg.Events.PollInterval, cfg.Events.BatchSize)
}

func StartRelay(lc fx.Lifecycle, relay *events.Relay) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				relay.Run(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}

package bootstrap

import (
	"context"
	"log/slog"

	"clinic-scheduler/internal/infra/lock"
	"clinic-scheduler/internal/pkg/config"
	"clinic-scheduler/internal/pkg/errs"
	"clinic-scheduler/internal/usecase/shared"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var LockModule = fx.Module("lock",
	fx.Provide(
		NewDateGuard,
	),
)

// NewDateGuard adds a Redis guard in front of the per-date database lock when SCHEDULE_LOCK_BACKEND=redis
func NewDateGuard(lc fx.Lifecycle, cfg config.Config) shared.DateGuard {
	if !cfg.Lock.UsesRedis() {
		return lock.NoopDateGuard{}
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				return errs.Wrapf(err, "redis ping %s", cfg.Redis.Addr)
			}
			slog.Info("redis date guard enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.LockTTL.String())
			return nil
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})
	return lock.NewRedisDateGuard(client, cfg.Redis.LockTTL)
}

package lock

import (
	"context"
	"log/slog"
	"time"

	"clinic-scheduler/internal/domain/schedule"
	"clinic-scheduler/internal/pkg/errs"
	"clinic-scheduler/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "clinic:booking-date:"

// Deletes the key only while it still holds our token
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

var ErrDateBusy = errs.New("booking date is locked by another writer")

type RedisDateGuard struct {
	client   redis.Cmdable
	ttl      time.Duration
	wait     time.Duration
	interval time.Duration
	token    func() string
}

type Option func(*RedisDateGuard)

// WithWait bounds how long Acquire keeps retrying a held date
func WithWait(d time.Duration) Option {
	return func(g *RedisDateGuard) { g.wait = d }
}

func WithRetryInterval(d time.Duration) Option {
	return func(g *RedisDateGuard) { g.interval = d }
}

func WithTokenSource(f func() string) Option {
	return func(g *RedisDateGuard) { g.token = f }
}

func NewRedisDateGuard(client redis.Cmdable, ttl time.Duration, opts ...Option) *RedisDateGuard {
	g := &RedisDateGuard{
		client:   client,
		ttl:      ttl,
		wait:     ttl,
		interval: 25 * time.Millisecond,
		token:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Acquire takes every date in the order given. Callers pass dates sorted so two writers never
// hold one date each while waiting on the other.
func (g *RedisDateGuard) Acquire(ctx context.Context, dates ...schedule.Date) (func(), error) {
	token := g.token()
	held := make([]string, 0, len(dates))

	release := func() {
		// The request context may already be cancelled; releasing must still reach redis
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		for _, key := range held {
			if err := g.client.Eval(rctx, releaseScript, []string{key}, token).Err(); err != nil {
				slog.Warn("failed to release booking date lock", "key", key, "error", err.Error())
			}
		}
	}

	for _, d := range dates {
		key := keyPrefix + d.String()
		if err := g.take(ctx, key, token); err != nil {
			release()
			return func() {}, err
		}
		held = append(held, key)
	}
	return release, nil
}

func (g *RedisDateGuard) take(ctx context.Context, key, token string) error {
	deadline := time.Now().Add(g.wait)
	for {
		ok, err := g.client.SetNX(ctx, key, token, g.ttl).Result()
		if err != nil {
			return errs.Wrap(err, "failed to acquire booking date lock")
		}
		if ok {
			return nil
		}
		if !time.Now().Before(deadline) {
			return errs.Wrapf(ErrDateBusy, "key %s", key)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(g.interval):
		}
	}
}

// NoopDateGuard is used with the postgres backend, where the advisory lock taken inside the
// transaction is the only serialization point
type NoopDateGuard struct{}

func (NoopDateGuard) Acquire(context.Context, ...schedule.Date) (func(), error) {
	return func() {}, nil
}

var (
	_ shared.DateGuard = (*RedisDateGuard)(nil)
	_ shared.DateGuard = NoopDateGuard{}
)

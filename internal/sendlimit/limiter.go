package sendlimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/outreach/internal/pkg/logger"
)

// ErrLimitReached signals that today's cap is used up.
var ErrLimitReached = errors.New("daily_limit_reached")

// FallbackCounter counts sends recorded since a point in time. The Postgres
// campaign repository satisfies this.
type FallbackCounter interface {
	CountSentSince(ctx context.Context, since time.Time) (int, error)
}

// Limiter tracks sends against a per-day cap.
type Limiter struct {
	rdb      *redis.Client // nil when Redis is disabled
	fallback FallbackCounter
	limit    int
}

// New creates a limiter. rdb may be nil; fallback must not be.
func New(rdb *redis.Client, fallback FallbackCounter, limit int) *Limiter {
	return &Limiter{rdb: rdb, fallback: fallback, limit: limit}
}

// Limit returns the configured daily cap.
func (l *Limiter) Limit() int { return l.limit }

func dayKey(now time.Time) string {
	return "outreach:sent:" + now.Format("2006-01-02")
}

// SentToday returns how many sends are recorded for the current day.
func (l *Limiter) SentToday(ctx context.Context, now time.Time) (int, error) {
	if l.rdb != nil {
		n, err := l.rdb.Get(ctx, dayKey(now)).Int()
		if err == nil {
			return n, nil
		}
		if err == redis.Nil {
			return 0, nil
		}
		logger.Warn("[SendLimit] redis unavailable, falling back to database", "error", err.Error())
	}
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return l.fallback.CountSentSince(ctx, midnight)
}

// Remaining returns how many sends are left today. Zero or negative means
// the cap is reached.
func (l *Limiter) Remaining(ctx context.Context, now time.Time) (int, error) {
	sent, err := l.SentToday(ctx, now)
	if err != nil {
		return 0, err
	}
	return l.limit - sent, nil
}

// Reserve checks the cap and records one send. Returns ErrLimitReached when
// the day's budget is gone.
func (l *Limiter) Reserve(ctx context.Context, now time.Time) error {
	remaining, err := l.Remaining(ctx, now)
	if err != nil {
		return err
	}
	if remaining <= 0 {
		return fmt.Errorf("%w: %d sent today, limit %d", ErrLimitReached, l.limit-remaining, l.limit)
	}
	if l.rdb != nil {
		key := dayKey(now)
		pipe := l.rdb.Pipeline()
		pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, 25*time.Hour)
		if _, err := pipe.Exec(ctx); err != nil {
			logger.Warn("[SendLimit] failed to record send in redis", "error", err.Error())
		}
	}
	return nil
}

// Release undoes a reservation after a failed send so the slot isn't wasted.
func (l *Limiter) Release(ctx context.Context, now time.Time) {
	if l.rdb == nil {
		return
	}
	if err := l.rdb.Decr(ctx, dayKey(now)).Err(); err != nil {
		logger.Warn("[SendLimit] failed to release send slot", "error", err.Error())
	}
}

package distlock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func redisLock(t *testing.T, name string) (*RedisLock, *RedisLock) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisLock(rdb, name, time.Minute), NewRedisLock(rdb, name, time.Minute)
}

func TestRedisLockSingleHolder(t *testing.T) {
	ctx := context.Background()
	a, b := redisLock(t, "followups")

	ok, err := a.Acquire(ctx)
	if err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}
	ok, err = b.Acquire(ctx)
	if err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	if ok {
		t.Fatal("second holder acquired a held lock")
	}

	if err := a.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	ok, _ = b.Acquire(ctx)
	if !ok {
		t.Fatal("lock not acquirable after release")
	}
}

func TestRedisLockReleaseIsOwnerOnly(t *testing.T) {
	ctx := context.Background()
	a, b := redisLock(t, "campaign-send")

	if ok, _ := a.Acquire(ctx); !ok {
		t.Fatal("acquire failed")
	}
	// b never held the lock; its release must not free a's.
	if err := b.Release(ctx); err != nil {
		t.Fatalf("foreign release errored: %v", err)
	}
	if ok, _ := b.Acquire(ctx); ok {
		t.Fatal("foreign release freed the lock")
	}
}

func TestNewPrefersRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	if _, ok := New(rdb, nil, "x", time.Minute).(*RedisLock); !ok {
		t.Error("expected RedisLock when redis is configured")
	}
	if _, ok := New(nil, nil, "x", time.Minute).(*AdvisoryLock); !ok {
		t.Error("expected AdvisoryLock without redis")
	}
}

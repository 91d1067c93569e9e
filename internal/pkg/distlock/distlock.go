// Package distlock guards batch runs that must not execute concurrently.
// Two follow-up runs racing each other would double-send; the CLI takes a
// lock named after the operation before starting one.
//
// Redis is the preferred backend when configured; otherwise a Postgres
// advisory lock on the primary database serves. Both release automatically
// if the holder crashes (TTL expiry, dropped session).
package distlock

import (
	"context"
	"database/sql"
	"hash/fnv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Lock is a non-blocking, single-holder lock. A Lock value belongs to one
// goroutine; take separate locks for concurrent callers.
type Lock interface {
	// Acquire tries to take the lock, returning false when another holder
	// has it. Never blocks.
	Acquire(ctx context.Context) (bool, error)
	// Release gives the lock up if this instance still holds it.
	Release(ctx context.Context) error
}

// New picks the best available backend: Redis when configured, otherwise a
// Postgres advisory lock.
func New(rdb *redis.Client, db *sql.DB, name string, ttl time.Duration) Lock {
	if rdb != nil {
		return NewRedisLock(rdb, name, ttl)
	}
	return NewAdvisoryLock(db, name)
}

// AdvisoryLock holds a Postgres session-scoped advisory lock. The lock id is
// derived from the name, and the database releases it if the session dies.
type AdvisoryLock struct {
	db     *sql.DB
	lockID int64
}

// NewAdvisoryLock creates an advisory lock keyed by name.
func NewAdvisoryLock(db *sql.DB, name string) *AdvisoryLock {
	h := fnv.New64a()
	h.Write([]byte(name))
	return &AdvisoryLock{db: db, lockID: int64(h.Sum64())}
}

func (l *AdvisoryLock) Acquire(ctx context.Context) (bool, error) {
	var acquired bool
	err := l.db.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", l.lockID).Scan(&acquired)
	return acquired, err
}

func (l *AdvisoryLock) Release(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, "SELECT pg_advisory_unlock($1)", l.lockID)
	return err
}

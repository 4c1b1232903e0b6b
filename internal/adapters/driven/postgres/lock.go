package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/domain"
	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/ports/driven"
)

// Verify interface compliance
var (
	_ driven.DistributedLock = (*AdvisoryLock)(nil)
	_ driven.Lease           = (*advisoryLease)(nil)
)

// AdvisoryLock implements DistributedLock with session-level PostgreSQL advisory locks.
// Each lease pins one pooled connection; the lock lives exactly as long as that
// session, so the TTL is informational and Renew only confirms the session is alive.
// Used for backfill coordination when no Redis is configured.
type AdvisoryLock struct {
	db *DB
}

// NewAdvisoryLock creates a new PostgreSQL advisory lock adapter.
func NewAdvisoryLock(db *DB) *AdvisoryLock {
	return &AdvisoryLock{db: db}
}

// advisoryKey maps a lock name onto the 64-bit advisory lock key space
func advisoryKey(name string) int64 {
	h := fnv.New64a()
	h.Write([]byte(lockNamespace + name))
	return int64(h.Sum64())
}

const lockNamespace = "smartnotes:lock:"

// TryAcquire takes the named lock on a dedicated connection without blocking
func (l *AdvisoryLock) TryAcquire(ctx context.Context, name string, ttl time.Duration) (driven.Lease, error) {
	conn, err := l.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", name, err)
	}

	key := advisoryKey(name)
	var acquired bool
	if err := conn.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", key).Scan(&acquired); err != nil {
		conn.Close()
		return nil, fmt.Errorf("acquire lock %s: %w", name, err)
	}
	if !acquired {
		conn.Close()
		return nil, fmt.Errorf("%w: %s", domain.ErrLockNotAcquired, name)
	}

	return &advisoryLease{conn: conn, name: name, key: key, ttl: ttl}, nil
}

// Ping checks if the PostgreSQL backend is healthy.
func (l *AdvisoryLock) Ping(ctx context.Context) error {
	return l.db.PingContext(ctx)
}

type advisoryLease struct {
	conn *sql.Conn
	name string
	key  int64
	ttl  time.Duration

	mu       sync.Mutex
	released bool
}

func (l *advisoryLease) Name() string {
	return l.name
}

func (l *advisoryLease) TTL() time.Duration {
	return l.ttl
}

// Renew reports ErrLockLost once the session holding the lock is gone
func (l *advisoryLease) Renew(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.released {
		return fmt.Errorf("%w: %s released", domain.ErrLockLost, l.name)
	}
	if err := l.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrLockLost, l.name, err)
	}
	return nil
}

func (l *advisoryLease) Release(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.released {
		return nil
	}
	l.released = true
	defer l.conn.Close()

	// false means the session no longer held it; nothing to undo
	var unlocked bool
	if err := l.conn.QueryRowContext(ctx, "SELECT pg_advisory_unlock($1)", l.key).Scan(&unlocked); err != nil {
		// drop the session instead of pooling it so the lock dies with it
		_ = l.conn.Raw(func(any) error { return driver.ErrBadConn })
		return fmt.Errorf("release lock %s: %w", l.name, err)
	}
	return nil
}

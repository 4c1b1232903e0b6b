package driven

import (
	"context"
	"time"
)

// DistributedLock hands out time-bounded leases on named locks so that only one
// instance runs a chunk backfill pass at a time.
type DistributedLock interface {
	// TryAcquire takes the named lock for ttl without blocking.
	// Returns domain.ErrLockNotAcquired when another holder has it.
	TryAcquire(ctx context.Context, name string, ttl time.Duration) (Lease, error)

	// Ping checks if the lock backend is healthy.
	Ping(ctx context.Context) error
}

// Lease is one holder's claim on a lock.
type Lease interface {
	// Name returns the lock name
	Name() string

	// TTL returns how long the lease lasts after acquisition or the last Renew
	TTL() time.Duration

	// Renew pushes expiry a full TTL into the future.
	// Returns domain.ErrLockLost when the lease expired or another holder took over.
	Renew(ctx context.Context) error

	// Release gives the lock up. Safe to call more than once or after expiry.
	Release(ctx context.Context) error
}

package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/domain"
	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/ports/driven"
)

// Verify interface compliance
var (
	_ driven.DistributedLock = (*Lock)(nil)
	_ driven.Lease           = (*lease)(nil)
)

const lockPrefix = keyPrefix + "lock:"

// leaseScript renews (ARGV[2] > 0, in ms) or releases (ARGV[2] == 0) a lease,
// but only while the key still holds this lease's token.
var leaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) ~= ARGV[1] then
		return 0
	end
	if ARGV[2] == "0" then
		return redis.call("del", KEYS[1])
	end
	return redis.call("pexpire", KEYS[1], ARGV[2])
`)

// Lock implements DistributedLock with SET NX PX leases.
// Every acquisition stores a fresh token, so a lease can only renew or release
// its own claim and never a later holder's.
type Lock struct {
	client   redis.UniversalClient
	instance string
}

// NewLock creates a new Redis-backed distributed lock.
func NewLock(client redis.UniversalClient) *Lock {
	hostname, _ := os.Hostname()
	return &Lock{
		client:   client,
		instance: fmt.Sprintf("%s:%d", hostname, os.Getpid()),
	}
}

// Instance returns the hostname:pid prefix of this process's lease tokens
func (l *Lock) Instance() string {
	return l.instance
}

// TryAcquire takes the named lock for ttl, or returns ErrLockNotAcquired
func (l *Lock) TryAcquire(ctx context.Context, name string, ttl time.Duration) (driven.Lease, error) {
	if ttl < time.Millisecond {
		return nil, fmt.Errorf("%w: lock ttl must be at least 1ms, got %s", domain.ErrInvalidParameter, ttl)
	}

	token := l.instance + ":" + uuid.NewString()
	ok, err := l.client.SetNX(ctx, lockPrefix+name, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", name, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrLockNotAcquired, name)
	}
	return &lease{client: l.client, name: name, token: token, ttl: ttl}, nil
}

// Ping checks if the Redis backend is healthy.
func (l *Lock) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

type lease struct {
	client redis.UniversalClient
	name   string
	token  string
	ttl    time.Duration

	mu       sync.Mutex
	released bool
}

func (l *lease) Name() string {
	return l.name
}

func (l *lease) TTL() time.Duration {
	return l.ttl
}

func (l *lease) Renew(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.released {
		return fmt.Errorf("%w: %s released", domain.ErrLockLost, l.name)
	}

	n, err := leaseScript.Run(ctx, l.client, []string{lockPrefix + l.name}, l.token, l.ttl.Milliseconds()).Int64()
	if err != nil {
		return fmt.Errorf("renew lock %s: %w", l.name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrLockLost, l.name)
	}
	return nil
}

func (l *lease) Release(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.released {
		return nil
	}

	_, err := leaseScript.Run(ctx, l.client, []string{lockPrefix + l.name}, l.token, 0).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release lock %s: %w", l.name, err)
	}
	l.released = true
	return nil
}

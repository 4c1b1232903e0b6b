package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/domain"
	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/ports/driven"
)

// MockDistributedLock is an in-memory DistributedLock with TTL expiry.
// TryAcquireFn overrides TryAcquire when set.
type MockDistributedLock struct {
	mu       sync.Mutex
	leases   map[string]*MockLease
	renewals map[string]int

	TryAcquireFn func(name string, ttl time.Duration) (driven.Lease, error)
}

// NewMockDistributedLock creates a new mock distributed lock.
func NewMockDistributedLock() *MockDistributedLock {
	return &MockDistributedLock{
		leases:   make(map[string]*MockLease),
		renewals: make(map[string]int),
	}
}

func (m *MockDistributedLock) TryAcquire(ctx context.Context, name string, ttl time.Duration) (driven.Lease, error) {
	if m.TryAcquireFn != nil {
		return m.TryAcquireFn(name, ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if current, ok := m.leases[name]; ok && time.Now().Before(current.expires) {
		return nil, fmt.Errorf("%w: %s", domain.ErrLockNotAcquired, name)
	}
	l := &MockLease{lock: m, name: name, ttl: ttl, expires: time.Now().Add(ttl)}
	m.leases[name] = l
	return l, nil
}

func (m *MockDistributedLock) Ping(ctx context.Context) error {
	return nil
}

// IsHeld reports whether name is currently locked
func (m *MockDistributedLock) IsHeld(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.leases[name]
	return ok && time.Now().Before(l.expires)
}

// Steal drops the current holder of name, as if its lease expired and another instance took over
func (m *MockDistributedLock) Steal(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leases[name] = &MockLease{lock: m, name: name, expires: time.Now().Add(time.Hour)}
}

// Renewals returns how many successful renewals name has seen
func (m *MockDistributedLock) Renewals(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.renewals[name]
}

// MockLease is a lease handed out by MockDistributedLock
type MockLease struct {
	lock    *MockDistributedLock
	name    string
	ttl     time.Duration
	expires time.Time
}

func (l *MockLease) Name() string {
	return l.name
}

func (l *MockLease) TTL() time.Duration {
	return l.ttl
}

func (l *MockLease) Renew(ctx context.Context) error {
	m := l.lock
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.leases[l.name] != l || time.Now().After(l.expires) {
		return fmt.Errorf("%w: %s", domain.ErrLockLost, l.name)
	}
	l.expires = time.Now().Add(l.ttl)
	m.renewals[l.name]++
	return nil
}

func (l *MockLease) Release(ctx context.Context) error {
	m := l.lock
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.leases[l.name] == l {
		delete(m.leases, l.name)
	}
	return nil
}

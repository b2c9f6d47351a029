package throttle

import (
	"context"
	"fmt"
	"time"

	"github.com/spec-kit/vote-service/internal/auth"
	"github.com/spec-kit/vote-service/internal/domain"
	"github.com/spec-kit/vote-service/internal/repository"
)

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
	_ Store = (*repository.RequestLogRepository)(nil)
)

// Store persists window entries. Implementations must count entries whose
// timestamp lies in [from, to].
type Store interface {
	Count(ctx context.Context, key domain.ThrottleKey, from, to time.Time) (int, error)
	Record(ctx context.Context, key domain.ThrottleKey, at time.Time) error
}

// Rule admits at most Limit requests per trailing Window.
type Rule struct {
	Limit  int
	Window time.Duration
}

// Throttler applies sliding-window rules against a Store.
type Throttler struct {
	store    Store
	now      func() time.Time
	onReject func(domain.ThrottleKey)
}

// Option customizes a Throttler.
type Option func(*Throttler)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(t *Throttler) {
		t.now = now
	}
}

// WithRejectHook registers a callback invoked for every rejected request.
func WithRejectHook(fn func(domain.ThrottleKey)) Option {
	return func(t *Throttler) {
		t.onReject = fn
	}
}

// New creates a throttler backed by store.
func New(store Store, opts ...Option) *Throttler {
	t := &Throttler{store: store, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Allow records the request and returns nil when fewer than rule.Limit entries
// exist in the window. A rejected request is not recorded.
func (t *Throttler) Allow(ctx context.Context, key domain.ThrottleKey, rule Rule) error {
	now := t.now()
	count, err := t.store.Count(ctx, key, now.Add(-rule.Window), now)
	if err != nil {
		return fmt.Errorf("count window entries: %w", err)
	}
	if count >= rule.Limit {
		if t.onReject != nil {
			t.onReject(key)
		}
		return domain.ErrRateLimited
	}
	if err := t.store.Record(ctx, key, now); err != nil {
		return fmt.Errorf("record window entry: %w", err)
	}
	return nil
}

// Gate adapts the throttler to a pipeline step keyed by client address,
// route and the verified subject when one is present.
func (t *Throttler) Gate(rule Rule) auth.Gate {
	return auth.GateFunc(func(ctx context.Context, req auth.Request) (auth.Request, error) {
		key := domain.ThrottleKey{
			Address:   req.ClientAddr,
			Route:     req.Route,
			SubjectID: req.SubjectID(),
		}
		if err := t.Allow(ctx, key, rule); err != nil {
			return req, err
		}
		return req, nil
	})
}

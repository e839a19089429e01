// Package cache holds the last generated changelog and collapses concurrent
// regeneration into a single build. The cache is an explicitly owned,
// lifecycle-scoped object created at service start; callers never observe a
// partial rebuild.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/raveheart1/changelogd/internal/changelog"
)

// BuildFunc produces a fresh changelog value. Source-level failures must be
// absorbed inside the function (degrading to an empty changelog); a returned
// error is treated as a programming defect and propagated to all waiters.
type BuildFunc func(ctx context.Context) (*changelog.Changelog, error)

// Snapshot is one immutable generation of the changelog.
type Snapshot struct {
	Log     *changelog.Changelog
	BuiltAt time.Time
}

// Cache serves the latest changelog snapshot. Reads are served from the
// cached value without coordination; rebuilds collapse through singleflight
// so two simultaneous misses trigger exactly one underlying build, with every
// caller observing the same resulting snapshot.
type Cache struct {
	build BuildFunc
	ttl   time.Duration
	clock func() time.Time

	group singleflight.Group

	mu      sync.RWMutex
	current *Snapshot
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides the time source, for tests.
func WithClock(clock func() time.Time) Option {
	return func(c *Cache) {
		c.clock = clock
	}
}

// New creates a cache around the given build function. A zero ttl means
// snapshots never expire on their own; they are replaced only by Refresh or
// after Invalidate.
func New(ttl time.Duration, build BuildFunc, opts ...Option) *Cache {
	c := &Cache{
		build: build,
		ttl:   ttl,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the current snapshot, rebuilding first if none exists or the
// cached one has expired.
func (c *Cache) Get(ctx context.Context) (*Snapshot, error) {
	c.mu.RLock()
	snap := c.current
	c.mu.RUnlock()

	if snap != nil && !c.expired(snap) {
		return snap, nil
	}

	return c.rebuild(ctx)
}

// Refresh rebuilds unconditionally and returns the new snapshot. Concurrent
// refreshes collapse into one build.
func (c *Cache) Refresh(ctx context.Context) (*Snapshot, error) {
	c.Invalidate()
	return c.rebuild(ctx)
}

// Invalidate drops the cached snapshot. The next Get triggers a rebuild.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.current = nil
	c.mu.Unlock()
}

func (c *Cache) expired(snap *Snapshot) bool {
	if c.ttl <= 0 {
		return false
	}
	return c.clock().Sub(snap.BuiltAt) >= c.ttl
}

// rebuild runs the build function under singleflight. A caller that arrives
// while a build is in flight waits for and shares that build's result.
func (c *Cache) rebuild(ctx context.Context) (*Snapshot, error) {
	v, err, _ := c.group.Do("changelog", func() (any, error) {
		// Another waiter may have completed the rebuild while this call
		// queued behind it.
		c.mu.RLock()
		snap := c.current
		c.mu.RUnlock()
		if snap != nil && !c.expired(snap) {
			return snap, nil
		}

		log, err := c.build(ctx)
		if err != nil {
			return nil, fmt.Errorf("building changelog: %w", err)
		}

		snap = &Snapshot{Log: log, BuiltAt: c.clock()}
		c.mu.Lock()
		c.current = snap
		c.mu.Unlock()
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

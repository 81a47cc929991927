package cache

import (
	"context"
	"sync"
	"time"

	"github.com/Taishi66/rollouts-tui/internal/config"
	"github.com/Taishi66/rollouts-tui/internal/domain"
)

type cacheEntry[T any] struct {
	data      T
	expiresAt time.Time
}

func (e *cacheEntry[T]) valid(now time.Time) bool {
	return e != nil && now.Before(e.expiresAt)
}

// CachedGateway decorates a RolloutGateway with TTL-based caching for list operations.
// Rollout actions drop the cached rollouts and the events of the rollout they touch.
type CachedGateway struct {
	delegate domain.RolloutGateway
	cfg      config.CacheConfig
	now      func() time.Time
	mu       sync.RWMutex
	// epoch changes on every invalidation; a list result fetched under an
	// older epoch is returned but never stored.
	epoch uint64

	rollouts   *cacheEntry[[]domain.RolloutInfo]
	namespaces *cacheEntry[[]domain.NamespaceInfo]
	events     map[string]*cacheEntry[[]domain.EventInfo]
}

var _ domain.RolloutGateway = (*CachedGateway)(nil)

func NewCachedGateway(delegate domain.RolloutGateway, cfg config.CacheConfig) *CachedGateway {
	return &CachedGateway{
		delegate: delegate,
		cfg:      cfg,
		now:      time.Now,
		events:   make(map[string]*cacheEntry[[]domain.EventInfo]),
	}
}

func (c *CachedGateway) invalidateAll() {
	c.epoch++
	c.rollouts = nil
	c.namespaces = nil
	c.events = make(map[string]*cacheEntry[[]domain.EventInfo])
}

func (c *CachedGateway) invalidateRollout(name string) {
	c.mu.Lock()
	c.epoch++
	c.rollouts = nil
	delete(c.events, name)
	c.mu.Unlock()
}

// --- ClusterInfo (pass-through) ---

func (c *CachedGateway) GetContext() string   { return c.delegate.GetContext() }
func (c *CachedGateway) GetServerURL() string { return c.delegate.GetServerURL() }
func (c *CachedGateway) GetNamespace() string { return c.delegate.GetNamespace() }

func (c *CachedGateway) SetNamespace(ns string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.delegate.SetNamespace(ns)
	c.invalidateAll()
}

func (c *CachedGateway) Reconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.delegate.Reconnect()
	c.invalidateAll()
	return err
}

func (c *CachedGateway) ServerVersion(ctx context.Context) (string, error) {
	return c.delegate.ServerVersion(ctx)
}

// --- Cached List operations ---

func (c *CachedGateway) ListRollouts(ctx context.Context) ([]domain.RolloutInfo, error) {
	c.mu.RLock()
	if c.rollouts.valid(c.now()) {
		data := c.rollouts.data
		c.mu.RUnlock()
		return data, nil
	}
	epoch := c.epoch
	c.mu.RUnlock()

	result, err := c.delegate.ListRollouts(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		return result, nil
	}
	c.rollouts = &cacheEntry[[]domain.RolloutInfo]{
		data:      result,
		expiresAt: c.now().Add(c.cfg.RolloutsTTL),
	}
	c.mu.Unlock()
	return result, nil
}

func (c *CachedGateway) ListNamespaces(ctx context.Context) ([]domain.NamespaceInfo, error) {
	c.mu.RLock()
	if c.namespaces.valid(c.now()) {
		data := c.namespaces.data
		c.mu.RUnlock()
		return data, nil
	}
	epoch := c.epoch
	c.mu.RUnlock()

	result, err := c.delegate.ListNamespaces(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		return result, nil
	}
	c.namespaces = &cacheEntry[[]domain.NamespaceInfo]{
		data:      result,
		expiresAt: c.now().Add(c.cfg.NamespacesTTL),
	}
	c.mu.Unlock()
	return result, nil
}

func (c *CachedGateway) ListEvents(ctx context.Context, rolloutName string) ([]domain.EventInfo, error) {
	c.mu.RLock()
	if entry := c.events[rolloutName]; entry.valid(c.now()) {
		data := entry.data
		c.mu.RUnlock()
		return data, nil
	}
	epoch := c.epoch
	c.mu.RUnlock()

	result, err := c.delegate.ListEvents(ctx, rolloutName)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		return result, nil
	}
	c.events[rolloutName] = &cacheEntry[[]domain.EventInfo]{
		data:      result,
		expiresAt: c.now().Add(c.cfg.EventsTTL),
	}
	c.mu.Unlock()
	return result, nil
}

// --- Mutations (pass-through + invalidate) ---

func (c *CachedGateway) mutate(name string, err error) error {
	if err == nil {
		c.invalidateRollout(name)
	}
	return err
}

func (c *CachedGateway) AbortRollout(ctx context.Context, name string) error {
	return c.mutate(name, c.delegate.AbortRollout(ctx, name))
}

func (c *CachedGateway) PromoteRollout(ctx context.Context, name string) error {
	return c.mutate(name, c.delegate.PromoteRollout(ctx, name))
}

func (c *CachedGateway) PromoteFullRollout(ctx context.Context, name string) error {
	return c.mutate(name, c.delegate.PromoteFullRollout(ctx, name))
}

func (c *CachedGateway) RetryRollout(ctx context.Context, name string) error {
	return c.mutate(name, c.delegate.RetryRollout(ctx, name))
}

func (c *CachedGateway) RestartRollout(ctx context.Context, name string) error {
	return c.mutate(name, c.delegate.RestartRollout(ctx, name))
}

func (c *CachedGateway) SetRolloutImage(ctx context.Context, name, container, image string) error {
	return c.mutate(name, c.delegate.SetRolloutImage(ctx, name, container, image))
}

func (c *CachedGateway) UndoRollout(ctx context.Context, name string, revision int) error {
	return c.mutate(name, c.delegate.UndoRollout(ctx, name, revision))
}

// --- Pass-through (no caching) ---

// GetRollout always hits the API: the detail view polls it and needs fresh pods.
func (c *CachedGateway) GetRollout(ctx context.Context, name string) (*domain.RolloutInfo, error) {
	return c.delegate.GetRollout(ctx, name)
}

func (c *CachedGateway) WatchRollouts(ctx context.Context) (<-chan domain.WatchEvent, error) {
	return c.delegate.WatchRollouts(ctx)
}

func (c *CachedGateway) GetRolloutYAML(ctx context.Context, name string) (string, error) {
	return c.delegate.GetRolloutYAML(ctx, name)
}

func (c *CachedGateway) GetPodLogs(ctx context.Context, podName, containerName string, tailLines int64, previous bool) (string, error) {
	return c.delegate.GetPodLogs(ctx, podName, containerName, tailLines, previous)
}

package querycache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/yungbote/lesson-admin/internal/platform/logger"
)

const (
	DefaultStaleTime = 5 * time.Minute
	DefaultGCTime    = 30 * time.Minute
)

type Options struct {
	// StaleTime applies to queries that do not set their own.
	StaleTime time.Duration
	// GCTime is how long an unused entry survives Sweep.
	GCTime time.Duration
	Logger *logger.Logger
	Now    func() time.Time
	// Observer, when set, is told whether each lookup was a hit.
	Observer Observer
	// OnChange, when set, is called after a local Invalidate or Remove
	// succeeds. ApplyRemote does not call it.
	OnChange func(ctx context.Context, prefix Key, remove bool)
}

// Observer receives one result ("hit", "miss", "stale") per Fetch.
type Observer interface {
	ObserveCacheLookup(result string)
}

// Cache is the query cache service. Build one per process and inject it.
type Cache struct {
	store     Store
	group     singleflight.Group
	staleTime time.Duration
	gcTime    time.Duration
	log       *logger.Logger
	now       func() time.Time
	observer  Observer
	onChange  func(ctx context.Context, prefix Key, remove bool)

	// mu orders generation bumps against fetch write-backs. gens counts
	// invalidations per prefix string.
	mu   sync.Mutex
	gens map[string]uint64
}

func New(store Store, opts Options) *Cache {
	if store == nil {
		store = NewMemoryStore()
	}
	if opts.StaleTime <= 0 {
		opts.StaleTime = DefaultStaleTime
	}
	if opts.GCTime <= 0 {
		opts.GCTime = DefaultGCTime
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Cache{
		store:     store,
		staleTime: opts.StaleTime,
		gcTime:    opts.GCTime,
		log:       opts.Logger.With("service", "QueryCache"),
		now:       opts.Now,
		observer:  opts.Observer,
		onChange:  opts.OnChange,
		gens:      map[string]uint64{},
	}
}

// Query describes one cached read.
type Query[T any] struct {
	Key       Key
	Fn        func(ctx context.Context) (T, error)
	StaleTime time.Duration
}

// Fetch returns the cached value for q.Key while it is fresh and otherwise
// runs q.Fn. Concurrent fetches of one key share a single call to q.Fn.
func Fetch[T any](ctx context.Context, c *Cache, q Query[T]) (T, error) {
	var zero T
	if q.Fn == nil {
		return zero, fmt.Errorf("query %s has no fetch func", q.Key)
	}
	stale := q.StaleTime
	if stale <= 0 {
		stale = c.staleTime
	}

	result := "miss"
	e, ok, err := c.store.Get(ctx, q.Key)
	if err != nil {
		c.log.Warn("cache read failed", "key", q.Key.String(), "error", err)
	} else if ok && !e.Invalidated && c.now().Sub(e.UpdatedAt) < stale {
		var out T
		if err := json.Unmarshal(e.Data, &out); err == nil {
			c.observe("hit")
			return out, nil
		}
		c.log.Warn("cache entry undecodable", "key", q.Key.String())
	} else if ok {
		result = "stale"
	}
	c.observe(result)

	// A fetch that started before an invalidation must not be joined by one
	// that starts after it, so the flight key carries the generation.
	gen := c.generation(q.Key)
	flight := fmt.Sprintf("%s@%d", q.Key.String(), gen)
	v, err, _ := c.group.Do(flight, func() (interface{}, error) {
		out, err := q.Fn(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.putIfCurrent(ctx, q.Key, gen, out); err != nil {
			c.log.Warn("cache write failed", "key", q.Key.String(), "error", err)
		}
		return out, nil
	})
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("query %s: cached type mismatch", q.Key)
	}
	return out, nil
}

func (c *Cache) observe(result string) {
	if c.observer != nil {
		c.observer.ObserveCacheLookup(result)
	}
}

func (c *Cache) put(ctx context.Context, key Key, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, key, Entry{Data: raw, UpdatedAt: c.now()})
}

// generation sums the counters of key and all its prefixes, the empty root
// included. It only grows.
func (c *Cache) generation(key Key) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generationLocked(key)
}

func (c *Cache) generationLocked(key Key) uint64 {
	var g uint64
	for i := 0; i <= len(key); i++ {
		g += c.gens[key[:i].String()]
	}
	return g
}

// putIfCurrent drops the result of a fetch that an invalidation overtook.
func (c *Cache) putIfCurrent(ctx context.Context, key Key, gen uint64, v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generationLocked(key) != gen {
		c.log.Debug("cache write skipped, invalidated during fetch", "key", key.String())
		return nil
	}
	return c.put(ctx, key, v)
}

// SetData primes key with v as a fresh entry. Fetches already running for
// key will not overwrite it.
func (c *Cache) SetData(ctx context.Context, key Key, v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[key.String()]++
	if err := c.put(ctx, key, v); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Invalidate marks every entry under prefix stale. The next Fetch refetches.
func (c *Cache) Invalidate(ctx context.Context, prefix Key) error {
	if err := c.apply(ctx, prefix, false); err != nil {
		return err
	}
	c.changed(ctx, prefix, false)
	return nil
}

// Remove drops every entry under prefix.
func (c *Cache) Remove(ctx context.Context, prefix Key) error {
	if err := c.apply(ctx, prefix, true); err != nil {
		return err
	}
	c.changed(ctx, prefix, true)
	return nil
}

// ApplyRemote applies an invalidation that another instance already
// broadcast.
func (c *Cache) ApplyRemote(ctx context.Context, prefix Key, remove bool) error {
	return c.apply(ctx, prefix, remove)
}

func (c *Cache) apply(ctx context.Context, prefix Key, remove bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[prefix.String()]++
	if remove {
		n, err := c.store.Remove(ctx, prefix)
		if err != nil {
			return fmt.Errorf("remove %s: %w", prefix, err)
		}
		c.log.Debug("cache removed", "prefix", prefix.String(), "entries", n)
		return nil
	}
	n, err := c.store.Invalidate(ctx, prefix)
	if err != nil {
		return fmt.Errorf("invalidate %s: %w", prefix, err)
	}
	c.log.Debug("cache invalidated", "prefix", prefix.String(), "entries", n)
	return nil
}

func (c *Cache) changed(ctx context.Context, prefix Key, remove bool) {
	if c.onChange != nil {
		c.onChange(ctx, prefix, remove)
	}
}

// Sweep evicts entries unused for longer than GCTime.
func (c *Cache) Sweep(ctx context.Context) (int, error) {
	return c.store.Sweep(ctx, c.now().Add(-c.gcTime))
}

// RunSweeper calls Sweep every interval until ctx is done.
func (c *Cache) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = c.gcTime / 2
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := c.Sweep(ctx)
			if err != nil {
				c.log.Warn("cache sweep failed", "error", err)
				continue
			}
			if n > 0 {
				c.log.Debug("cache swept", "evicted", n)
			}
		}
	}
}

// Package query is a small keyed read cache. Each key moves through
// idle -> loading -> success|error; a successful result is served until
// the key is invalidated, after which the next Read fetches again.
// Invalidate notifies subscribers of the key but never fetches itself.
package query

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Status is the state of a cache entry.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// Fetcher produces the value for a key.
type Fetcher func(ctx context.Context) (any, error)

// Entry is a point-in-time view of one key.
type Entry struct {
	Status Status
	// Data is the last successful result. It survives later loading and
	// error transitions; HasData reports whether there ever was one.
	Data    any
	HasData bool
	// Err is the last fetch error. It is kept while a later fetch is
	// loading and cleared when one succeeds.
	Err       error
	Stale     bool
	UpdatedAt time.Time

	generation uint64
}

// Fresh reports whether Read would return Data without fetching.
func (e Entry) Fresh() bool {
	return e.Status == StatusSuccess && !e.Stale
}

// Cache is safe for concurrent use. Concurrent reads of the same key
// share a single fetch.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*Entry
	subs    map[string]map[*subscription]struct{}
	group   singleflight.Group
	closed  bool
	now     func() time.Time
}

type subscription struct {
	ch chan struct{}
}

// New returns an empty cache. Call Close at the end of the session.
func New() *Cache {
	return &Cache{
		entries: make(map[string]*Entry),
		subs:    make(map[string]map[*subscription]struct{}),
		now:     time.Now,
	}
}

// Read returns the cached value for key if it is fresh. Otherwise it
// moves the key to loading, calls fetch, and records the outcome.
// Readers joining an in-flight fetch share it, so the fetch gets ctx
// without its cancellation: one caller giving up does not fail the others.
func (c *Cache) Read(ctx context.Context, key string, fetch Fetcher) (any, error) {
	c.mu.Lock()
	e := c.entry(key)
	if e.Fresh() {
		data := e.Data
		c.mu.Unlock()
		return data, nil
	}
	e.Status = StatusLoading
	c.mu.Unlock()

	v, err, _ := c.group.Do(key, func() (any, error) {
		c.mu.Lock()
		gen := c.entry(key).generation
		c.mu.Unlock()

		data, err := fetch(context.WithoutCancel(ctx))

		c.mu.Lock()
		defer c.mu.Unlock()
		e := c.entry(key)
		e.UpdatedAt = c.now()
		if err != nil {
			e.Status = StatusError
			e.Err = err
			return nil, err
		}
		e.Status = StatusSuccess
		e.Data = data
		e.HasData = true
		e.Err = nil
		// an invalidation that raced the fetch keeps the entry stale
		e.Stale = e.generation != gen
		return data, nil
	})
	return v, err
}

// Invalidate marks key stale and wakes its subscribers. It does not fetch.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		e.Stale = true
		e.generation++
	}
	for s := range c.subs[key] {
		select {
		case s.ch <- struct{}{}:
		default:
			// a wakeup is already pending
		}
	}
}

// Snapshot returns the current entry for key without fetching.
func (c *Cache) Snapshot(key string) Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		return *e
	}
	return Entry{Status: StatusIdle}
}

// Subscribe returns a channel that receives a value after each
// invalidation of key, coalescing bursts into one pending wakeup. The
// channel is closed by cancel or by Close.
func (c *Cache) Subscribe(key string) (<-chan struct{}, func()) {
	s := &subscription{ch: make(chan struct{}, 1)}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		close(s.ch)
		return s.ch, func() {}
	}
	if c.subs[key] == nil {
		c.subs[key] = make(map[*subscription]struct{})
	}
	c.subs[key][s] = struct{}{}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if _, ok := c.subs[key][s]; ok {
				delete(c.subs[key], s)
				close(s.ch)
			}
		})
	}
	return s.ch, cancel
}

// Close drops all entries and closes every subscription channel.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	for key, set := range c.subs {
		for s := range set {
			close(s.ch)
		}
		delete(c.subs, key)
	}
	c.entries = make(map[string]*Entry)
}

func (c *Cache) entry(key string) *Entry {
	e, ok := c.entries[key]
	if !ok {
		e = &Entry{Status: StatusIdle}
		c.entries[key] = e
	}
	return e
}

// Read is a typed wrapper around Cache.Read.
func Read[T any](ctx context.Context, c *Cache, key string, fetch func(context.Context) (T, error)) (T, error) {
	v, err := c.Read(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Data returns the entry's data as T, or false if there is none.
func Data[T any](e Entry) (T, bool) {
	if !e.HasData {
		var zero T
		return zero, false
	}
	v, ok := e.Data.(T)
	return v, ok
}

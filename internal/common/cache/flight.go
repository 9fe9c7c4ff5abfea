package cache

import (
	"context"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"player-profiles/internal/common/logging"
)

// Options controls memoization for a single Get call
type Options struct {
	// CacheDuration is how long a successful result stays fresh. Zero disables memoization.
	CacheDuration time.Duration
	// ShouldCache must be true for a successful result to be stored.
	ShouldCache bool
}

func (o Options) memoize() bool {
	return o.ShouldCache && o.CacheDuration > 0
}

// Producer computes the value for a key. It runs detached from the caller's cancellation.
type Producer[V any] func(ctx context.Context) (V, error)

// Stats is a point-in-time snapshot of Flight counters
type Stats struct {
	Hits     uint64 `json:"hits"`
	Misses   uint64 `json:"misses"`
	Joins    uint64 `json:"joins"`
	Failures uint64 `json:"failures"`
	Entries  int    `json:"entries"`
}

// Flight memoizes producer results by key with a TTL and in-flight de-duplication.
// It is safe for concurrent use and meant to live for the whole process.
type Flight[V any] struct {
	store  *gocache.Cache
	group  singleflight.Group
	logger logging.Logger

	hits     atomic.Uint64
	misses   atomic.Uint64
	joins    atomic.Uint64
	failures atomic.Uint64
}

// NewFlight creates an empty Flight. name is only used for logging.
func NewFlight[V any](name string) *Flight[V] {
	return &Flight[V]{
		// cleanup interval 0: no janitor, expired entries are skipped on read
		store:  gocache.New(gocache.NoExpiration, 0),
		logger: logging.Named("cache").WithFields(logging.String("cache", name)),
	}
}

// Get returns the value for key.
//
// A fresh stored value is returned without calling producer. If a producer for key is
// already running the caller waits for it and shares its result or error. Otherwise
// producer runs; on success the value is stored for opts.CacheDuration when
// opts.ShouldCache is set. Errors are never stored. The options of the caller that
// started an execution decide whether its result is stored.
func (f *Flight[V]) Get(ctx context.Context, key string, producer Producer[V], opts Options) (V, error) {
	if opts.memoize() {
		if v, ok := f.lookup(key); ok {
			f.hits.Add(1)
			return v, nil
		}
	}

	detached := context.WithoutCancel(ctx)
	res, err, shared := f.group.Do(key, func() (interface{}, error) {
		if opts.memoize() {
			// a flight for key may have settled between the lookup above and Do
			if v, ok := f.lookup(key); ok {
				f.hits.Add(1)
				return v, nil
			}
		}

		f.misses.Add(1)
		v, err := producer(detached)
		if err != nil {
			f.failures.Add(1)
			return nil, err
		}

		if opts.memoize() {
			f.store.Set(key, v, opts.CacheDuration)
		}
		return v, nil
	})

	if shared {
		f.joins.Add(1)
		f.logger.Debug("Joined in-flight producer", logging.String("key", key))
	}

	if err != nil {
		var zero V
		return zero, err
	}
	v, _ := res.(V)
	return v, nil
}

// Forget drops the stored value for key. A producer already in flight is not affected.
func (f *Flight[V]) Forget(key string) {
	f.store.Delete(key)
}

// Len returns the number of stored entries, including expired ones not yet replaced
func (f *Flight[V]) Len() int {
	return f.store.ItemCount()
}

// Stats returns the current counters
func (f *Flight[V]) Stats() Stats {
	return Stats{
		Hits:     f.hits.Load(),
		Misses:   f.misses.Load(),
		Joins:    f.joins.Load(),
		Failures: f.failures.Load(),
		Entries:  f.store.ItemCount(),
	}
}

func (f *Flight[V]) lookup(key string) (V, bool) {
	if v, ok := f.store.Get(key); ok {
		if typed, ok := v.(V); ok {
			return typed, true
		}
	}
	var zero V
	return zero, false
}

// Package cache provides Flight, a keyed single-flight memoization cache.
//
// Flight combines two libraries:
//   - golang.org/x/sync/singleflight collapses concurrent calls for the same key into
//     one producer execution (stampede protection)
//   - github.com/patrickmn/go-cache holds settled values with a per-entry TTL
//
// Entries are evicted lazily: an expired entry is simply ignored on the next lookup and
// replaced by the next successful producer call. No janitor goroutine scans the store.
//
// A failed producer call is never stored. Every caller that joined the failed execution
// receives the same error and the next call runs the producer again.
//
// Usage:
//
//	players := cache.NewFlight[*models.Player]("players")
//	player, err := players.Get(ctx, "player:"+uuid, func(ctx context.Context) (*models.Player, error) {
//		return build(ctx, uuid)
//	}, cache.Options{CacheDuration: time.Minute, ShouldCache: true})
package cache

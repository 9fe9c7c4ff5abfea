package players

import (
	"context"
	"time"

	"player-profiles/internal/common/cache"
	"player-profiles/internal/common/errors"
	"player-profiles/internal/common/logging"
	"player-profiles/internal/models"
)

type buildOptions struct {
	shouldCache bool
}

// BuildOption customizes a BuildPlayer call
type BuildOption func(*buildOptions)

// WithoutCache builds without memoizing the result and without writing the player store
func WithoutCache() BuildOption {
	return func(o *buildOptions) {
		o.shouldCache = false
	}
}

func cacheKey(key string) string {
	return "player:" + key
}

// canonicalKey returns the undashed lowercase form of UUID keys and any other key unchanged
func canonicalKey(key string) string {
	if canonical, ok := models.CanonicalUUID(key); ok {
		return canonical
	}
	return key
}

// BuildPlayer fetches, normalizes and optionally persists the player for key.
//
// Results are memoized under "player:<key>" for the configured player cache duration,
// and concurrent calls for one key with the same caching choice share a single build. With caching enabled (the
// default) the player is also upserted into the player store when the database cache
// is on; a failed upsert fails the build and nothing is memoized.
func (s *Service) BuildPlayer(ctx context.Context, key string, opts ...BuildOption) (*models.Player, error) {
	o := buildOptions{shouldCache: true}
	for _, opt := range opts {
		opt(&o)
	}

	key = canonicalKey(key)
	flightKey := cacheKey(key)
	if !o.shouldCache {
		// opt-out builds neither persist nor store, so default callers must not join them
		flightKey += "#nocache"
	}
	return s.flight.Get(ctx, flightKey, func(ctx context.Context) (*models.Player, error) {
		return s.build(ctx, key, o.shouldCache)
	}, cache.Options{
		CacheDuration: s.config.PlayerCacheDuration,
		ShouldCache:   o.shouldCache && s.config.EnablePlayerCache,
	})
}

// RefreshPlayer drops any memoized build for key, rebuilds it and re-caches its profile.
// A failed profile write is logged and does not fail the refresh.
func (s *Service) RefreshPlayer(ctx context.Context, key string) (*models.Player, error) {
	key = canonicalKey(key)
	s.flight.Forget(cacheKey(key))

	player, err := s.BuildPlayer(ctx, key)
	if err != nil {
		return nil, err
	}

	if err := s.profiles.CacheProfile(ctx, player.ProfileFor(key)); err != nil {
		s.logger.Warn("Failed to re-cache profile after refresh",
			logging.String("uuid", key), logging.Err(err))
	}
	return player, nil
}

func (s *Service) build(ctx context.Context, key string, shouldCache bool) (*models.Player, error) {
	logger := s.logger.WithFields(logging.String("uuid", key))
	start := time.Now()

	raw, err := s.source.Fetch(ctx, key)
	if err != nil {
		if errors.GetType(err) == errors.ErrTypeInternal {
			err = errors.FetchError("failed to fetch player", err).WithContext("uuid", key)
		}
		logger.Debug("Fetch failed", logging.Err(err))
		return nil, err
	}

	player, err := s.normalizer.Normalize(raw)
	if err != nil {
		if errors.GetType(err) == errors.ErrTypeInternal {
			err = errors.TransformError("failed to normalize player", err).WithContext("uuid", key)
		}
		logger.Debug("Normalize failed", logging.Err(err))
		return nil, err
	}

	if shouldCache && s.config.EnableDBCache {
		if err := s.players.UpsertPlayer(ctx, key, player); err != nil {
			logger.Error("Failed to persist player", err)
			return nil, errors.PersistenceError("failed to persist player", err).WithContext("uuid", key)
		}
	}

	logger.Debug("Built player", logging.Duration("duration", time.Since(start)))
	return player, nil
}

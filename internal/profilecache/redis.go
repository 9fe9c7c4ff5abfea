package profilecache

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "player-profiles/internal/common/errors"
	"player-profiles/internal/common/logging"
	"player-profiles/internal/models"
	"player-profiles/internal/redis"
)

const keyPrefix = "profile:"

type entry struct {
	Profile  *models.Profile `json:"profile"`
	CachedAt time.Time       `json:"cached_at"`
}

func (e entry) fresh(now time.Time, window time.Duration) bool {
	return now.Sub(e.CachedAt) < window
}

// RedisStore keeps profiles as JSON under profile:<uuid>
type RedisStore struct {
	client    *redis.Client
	freshness time.Duration
	retention time.Duration
	now       func() time.Time
	logger    logging.Logger
}

// NewRedisStore creates a RedisStore. retention is the key TTL, zero keeps entries forever.
func NewRedisStore(client *redis.Client, freshness, retention time.Duration) *RedisStore {
	return &RedisStore{
		client:    client,
		freshness: freshness,
		retention: retention,
		now:       time.Now,
		logger:    logging.Named("profilecache").WithFields(logging.String("backend", "redis")),
	}
}

// GetProfile looks up the cached profile for key. A missing or unreadable entry is a miss.
func (s *RedisStore) GetProfile(ctx context.Context, key string) (models.ProfileLookup, error) {
	var e entry
	err := s.client.GetJSON(ctx, keyPrefix+key, &e)
	switch {
	case errors.Is(err, redis.ErrNotFound):
		return models.ProfileLookup{}, nil
	case errors.Is(err, redis.ErrInvalidJSON):
		// overwritten by the next CacheProfile
		s.logger.Warn("Discarding unreadable cached profile",
			logging.String("uuid", key), logging.Err(err))
		return models.ProfileLookup{}, nil
	case err != nil:
		return models.ProfileLookup{}, fmt.Errorf("failed to read cached profile %s: %w", key, err)
	case e.Profile == nil:
		return models.ProfileLookup{}, nil
	}

	return models.ProfileLookup{
		Profile: e.Profile,
		IsFresh: e.fresh(s.now(), s.freshness),
	}, nil
}

// CacheProfile stores profile and restarts its freshness window
func (s *RedisStore) CacheProfile(ctx context.Context, profile *models.Profile) error {
	if profile == nil || profile.UUID == "" {
		return apperrors.InternalError("profile without identity key cannot be cached", nil)
	}

	e := entry{Profile: profile, CachedAt: s.now().UTC()}
	if err := s.client.Set(ctx, keyPrefix+profile.UUID, e, s.retention); err != nil {
		return fmt.Errorf("failed to cache profile %s: %w", profile.UUID, err)
	}

	s.logger.Debug("Cached profile", logging.String("uuid", profile.UUID))
	return nil
}

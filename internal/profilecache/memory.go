package profilecache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	apperrors "player-profiles/internal/common/errors"
	"player-profiles/internal/models"
)

// MemoryStore keeps profiles in process. Used when no Redis is configured.
type MemoryStore struct {
	cache     *gocache.Cache
	freshness time.Duration
	retention time.Duration
	now       func() time.Time
}

// NewMemoryStore creates a MemoryStore. retention bounds how long entries are kept,
// zero keeps them forever.
func NewMemoryStore(freshness, retention time.Duration) *MemoryStore {
	expiration, cleanup := retention, retention
	if retention <= 0 {
		expiration, cleanup = gocache.NoExpiration, 0
	}
	return &MemoryStore{
		cache:     gocache.New(expiration, cleanup),
		freshness: freshness,
		retention: retention,
		now:       time.Now,
	}
}

func (s *MemoryStore) GetProfile(_ context.Context, key string) (models.ProfileLookup, error) {
	v, ok := s.cache.Get(key)
	if !ok {
		return models.ProfileLookup{}, nil
	}
	e := v.(entry)

	// copy so callers never share the stored instance
	profile := *e.Profile
	return models.ProfileLookup{
		Profile: &profile,
		IsFresh: e.fresh(s.now(), s.freshness),
	}, nil
}

func (s *MemoryStore) CacheProfile(_ context.Context, profile *models.Profile) error {
	if profile == nil || profile.UUID == "" {
		return apperrors.InternalError("profile without identity key cannot be cached", nil)
	}

	stored := *profile
	s.cache.Set(profile.UUID, entry{Profile: &stored, CachedAt: s.now()}, gocache.DefaultExpiration)
	return nil
}

// Len returns the number of cached profiles
func (s *MemoryStore) Len() int {
	return s.cache.ItemCount()
}

package profilecache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"player-profiles/internal/common/errors"
	"player-profiles/internal/models"
	"player-profiles/internal/redis"
)

type store interface {
	GetProfile(ctx context.Context, key string) (models.ProfileLookup, error)
	CacheProfile(ctx context.Context, profile *models.Profile) error
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newRedisStore(t *testing.T, c *clock) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := redis.NewClient(&redis.Config{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	s := NewRedisStore(client, time.Hour, 24*time.Hour)
	s.now = c.now
	return s, mr
}

func newMemoryStore(c *clock) *MemoryStore {
	s := NewMemoryStore(time.Hour, 24*time.Hour)
	s.now = c.now
	return s
}

func TestStores(t *testing.T) {
	backends := map[string]func(t *testing.T, c *clock) store{
		"redis": func(t *testing.T, c *clock) store {
			s, _ := newRedisStore(t, c)
			return s
		},
		"memory": func(t *testing.T, c *clock) store {
			return newMemoryStore(c)
		},
	}

	for name, newStore := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			c := &clock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
			s := newStore(t, c)

			t.Run("miss", func(t *testing.T) {
				lookup, err := s.GetProfile(ctx, "unknown")
				require.NoError(t, err)
				assert.Nil(t, lookup.Profile)
				assert.False(t, lookup.IsFresh)
			})

			profile := &models.Profile{UUID: "u1", Username: "Notch", Rank: "MVP_PLUS", Level: 42.5}
			require.NoError(t, s.CacheProfile(ctx, profile))

			t.Run("fresh hit", func(t *testing.T) {
				lookup, err := s.GetProfile(ctx, "u1")
				require.NoError(t, err)
				require.NotNil(t, lookup.Profile)
				assert.Equal(t, *profile, *lookup.Profile)
				assert.True(t, lookup.IsFresh)
			})

			t.Run("stale hit", func(t *testing.T) {
				c.t = c.t.Add(2 * time.Hour)
				lookup, err := s.GetProfile(ctx, "u1")
				require.NoError(t, err)
				require.NotNil(t, lookup.Profile)
				assert.Equal(t, "Notch", lookup.Profile.Username)
				assert.False(t, lookup.IsFresh)
			})

			t.Run("re-cache restores freshness", func(t *testing.T) {
				require.NoError(t, s.CacheProfile(ctx, profile))
				lookup, err := s.GetProfile(ctx, "u1")
				require.NoError(t, err)
				assert.True(t, lookup.IsFresh)
			})

			t.Run("rejects profile without key", func(t *testing.T) {
				err := s.CacheProfile(ctx, &models.Profile{Username: "anon"})
				require.Error(t, err)
				assert.True(t, errors.IsType(err, errors.ErrTypeInternal))
				assert.Error(t, s.CacheProfile(ctx, nil))
			})
		})
	}
}

func TestRedisStore_Retention(t *testing.T) {
	c := &clock{t: time.Now()}
	s, mr := newRedisStore(t, c)
	ctx := context.Background()

	require.NoError(t, s.CacheProfile(ctx, &models.Profile{UUID: "u1"}))
	assert.Equal(t, 24*time.Hour, mr.TTL("profile:u1"))

	mr.FastForward(25 * time.Hour)
	lookup, err := s.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, lookup.Profile)
}

func TestRedisStore_UnreadableEntryIsMiss(t *testing.T) {
	c := &clock{t: time.Now()}
	s, mr := newRedisStore(t, c)

	require.NoError(t, mr.Set("profile:u1", "{garbage"))

	lookup, err := s.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Nil(t, lookup.Profile)
}

func TestRedisStore_Unavailable(t *testing.T) {
	c := &clock{t: time.Now()}
	s, mr := newRedisStore(t, c)
	mr.Close()

	_, err := s.GetProfile(context.Background(), "u1")
	assert.Error(t, err)
	assert.Error(t, s.CacheProfile(context.Background(), &models.Profile{UUID: "u1"}))
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	s := NewMemoryStore(time.Hour, 0)
	ctx := context.Background()

	profile := &models.Profile{UUID: "u1", Username: "Notch"}
	require.NoError(t, s.CacheProfile(ctx, profile))
	profile.Username = "changed"

	lookup, err := s.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Notch", lookup.Profile.Username)
	assert.Equal(t, 1, s.Len())
}

package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"player-profiles/internal/common/errors"
	"player-profiles/internal/config"
	"player-profiles/internal/models"
	"player-profiles/internal/storage"
	_ "player-profiles/internal/storage/memory"
	_ "player-profiles/internal/storage/sqlite"
)

type stubFactory struct {
	created storage.StorageConfig
}

func (f *stubFactory) Create(config storage.StorageConfig) (storage.Storage, error) {
	f.created = config
	return nil, nil
}

func (f *stubFactory) GetType() string { return "stub" }

func TestRegistry(t *testing.T) {
	registry := storage.NewRegistry()
	factory := &stubFactory{}

	assert.Empty(t, registry.Types())
	registry.Register(factory)
	assert.Equal(t, []string{"stub"}, registry.Types())

	cfg := storage.GenericConfig{"path": "x"}
	_, err := registry.Create("stub", cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg, factory.created)

	_, err = registry.Create("missing", cfg)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeConfig))
	assert.Contains(t, err.Error(), "database type missing is not linked into this binary (available: stub)")
}

func TestGenericConfig(t *testing.T) {
	cfg := storage.GenericConfig{"type": "sqlite", "connection_string": "dsn", "path": "/tmp/db"}
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "sqlite", cfg.GetType())
	assert.Equal(t, "dsn", cfg.GetConnectionString())
	assert.Equal(t, "/tmp/db", cfg.String("path"))
	assert.Equal(t, "", cfg.String("missing"))
	assert.Equal(t, "unknown", storage.GenericConfig{}.GetType())
}

func TestNewStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("sqlite", func(t *testing.T) {
		cfg := &config.Config{DatabaseType: "sqlite", DatabasePath: filepath.Join(t.TempDir(), "players.db")}
		store, err := storage.NewStorage(cfg)
		require.NoError(t, err)
		defer store.Close()

		require.NoError(t, store.UpsertPlayer(ctx, "u1", &models.Player{UUID: "u1", Username: "Notch"}))
		require.NoError(t, store.UpsertPlayer(ctx, "u1", &models.Player{UUID: "u1", Username: "Notch2"}))
		count, err := store.CountPlayers(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("memory", func(t *testing.T) {
		store, err := storage.NewStorage(&config.Config{DatabaseType: "memory"})
		require.NoError(t, err)
		defer store.Close()
		assert.NoError(t, store.Health(ctx))
	})

	t.Run("backend not linked", func(t *testing.T) {
		_, err := storage.NewStorage(&config.Config{DatabaseType: "postgres"})
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeConfig))
		assert.Contains(t, err.Error(), "available: memory, sqlite")
	})

	t.Run("unsupported type", func(t *testing.T) {
		_, err := storage.NewStorage(&config.Config{DatabaseType: "mongo"})
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeConfig))
	})

	t.Run("postgres not linked", func(t *testing.T) {
		_, err := storage.NewStorage(&config.Config{DatabaseType: "postgresql"})
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeConfig))
		assert.Contains(t, err.Error(), "not linked")
	})
}

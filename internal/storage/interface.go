// Package storage is the durable player store.
//
// Built players are upserted by identity key ("last write wins"). Backends register a
// StorageFactory under their database type; NewStorage picks one from configuration.
//
// Example usage:
//
//	import _ "player-profiles/internal/storage/sqlite"
//
//	store, err := storage.NewStorage(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer store.Close()
//
//	err = store.UpsertPlayer(ctx, player.UUID, player)
package storage

import (
	"context"

	"player-profiles/internal/models"
)

type Storage interface {
	// UpsertPlayer inserts or replaces the record stored for key
	UpsertPlayer(ctx context.Context, key string, player *models.Player) error

	// CountPlayers returns the number of stored records
	CountPlayers(ctx context.Context) (int, error)

	Health(ctx context.Context) error
	Close() error
}

type StorageConfig interface {
	Validate() error
	GetType() string
	GetConnectionString() string
}

type StorageFactory interface {
	Create(config StorageConfig) (Storage, error)
	GetType() string
}

// GenericConfig is a simple map-based implementation of StorageConfig
type GenericConfig map[string]interface{}

func (gc GenericConfig) Validate() error {
	return nil // Basic configs don't need validation
}

func (gc GenericConfig) GetType() string {
	if t, ok := gc["type"].(string); ok {
		return t
	}
	return "unknown"
}

func (gc GenericConfig) GetConnectionString() string {
	if cs, ok := gc["connection_string"].(string); ok {
		return cs
	}
	return ""
}

// String returns the string value for key, or "" when absent
func (gc GenericConfig) String(key string) string {
	s, _ := gc[key].(string)
	return s
}

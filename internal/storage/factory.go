package storage

import (
	"fmt"

	"player-profiles/internal/common/errors"
	"player-profiles/internal/config"
)

// NewStorage creates a storage adapter based on configuration.
// The backend package must be imported for its factory to be registered.
func NewStorage(cfg *config.Config) (Storage, error) {
	var storageConfig StorageConfig
	storageType := cfg.DatabaseType

	switch storageType {
	case "sqlite":
		storageConfig = GenericConfig{
			"type": "sqlite",
			"path": cfg.DatabasePath,
		}

	case "postgres", "postgresql":
		storageType = "postgres"
		storageConfig = GenericConfig{
			"type":              "postgres",
			"connection_string": cfg.PostgresConnectionString(),
		}

	case "memory":
		storageConfig = GenericConfig{"type": "memory"}

	default:
		return nil, errors.ConfigError(fmt.Sprintf("unsupported database type: %s", cfg.DatabaseType))
	}

	return backends.Create(storageType, storageConfig)
}

package sqlite

import (
	"fmt"

	"player-profiles/internal/storage"
)

type Config struct {
	DatabasePath string
}

func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("database path is required")
	}
	return nil
}

func (c *Config) GetType() string {
	return "sqlite"
}

// GetConnectionString returns the DSN with WAL journaling and a busy timeout so
// concurrent upserts wait instead of failing with "database is locked".
func (c *Config) GetConnectionString() string {
	if c.DatabasePath == ":memory:" {
		return "file::memory:?cache=shared&_busy_timeout=5000"
	}
	return fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", c.DatabasePath)
}

func DefaultConfig() *Config {
	return &Config{
		DatabasePath: "./players.db",
	}
}

// configFrom accepts either a *Config or a storage.GenericConfig with a "path" key
func configFrom(config storage.StorageConfig) (*Config, error) {
	switch c := config.(type) {
	case *Config:
		return c, nil
	case storage.GenericConfig:
		return &Config{DatabasePath: c.String("path")}, nil
	default:
		return nil, fmt.Errorf("invalid config type for SQLite storage")
	}
}

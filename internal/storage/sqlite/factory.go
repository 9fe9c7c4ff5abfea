package sqlite

import (
	"player-profiles/internal/storage"
)

type Factory struct{}

func (f *Factory) Create(config storage.StorageConfig) (storage.Storage, error) {
	sqliteConfig, err := configFrom(config)
	if err != nil {
		return nil, err
	}

	return NewAdapter(sqliteConfig)
}

func (f *Factory) GetType() string {
	return "sqlite"
}

func init() {
	storage.Register(&Factory{})
}

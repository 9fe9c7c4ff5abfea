package postgres

import (
	"player-profiles/internal/storage"
)

type Factory struct{}

func (f *Factory) Create(config storage.StorageConfig) (storage.Storage, error) {
	pgConfig, err := configFrom(config)
	if err != nil {
		return nil, err
	}

	return NewAdapter(pgConfig)
}

func (f *Factory) GetType() string {
	return "postgres"
}

func init() {
	storage.Register(&Factory{})
}

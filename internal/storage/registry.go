package storage

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"player-profiles/internal/common/errors"
)

// Registry maps a database type to the factory that opens it
type Registry struct {
	mu        sync.RWMutex
	factories map[string]StorageFactory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]StorageFactory)}
}

// Register adds factory under its own type, replacing any earlier one
func (r *Registry) Register(factory StorageFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[factory.GetType()] = factory
}

// Create opens a store of the given type. Unknown types yield a config error listing
// the linked backends.
func (r *Registry) Create(storageType string, config StorageConfig) (Storage, error) {
	r.mu.RLock()
	factory, ok := r.factories[storageType]
	r.mu.RUnlock()

	if !ok {
		return nil, errors.ConfigError(fmt.Sprintf("database type %s is not linked into this binary (available: %s)",
			storageType, strings.Join(r.Types(), ", ")))
	}
	return factory.Create(config)
}

// Types returns the registered database types, sorted
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// backends holds the factories registered by imported backend packages
var backends = NewRegistry()

// Register makes a backend available to NewStorage. Backend packages call it from init.
func Register(factory StorageFactory) {
	backends.Register(factory)
}

// Package memory is a process-local player store for development and tests
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"player-profiles/internal/models"
	"player-profiles/internal/storage"
)

// Adapter keeps players as JSON so stored records never alias caller values
type Adapter struct {
	mu      sync.RWMutex
	players map[string][]byte
	closed  bool
}

func NewAdapter() *Adapter {
	return &Adapter{players: make(map[string][]byte)}
}

func (a *Adapter) UpsertPlayer(_ context.Context, key string, player *models.Player) error {
	if player == nil {
		return fmt.Errorf("player is required")
	}

	data, err := json.Marshal(player)
	if err != nil {
		return fmt.Errorf("failed to marshal player: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return fmt.Errorf("memory store is closed")
	}
	a.players[key] = data
	return nil
}

func (a *Adapter) CountPlayers(_ context.Context) (int, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.players), nil
}

func (a *Adapter) Health(_ context.Context) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return fmt.Errorf("memory store is closed")
	}
	return nil
}

func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	return nil
}

type Factory struct{}

func (f *Factory) Create(storage.StorageConfig) (storage.Storage, error) {
	return NewAdapter(), nil
}

func (f *Factory) GetType() string {
	return "memory"
}

func init() {
	storage.Register(&Factory{})
}

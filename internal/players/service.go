// Package players builds normalized player records and enriches identity references
// with profile summaries.
//
// Service is the only entry point. It memoizes builds per identity key so concurrent
// requests for the same player share one upstream fetch, and it isolates failures of
// individual items in batch enrichment.
package players

import (
	"context"
	"time"

	"player-profiles/internal/common/cache"
	"player-profiles/internal/common/errors"
	"player-profiles/internal/common/logging"
	"player-profiles/internal/config"
	"player-profiles/internal/models"
)

// DataSource fetches the raw upstream payload of one player
type DataSource interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// Normalizer converts a raw payload into a Player
type Normalizer interface {
	Normalize(raw []byte) (*models.Player, error)
}

// PlayerStore durably records built players
type PlayerStore interface {
	UpsertPlayer(ctx context.Context, key string, player *models.Player) error
}

// ProfileStore is the persistent profile cache consulted by PopulatePlayers
type ProfileStore interface {
	GetProfile(ctx context.Context, key string) (models.ProfileLookup, error)
	CacheProfile(ctx context.Context, profile *models.Profile) error
}

// NameResolver maps a display name to an identity key
type NameResolver interface {
	Resolve(ctx context.Context, name string) (string, error)
}

// Dependencies are the collaborators of a Service. Players may be nil when the
// database cache is disabled.
type Dependencies struct {
	Source     DataSource
	Normalizer Normalizer
	Players    PlayerStore
	Profiles   ProfileStore
	Resolver   NameResolver
}

// Config controls caching and batch behavior
type Config struct {
	EnablePlayerCache   bool
	PlayerCacheDuration time.Duration
	EnableDBCache       bool
	// BatchConcurrency bounds concurrent items in PopulatePlayers; 0 means unbounded
	BatchConcurrency int
}

// ConfigFrom extracts the service settings from the application config
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		EnablePlayerCache:   cfg.EnablePlayerCache,
		PlayerCacheDuration: cfg.PlayerCacheDuration(),
		EnableDBCache:       cfg.EnableDBCache,
		BatchConcurrency:    cfg.BatchConcurrency,
	}
}

// Service builds players and enriches identity refs. It is created once in main and
// shared for the life of the process.
type Service struct {
	source     DataSource
	normalizer Normalizer
	players    PlayerStore
	profiles   ProfileStore
	resolver   NameResolver

	config Config
	flight *cache.Flight[*models.Player]
	logger logging.Logger
}

// NewService validates deps against cfg and creates a Service
func NewService(deps Dependencies, cfg Config) (*Service, error) {
	switch {
	case deps.Source == nil:
		return nil, errors.ConfigError("players: data source is required")
	case deps.Normalizer == nil:
		return nil, errors.ConfigError("players: normalizer is required")
	case deps.Profiles == nil:
		return nil, errors.ConfigError("players: profile store is required")
	case deps.Resolver == nil:
		return nil, errors.ConfigError("players: name resolver is required")
	case cfg.EnableDBCache && deps.Players == nil:
		return nil, errors.ConfigError("players: player store is required when the database cache is enabled")
	case cfg.BatchConcurrency < 0:
		return nil, errors.ConfigError("players: batch concurrency must not be negative")
	}

	return &Service{
		source:     deps.Source,
		normalizer: deps.Normalizer,
		players:    deps.Players,
		profiles:   deps.Profiles,
		resolver:   deps.Resolver,
		config:     cfg,
		flight:     cache.NewFlight[*models.Player]("player"),
		logger:     logging.Named("players"),
	}, nil
}

// CacheStats reports the build cache counters
func (s *Service) CacheStats() cache.Stats {
	return s.flight.Stats()
}

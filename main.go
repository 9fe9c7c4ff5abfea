package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	httpc "player-profiles/internal/common/http"
	"player-profiles/internal/common/logging"
	"player-profiles/internal/config"
	"player-profiles/internal/handlers"
	"player-profiles/internal/middleware"
	"player-profiles/internal/normalizer"
	"player-profiles/internal/players"
	"player-profiles/internal/profilecache"
	"player-profiles/internal/redis"
	"player-profiles/internal/server"
	"player-profiles/internal/storage"
	_ "player-profiles/internal/storage/memory"
	_ "player-profiles/internal/storage/postgres"
	_ "player-profiles/internal/storage/sqlite"
	"player-profiles/internal/upstream"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to load .env file: %v", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logCloser, err := logging.InitGlobalLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logCloser.Close()
	defer logging.MustSync()

	if err := run(cfg); err != nil {
		logging.Error("Service stopped with error", err)
		logging.MustSync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	checks := make(map[string]handlers.HealthChecker)

	var playerStore players.PlayerStore
	if cfg.EnableDBCache {
		store, err := storage.NewStorage(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer store.Close()
		playerStore = store
		checks["database"] = store
		logging.Info("Player store ready", logging.String("type", cfg.DatabaseType))
	}

	var profileStore players.ProfileStore
	if cfg.EnableProfileCache {
		client, err := redis.NewClient(&redis.Config{
			Address:  cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			PoolSize: cfg.RedisPoolSize,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize redis: %w", err)
		}
		defer client.Close()
		profileStore = profilecache.NewRedisStore(client, cfg.ProfileFreshness, cfg.ProfileRetention)
		checks["redis"] = client
		logging.Info("Profile cache ready", logging.String("backend", "redis"), logging.String("address", cfg.RedisAddress))
	} else {
		profileStore = profilecache.NewMemoryStore(cfg.ProfileFreshness, cfg.ProfileRetention)
		logging.Info("Profile cache ready", logging.String("backend", "memory"))
	}

	playerClient := httpc.NewClient(
		httpc.WithTimeout(cfg.UpstreamTimeout),
		httpc.WithRateLimit(cfg.PlayerAPIRateLimit, cfg.PlayerAPIBurst),
	)
	nameClient := httpc.NewClient(httpc.WithTimeout(cfg.UpstreamTimeout))

	service, err := players.NewService(players.Dependencies{
		Source:     upstream.NewSource(playerClient, cfg.PlayerAPIURL, cfg.PlayerAPIKey),
		Normalizer: normalizer.New(),
		Players:    playerStore,
		Profiles:   profileStore,
		Resolver:   upstream.NewResolver(nameClient, cfg.NameAPIURL, cfg.UUIDCacheDuration()),
	}, players.ConfigFrom(cfg))
	if err != nil {
		return err
	}

	router := mux.NewRouter()
	router.Use(middleware.RequestID, middleware.Logging)
	handlers.New(service, checks).RegisterRoutes(router)

	logging.Info("Starting player profile service",
		logging.String("port", cfg.Port),
		logging.Bool("player_cache", cfg.EnablePlayerCache),
		logging.Bool("db_cache", cfg.EnableDBCache),
		logging.Int("batch_concurrency", cfg.BatchConcurrency),
	)
	return server.New(router, cfg.Port).Run(ctx)
}

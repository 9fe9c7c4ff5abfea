// Package handlers exposes the player service over HTTP
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"player-profiles/internal/common/cache"
	"player-profiles/internal/common/logging"
	"player-profiles/internal/models"
	"player-profiles/internal/players"
)

const (
	maxBatchSize     = 1000
	maxBatchBodySize = 4 << 20
)

// PlayerService is the subset of players.Service used by the handlers
type PlayerService interface {
	GetPlayer(ctx context.Context, name string) players.Result
	RefreshPlayer(ctx context.Context, key string) (*models.Player, error)
	PopulatePlayers(ctx context.Context, refs []models.IdentityRef) players.Outcomes
	CacheStats() cache.Stats
}

// HealthChecker is a dependency reported by the health endpoint
type HealthChecker interface {
	Health(ctx context.Context) error
}

type Handlers struct {
	players PlayerService
	checks  map[string]HealthChecker
	logger  logging.Logger
}

// New creates the handlers. checks maps a dependency name to its health check.
func New(service PlayerService, checks map[string]HealthChecker) *Handlers {
	return &Handlers{
		players: service,
		checks:  checks,
		logger:  logging.Named("handlers"),
	}
}

// RegisterRoutes mounts every route on r
func (h *Handlers) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/players/populate", h.PopulatePlayers).Methods(http.MethodPost)
	r.HandleFunc("/players/{name}", h.GetPlayer).Methods(http.MethodGet)
	r.HandleFunc("/players/{uuid}/refresh", h.RefreshPlayer).Methods(http.MethodPost)
}

type errorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("Failed to write response", logging.Err(err))
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, errorResponse{Status: status, Message: message})
}

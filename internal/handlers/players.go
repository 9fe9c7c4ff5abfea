package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	apperrors "player-profiles/internal/common/errors"
	"player-profiles/internal/common/logging"
	"player-profiles/internal/models"
)

// GetPlayer resolves {name} (a display name or UUID) and returns the built player
func (h *Handlers) GetPlayer(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	result := h.players.GetPlayer(r.Context(), name)
	if !result.OK() {
		h.logger.WithContext(r.Context()).Warn("Player lookup failed",
			logging.String("name", name), logging.Int("status", result.Status), logging.String("message", result.Message))
		h.writeError(w, result.Status, result.Message)
		return
	}

	ctx := logging.ContextWithPlayer(r.Context(), result.Player.UUID)
	h.logger.WithContext(ctx).Debug("Served player", logging.String("name", name))
	h.writeJSON(w, http.StatusOK, result.Player)
}

// RefreshPlayer rebuilds {uuid} ignoring any memoized build
func (h *Handlers) RefreshPlayer(w http.ResponseWriter, r *http.Request) {
	key, ok := models.CanonicalUUID(mux.Vars(r)["uuid"])
	if !ok {
		h.writeError(w, http.StatusBadRequest, "invalid uuid")
		return
	}

	ctx := logging.ContextWithPlayer(r.Context(), key)
	logger := h.logger.WithContext(ctx)

	player, err := h.players.RefreshPlayer(ctx, key)
	if err != nil {
		status := statusFor(err)
		logger.Warn("Player refresh failed", logging.Int("status", status), logging.Err(err))
		h.writeError(w, status, apperrors.Message(err))
		return
	}
	logger.Info("Refreshed player")
	h.writeJSON(w, http.StatusOK, player)
}

// PopulatePlayers takes a JSON array of identity refs and returns the same array with
// profiles attached. Items that could not be enriched are null.
func (h *Handlers) PopulatePlayers(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBatchBodySize)

	var refs []models.IdentityRef
	if err := json.NewDecoder(r.Body).Decode(&refs); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		h.writeError(w, http.StatusBadRequest, "request body must be a JSON array of players")
		return
	}
	if len(refs) > maxBatchSize {
		h.writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("at most %d players per request", maxBatchSize))
		return
	}

	outcomes := h.players.PopulatePlayers(r.Context(), refs)
	if failed := outcomes.Failed(); failed > 0 {
		h.logger.WithContext(r.Context()).Info("Populate completed with failures",
			logging.Int("total", len(refs)), logging.Int("failed", failed))
	}
	h.writeJSON(w, http.StatusOK, outcomes.Refs())
}

func statusFor(err error) int {
	switch apperrors.GetType(err) {
	case apperrors.ErrTypeNotFound:
		return http.StatusNotFound
	case apperrors.ErrTypeFetch, apperrors.ErrTypeTransform:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

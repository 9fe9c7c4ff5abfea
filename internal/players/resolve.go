package players

import (
	"context"
	"net/http"

	"player-profiles/internal/common/errors"
	"player-profiles/internal/common/logging"
	"player-profiles/internal/models"
)

// Result is the outcome of GetPlayer. Status follows HTTP semantics: 200 with Player set,
// 404 when the name could not be resolved, 500 when the build failed.
type Result struct {
	Status  int            `json:"status"`
	Message string         `json:"message,omitempty"`
	Player  *models.Player `json:"player,omitempty"`
}

// OK reports whether the lookup produced a player
func (r Result) OK() bool {
	return r.Status == http.StatusOK
}

// GetPlayer resolves name to an identity key and builds that player. Failures are
// reported through the Result, never as an error.
func (s *Service) GetPlayer(ctx context.Context, name string) Result {
	key, err := s.resolver.Resolve(ctx, name)
	if err != nil {
		s.logger.Debug("Name resolution failed", logging.String("name", name), logging.Err(err))
		return Result{Status: http.StatusNotFound, Message: errors.Message(err)}
	}

	player, err := s.BuildPlayer(ctx, key)
	if err != nil {
		s.logger.Warn("Player build failed",
			logging.String("name", name), logging.String("uuid", key), logging.Err(err))
		return Result{Status: http.StatusInternalServerError, Message: errors.Message(err)}
	}

	return Result{Status: http.StatusOK, Player: player}
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"player-profiles/internal/common/cache"
	"player-profiles/internal/common/logging"
)

type healthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Records map[string]int    `json:"records,omitempty"`
	Cache   cache.Stats       `json:"cache"`
}

// recordCounter is implemented by dependencies that can report how many players they hold
type recordCounter interface {
	CountPlayers(ctx context.Context) (int, error)
}

// Health reports each dependency, the record count of the ones that keep players and
// the build cache counters. Any failing dependency turns the response into a 503; a
// failed count is only logged.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	resp := healthResponse{
		Status: "healthy",
		Checks: make(map[string]string, len(h.checks)),
		Cache:  h.players.CacheStats(),
	}
	status := http.StatusOK

	for name, check := range h.checks {
		if err := check.Health(ctx); err != nil {
			h.logger.Warn("Health check failed", logging.String("dependency", name), logging.Err(err))
			resp.Checks[name] = err.Error()
			resp.Status = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"

		counter, ok := check.(recordCounter)
		if !ok {
			continue
		}
		count, err := counter.CountPlayers(ctx)
		if err != nil {
			h.logger.Warn("Failed to count records", logging.String("dependency", name), logging.Err(err))
			continue
		}
		if resp.Records == nil {
			resp.Records = make(map[string]int)
		}
		resp.Records[name] = count
	}

	h.writeJSON(w, status, resp)
}

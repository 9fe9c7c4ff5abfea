// Package upstream implements the HTTP collaborators used to build players: the raw player
// data source and the display name resolver.
package upstream

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"player-profiles/internal/common/errors"
	httpc "player-profiles/internal/common/http"
	"player-profiles/internal/common/logging"
)

// Source fetches raw player objects from the player API
type Source struct {
	client  *httpc.Client
	baseURL string
	apiKey  string
	logger  logging.Logger
}

// NewSource creates a Source for the API rooted at baseURL
func NewSource(client *httpc.Client, baseURL, apiKey string) *Source {
	return &Source{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		logger:  logging.Named("upstream").WithFields(logging.String("api", "player")),
	}
}

// Fetch returns the raw JSON of the player object for key.
// Unreachable upstreams, error responses and unknown players all yield a fetch error.
func (s *Source) Fetch(ctx context.Context, key string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/player?uuid=%s", s.baseURL, url.QueryEscape(key))

	var headers map[string]string
	if s.apiKey != "" {
		headers = map[string]string{"API-Key": s.apiKey}
	}

	resp, err := s.client.Get(ctx, endpoint, headers)
	if stderrors.Is(err, httpc.ErrResponseTooLarge) {
		return nil, errors.FetchError("player api response too large", err).WithContext("uuid", key)
	}
	if err != nil {
		return nil, errors.FetchError("player api unreachable", err).WithContext("uuid", key)
	}

	s.logger.Debug("Player api responded",
		logging.String("uuid", key),
		logging.Int("status", resp.StatusCode),
		logging.Duration("duration", resp.Duration),
	)

	body := gjson.ParseBytes(resp.Body)

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.FetchError("player not found", nil).WithContext("uuid", key)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := fmt.Sprintf("player api returned status %d", resp.StatusCode)
		if cause := body.Get("cause").String(); cause != "" {
			msg = fmt.Sprintf("%s: %s", msg, cause)
		}
		return nil, errors.FetchError(msg, nil).
			WithContext("uuid", key).
			WithCode(fmt.Sprintf("HTTP%d", resp.StatusCode))
	}

	if !body.IsObject() {
		return nil, errors.FetchError("player api returned a malformed response", nil).WithContext("uuid", key)
	}
	if success := body.Get("success"); success.Exists() && !success.Bool() {
		msg := body.Get("cause").String()
		if msg == "" {
			msg = "player api request was not successful"
		}
		return nil, errors.FetchError(msg, nil).WithContext("uuid", key)
	}

	player := body.Get("player")
	if !player.Exists() || player.Type == gjson.Null {
		return nil, errors.FetchError("player not found", nil).WithContext("uuid", key)
	}

	return []byte(player.Raw), nil
}

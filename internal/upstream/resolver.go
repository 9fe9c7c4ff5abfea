package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"player-profiles/internal/common/cache"
	"player-profiles/internal/common/errors"
	httpc "player-profiles/internal/common/http"
	"player-profiles/internal/common/logging"
	"player-profiles/internal/models"
)

var validName = regexp.MustCompile(`^[A-Za-z0-9_]{1,16}$`)

// Resolver maps display names to identity keys using the name API.
// Names that already are UUIDs resolve without a request.
type Resolver struct {
	client   *httpc.Client
	baseURL  string
	cacheTTL time.Duration
	flight   *cache.Flight[string]
	logger   logging.Logger
}

// NewResolver creates a Resolver. Successful lookups are memoized for cacheTTL; zero disables it.
func NewResolver(client *httpc.Client, baseURL string, cacheTTL time.Duration) *Resolver {
	return &Resolver{
		client:   client,
		baseURL:  strings.TrimRight(baseURL, "/"),
		cacheTTL: cacheTTL,
		flight:   cache.NewFlight[string]("uuid"),
		logger:   logging.Named("upstream").WithFields(logging.String("api", "name")),
	}
}

// Resolve returns the canonical identity key for name
func (r *Resolver) Resolve(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if key, ok := models.CanonicalUUID(name); ok {
		return key, nil
	}
	if !validName.MatchString(name) {
		return "", errors.NotFoundError(fmt.Sprintf("player %q", name))
	}

	return r.flight.Get(ctx, "uuid:"+strings.ToLower(name), func(ctx context.Context) (string, error) {
		return r.lookup(ctx, name)
	}, cache.Options{CacheDuration: r.cacheTTL, ShouldCache: true})
}

func (r *Resolver) lookup(ctx context.Context, name string) (string, error) {
	endpoint := fmt.Sprintf("%s/users/profiles/minecraft/%s", r.baseURL, url.PathEscape(name))

	resp, err := r.client.Get(ctx, endpoint, nil)
	if err != nil {
		return "", errors.FetchError("name api unreachable", err).WithContext("name", name)
	}

	switch {
	case resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusNotFound:
		return "", errors.NotFoundError(fmt.Sprintf("player %q", name))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return "", errors.FetchError(fmt.Sprintf("name api returned status %d", resp.StatusCode), nil).
			WithContext("name", name)
	}

	id := gjson.GetBytes(resp.Body, "id").String()
	key, ok := models.CanonicalUUID(id)
	if !ok {
		return "", errors.NotFoundError(fmt.Sprintf("player %q", name))
	}

	r.logger.Debug("Resolved name", logging.String("name", name), logging.String("uuid", key))
	return key, nil
}

package api

import (
	"time"

	"github.com/ericogr/vault-battles/internal/config"
	"github.com/ericogr/vault-battles/internal/service"
	"github.com/ericogr/vault-battles/internal/storage"
)

// DefaultWatchInterval is how often a watch stream polls its session.
const DefaultWatchInterval = 250 * time.Millisecond

// SessionHandler groups all battle-session HTTP handlers.
type SessionHandler struct {
	resolver       *service.Resolver
	profiles       storage.ProfileRepository
	catalog        *config.Catalog
	watchInterval  time.Duration
	originPatterns []string
}

// HandlerOption configures a SessionHandler.
type HandlerOption func(*SessionHandler)

// WithWatchInterval sets the snapshot polling period of watch streams.
func WithWatchInterval(d time.Duration) HandlerOption {
	return func(h *SessionHandler) {
		if d > 0 {
			h.watchInterval = d
		}
	}
}

// WithOriginPatterns allows cross-origin websocket watchers.
func WithOriginPatterns(patterns ...string) HandlerOption {
	return func(h *SessionHandler) { h.originPatterns = patterns }
}

// NewSessionHandler creates a SessionHandler over the resolver, profile
// repository and move catalog.
func NewSessionHandler(resolver *service.Resolver, profiles storage.ProfileRepository, catalog *config.Catalog, opts ...HandlerOption) *SessionHandler {
	h := &SessionHandler{resolver: resolver, profiles: profiles, catalog: catalog, watchInterval: DefaultWatchInterval}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

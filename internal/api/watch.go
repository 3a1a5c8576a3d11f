package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/ericogr/vault-battles/internal/battle"
	"github.com/ericogr/vault-battles/internal/constants"
	"github.com/ericogr/vault-battles/internal/dedupe"
	"github.com/ericogr/vault-battles/internal/keys"
	"github.com/ericogr/vault-battles/internal/logging"
	"github.com/gin-gonic/gin"
)

// WatchSession streams session snapshots over a websocket. A snapshot is
// sent on connect and after every committed version; the stream closes
// normally once the session is closed.
func (h *SessionHandler) WatchSession(c *gin.Context) {
	id := c.Param("sessionID")
	if !validSessionID(id) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidSessionID})
		return
	}
	if _, err := h.snapshot(c.Request.Context(), id); err != nil {
		writeServiceError(c, constants.ErrFailedFetchSession, err)
		return
	}

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{OriginPatterns: h.originPatterns})
	if err != nil {
		logging.Error("failed to accept watcher", err, logging.Fields{constants.LogFieldSessionID: id})
		return
	}
	defer conn.CloseNow()

	// Watchers never send; CloseRead cancels ctx when the peer goes away.
	ctx := conn.CloseRead(c.Request.Context())
	if err := h.stream(ctx, conn, id); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error("watch stream ended", err, logging.Fields{constants.LogFieldSessionID: id})
		conn.Close(websocket.StatusInternalError, "stream failed")
		return
	}
	conn.Close(websocket.StatusNormalClosure, "session closed")
}

func (h *SessionHandler) stream(ctx context.Context, conn *websocket.Conn, id string) error {
	ticker := time.NewTicker(h.watchInterval)
	defer ticker.Stop()
	var last int64
	for {
		s, err := h.snapshot(ctx, id)
		if err != nil {
			return err
		}
		if s.Version != last {
			last = s.Version
			if err := wsjson.Write(ctx, conn, s); err != nil {
				return err
			}
		}
		if !s.Active() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// snapshot reads a session; concurrent watchers of one session share a
// single read. The shared read ignores the first caller's cancellation so
// one watcher leaving cannot fail the others.
func (h *SessionHandler) snapshot(ctx context.Context, id string) (*battle.Session, error) {
	v, err, _ := dedupe.SnapshotGroup.Do(keys.SnapshotKey(id), func() (interface{}, error) {
		return h.resolver.Session(context.WithoutCancel(ctx), id)
	})
	if err != nil {
		return nil, err
	}
	return v.(*battle.Session), nil
}

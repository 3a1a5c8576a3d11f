package service

import (
	"context"
	"errors"
	"time"

	"github.com/ericogr/vault-battles/internal/battle"
	"github.com/ericogr/vault-battles/internal/constants"
	"github.com/ericogr/vault-battles/internal/logging"
)

var errStillActive = errors.New("session saw activity")

// CloseIdleSessions closes every active session that has not been written
// since now-ttl. A session that moved on or closed in the meantime is
// skipped. Returns how many sessions were closed.
func (r *Resolver) CloseIdleSessions(ctx context.Context, now time.Time, ttl time.Duration) (int, error) {
	before := now.Add(-ttl)
	idle, err := r.store.FindIdleSessions(ctx, before)
	if err != nil {
		return 0, storageError(err)
	}
	closed := 0
	for i := range idle {
		s := &idle[i]
		_, err := r.closeWith(ctx, s.ID, constants.LogClosedIdle, func(cur *battle.Session) error {
			if cur.UpdatedAt.After(before) {
				return errStillActive
			}
			return nil
		})
		if err != nil {
			if errors.Is(err, ErrSessionClosed) || errors.Is(err, errStillActive) {
				continue
			}
			logging.Error("failed to close idle session", err, logging.Fields{constants.LogFieldSessionID: s.ID})
			continue
		}
		logging.Info("closed idle session", logging.Fields{constants.LogFieldSessionID: s.ID})
		closed++
	}
	return closed, nil
}

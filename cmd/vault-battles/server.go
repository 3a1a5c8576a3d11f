package main

import (
	"context"
	"time"

	"github.com/ericogr/vault-battles/internal/constants"
	"github.com/ericogr/vault-battles/internal/logging"
	"github.com/ericogr/vault-battles/internal/service"
)

// startIdleReaper periodically closes sessions nobody has written to for
// ttl. It stops when ctx is done.
func startIdleReaper(ctx context.Context, resolver *service.Resolver, interval, ttl time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				n, err := resolver.CloseIdleSessions(ctx, now, ttl)
				if err != nil {
					logging.Error("idle reaper failed", err, nil)
					continue
				}
				if n > 0 {
					logging.Info("idle sessions closed", logging.Fields{constants.LogFieldCount: n})
				}
			}
		}
	}()
}

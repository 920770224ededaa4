package session

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// StartCleanup calls store.Cleanup every interval until ctx is done. The
// returned channel is closed when the loop exits.
func StartCleanup(ctx context.Context, store Store, interval time.Duration, logger *log.Logger) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := store.Cleanup(ctx)
				if err != nil {
					logger.Warn("session cleanup failed", "error", err)
					continue
				}
				if n > 0 {
					logger.Debug("removed expired sessions", "count", n)
				}
			}
		}
	}()
	return done
}

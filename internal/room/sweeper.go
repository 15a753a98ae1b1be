package room

import (
	"context"
	"time"
)

// RunSweeper sweeps idle rooms every interval until ctx is done. Intended to
// run as a single background goroutine per server instance.
func (m *Manager) RunSweeper(ctx context.Context, interval, idleAfter time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(idleAfter)
		}
	}
}

package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// sweeper is the part of the workspace registry the sweeper needs.
type sweeper interface {
	Sweep() int
	Len() int
}

// WorkspaceSweeper evicts idle console workspaces on a fixed interval.
type WorkspaceSweeper struct {
	registry sweeper
	interval time.Duration
}

// NewWorkspaceSweeper constructs a WorkspaceSweeper.
func NewWorkspaceSweeper(registry sweeper, interval time.Duration) *WorkspaceSweeper {
	return &WorkspaceSweeper{
		registry: registry,
		interval: interval,
	}
}

// Start begins the sweep loop and listens for context cancellation.
func (w *WorkspaceSweeper) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting workspace sweeper")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run()
		case <-ctx.Done():
			log.Info().Msg("Workspace sweeper stopped")
			return
		}
	}
}

func (w *WorkspaceSweeper) run() int {
	evicted := w.registry.Sweep()
	if evicted > 0 {
		log.Info().Int("evicted", evicted).Int("remaining", w.registry.Len()).Msg("Evicted idle workspaces")
	}
	return evicted
}

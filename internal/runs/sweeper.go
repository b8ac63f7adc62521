package runs

import (
	"context"
	"log/slog"
	"time"

	"github.com/scribe-works/scribe/pkg/lifecycle"
)

// Sweeper periodically deletes expired runs. Expired rows are already
// invisible to reads, so the sweep only reclaims storage.
type Sweeper struct {
	sys      System
	logger   *slog.Logger
	interval time.Duration
}

// NewSweeper creates a Sweeper over the given run system.
func NewSweeper(sys System, logger *slog.Logger, interval time.Duration) *Sweeper {
	return &Sweeper{
		sys:      sys,
		logger:   logger.With("system", "sweeper"),
		interval: interval,
	}
}

// Start launches the sweep loop on the coordinator. The loop exits when
// shutdown cancels the context, and shutdown waits for it.
func (s *Sweeper) Start(lc *lifecycle.Coordinator) {
	ctx := lc.Context()

	lc.OnShutdown(func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("sweeper started", "interval", s.interval)

		for {
			select {
			case <-ctx.Done():
				s.logger.Info("sweeper stopped")
				return
			case <-ticker.C:
				if ctx.Err() != nil {
					s.logger.Info("sweeper stopped")
					return
				}
				s.sweep(ctx)
			}
		}
	})
}

func (s *Sweeper) sweep(ctx context.Context) {
	if _, err := s.sys.SweepExpired(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Error("sweep failed", "error", err)
	}
}

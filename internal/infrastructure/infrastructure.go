// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, AI collaborators) that domain
// systems require.
package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/scribe-works/scribe/internal/config"
	"github.com/scribe-works/scribe/internal/discovery"
	"github.com/scribe-works/scribe/internal/generation"
	"github.com/scribe-works/scribe/pkg/database"
	"github.com/scribe-works/scribe/pkg/lifecycle"
)

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, database access, and the workflow collaborators.
type Infrastructure struct {
	Lifecycle  *lifecycle.Coordinator
	Logger     *slog.Logger
	Database   database.System
	Generation generation.Service
	Discovery  discovery.Service
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	gen, err := generation.New(context.Background(), &cfg.Generation, logger)
	if err != nil {
		return nil, fmt.Errorf("generation init failed: %w", err)
	}

	disc := discovery.New(&cfg.Discovery, logger)

	return &Infrastructure{
		Lifecycle:  lc,
		Logger:     logger,
		Database:   db,
		Generation: gen,
		Discovery:  disc,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}

	i.Lifecycle.OnShutdown(func() {
		<-i.Lifecycle.Context().Done()
		if err := i.Generation.Close(); err != nil {
			i.Logger.Error("generation close failed", "error", err)
		}
	})

	return nil
}

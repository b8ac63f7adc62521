// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/scribe-works/scribe/internal/config"
	"github.com/scribe-works/scribe/internal/infrastructure"
	"github.com/scribe-works/scribe/internal/runs"
	"github.com/scribe-works/scribe/pkg/middleware"
	"github.com/scribe-works/scribe/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware,
// along with the run sweeper for the caller to start.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, *runs.Sweeper, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime, cfg)

	mux := http.NewServeMux()
	registerRoutes(mux, domain)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(middleware.Owner())

	sweeper := runs.NewSweeper(
		domain.Runs,
		runtime.Logger,
		cfg.Workflow.SweepIntervalDuration(),
	)

	return m, sweeper, nil
}

package api

import (
	"github.com/scribe-works/scribe/internal/config"
	"github.com/scribe-works/scribe/internal/infrastructure"
	"github.com/scribe-works/scribe/internal/workflow"
	"github.com/scribe-works/scribe/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration and the
// workflow collaborator bundle.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Workflow   *workflow.Runtime
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	logger := infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle:  infra.Lifecycle,
			Logger:     logger,
			Database:   infra.Database,
			Generation: infra.Generation,
			Discovery:  infra.Discovery,
		},
		Pagination: cfg.API.Pagination,
		Workflow: &workflow.Runtime{
			Generation: infra.Generation,
			Discovery:  infra.Discovery,
			Logger:     logger,
		},
	}
}

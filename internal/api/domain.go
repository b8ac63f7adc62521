package api

import (
	"github.com/scribe-works/scribe/internal/config"
	"github.com/scribe-works/scribe/internal/documents"
	"github.com/scribe-works/scribe/internal/runs"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Documents documents.System
	Runs      runs.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime, cfg *config.Config) *Domain {
	docsSystem := documents.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	runsSystem := runs.New(
		runtime.Database.Connection(),
		runtime.Logger,
		docsSystem,
		runtime.Workflow,
		runs.Options{
			TTL:        cfg.Workflow.RunTTLDuration(),
			MaxPayload: cfg.Workflow.MaxPayloadSizeBytes(),
		},
	)

	return &Domain{
		Documents: docsSystem,
		Runs:      runsSystem,
	}
}

package runs

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/scribe-works/scribe/pkg/query"
	"github.com/scribe-works/scribe/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "workflow_runs", "r").
	Project("id", "ID").
	Project("document_id", "DocumentID").
	Project("owner_id", "OwnerID").
	Project("pipeline_kind", "PipelineKind").
	Project("status", "Status").
	Project("current_step", "CurrentStep").
	Project("step_state", "StepState").
	Project("resume_payload", "ResumePayload").
	Project("result", "Result").
	Project("error", "Error").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Project("expires_at", "ExpiresAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for run queries.
// Nil fields are ignored. All fields use exact matching.
type Filters struct {
	Status       *string `json:"status,omitempty"`
	PipelineKind *string `json:"pipelineKind,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("PipelineKind", f.PipelineKind)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}
	if k := values.Get("pipelineKind"); k != "" {
		f.PipelineKind = &k
	}

	return f
}

func scanRun(s repository.Scanner) (Run, error) {
	var r Run

	err := s.Scan(
		&r.ID,
		&r.DocumentID,
		&r.OwnerID,
		&r.PipelineKind,
		&r.Status,
		&r.CurrentStep,
		&r.StepState,
		&r.ResumePayload,
		&r.Result,
		&r.Error,
		&r.CreatedAt,
		&r.UpdatedAt,
		&r.ExpiresAt,
	)

	return r, err
}

// ownerScoped builds a query filtered to the owner's unexpired runs. Expired
// rows are invisible to every read path; only the sweeper sees them.
func ownerScoped(ownerID uuid.UUID) *query.Builder {
	return query.NewBuilder(projection, defaultSort).
		WhereEquals("OwnerID", ownerID).
		WhereFuture("ExpiresAt")
}

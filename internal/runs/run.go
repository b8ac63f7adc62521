// Package runs persists and orchestrates workflow runs: it owns the run
// records, drives pipelines against them, and arbitrates concurrent access.
package runs

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/scribe-works/scribe/internal/workflow"
)

// Run statuses. Running and suspended are the live states; completed and
// failed are terminal and never transition again.
const (
	StatusRunning   = "running"
	StatusSuspended = "suspended"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Run is a persisted workflow run. StepState is the serialized pipeline
// state; ResumePayload is the approval payload published at the current
// suspension, when there is one.
type Run struct {
	ID            uuid.UUID       `json:"id"`
	DocumentID    uuid.UUID       `json:"documentId"`
	OwnerID       uuid.UUID       `json:"ownerId"`
	PipelineKind  string          `json:"pipelineKind"`
	Status        string          `json:"status"`
	CurrentStep   string          `json:"currentStep"`
	StepState     json.RawMessage `json:"stepState,omitempty"`
	ResumePayload json.RawMessage `json:"resumePayload,omitempty"`
	Result        json.RawMessage `json:"result,omitempty"`
	Error         *string         `json:"error,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	ExpiresAt     time.Time       `json:"expiresAt"`
}

// Terminal reports whether the run can never transition again.
func (r *Run) Terminal() bool {
	return r.Status == StatusCompleted || r.Status == StatusFailed
}

// StartCommand contains the payload for starting a run.
type StartCommand struct {
	DocumentID   uuid.UUID `json:"documentId" validate:"required"`
	PipelineKind string    `json:"pipelineKind" validate:"required,oneof=guided autonomous coaching"`
}

// ResumeCommand contains the payload for resuming a suspended run. StepID
// must name the step the run is suspended at; a stale value is rejected.
type ResumeCommand struct {
	RunID  uuid.UUID           `json:"runId" validate:"required"`
	StepID string              `json:"stepId" validate:"required"`
	Resume workflow.ResumeData `json:"resume"`
}

// Response is what a start or resume call hands back: where the run is now
// and, when suspended, the payload awaiting a decision.
type Response struct {
	RunID        uuid.UUID        `json:"runId"`
	DocumentID   uuid.UUID        `json:"documentId"`
	PipelineKind string           `json:"pipelineKind"`
	Status       string           `json:"status"`
	CurrentStep  string           `json:"currentStep"`
	Payload      any              `json:"payload,omitempty"`
	Result       *workflow.Result `json:"result,omitempty"`
	Error        string           `json:"error,omitempty"`
	ExpiresAt    time.Time        `json:"expiresAt"`
}

package client

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Pipeline kinds accepted by the service.
const (
	KindGuided     = "guided"
	KindAutonomous = "autonomous"
	KindCoaching   = "coaching"
)

// Run statuses reported by the service.
const (
	StatusRunning   = "running"
	StatusSuspended = "suspended"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Step names for the authoring pipelines, in execution order.
var StepOrder = []string{"outline", "sources", "sections", "combine"}

// Stage names for the coaching pipeline, in execution order.
var StageOrder = []string{"brainstorm", "structure", "refine", "summary"}

// OutlineSection is one planned section of the document.
type OutlineSection struct {
	Heading string `json:"heading"`
	Summary string `json:"summary,omitempty"`
}

// Outline is the planned structure of the document.
type Outline struct {
	Title    string           `json:"title"`
	Sections []OutlineSection `json:"sections"`
}

// Source is a candidate reference for a document section.
type Source struct {
	Title   string   `json:"title"`
	Authors []string `json:"authors,omitempty"`
	URL     string   `json:"url,omitempty"`
	Year    int      `json:"year,omitempty"`
}

// Result is the final artifact of a completed run.
type Result struct {
	Title    string   `json:"title,omitempty"`
	Draft    string   `json:"draft,omitempty"`
	Sections []string `json:"sections,omitempty"`
	Notes    []string `json:"notes,omitempty"`
}

// ResumeData is the decision submitted when resuming a suspended run.
type ResumeData struct {
	Approved bool       `json:"approved"`
	Outline  *Outline   `json:"outline,omitempty"`
	Sources  [][]Source `json:"sources,omitempty"`
	Sections []string   `json:"sections,omitempty"`
	Advance  bool       `json:"advance,omitempty"`
	Note     string     `json:"note,omitempty"`
}

// StartCommand is the request body for starting a run.
type StartCommand struct {
	DocumentID   uuid.UUID `json:"documentId"`
	PipelineKind string    `json:"pipelineKind"`
}

// ResumeCommand is the request body for resuming a run.
type ResumeCommand struct {
	RunID  uuid.UUID  `json:"runId"`
	StepID string     `json:"stepId"`
	Resume ResumeData `json:"resume"`
}

// RunResponse is the service's answer to a start or resume call. Payload is
// kept raw; its shape depends on the suspended step.
type RunResponse struct {
	RunID        uuid.UUID       `json:"runId"`
	DocumentID   uuid.UUID       `json:"documentId"`
	PipelineKind string          `json:"pipelineKind"`
	Status       string          `json:"status"`
	CurrentStep  string          `json:"currentStep"`
	Payload      json.RawMessage `json:"payload,omitempty"`
	Result       *Result         `json:"result,omitempty"`
	Error        string          `json:"error,omitempty"`
	ExpiresAt    time.Time       `json:"expiresAt"`
}

// Run is a full run record as returned by the read endpoints.
type Run struct {
	ID            uuid.UUID       `json:"id"`
	DocumentID    uuid.UUID       `json:"documentId"`
	OwnerID       uuid.UUID       `json:"ownerId"`
	PipelineKind  string          `json:"pipelineKind"`
	Status        string          `json:"status"`
	CurrentStep   string          `json:"currentStep"`
	ResumePayload json.RawMessage `json:"resumePayload,omitempty"`
	Result        json.RawMessage `json:"result,omitempty"`
	Error         *string         `json:"error,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	ExpiresAt     time.Time       `json:"expiresAt"`
}

// Document is a document record as returned by the document endpoints.
type Document struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Title     string    `json:"title"`
	Topic     string    `json:"topic"`
	Content   string    `json:"content"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateDocumentCommand is the request body for creating a document.
type CreateDocumentCommand struct {
	Title string `json:"title"`
	Topic string `json:"topic"`
}

// UpdateDocumentCommand is the request body for updating a document.
type UpdateDocumentCommand struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
	Status  *string `json:"status,omitempty"`
}

// OutlinePayload is the suspension payload at the outline gate.
type OutlinePayload struct {
	Outline *Outline `json:"outline"`
}

// SourcesPayload is the suspension payload at the sources gate.
type SourcesPayload struct {
	Sources [][]Source `json:"sources"`
}

// SectionsPayload is the suspension payload at the sections gate.
type SectionsPayload struct {
	Sections []string `json:"sections"`
}

// CoachingPayload is the suspension payload at a coaching stage.
type CoachingPayload struct {
	Stage  string `json:"stage"`
	Prompt string `json:"prompt"`
}

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Local phases reported while a request is in flight or before a run exists.
const (
	PhaseIdle     = "idle"
	PhaseStarting = "starting"
	PhaseResuming = "resuming"
)

// Artifacts accumulates per-step outputs across suspensions. The server only
// transmits the payload for the step just returned, so earlier artifacts are
// merged in here and preserved.
type Artifacts struct {
	Outline  *Outline   `json:"outline,omitempty"`
	Sources  [][]Source `json:"sources,omitempty"`
	Sections []string   `json:"sections,omitempty"`
	Stage    string     `json:"stage,omitempty"`
	Prompt   string     `json:"prompt,omitempty"`
	Notes    []string   `json:"notes,omitempty"`
	Result   *Result    `json:"result,omitempty"`
}

// State is a serializable snapshot of a workflow session.
type State struct {
	DocumentID   uuid.UUID `json:"documentId"`
	RunID        uuid.UUID `json:"runId,omitempty"`
	PipelineKind string    `json:"pipelineKind,omitempty"`
	Status       string    `json:"status"`
	StepID       string    `json:"stepId,omitempty"`
	Artifacts    Artifacts `json:"artifacts"`
	LastError    string    `json:"lastError,omitempty"`
}

// Controller is a caller-side state machine for one document's workflow
// session. While a request is in flight it reports a local phase; a failed
// request rolls the status back instead of leaving the session stuck there.
type Controller struct {
	client *Client

	mu    sync.Mutex
	state State
}

// NewController creates a Controller for the given document.
func NewController(c *Client, documentID uuid.UUID) *Controller {
	return &Controller{
		client: c,
		state: State{
			DocumentID: documentID,
			Status:     PhaseIdle,
		},
	}
}

// Restore rebuilds a Controller from a saved snapshot.
func Restore(c *Client, st State) *Controller {
	if st.Status == "" {
		st.Status = PhaseIdle
	}
	return &Controller{client: c, state: st}
}

// Snapshot returns a copy of the session state for persistence.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Status returns the current status: a server run status, or a local phase.
func (c *Controller) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Status
}

// StepID returns the step the run is currently at.
func (c *Controller) StepID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.StepID
}

// StepNumber returns the 1-based position of the current step in its
// pipeline's order, or 0 when no run is active.
func (c *Controller) StepNumber() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	order := StepOrder
	if c.state.PipelineKind == KindCoaching {
		order = StageOrder
	}

	for i, id := range order {
		if id == c.state.StepID {
			return i + 1
		}
	}
	return 0
}

// Artifacts returns the accumulated artifacts.
func (c *Controller) Artifacts() Artifacts {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Artifacts
}

// RunID returns the active run's id, or uuid.Nil when no run is active.
func (c *Controller) RunID() uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.RunID
}

// Start begins a run of the given pipeline kind for the session's document.
func (c *Controller) Start(ctx context.Context, kind string) error {
	prev := c.enter(PhaseStarting)

	resp, err := c.client.Start(ctx, StartCommand{
		DocumentID:   c.state.DocumentID,
		PipelineKind: kind,
	})
	if err != nil {
		c.rollback(prev, err)
		return err
	}

	c.apply(resp)
	return nil
}

// Approve resumes the suspended step with approval. A non-nil override
// replaces the generated artifact for that step.
func (c *Controller) Approve(ctx context.Context, override *ResumeData) error {
	resume := ResumeData{Approved: true}
	if override != nil {
		resume = *override
		resume.Approved = true
	}
	return c.resume(ctx, resume)
}

// Reject resumes the suspended step with rejection, regenerating it.
func (c *Controller) Reject(ctx context.Context) error {
	return c.resume(ctx, ResumeData{Approved: false})
}

// Reply sends a coaching note without advancing the stage.
func (c *Controller) Reply(ctx context.Context, note string) error {
	return c.resume(ctx, ResumeData{Note: note})
}

// Advance moves a coaching session to the next stage, optionally recording a
// final note for the current one.
func (c *Controller) Advance(ctx context.Context, note string) error {
	return c.resume(ctx, ResumeData{Advance: true, Note: note})
}

// Reset abandons the local session, returning to idle with no artifacts.
// The server-side run, if any, is left for its TTL to reclaim.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = State{
		DocumentID: c.state.DocumentID,
		Status:     PhaseIdle,
	}
}

func (c *Controller) resume(ctx context.Context, resume ResumeData) error {
	c.mu.Lock()
	if c.state.Status != StatusSuspended {
		status := c.state.Status
		c.mu.Unlock()
		return fmt.Errorf("cannot resume: session is %s", status)
	}
	runID := c.state.RunID
	stepID := c.state.StepID
	c.mu.Unlock()

	prev := c.enter(PhaseResuming)

	resp, err := c.client.Resume(ctx, ResumeCommand{
		RunID:  runID,
		StepID: stepID,
		Resume: resume,
	})
	if err != nil {
		c.rollback(prev, err)
		return err
	}

	c.apply(resp)
	return nil
}

// enter switches to an in-flight phase and returns the status to restore on
// failure.
func (c *Controller) enter(phase string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.state.Status
	c.state.Status = phase
	return prev
}

func (c *Controller) rollback(prev string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Status = prev
	c.state.LastError = err.Error()
}

// apply merges a server response into the session. Only the artifact for the
// returned step is touched; everything accumulated earlier stays.
func (c *Controller) apply(resp *RunResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.RunID = resp.RunID
	c.state.PipelineKind = resp.PipelineKind
	c.state.Status = resp.Status
	c.state.StepID = resp.CurrentStep
	c.state.LastError = resp.Error

	if resp.Result != nil {
		c.state.Artifacts.Result = resp.Result
		if len(resp.Result.Notes) > 0 {
			c.state.Artifacts.Notes = resp.Result.Notes
		}
	}

	if len(resp.Payload) == 0 {
		return
	}

	switch resp.CurrentStep {
	case "outline":
		var p OutlinePayload
		if err := json.Unmarshal(resp.Payload, &p); err == nil && p.Outline != nil {
			c.state.Artifacts.Outline = p.Outline
		}
	case "sources":
		var p SourcesPayload
		if err := json.Unmarshal(resp.Payload, &p); err == nil && p.Sources != nil {
			c.state.Artifacts.Sources = p.Sources
		}
	case "sections":
		var p SectionsPayload
		if err := json.Unmarshal(resp.Payload, &p); err == nil && p.Sections != nil {
			c.state.Artifacts.Sections = p.Sections
		}
	default:
		var p CoachingPayload
		if err := json.Unmarshal(resp.Payload, &p); err == nil && p.Stage != "" {
			c.state.Artifacts.Stage = p.Stage
			c.state.Artifacts.Prompt = p.Prompt
		}
	}
}

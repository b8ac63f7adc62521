package workflow

import "github.com/scribe-works/scribe/internal/discovery"

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

// State is the accumulated output of all executed steps. It is the only
// context a resumed invocation has, so every step writes whatever later
// steps need into it. Serialized verbatim as the run's step state.
type State struct {
	Topic string `json:"topic"`

	Outline *Outline `json:"outline,omitempty"`

	// Sources is aligned index-for-index with Outline.Sections.
	Sources [][]discovery.Source `json:"sources,omitempty"`

	// Sections holds drafted text aligned index-for-index with Outline.Sections.
	Sections []string `json:"sections,omitempty"`

	Draft string `json:"draft,omitempty"`

	// Coaching pipeline fields.
	Stage string   `json:"stage,omitempty"`
	Notes []string `json:"notes,omitempty"`
}

// Result is the final artifact of a completed pipeline. The engine hands it
// back to the caller; writing it into the document is the caller's job.
type Result struct {
	Title    string   `json:"title,omitempty"`
	Draft    string   `json:"draft,omitempty"`
	Sections []string `json:"sections,omitempty"`
	Notes    []string `json:"notes,omitempty"`
}

// ResumeData is the human-supplied input that re-enters a suspended step.
// Approved short-circuits the step using the matching override field when
// one is given; Approved=false regenerates the same step. Advance is the
// coaching semantic: move to the next stage once the conversation is done.
type ResumeData struct {
	Approved bool `json:"approved"`

	// Per-step overrides, applied on approval in place of the generated value.
	Outline  *Outline             `json:"outline,omitempty"`
	Sources  [][]discovery.Source `json:"sources,omitempty"`
	Sections []string             `json:"sections,omitempty"`

	// Coaching fields.
	Advance bool   `json:"advance,omitempty"`
	Note    string `json:"note,omitempty"`
}

package workflow

import (
	"context"
	"fmt"
)

// Pipeline kinds.
const (
	KindGuided     = "guided"
	KindAutonomous = "autonomous"
	KindCoaching   = "coaching"
)

// Outcome statuses. Mirrors the persisted run status vocabulary.
const (
	StatusSuspended = "suspended"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Outcome is the tagged result of driving a pipeline as far as it will go:
// suspended at a gate (StepID + Payload set), completed (Result set), or
// failed (Err set).
type Outcome struct {
	Status  string
	StepID  string
	Payload any
	Result  *Result
	Err     error
}

// Checkpoint persists the state after a step transition. A non-nil suspension
// means the run is halting at the step; a nil one means it advanced past it.
// Returning an error aborts the pipeline: the engine never reports progress
// that was not durably saved.
type Checkpoint func(ctx context.Context, stepID string, st *State, susp *Suspension) error

// Pipeline is an ordered wiring of steps. The guided and autonomous kinds
// share step logic and differ only in gating.
type Pipeline struct {
	Kind  string
	Steps []Step
}

// Guided returns the authoring pipeline with every generative step gated
// for approval.
func Guided() Pipeline {
	return Pipeline{
		Kind: KindGuided,
		Steps: []Step{
			gated(StepOutline, runOutline, outlinePayload, applyOutline),
			gated(StepSources, runSources, sourcesPayload, applySources),
			gated(StepSections, runSections, sectionsPayload, applySections),
			ungated(StepCombine, runCombine),
		},
	}
}

// Autonomous returns the authoring pipeline with the same steps and no gates:
// it runs start-to-finish in one invocation.
func Autonomous() Pipeline {
	return Pipeline{
		Kind: KindAutonomous,
		Steps: []Step{
			ungated(StepOutline, runOutline),
			ungated(StepSources, runSources),
			ungated(StepSections, runSections),
			ungated(StepCombine, runCombine),
		},
	}
}

// Lookup returns the pipeline for the given kind.
func Lookup(kind string) (Pipeline, error) {
	switch kind {
	case KindGuided:
		return Guided(), nil
	case KindAutonomous:
		return Autonomous(), nil
	case KindCoaching:
		return Coaching(), nil
	default:
		return Pipeline{}, fmt.Errorf("%w: %q", ErrUnknownPipeline, kind)
	}
}

// StepIndex returns the position of the named step, or an error if the
// pipeline has no such step.
func (p Pipeline) StepIndex(stepID string) (int, error) {
	for i, s := range p.Steps {
		if s.ID == stepID {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q in %s pipeline", ErrUnknownStep, stepID, p.Kind)
}

// Execute drives the pipeline forward from the named step (or from the start
// when fromStep is empty), applying resume data to that first step only, and
// invoking save after every step transition. It runs until the next
// suspension or a terminal outcome.
//
// A step error produces a failed Outcome with a nil error return: the caller
// persists the failure. A save error is returned directly — the whole
// operation must fail rather than report unpersisted progress.
func (p Pipeline) Execute(
	ctx context.Context,
	rt *Runtime,
	st *State,
	fromStep string,
	resume *ResumeData,
	save Checkpoint,
) (Outcome, error) {
	start := 0
	if fromStep != "" {
		idx, err := p.StepIndex(fromStep)
		if err != nil {
			return Outcome{}, err
		}
		start = idx
	}

	for i := start; i < len(p.Steps); i++ {
		step := p.Steps[i]

		var rd *ResumeData
		if i == start {
			rd = resume
		}

		susp, err := step.Run(ctx, rt, st, rd)
		if err != nil {
			rt.Logger.Error("step failed",
				"pipeline", p.Kind,
				"step", step.ID,
				"error", err,
			)
			return Outcome{Status: StatusFailed, StepID: step.ID, Err: err}, nil
		}

		if err := save(ctx, step.ID, st, susp); err != nil {
			return Outcome{}, fmt.Errorf("checkpoint step %s: %w", step.ID, err)
		}

		if susp != nil {
			rt.Logger.Info("pipeline suspended",
				"pipeline", p.Kind,
				"step", step.ID,
			)
			return Outcome{
				Status:  StatusSuspended,
				StepID:  step.ID,
				Payload: susp.Payload,
			}, nil
		}
	}

	result := buildResult(st)
	rt.Logger.Info("pipeline completed", "pipeline", p.Kind)
	return Outcome{
		Status: StatusCompleted,
		StepID: p.Steps[len(p.Steps)-1].ID,
		Result: result,
	}, nil
}

func buildResult(st *State) *Result {
	r := &Result{
		Draft:    st.Draft,
		Sections: st.Sections,
		Notes:    st.Notes,
	}
	if st.Outline != nil {
		r.Title = st.Outline.Title
	}
	return r
}

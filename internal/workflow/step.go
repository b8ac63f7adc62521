package workflow

import "context"

// Suspension is a step yielding control: Payload is published for the human
// decision and the pipeline halts until resumed at this step.
type Suspension struct {
	Payload any
}

// Step is a single named unit of pipeline work. Run mutates the shared state
// with the step's output. A nil Suspension advances to the next step; a
// non-nil one halts the pipeline at this step.
//
// Steps must be idempotent with respect to their input state: re-executing
// with the same state and no resume data produces a semantically equivalent
// result, since retries are possible.
type Step struct {
	ID  string
	Run func(ctx context.Context, rt *Runtime, st *State, resume *ResumeData) (*Suspension, error)
}

// generateFunc performs the step's work against the collaborators,
// writing output into the state.
type generateFunc func(ctx context.Context, rt *Runtime, st *State) error

// payloadFunc builds the approval payload published on suspension.
type payloadFunc func(st *State) any

// applyFunc applies a resume-supplied override to the state on approval.
type applyFunc func(st *State, resume *ResumeData)

// gated wraps a step function with an approval gate. On approval the step
// short-circuits without touching any collaborator, applying the override
// instead, so an approved step never generates (or bills) twice. Fresh entry
// and rejection both run the generator and suspend again at the same step.
func gated(id string, generate generateFunc, payload payloadFunc, apply applyFunc) Step {
	return Step{
		ID: id,
		Run: func(ctx context.Context, rt *Runtime, st *State, resume *ResumeData) (*Suspension, error) {
			if resume != nil && resume.Approved {
				apply(st, resume)
				return nil, nil
			}

			if err := generate(ctx, rt, st); err != nil {
				return nil, err
			}

			return &Suspension{Payload: payload(st)}, nil
		},
	}
}

// ungated wraps the same step function with no gate: it runs and advances.
func ungated(id string, generate generateFunc) Step {
	return Step{
		ID: id,
		Run: func(ctx context.Context, rt *Runtime, st *State, _ *ResumeData) (*Suspension, error) {
			if err := generate(ctx, rt, st); err != nil {
				return nil, err
			}
			return nil, nil
		},
	}
}

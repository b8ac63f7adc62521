package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/scribe-works/scribe/pkg/formatting"
)

// Coaching pipeline step names.
const (
	StepBrainstorm = "brainstorm"
	StepStructure  = "structure"
	StepRefine     = "refine"
	StepSummary    = "summary"
)

var stageFocus = map[string]string{
	StepBrainstorm: "explore angles, audiences, and raw ideas for the document",
	StepStructure:  "shape the ideas so far into a working structure and argument order",
	StepRefine:     "pressure-test the structure and sharpen the weakest points",
}

// CoachingPayload is published each time a coaching stage suspends: the stage
// name and the coach's prompt for the author to react to.
type CoachingPayload struct {
	Stage  string `json:"stage"`
	Prompt string `json:"prompt"`
}

// Coaching returns the conversational pipeline. Each stage suspends after
// every prompt; the author either replies (which regenerates the same stage
// with the reply on record) or advances to the next stage. The terminal
// summary step distills the recorded conversation into a working draft.
func Coaching() Pipeline {
	return Pipeline{
		Kind: KindCoaching,
		Steps: []Step{
			coachingStage(StepBrainstorm),
			coachingStage(StepStructure),
			coachingStage(StepRefine),
			ungated(StepSummary, runSummary),
		},
	}
}

// coachingStage builds a stage that loops on itself: resume.Advance moves on,
// anything else records the author's note and prompts again.
func coachingStage(id string) Step {
	return Step{
		ID: id,
		Run: func(ctx context.Context, rt *Runtime, st *State, resume *ResumeData) (*Suspension, error) {
			if resume != nil && resume.Note != "" {
				st.Notes = append(st.Notes, resume.Note)
			}

			if resume != nil && resume.Advance {
				return nil, nil
			}

			text, err := rt.Generation.Generate(ctx, coachingPrompt(id, st))
			if err != nil {
				return nil, fmt.Errorf("%s stage: %w", id, err)
			}

			st.Stage = id
			return &Suspension{Payload: CoachingPayload{
				Stage:  id,
				Prompt: strings.TrimSpace(text),
			}}, nil
		},
	}
}

func coachingPrompt(stage string, st *State) string {
	var sb strings.Builder
	fmt.Fprintf(&sb,
		"You are a writing coach helping an author plan a document on: %s.\n", st.Topic)
	fmt.Fprintf(&sb,
		"Current stage: %s. Your goal in this stage is to %s.\n", stage, stageFocus[stage])
	sb.WriteString("Respond with a single focused question or suggestion, as plain text.\n")

	if len(st.Notes) > 0 {
		sb.WriteString("\nThe author's notes so far:\n")
		for _, note := range st.Notes {
			fmt.Fprintf(&sb, "- %s\n", note)
		}
	}

	return sb.String()
}

// runSummary closes the coaching pipeline by turning the conversation record
// into a working draft.
func runSummary(ctx context.Context, rt *Runtime, st *State) error {
	var sb strings.Builder
	fmt.Fprintf(&sb,
		"Write a working draft for a document on: %s.\n", st.Topic)
	sb.WriteString(`Respond with JSON only, in the shape {"text": "..."}.` + "\n")

	if len(st.Notes) > 0 {
		sb.WriteString("\nBase the draft on the author's coaching notes:\n")
		for _, note := range st.Notes {
			fmt.Fprintf(&sb, "- %s\n", note)
		}
	}

	text, err := rt.Generation.Generate(ctx, sb.String())
	if err != nil {
		return fmt.Errorf("summary: %w", err)
	}

	parsed, err := formatting.Parse[sectionResponse](text)
	if err != nil || parsed.Text == "" {
		parsed.Text = strings.TrimSpace(text)
	}

	st.Draft = parsed.Text
	return nil
}

package workflow

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/scribe-works/scribe/internal/discovery"
	"github.com/scribe-works/scribe/pkg/formatting"
)

// Authoring pipeline step names. These are the persisted currentStep values,
// so renaming one invalidates suspended runs.
const (
	StepOutline  = "outline"
	StepSources  = "sources"
	StepSections = "sections"
	StepCombine  = "combine"
)

// SectionDelimiter joins drafted sections into the final draft.
const SectionDelimiter = "\n\n"

const maxSearchWorkers = 4

// OutlinePayload is published for outline approval.
type OutlinePayload struct {
	Outline *Outline `json:"outline"`
}

// SourcesPayload is published for source approval, aligned with the outline sections.
type SourcesPayload struct {
	Sources [][]discovery.Source `json:"sources"`
}

// SectionsPayload is published for drafted-section approval.
type SectionsPayload struct {
	Sections []string `json:"sections"`
}

type sectionResponse struct {
	Text string `json:"text"`
}

func runOutline(ctx context.Context, rt *Runtime, st *State) error {
	prompt := fmt.Sprintf(
		`Plan a long-form document on the following topic. Respond with JSON only, in the shape
{"title": "...", "sections": [{"heading": "...", "summary": "..."}]}.

Topic: %s`,
		st.Topic,
	)

	text, err := rt.Generation.Generate(ctx, prompt)
	if err != nil {
		return fmt.Errorf("outline generation: %w", err)
	}

	outline, err := formatting.Parse[Outline](text)
	if err != nil || len(outline.Sections) == 0 {
		// malformed provider output never halts the pipeline
		rt.Logger.Warn("outline response unparseable, using fallback", "topic", st.Topic)
		outline = fallbackOutline(st.Topic)
	}

	st.Outline = &outline
	return nil
}

func fallbackOutline(topic string) Outline {
	return Outline{
		Title:    topic,
		Sections: []OutlineSection{{Heading: topic}},
	}
}

func outlinePayload(st *State) any {
	return OutlinePayload{Outline: st.Outline}
}

func applyOutline(st *State, resume *ResumeData) {
	if resume.Outline != nil {
		st.Outline = resume.Outline
	}
}

// runSources queries the discovery collaborator once per outline section with
// bounded concurrency. A failed query leaves that section's sources empty;
// partial results are acceptable and never abort the step.
func runSources(ctx context.Context, rt *Runtime, st *State) error {
	if st.Outline == nil {
		return fmt.Errorf("sources step requires an outline")
	}

	sources := make([][]discovery.Source, len(st.Outline.Sections))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(maxSearchWorkers, max(len(st.Outline.Sections), 1)))

	for i, section := range st.Outline.Sections {
		g.Go(func() error {
			query := section.Heading
			if section.Summary != "" {
				query = section.Heading + " " + section.Summary
			}

			found, err := rt.Discovery.Search(gctx, query)
			if err != nil {
				rt.Logger.Warn("source query failed",
					"section", section.Heading,
					"error", err,
				)
				found = []discovery.Source{}
			}

			sources[i] = found
			return nil
		})
	}

	// workers never return errors; Wait only propagates context cancellation
	if err := g.Wait(); err != nil {
		return fmt.Errorf("source discovery: %w", err)
	}

	st.Sources = sources
	return nil
}

func sourcesPayload(st *State) any {
	return SourcesPayload{Sources: st.Sources}
}

func applySources(st *State, resume *ResumeData) {
	if resume.Sources != nil {
		st.Sources = resume.Sources
	}
}

// runSections drafts each outline section in order, feeding every prompt the
// outline, the section's sources, and the sections drafted so far.
func runSections(ctx context.Context, rt *Runtime, st *State) error {
	if st.Outline == nil {
		return fmt.Errorf("sections step requires an outline")
	}

	sections := make([]string, 0, len(st.Outline.Sections))

	for i, section := range st.Outline.Sections {
		prompt := sectionPrompt(st, i, sections)

		text, err := rt.Generation.Generate(ctx, prompt)
		if err != nil {
			return fmt.Errorf("draft section %q: %w", section.Heading, err)
		}

		parsed, err := formatting.Parse[sectionResponse](text)
		if err != nil || parsed.Text == "" {
			// fall back to the raw response rather than failing the run
			parsed.Text = strings.TrimSpace(text)
		}

		sections = append(sections, parsed.Text)
	}

	st.Sections = sections
	return nil
}

func sectionPrompt(st *State, idx int, drafted []string) string {
	section := st.Outline.Sections[idx]

	var sb strings.Builder
	fmt.Fprintf(&sb, "Draft the %q section of a document titled %q on the topic: %s.\n",
		section.Heading, st.Outline.Title, st.Topic)
	fmt.Fprintf(&sb, `Respond with JSON only, in the shape {"text": "..."}.`+"\n")

	if section.Summary != "" {
		fmt.Fprintf(&sb, "\nSection summary: %s\n", section.Summary)
	}

	if idx < len(st.Sources) && len(st.Sources[idx]) > 0 {
		sb.WriteString("\nCandidate sources:\n")
		for _, src := range st.Sources[idx] {
			fmt.Fprintf(&sb, "- %s (%d) %s\n", src.Title, src.Year, src.URL)
		}
	}

	if len(drafted) > 0 {
		sb.WriteString("\nSections drafted so far:\n")
		for _, text := range drafted {
			sb.WriteString(text)
			sb.WriteString(SectionDelimiter)
		}
	}

	return sb.String()
}

func sectionsPayload(st *State) any {
	return SectionsPayload{Sections: st.Sections}
}

func applySections(st *State, resume *ResumeData) {
	if resume.Sections != nil {
		st.Sections = resume.Sections
	}
}

// runCombine is the terminal step: a pure function of the approved sections
// with no collaborator calls and no gate.
func runCombine(_ context.Context, _ *Runtime, st *State) error {
	st.Draft = strings.Join(st.Sections, SectionDelimiter)
	return nil
}

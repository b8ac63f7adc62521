package runs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/scribe-works/scribe/internal/documents"
	"github.com/scribe-works/scribe/internal/workflow"
	"github.com/scribe-works/scribe/pkg/repository"
)

// Options carries run lifecycle tuning: the TTL stamped on every new run and
// the ceiling on serialized state and payload sizes.
type Options struct {
	TTL        time.Duration
	MaxPayload int64
}

type repo struct {
	store      store
	logger     *slog.Logger
	documents  documents.System
	runtime    *workflow.Runtime
	ttl        time.Duration
	maxPayload int64
}

// New creates a run repository implementing the System interface.
func New(
	db *sql.DB,
	logger *slog.Logger,
	docs documents.System,
	rt *workflow.Runtime,
	opts Options,
) System {
	return &repo{
		store:      &pgStore{db: db},
		logger:     logger.With("system", "runs"),
		documents:  docs,
		runtime:    rt,
		ttl:        opts.TTL,
		maxPayload: opts.MaxPayload,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

// Start verifies document ownership, creates the run record, and drives the
// pipeline until its first suspension or a terminal outcome. The partial
// unique index on live runs rejects a second concurrent start for the same
// document and pipeline kind; an expired run still holding the slot is
// reclaimed and the insert retried once.
func (r *repo) Start(ctx context.Context, ownerID uuid.UUID, cmd StartCommand) (*Response, error) {
	doc, err := r.documents.Find(ctx, ownerID, cmd.DocumentID)
	if err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("find document: %w", err)
	}

	p, err := workflow.Lookup(cmd.PipelineKind)
	if err != nil {
		return nil, err
	}

	st := &workflow.State{Topic: doc.Topic}
	stateJSON, err := r.marshalBounded(st)
	if err != nil {
		return nil, err
	}

	rec := insertRun{
		ID:           uuid.New(),
		DocumentID:   doc.ID,
		OwnerID:      ownerID,
		PipelineKind: cmd.PipelineKind,
		CurrentStep:  p.Steps[0].ID,
		StateJSON:    stateJSON,
		TTL:          r.ttl,
	}

	run, err := r.insertReclaiming(ctx, rec)
	if err != nil {
		return nil, err
	}

	r.logger.Info("run started",
		"id", run.ID,
		"document_id", run.DocumentID,
		"pipeline", run.PipelineKind,
	)

	return r.execute(ctx, run, p, st, "", nil)
}

// insertReclaiming inserts the run row. When the unique index blocks it, an
// expired run may still be occupying the slot ahead of the sweeper; that row
// is deleted and the insert retried once. A second violation means a live
// run genuinely holds the slot.
func (r *repo) insertReclaiming(ctx context.Context, rec insertRun) (*Run, error) {
	run, err := r.store.insert(ctx, rec)
	if err == nil {
		return &run, nil
	}

	if mapped := repository.MapError(err, ErrNotFound, ErrActiveRun); !errors.Is(mapped, ErrActiveRun) {
		return nil, mapped
	}

	cleared, derr := r.store.deleteExpiredBlocker(ctx, rec.DocumentID, rec.PipelineKind)
	if derr != nil {
		return nil, fmt.Errorf("reclaim expired run: %w", derr)
	}
	if !cleared {
		return nil, ErrActiveRun
	}

	run, err = r.store.insert(ctx, rec)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrActiveRun)
	}
	return &run, nil
}

// Resume validates the suspended run, claims it with a conditional update,
// and drives the pipeline onward from the suspended step. Of two racing
// resumes, exactly one wins the claim; the loser gets a conflict.
func (r *repo) Resume(ctx context.Context, ownerID uuid.UUID, cmd ResumeCommand) (*Response, error) {
	run, err := r.Find(ctx, ownerID, cmd.RunID)
	if err != nil {
		return nil, err
	}

	if run.Status != StatusSuspended {
		return nil, fmt.Errorf("%w: status %s", ErrConflict, run.Status)
	}
	if run.CurrentStep != cmd.StepID {
		return nil, fmt.Errorf("%w: run is at %s", ErrStepMismatch, run.CurrentStep)
	}

	if _, err := r.marshalBounded(cmd.Resume); err != nil {
		return nil, err
	}

	if err := r.store.claim(ctx, run.ID, cmd.StepID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: run already claimed", ErrConflict)
		}
		return nil, fmt.Errorf("claim run: %w", err)
	}

	var st workflow.State
	if err := json.Unmarshal(run.StepState, &st); err != nil {
		// the claim already moved the run to running; terminate it rather
		// than strand it there until the TTL
		r.markFailed(ctx, run.ID, "persisted state unreadable")
		return nil, fmt.Errorf("restore run state: %w", err)
	}

	p, err := workflow.Lookup(run.PipelineKind)
	if err != nil {
		return nil, err
	}

	r.logger.Info("run resumed",
		"id", run.ID,
		"step", cmd.StepID,
		"approved", cmd.Resume.Approved,
	)

	return r.execute(ctx, run, p, &st, cmd.StepID, &cmd.Resume)
}

func (r *repo) Find(ctx context.Context, ownerID, id uuid.UUID) (*Run, error) {
	run, err := r.store.find(ctx, ownerID, id)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrActiveRun)
	}
	return &run, nil
}

func (r *repo) ListByDocument(
	ctx context.Context,
	ownerID, documentID uuid.UUID,
	filters Filters,
) ([]Run, error) {
	found, err := r.store.listByDocument(ctx, ownerID, documentID, filters)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	return found, nil
}

// SweepExpired deletes every expired run regardless of status and returns the
// number removed.
func (r *repo) SweepExpired(ctx context.Context) (int64, error) {
	removed, err := r.store.sweep(ctx)
	if err != nil {
		return 0, fmt.Errorf("sweep expired runs: %w", err)
	}

	if removed > 0 {
		r.logger.Info("expired runs swept", "removed", removed)
	}
	return removed, nil
}

// execute drives the pipeline and reconciles the run record with the
// outcome. Checkpoint failures abort the call; the abandoned running row is
// reclaimed by the TTL sweep.
func (r *repo) execute(
	ctx context.Context,
	run *Run,
	p workflow.Pipeline,
	st *workflow.State,
	fromStep string,
	resume *workflow.ResumeData,
) (*Response, error) {
	out, err := p.Execute(ctx, r.runtime, st, fromStep, resume, r.checkpoint(run.ID))
	if err != nil {
		if errors.Is(err, ErrPayloadTooLarge) {
			r.markFailed(ctx, run.ID, err.Error())
		}
		return nil, err
	}

	resp := &Response{
		RunID:        run.ID,
		DocumentID:   run.DocumentID,
		PipelineKind: run.PipelineKind,
		Status:       out.Status,
		CurrentStep:  out.StepID,
		ExpiresAt:    run.ExpiresAt,
	}

	switch out.Status {
	case workflow.StatusSuspended:
		resp.Payload = out.Payload

	case workflow.StatusCompleted:
		resultJSON, err := r.marshalBounded(out.Result)
		if err != nil {
			r.markFailed(ctx, run.ID, err.Error())
			return nil, err
		}

		if err := r.store.complete(ctx, run.ID, resultJSON); err != nil {
			return nil, fmt.Errorf("complete run: %w", err)
		}

		resp.Result = out.Result
		r.logger.Info("run completed", "id", run.ID, "pipeline", run.PipelineKind)

	case workflow.StatusFailed:
		r.markFailed(ctx, run.ID, out.Err.Error())
		resp.Error = out.Err.Error()
	}

	return resp, nil
}

// checkpoint returns the persistence callback for one run: serialize the
// state (and suspension payload), enforce the size ceiling, and write the
// row conditionally on it still being live.
func (r *repo) checkpoint(id uuid.UUID) workflow.Checkpoint {
	return func(ctx context.Context, stepID string, st *workflow.State, susp *workflow.Suspension) error {
		stateJSON, err := r.marshalBounded(st)
		if err != nil {
			return err
		}

		if susp == nil {
			err = r.store.saveProgress(ctx, id, stepID, stateJSON)
		} else {
			payloadJSON, perr := r.marshalBounded(susp.Payload)
			if perr != nil {
				return perr
			}
			err = r.store.saveSuspension(ctx, id, stepID, stateJSON, payloadJSON)
		}

		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: run no longer live", ErrConflict)
			}
			return fmt.Errorf("persist checkpoint: %w", err)
		}
		return nil
	}
}

// marshalBounded serializes v and rejects anything over the payload ceiling.
// Oversized values are never truncated.
func (r *repo) marshalBounded(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	if int64(len(data)) > r.maxPayload {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(data))
	}
	return data, nil
}

// markFailed records a terminal failure. Conditional on the run still being
// live so a terminal status is never overwritten.
func (r *repo) markFailed(ctx context.Context, id uuid.UUID, msg string) {
	if err := r.store.fail(ctx, id, msg); err != nil {
		r.logger.Error("mark run failed", "id", id, "error", err)
	}

	r.logger.Warn("run failed", "id", id, "reason", msg)
}

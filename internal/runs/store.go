package runs

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/scribe-works/scribe/pkg/repository"
)

// store is the persistence seam for run records. Orchestration in repo is
// written against it; pgStore is the Postgres implementation. Conditional
// writes report sql.ErrNoRows when the guarded row was not in the expected
// state.
type store interface {
	insert(ctx context.Context, rec insertRun) (Run, error)
	find(ctx context.Context, ownerID, id uuid.UUID) (Run, error)
	listByDocument(ctx context.Context, ownerID, documentID uuid.UUID, filters Filters) ([]Run, error)

	claim(ctx context.Context, id uuid.UUID, stepID string) error
	saveProgress(ctx context.Context, id uuid.UUID, stepID string, stateJSON []byte) error
	saveSuspension(ctx context.Context, id uuid.UUID, stepID string, stateJSON, payloadJSON []byte) error
	complete(ctx context.Context, id uuid.UUID, resultJSON []byte) error
	fail(ctx context.Context, id uuid.UUID, msg string) error

	deleteExpiredBlocker(ctx context.Context, documentID uuid.UUID, kind string) (bool, error)
	sweep(ctx context.Context) (int64, error)
}

// insertRun carries the column values for a new run row. ExpiresAt is
// computed on the database clock from TTL.
type insertRun struct {
	ID           uuid.UUID
	DocumentID   uuid.UUID
	OwnerID      uuid.UUID
	PipelineKind string
	CurrentStep  string
	StateJSON    []byte
	TTL          time.Duration
}

type pgStore struct {
	db *sql.DB
}

func (s *pgStore) insert(ctx context.Context, rec insertRun) (Run, error) {
	q := `
		INSERT INTO workflow_runs(
			id, document_id, owner_id, pipeline_kind,
			status, current_step, step_state, expires_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW() + make_interval(secs => $8))
		RETURNING id, document_id, owner_id, pipeline_kind, status, current_step,
		          step_state, resume_payload, result, error,
		          created_at, updated_at, expires_at`

	args := []any{
		rec.ID, rec.DocumentID, rec.OwnerID, rec.PipelineKind,
		StatusRunning, rec.CurrentStep, rec.StateJSON, rec.TTL.Seconds(),
	}

	return repository.WithTx(ctx, s.db, func(tx *sql.Tx) (Run, error) {
		return repository.QueryOne(ctx, tx, q, args, scanRun)
	})
}

func (s *pgStore) find(ctx context.Context, ownerID, id uuid.UUID) (Run, error) {
	q, args := ownerScoped(ownerID).
		WhereEquals("ID", id).
		BuildSingleOrNull()

	return repository.QueryOne(ctx, s.db, q, args, scanRun)
}

func (s *pgStore) listByDocument(
	ctx context.Context,
	ownerID, documentID uuid.UUID,
	filters Filters,
) ([]Run, error) {
	qb := ownerScoped(ownerID).WhereEquals("DocumentID", documentID)
	filters.Apply(qb)

	q, args := qb.Build()
	return repository.QueryMany(ctx, s.db, q, args, scanRun)
}

func (s *pgStore) claim(ctx context.Context, id uuid.UUID, stepID string) error {
	q := `
		UPDATE workflow_runs
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3 AND current_step = $4 AND expires_at > NOW()`

	return repository.ExecExpectOne(ctx, s.db, q,
		StatusRunning, id, StatusSuspended, stepID)
}

func (s *pgStore) saveProgress(ctx context.Context, id uuid.UUID, stepID string, stateJSON []byte) error {
	q := `
		UPDATE workflow_runs
		SET step_state = $1, current_step = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4`

	return repository.ExecExpectOne(ctx, s.db, q,
		stateJSON, stepID, id, StatusRunning)
}

func (s *pgStore) saveSuspension(ctx context.Context, id uuid.UUID, stepID string, stateJSON, payloadJSON []byte) error {
	q := `
		UPDATE workflow_runs
		SET step_state = $1, current_step = $2, resume_payload = $3,
		    status = $4, updated_at = NOW()
		WHERE id = $5 AND status = $6`

	return repository.ExecExpectOne(ctx, s.db, q,
		stateJSON, stepID, payloadJSON, StatusSuspended, id, StatusRunning)
}

func (s *pgStore) complete(ctx context.Context, id uuid.UUID, resultJSON []byte) error {
	q := `
		UPDATE workflow_runs
		SET status = $1, result = $2, resume_payload = NULL, updated_at = NOW()
		WHERE id = $3 AND status = $4`

	return repository.ExecExpectOne(ctx, s.db, q,
		StatusCompleted, resultJSON, id, StatusRunning)
}

func (s *pgStore) fail(ctx context.Context, id uuid.UUID, msg string) error {
	q := `
		UPDATE workflow_runs
		SET status = $1, error = $2, resume_payload = NULL, updated_at = NOW()
		WHERE id = $3 AND status IN ($4, $5)`

	_, err := s.db.ExecContext(ctx, q,
		StatusFailed, msg, id, StatusRunning, StatusSuspended)
	return err
}

// deleteExpiredBlocker removes expired live-status rows for the document and
// pipeline kind so the partial unique index slot frees up before the next
// sweep. Reports whether anything was removed.
func (s *pgStore) deleteExpiredBlocker(ctx context.Context, documentID uuid.UUID, kind string) (bool, error) {
	q := `
		DELETE FROM workflow_runs
		WHERE document_id = $1 AND pipeline_kind = $2
		  AND status IN ($3, $4) AND expires_at <= NOW()`

	result, err := s.db.ExecContext(ctx, q,
		documentID, kind, StatusRunning, StatusSuspended)
	if err != nil {
		return false, err
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return removed > 0, nil
}

func (s *pgStore) sweep(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM workflow_runs WHERE expires_at <= NOW()")
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

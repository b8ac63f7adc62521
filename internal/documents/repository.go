package documents

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/scribe-works/scribe/pkg/pagination"
	"github.com/scribe-works/scribe/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a document repository implementing the System interface.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "documents"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	ownerID uuid.UUID,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Document], error) {
	page.Normalize(r.pagination)

	qb := ownerScoped(ownerID).
		WhereSearch(page.Search, "Title", "Topic")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	docs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	result := pagination.NewPageResult(docs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, ownerID, id uuid.UUID) (*Document, error) {
	q, args := ownerScoped(ownerID).
		WhereEquals("ID", id).
		BuildSingleOrNull()

	d, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *repo) Create(ctx context.Context, ownerID uuid.UUID, cmd CreateCommand) (*Document, error) {
	q := `
		INSERT INTO documents(id, owner_id, title, topic)
		VALUES ($1, $2, $3, $4)
		RETURNING id, owner_id, title, topic, content, status, created_at, updated_at`

	insertArgs := []any{uuid.New(), ownerID, cmd.Title, cmd.Topic}

	d, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanDocument)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document created", "id", d.ID, "owner_id", ownerID, "title", d.Title)
	return &d, nil
}

func (r *repo) Update(ctx context.Context, ownerID, id uuid.UUID, cmd UpdateCommand) (*Document, error) {
	q := `
		UPDATE documents
		SET title = COALESCE($1, title),
		    content = COALESCE($2, content),
		    status = COALESCE($3, status),
		    updated_at = NOW()
		WHERE id = $4 AND owner_id = $5
		RETURNING id, owner_id, title, topic, content, status, created_at, updated_at`

	updateArgs := []any{cmd.Title, cmd.Content, cmd.Status, id, ownerID}

	d, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		return repository.QueryOne(ctx, tx, q, updateArgs, scanDocument)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document updated", "id", d.ID, "status", d.Status)
	return &d, nil
}

func (r *repo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	// workflow runs cascade with the document row
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM documents WHERE id = $1 AND owner_id = $2",
			id, ownerID,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document deleted", "id", id)
	return nil
}

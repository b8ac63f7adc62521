package runs

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for workflow run operations.
// Every operation except SweepExpired is owner-scoped, and expired runs
// behave as if they do not exist.
type System interface {
	Handler() *Handler

	Start(ctx context.Context, ownerID uuid.UUID, cmd StartCommand) (*Response, error)
	Resume(ctx context.Context, ownerID uuid.UUID, cmd ResumeCommand) (*Response, error)

	Find(ctx context.Context, ownerID, id uuid.UUID) (*Run, error)
	ListByDocument(ctx context.Context, ownerID, documentID uuid.UUID, filters Filters) ([]Run, error)

	SweepExpired(ctx context.Context) (int64, error)
}

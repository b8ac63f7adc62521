package documents

import (
	"context"

	"github.com/google/uuid"

	"github.com/scribe-works/scribe/pkg/pagination"
)

// System defines the public contract for document domain operations.
// Every operation is owner-scoped: records belonging to another owner
// behave as if they do not exist.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		ownerID uuid.UUID,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Document], error)

	Find(ctx context.Context, ownerID, id uuid.UUID) (*Document, error)
	Create(ctx context.Context, ownerID uuid.UUID, cmd CreateCommand) (*Document, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, cmd UpdateCommand) (*Document, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

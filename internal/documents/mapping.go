package documents

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/scribe-works/scribe/pkg/query"
	"github.com/scribe-works/scribe/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "documents", "d").
	Project("id", "ID").
	Project("owner_id", "OwnerID").
	Project("title", "Title").
	Project("topic", "Topic").
	Project("content", "Content").
	Project("status", "Status").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "UpdatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for document queries.
// Nil fields are ignored. All fields use exact matching.
type Filters struct {
	Status *string `json:"status,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.WhereEquals("Status", f.Status)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	return f
}

func scanDocument(s repository.Scanner) (Document, error) {
	var d Document

	err := s.Scan(
		&d.ID,
		&d.OwnerID,
		&d.Title,
		&d.Topic,
		&d.Content,
		&d.Status,
		&d.CreatedAt,
		&d.UpdatedAt,
	)

	return d, err
}

func ownerScoped(ownerID uuid.UUID) *query.Builder {
	return query.NewBuilder(projection, defaultSort).WhereEquals("OwnerID", ownerID)
}

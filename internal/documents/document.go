// Package documents implements the document domain for Scribe.
// It provides types, data access, and business logic for the long-form
// documents that authoring workflows operate on, including the ownership
// checks every workflow read and write is gated by.
package documents

import (
	"time"

	"github.com/google/uuid"
)

// Document statuses.
const (
	StatusDraft     = "draft"
	StatusAuthoring = "authoring"
	StatusComplete  = "complete"
)

// Document represents a long-form document under authorship.
// Content holds the current draft text; workflows never write it directly,
// the owning client does once a run completes.
type Document struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Title     string    `json:"title"`
	Topic     string    `json:"topic"`
	Content   string    `json:"content"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateCommand carries the data needed to register a new document.
type CreateCommand struct {
	Title string `json:"title" validate:"required,max=300"`
	Topic string `json:"topic" validate:"required,max=2000"`
}

// UpdateCommand carries the data for a document update.
// Nil fields are left unchanged.
type UpdateCommand struct {
	Title   *string `json:"title,omitempty" validate:"omitempty,max=300"`
	Content *string `json:"content,omitempty"`
	Status  *string `json:"status,omitempty" validate:"omitempty,oneof=draft authoring complete"`
}

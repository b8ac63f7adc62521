// Package discovery defines the source-discovery collaborator boundary used by
// workflow steps to find candidate bibliographic sources, backed by the
// OpenAlex works API.
package discovery

import "context"

// Source is a single candidate bibliographic source.
type Source struct {
	Title   string   `json:"title"`
	Authors []string `json:"authors,omitempty"`
	URL     string   `json:"url,omitempty"`
	Year    int      `json:"year,omitempty"`
}

// Service is the narrow contract workflow steps use to discover sources.
// Individual query failures are the caller's to tolerate; a failed query
// never carries partial results.
type Service interface {
	Search(ctx context.Context, query string) ([]Source, error)
}

// Package generation defines the text-generation collaborator boundary used by
// workflow steps, along with its Gemini-backed implementation.
package generation

import "context"

// Service is the narrow contract workflow steps use to produce text.
// Implementations enforce their own request timeouts; callers treat a
// timeout like any other generation failure.
type Service interface {
	// Generate produces text for the given prompt.
	Generate(ctx context.Context, prompt string) (string, error)
	// Close releases any resources held by the service.
	Close() error
}

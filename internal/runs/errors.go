package runs

import (
	"errors"
	"net/http"

	"github.com/scribe-works/scribe/internal/workflow"
)

// Domain errors for workflow run operations.
var (
	ErrNotFound         = errors.New("workflow run not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrActiveRun        = errors.New("document already has an active run of this pipeline")
	ErrConflict         = errors.New("workflow run is not resumable in its current state")
	ErrStepMismatch     = errors.New("resume step does not match the suspended step")
	ErrPayloadTooLarge  = errors.New("workflow payload exceeds the size ceiling")
	ErrInvalid          = errors.New("invalid workflow run request")
)

// MapHTTPStatus maps run domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrDocumentNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrActiveRun),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrStepMismatch):
		return http.StatusConflict
	case errors.Is(err, ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrInvalid),
		errors.Is(err, workflow.ErrUnknownPipeline),
		errors.Is(err, workflow.ErrUnknownStep):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

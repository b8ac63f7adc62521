package workflow

import "errors"

// Engine errors.
var (
	ErrUnknownPipeline = errors.New("unknown pipeline kind")
	ErrUnknownStep     = errors.New("unknown step")
)

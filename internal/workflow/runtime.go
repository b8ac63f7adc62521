// Package workflow implements the resumable authoring pipeline engine: the
// step contract, the guided/autonomous/coaching pipeline wirings composed
// from shared step functions, and the execution loop that checkpoints state
// after every step transition.
//
// Suspension is cooperative: a gated step publishes an approval payload and
// the engine returns entirely. Resumption is a fresh invocation that rebuilds
// context from the persisted state, so no goroutine ever parks across a gate.
package workflow

import (
	"log/slog"

	"github.com/scribe-works/scribe/internal/discovery"
	"github.com/scribe-works/scribe/internal/generation"
)

// Runtime bundles the collaborators that steps require.
// It is constructed by higher-level composition code from Infrastructure.
type Runtime struct {
	Generation generation.Service
	Discovery  discovery.Service
	Logger     *slog.Logger
}

// Package persistence provides TraceStore implementations for tick traces:
// an in-memory store for tests and tooling, SQLite for embedded
// durability and Redis for sharing traces between processes.
//
// Traces are an audit log of evaluation calls. Cursors themselves are never
// persisted.
package persistence

import (
	"errors"

	"github.com/petrijr/canopy/pkg/api"
)

// ErrMissingRunID is returned when appending an event without a run ID.
var ErrMissingRunID = errors.New("trace event has no run id")

func checkEvent(ev api.TickEvent) error {
	if ev.RunID == "" {
		return ErrMissingRunID
	}
	return nil
}

package api

import "time"

// EventType identifies a tick trace event.
type EventType string

const (
	EventTickStarted   EventType = "tick.started"
	EventTickResumed   EventType = "tick.resumed"
	EventTickSuspended EventType = "tick.suspended"
	EventTickSucceeded EventType = "tick.succeeded"
	EventTickFailed    EventType = "tick.failed"

	EventNodeCompleted EventType = "node.completed"
)

// TickEvent is a minimal append-only trace record for audit/debugging.
type TickEvent struct {
	RunID string
	Tree  string
	Tick  uint64
	At    time.Time
	Type  EventType

	// Node is the pre-order position the event refers to, or -1.
	Node   int
	Status Status

	// Small, human-oriented details (node name, duration).
	Detail string
}

// TickInfo describes the evaluation call an observer callback belongs to.
type TickInfo struct {
	// Tree is the name given to the tree at build time.
	Tree string
	// RunID identifies the cursor driving the call.
	RunID string
	// Tick counts evaluation calls made with the cursor, starting at 1.
	Tick uint64
	// Resume is the position the call resumed from, or -1 for a fresh descent.
	Resume int
	// Suspended is the position recorded for the next call. Only meaningful
	// in OnTickCompleted with StatusRunning; -1 otherwise.
	Suspended int
}

// NodeInfo describes a node in an observer callback.
type NodeInfo struct {
	Index int
	Kind  Kind
	Name  string
}

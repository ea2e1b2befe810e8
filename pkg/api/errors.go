package api

import "errors"

// Build-time defects. These are returned while constructing a tree and
// indicate an authoring bug rather than a runtime condition.
var (
	// ErrDecoratorArity is returned when a decorator is given a second child.
	ErrDecoratorArity = errors.New("decorator must have exactly one child")

	// ErrEmptyBranch is returned when a composite or decorator is closed
	// before any child was added.
	ErrEmptyBranch = errors.New("branch closed without children")

	// ErrUnclosedBranch is returned when a tree is finalized while a
	// composite or decorator is still open.
	ErrUnclosedBranch = errors.New("branch left open")

	// ErrNoOpenBranch is returned when End is called with nothing to close.
	ErrNoOpenBranch = errors.New("no open branch to close")

	// ErrEmptyTree is returned when a tree is finalized with no root content.
	ErrEmptyTree = errors.New("tree has no nodes")

	// ErrNilFunc is returned when a node is added without an evaluation routine.
	ErrNilFunc = errors.New("node routine is nil")

	// ErrInvalidStore is returned when a node store violates the pre-order
	// child/descendant count invariants.
	ErrInvalidStore = errors.New("node store invariants violated")
)

// Evaluation defects.
var (
	// ErrForeignCursor is raised when a cursor bound to one tree shape is
	// used to evaluate a tree of a different shape.
	ErrForeignCursor = errors.New("cursor belongs to a different tree")
)

// Driver and runner errors.
var (
	// ErrTickLimit is returned by a driver that gave up after its maximum
	// number of ticks while the tree was still RUNNING.
	ErrTickLimit = errors.New("tick limit reached while running")

	// ErrRunNotFound is returned when a named run does not exist.
	ErrRunNotFound = errors.New("run not found")

	// ErrRunExists is returned when starting a run whose name is taken.
	ErrRunExists = errors.New("run already exists")
)

package canopy

import (
	"fmt"

	"github.com/google/uuid"
)

// Cursor is the state of one logical run: where the previous evaluation
// call suspended and where the next one resumes.
//
// A Cursor is a plain value. Copying it yields an independent run that
// resumes from the same point. It must not be used by two evaluation calls
// at once; callers driving one run from several goroutines must serialize
// access (see Runner).
//
// The first tree that evaluates a cursor binds it to its shape. Using the
// cursor with a tree of a different shape afterwards is a defect and panics.
type Cursor struct {
	id    string
	shape uint64
	ticks uint64

	// node is the suspended position plus one; zero means idle.
	// offset is the distance from the suspended node to its parent, which
	// lets the parent jump straight to it.
	node   int
	offset int

	// Per-call state, reset on every evaluation. from and fromOffset keep
	// the suspension the call started with until it returns.
	from         int
	fromOffset   int
	resume       int
	resumeOffset int
	depth        int
	active       bool

	// frames holds the Children generators reused across calls, one per
	// composite nesting depth. owner detects value copies, which must not
	// share frames with the original.
	owner  *Cursor
	frames []any
}

// NewCursor returns a fresh, unsuspended cursor with a random run ID. It
// binds to the first tree that evaluates it.
func NewCursor() Cursor {
	return Cursor{id: uuid.NewString()}
}

func newNamedCursor(id string) Cursor {
	return Cursor{id: id}
}

// ID returns the run identifier used in observer callbacks and traces.
func (cur *Cursor) ID() string {
	return cur.id
}

// Ticks returns the number of evaluation calls made with the cursor.
func (cur *Cursor) Ticks() uint64 {
	return cur.ticks
}

// Suspended returns the position of the node that returned RUNNING on the
// previous call, if the run is suspended.
func (cur *Cursor) Suspended() (int, bool) {
	if cur.node == 0 {
		return 0, false
	}
	return cur.node - 1, true
}

// Offset returns the distance from the suspended node to its parent, or
// zero when the run is idle.
func (cur *Cursor) Offset() int {
	return cur.offset
}

// Bound reports whether the cursor has been bound to a tree shape.
func (cur *Cursor) Bound() bool {
	return cur.shape != 0
}

// Shape returns the fingerprint of the tree shape the cursor is bound to.
func (cur *Cursor) Shape() uint64 {
	return cur.shape
}

// Reset abandons any suspension. The next call starts a fresh descent.
func (cur *Cursor) Reset() {
	cur.node = 0
	cur.offset = 0
}

// Clone returns an independent copy with a new run ID.
func (cur *Cursor) Clone() Cursor {
	c := *cur
	c.id = uuid.NewString()
	c.owner = nil
	c.frames = nil
	return c
}

func (cur *Cursor) String() string {
	if pos, ok := cur.Suspended(); ok {
		return fmt.Sprintf("cursor(%s, suspended at %d)", cur.id, pos)
	}
	return fmt.Sprintf("cursor(%s, idle)", cur.id)
}

// begin moves the recorded suspension into the per-call resume target.
func (cur *Cursor) begin() {
	if cur.owner != cur {
		cur.owner = cur
		cur.frames = nil
	}
	if cur.id == "" {
		cur.id = uuid.NewString()
	}
	cur.ticks++
	cur.active = true
	cur.from = cur.node
	cur.fromOffset = cur.offset
	cur.resume = cur.node
	cur.resumeOffset = cur.offset
	cur.node = 0
	cur.offset = 0
	cur.depth = 0
}

// end clears per-call state. A terminal outcome leaves the cursor idle.
func (cur *Cursor) end(st Status) {
	cur.active = false
	cur.resume = 0
	cur.resumeOffset = 0
	cur.depth = 0
	if st != StatusRunning {
		cur.node = 0
		cur.offset = 0
	}
}

// abort puts back the suspension the call started with when the call did
// not reach end, which happens when a routine panics.
func (cur *Cursor) abort() {
	if !cur.active {
		return
	}
	cur.active = false
	cur.node = cur.from
	cur.offset = cur.fromOffset
	cur.resume = 0
	cur.resumeOffset = 0
	cur.depth = 0
}

// suspend records pos as the resumption point unless a deeper node already
// did during the current pass over pos.
func (cur *Cursor) suspend(pos, parent int) {
	if cur.node == 0 {
		cur.node = pos + 1
		cur.offset = pos - parent
	}
}

// restart forgets a suspension recorded inside [start, end] earlier in the
// current call, before that subtree is evaluated again.
func (cur *Cursor) restart(start, end int) {
	if cur.node > start && cur.node <= end+1 {
		cur.node = 0
		cur.offset = 0
	}
}

// settle forgets a suspension or resume target inside [start, end] once
// that subtree has produced a terminal outcome or been evaluated.
func (cur *Cursor) settle(start, end int, st Status) {
	if st != StatusRunning && cur.node > start && cur.node <= end+1 {
		cur.node = 0
		cur.offset = 0
	}
	if cur.resume > start && cur.resume <= end+1 {
		cur.resume = 0
		cur.resumeOffset = 0
	}
}

package canopy

import (
	"fmt"
	"strings"
	"time"

	"github.com/petrijr/canopy/internal/store"
	"github.com/petrijr/canopy/pkg/api"
)

// Tree is an immutable behavior tree plus a default cursor for the
// single-run convenience entry point Process.
//
// Tree is a value type. Copies share the immutable node store and each get
// an independent copy of the default cursor, so a copy resumes and evolves
// separately from the original. The zero Tree behaves as an empty tree.
//
// The node store is safe for concurrent use by many cursors. The default
// cursor is not: concurrent callers should use ProcessWith with a cursor
// each, or a Runner.
type Tree[C any] struct {
	nodes    store.Store[routine[C]]
	shape    uint64
	name     string
	observer api.Observer
	cursor   Cursor
}

// Empty returns a tree that always succeeds.
func Empty[C any]() Tree[C] {
	return NewBuilder[C]().Leaf(Noop[C]).MustBuild()
}

func newTree[C any](nodes store.Store[routine[C]], name string, obs api.Observer) Tree[C] {
	return Tree[C]{
		nodes:    nodes,
		shape:    nodes.Fingerprint(),
		name:     name,
		observer: obs,
	}
}

// Process evaluates the tree with its default cursor.
func (t *Tree[C]) Process(c *C) Status {
	return t.ProcessWith(&t.cursor, c)
}

// ProcessWith evaluates the tree for the run tracked by cur. A suspended
// run resumes at the node that returned RUNNING; settled siblings before it
// are not evaluated again. The cursor is left idle after SUCCESS or FAILURE.
//
// ProcessWith panics with an error wrapping ErrForeignCursor if cur is bound
// to a tree of another shape. If a routine panics, the panic propagates and
// cur keeps the suspension it had before the call.
func (t *Tree[C]) ProcessWith(cur *Cursor, c *C) Status {
	if t.nodes.Len() == 0 {
		return StatusSuccess
	}
	t.bind(cur)
	cur.begin()
	defer cur.abort()

	if t.observer == nil {
		st := t.eval(cur, 0, -1, c)
		cur.end(st)
		return st
	}

	start := time.Now()
	t.observer.OnTickStart(t.tickInfo(cur))
	st := t.eval(cur, 0, -1, c)
	cur.end(st)
	t.observer.OnTickCompleted(t.tickInfo(cur), st, time.Since(start))
	return st
}

func (t *Tree[C]) bind(cur *Cursor) {
	switch cur.shape {
	case t.shape:
	case 0:
		cur.shape = t.shape
	default:
		panic(fmt.Errorf("canopy: tree %q: %w", t.name, api.ErrForeignCursor))
	}
}

// NewCursor returns a fresh cursor bound to this tree's shape.
func (t *Tree[C]) NewCursor() Cursor {
	cur := NewCursor()
	cur.shape = t.shape
	return cur
}

// Owns reports whether cur may be used with this tree: it is either unbound
// or bound to this tree's shape.
func (t *Tree[C]) Owns(cur *Cursor) bool {
	return cur.shape == 0 || cur.shape == t.shape
}

// Cursor returns the default cursor used by Process.
func (t *Tree[C]) Cursor() *Cursor {
	return &t.cursor
}

// Name returns the name given at build time.
func (t *Tree[C]) Name() string {
	return t.name
}

// Shape returns the fingerprint of the tree shape that cursors bind to.
func (t *Tree[C]) Shape() uint64 {
	return t.shape
}

// Len returns the number of nodes, including the implicit root.
func (t *Tree[C]) Len() int {
	return t.nodes.Len()
}

// ChildCount returns the number of direct children of node i.
func (t *Tree[C]) ChildCount(i int) int {
	return t.nodes.ChildCount(i)
}

// DescendantCount returns the size of node i's subtree, excluding i.
func (t *Tree[C]) DescendantCount(i int) int {
	return t.nodes.DescendantCount(i)
}

// FirstChild returns the position of node i's first child.
func (t *Tree[C]) FirstChild(i int) (int, bool) {
	return t.nodes.FirstChild(i)
}

// NextSibling returns the position of node i's next sibling. ok is false
// for the root and for the last child of a node. It resolves the parent
// with Parent; use NextSiblingOf when the parent is already known.
func (t *Tree[C]) NextSibling(i int) (int, bool) {
	parent, ok := t.nodes.Parent(i)
	if !ok {
		return 0, false
	}
	return t.nodes.NextSibling(parent, i)
}

// NextSiblingOf returns the next sibling of node i, a child of parent, in
// constant time.
func (t *Tree[C]) NextSiblingOf(parent, i int) (int, bool) {
	return t.nodes.NextSibling(parent, i)
}

// Parent returns the position of node i's parent. It scans backwards and
// is meant for tooling.
func (t *Tree[C]) Parent(i int) (int, bool) {
	return t.nodes.Parent(i)
}

// Kind returns the kind of node i.
func (t *Tree[C]) Kind(i int) Kind {
	return t.nodes.At(i).Kind
}

// NodeName returns the name of node i.
func (t *Tree[C]) NodeName(i int) string {
	return t.nodes.At(i).Value.name
}

// Clone returns a copy with its own node storage and a default cursor that
// carries the same suspension under a new run ID.
func (t *Tree[C]) Clone() Tree[C] {
	out := *t
	out.nodes = t.nodes.Clone()
	out.cursor = t.cursor.Clone()
	return out
}

// String renders the tree as an indented outline, one node per line.
func (t *Tree[C]) String() string {
	var b strings.Builder
	var ends []int
	for i := 0; i < t.nodes.Len(); i++ {
		for len(ends) > 0 && ends[len(ends)-1] < i {
			ends = ends[:len(ends)-1]
		}
		n := t.nodes.At(i)
		b.WriteString(strings.Repeat("  ", len(ends)))
		b.WriteString(n.Value.name)
		b.WriteByte('\n')
		if n.Children > 0 {
			ends = append(ends, i+n.Descendants)
		}
	}
	return b.String()
}

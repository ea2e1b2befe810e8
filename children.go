package canopy

import "iter"

// Child is a handle to one child of the node being evaluated. It is only
// valid during the call that produced it.
type Child[C any] struct {
	tree   *Tree[C]
	cur    *Cursor
	pos    int
	parent int
}

// Process evaluates the child subtree, resuming inside it if the run was
// suspended there.
func (ch Child[C]) Process(c *C) Status {
	return ch.tree.eval(ch.cur, ch.pos, ch.parent, c)
}

// Index returns the child's pre-order position in the tree.
func (ch Child[C]) Index() int {
	return ch.pos
}

// Kind returns the kind of the child node.
func (ch Child[C]) Kind() Kind {
	return ch.tree.nodes.At(ch.pos).Kind
}

// Name returns the child node's name.
func (ch Child[C]) Name() string {
	return ch.tree.nodes.At(ch.pos).Value.name
}

// Children yields the children of a composite node left to right.
//
// When the run was suspended inside the composite, the first child yielded
// is the one containing the suspended node; earlier siblings already
// settled on a previous call and are skipped. Once exhausted, Next keeps
// returning false.
//
// The generator is owned by the evaluation call and is reused afterwards.
// Composite routines must not retain it.
type Children[C any] struct {
	tree   *Tree[C]
	cur    *Cursor
	parent int
	end    int
	count  int

	next    int
	pos     int
	ord     int
	pending int
	resumed bool
}

func (ch *Children[C]) reset(t *Tree[C], cur *Cursor, i int) {
	n := t.nodes.At(i)
	ch.tree = t
	ch.cur = cur
	ch.parent = i
	ch.end = i + n.Descendants
	ch.count = n.Children
	ch.next = i + 1
	ch.pos = -1
	ch.ord = -1
	ch.pending = 0
	ch.resumed = false

	if cur.resume == 0 {
		return
	}
	r := cur.resume - 1
	if r <= i || r > ch.end {
		return
	}
	ch.resumed = true
	if r-cur.resumeOffset == i {
		// The suspended node is a direct child; its ordinal is only
		// computed if asked for.
		ch.next = r
		ch.pending = -1
		return
	}
	k := i + 1
	for k+t.nodes.DescendantCount(k) < r {
		k += 1 + t.nodes.DescendantCount(k)
		ch.pending++
	}
	ch.next = k
}

// Next returns the next child, or false once every child was yielded.
func (ch *Children[C]) Next() (Child[C], bool) {
	if ch.next > ch.end {
		return Child[C]{}, false
	}
	pos := ch.next
	ch.next = pos + 1 + ch.tree.nodes.DescendantCount(pos)
	ch.pos = pos
	ch.ord = ch.pending
	if ch.pending >= 0 {
		ch.pending++
	}
	return Child[C]{tree: ch.tree, cur: ch.cur, pos: pos, parent: ch.parent}, true
}

// All returns an iterator over the remaining children.
func (ch *Children[C]) All() iter.Seq[Child[C]] {
	return func(yield func(Child[C]) bool) {
		for {
			child, ok := ch.Next()
			if !ok || !yield(child) {
				return
			}
		}
	}
}

// Len returns the total number of children, including any skipped on resume.
func (ch *Children[C]) Len() int {
	return ch.count
}

// Index returns the ordinal among its siblings of the child most recently
// returned by Next, or -1 before the first call.
func (ch *Children[C]) Index() int {
	if ch.pos < 0 {
		return -1
	}
	if ch.ord < 0 {
		ord := 0
		for k := ch.parent + 1; k < ch.pos; k += 1 + ch.tree.nodes.DescendantCount(k) {
			ord++
		}
		ch.ord = ord
		ch.pending = ord + 1
	}
	return ch.ord
}

// Resumed reports whether iteration started at a previously suspended child
// rather than the first one.
func (ch *Children[C]) Resumed() bool {
	return ch.resumed
}

// Parent returns the pre-order position of the composite being evaluated.
func (ch *Children[C]) Parent() int {
	return ch.parent
}

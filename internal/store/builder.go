package store

import (
	"fmt"

	"github.com/petrijr/canopy/pkg/api"
)

// Builder appends nodes in pre-order. Open pushes a branch that receives
// every following node as a child until the matching Close.
//
// The first error is sticky: later calls are ignored and Finish returns it.
type Builder[T any] struct {
	nodes []Node[T]
	open  []int
	err   error
}

// Err returns the first error recorded by the builder.
func (b *Builder[T]) Err() error {
	return b.err
}

// Depth returns the number of open branches.
func (b *Builder[T]) Depth() int {
	return len(b.open)
}

// Len returns the number of nodes appended so far.
func (b *Builder[T]) Len() int {
	return len(b.nodes)
}

// At returns the node appended at position i.
func (b *Builder[T]) At(i int) *Node[T] {
	return &b.nodes[i]
}

// Top returns the position of the innermost open branch.
func (b *Builder[T]) Top() (int, bool) {
	if len(b.open) == 0 {
		return 0, false
	}
	return b.open[len(b.open)-1], true
}

// Open appends a decorator or composite and makes it the current parent.
func (b *Builder[T]) Open(kind api.Kind, v T) {
	if kind == api.KindLeaf {
		b.fail(fmt.Errorf("%w: leaf cannot be opened", api.ErrInvalidStore))
		return
	}
	if !b.attach(1) {
		return
	}
	b.nodes = append(b.nodes, Node[T]{Kind: kind, Value: v})
	b.open = append(b.open, len(b.nodes)-1)
}

// Leaf appends a childless node under the current parent.
func (b *Builder[T]) Leaf(v T) {
	if !b.attach(1) {
		return
	}
	b.nodes = append(b.nodes, Node[T]{Kind: api.KindLeaf, Value: v})
}

// Embed copies a finished store as a single child subtree of the current
// parent. The copied run keeps its internal counts; the open ancestors grow
// by its length.
func (b *Builder[T]) Embed(sub Store[T]) {
	if b.err != nil {
		return
	}
	if err := sub.Validate(); err != nil {
		b.fail(fmt.Errorf("embed: %w", err))
		return
	}
	if !b.attach(sub.Len()) {
		return
	}
	b.nodes = append(b.nodes, sub.nodes...)
}

// Close ends the current branch. A branch must have at least one child.
func (b *Builder[T]) Close() {
	if b.err != nil {
		return
	}
	if len(b.open) == 0 {
		b.fail(api.ErrNoOpenBranch)
		return
	}
	top := b.open[len(b.open)-1]
	if b.nodes[top].Children == 0 {
		b.fail(fmt.Errorf("%w: %s at node %d", api.ErrEmptyBranch, b.nodes[top].Kind, top))
		return
	}
	b.open = b.open[:len(b.open)-1]
}

// Finish validates and returns the store. Every branch must be closed.
func (b *Builder[T]) Finish() (Store[T], error) {
	if b.err != nil {
		return Store[T]{}, b.err
	}
	if len(b.open) > 0 {
		top := b.open[len(b.open)-1]
		return Store[T]{}, fmt.Errorf("%w: %d open, innermost %s at node %d",
			api.ErrUnclosedBranch, len(b.open), b.nodes[top].Kind, top)
	}
	s := Store[T]{nodes: b.nodes}
	if err := s.Validate(); err != nil {
		return Store[T]{}, err
	}
	return s.Clone(), nil
}

// attach accounts for a run of size nodes about to be appended as one child
// of the current parent. Outside any branch only a single root is accepted.
func (b *Builder[T]) attach(size int) bool {
	if b.err != nil {
		return false
	}
	if len(b.open) == 0 {
		if len(b.nodes) > 0 {
			b.fail(fmt.Errorf("%w: tree already has a root", api.ErrInvalidStore))
			return false
		}
		return true
	}
	top := b.open[len(b.open)-1]
	parent := &b.nodes[top]
	if parent.Kind == api.KindDecorator && parent.Children >= 1 {
		b.fail(fmt.Errorf("%w: decorator at node %d", api.ErrDecoratorArity, top))
		return false
	}
	parent.Children++
	for _, p := range b.open {
		b.nodes[p].Descendants += size
	}
	return true
}

func (b *Builder[T]) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

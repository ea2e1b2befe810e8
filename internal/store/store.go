// Package store holds behavior trees flattened into a single pre-order slice.
//
// A node at position i with descendant count d owns the positions [i, i+d].
// Its first child (if any) is at i+1 and the position after its subtree,
// i+1+d, is its next sibling when that still lies inside the parent's range.
// No parent, child or sibling references are stored: every structural query
// is answered from the two counts kept per node.
package store

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/petrijr/canopy/pkg/api"
)

// Node is one entry of a Store.
type Node[T any] struct {
	Kind        api.Kind
	Children    int
	Descendants int
	Value       T
}

// Store is an immutable pre-order sequence of nodes.
//
// The zero Store is empty. A Store produced by Builder.Finish is never
// mutated afterwards and is safe for concurrent read-only use.
type Store[T any] struct {
	nodes []Node[T]
}

// Len returns the number of nodes.
func (s Store[T]) Len() int {
	return len(s.nodes)
}

// At returns a pointer to the node at position i. Callers must not mutate it.
func (s Store[T]) At(i int) *Node[T] {
	return &s.nodes[i]
}

// ChildCount returns the number of direct children of node i.
func (s Store[T]) ChildCount(i int) int {
	return s.nodes[i].Children
}

// DescendantCount returns the size of node i's subtree, excluding i.
func (s Store[T]) DescendantCount(i int) int {
	return s.nodes[i].Descendants
}

// End returns the last position of node i's subtree.
func (s Store[T]) End(i int) int {
	return i + s.nodes[i].Descendants
}

// Contains reports whether position j lies in node i's subtree (i included).
func (s Store[T]) Contains(i, j int) bool {
	return j >= i && j <= i+s.nodes[i].Descendants
}

// FirstChild returns the position of node i's first child.
func (s Store[T]) FirstChild(i int) (int, bool) {
	if s.nodes[i].Children == 0 {
		return 0, false
	}
	return i + 1, true
}

// NextSibling returns the next sibling of node i, a child of parent. ok is
// false when i is the last child of parent, or when parent is negative.
func (s Store[T]) NextSibling(parent, i int) (int, bool) {
	if parent < 0 {
		return 0, false
	}
	next := i + 1 + s.nodes[i].Descendants
	if next > parent+s.nodes[parent].Descendants {
		return 0, false
	}
	return next, true
}

// Parent returns the position of node i's parent. It scans backwards and is
// meant for tooling, not for evaluation.
func (s Store[T]) Parent(i int) (int, bool) {
	for p := i - 1; p >= 0; p-- {
		if p+s.nodes[p].Descendants >= i {
			return p, true
		}
	}
	return 0, false
}

// Clone returns a deep copy of the node slice.
func (s Store[T]) Clone() Store[T] {
	if s.nodes == nil {
		return Store[T]{}
	}
	nodes := make([]Node[T], len(s.nodes))
	copy(nodes, s.nodes)
	return Store[T]{nodes: nodes}
}

// Fingerprint hashes the tree shape: kinds plus child and descendant counts.
// Two stores share a fingerprint exactly when positions mean the same thing
// in both. Values are not part of the hash.
func (s Store[T]) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [1 + 2*binary.MaxVarintLen64]byte
	for i := range s.nodes {
		n := &s.nodes[i]
		buf[0] = byte(n.Kind)
		k := 1
		k += binary.PutUvarint(buf[k:], uint64(n.Children))
		k += binary.PutUvarint(buf[k:], uint64(n.Descendants))
		_, _ = d.Write(buf[:k])
	}
	return d.Sum64()
}

// Validate checks every structural invariant of the store:
// kind arity, subtree bounds, and that each descendant count equals the sum
// of (1 + descendants) over the node's direct children.
func (s Store[T]) Validate() error {
	if len(s.nodes) == 0 {
		return api.ErrEmptyTree
	}
	if end := s.End(0); end != len(s.nodes)-1 {
		return fmt.Errorf("%w: root spans [0, %d] but store has %d nodes", api.ErrInvalidStore, end, len(s.nodes))
	}
	for i := range s.nodes {
		if err := s.validateNode(i); err != nil {
			return err
		}
	}
	return nil
}

func (s Store[T]) validateNode(i int) error {
	n := &s.nodes[i]
	switch n.Kind {
	case api.KindLeaf:
		if n.Children != 0 {
			return fmt.Errorf("%w: leaf %d has %d children", api.ErrInvalidStore, i, n.Children)
		}
	case api.KindDecorator:
		if n.Children != 1 {
			return fmt.Errorf("%w: decorator %d has %d children", api.ErrDecoratorArity, i, n.Children)
		}
	case api.KindComposite:
		if n.Children < 1 {
			return fmt.Errorf("%w: composite %d", api.ErrEmptyBranch, i)
		}
	default:
		return fmt.Errorf("%w: node %d has unknown kind %d", api.ErrInvalidStore, i, n.Kind)
	}

	end := i + n.Descendants
	if n.Descendants < 0 || end >= len(s.nodes) {
		return fmt.Errorf("%w: node %d subtree [%d, %d] exceeds store", api.ErrInvalidStore, i, i, end)
	}

	sum, count := 0, 0
	for c := i + 1; c <= end; c += 1 + s.nodes[c].Descendants {
		sum += 1 + s.nodes[c].Descendants
		count++
	}
	if sum != n.Descendants || count != n.Children {
		return fmt.Errorf("%w: node %d declares %d children/%d descendants, found %d/%d",
			api.ErrInvalidStore, i, n.Children, n.Descendants, count, sum)
	}
	return nil
}

package canopy

import (
	"fmt"

	"github.com/petrijr/canopy/internal/store"
	"github.com/petrijr/canopy/pkg/api"
)

// Builder provides a fluent API for authoring trees in pre-order:
//
//	tree, err := canopy.NewBuilder[Zombie](canopy.WithName("zombie")).
//	    Selector().
//	        Sequence().
//	            BoolLeaf(isHungry).
//	            BoolLeaf(hasFood).
//	            VoidLeaf(eat).
//	        End().
//	        Leaf(wander).
//	    End().
//	    Build()
//
// Every tree gets an implicit forwarder root, so the top level may hold
// exactly one node. Errors are sticky: the first defect is kept and
// reported by Build.
type Builder[C any] struct {
	cfg   config
	nodes store.Builder[routine[C]]
	last  int
	err   error
}

// NewBuilder starts a tree with an implicit forwarder root.
func NewBuilder[C any](opts ...Option) *Builder[C] {
	b := &Builder[C]{}
	for _, opt := range opts {
		opt(&b.cfg)
	}
	b.nodes.Open(api.KindDecorator, routine[C]{name: "root", decorator: Forwarder[C]})
	return b
}

// Err returns the first error recorded so far.
func (b *Builder[C]) Err() error {
	if b.err != nil {
		return b.err
	}
	return b.nodes.Err()
}

// Composite opens a composite node evaluated by fn. Nodes added until the
// matching End become its children.
func (b *Builder[C]) Composite(name string, fn CompositeFunc[C]) *Builder[C] {
	if !b.check(name, fn == nil) {
		return b
	}
	return b.open(api.KindComposite, routine[C]{name: name, composite: fn})
}

// Sequence opens a sequence composite.
func (b *Builder[C]) Sequence() *Builder[C] {
	return b.Composite("sequence", Sequence[C])
}

// Selector opens a selector composite.
func (b *Builder[C]) Selector() *Builder[C] {
	return b.Composite("selector", Selector[C])
}

// Decorator opens a decorator evaluated by fn. It must receive exactly one
// child before the matching End.
func (b *Builder[C]) Decorator(name string, fn DecoratorFunc[C]) *Builder[C] {
	if !b.check(name, fn == nil) {
		return b
	}
	return b.open(api.KindDecorator, routine[C]{name: name, decorator: fn})
}

// Forwarder opens a decorator that returns its child's outcome unchanged.
func (b *Builder[C]) Forwarder() *Builder[C] {
	return b.Decorator("forwarder", Forwarder[C])
}

// Inverter opens a decorator that swaps SUCCESS and FAILURE.
func (b *Builder[C]) Inverter() *Builder[C] {
	return b.Decorator("inverter", Inverter[C])
}

// Succeeder opens a decorator that always succeeds.
func (b *Builder[C]) Succeeder() *Builder[C] {
	return b.Decorator("succeeder", Succeeder[C])
}

// Leaf adds a leaf evaluated by fn.
func (b *Builder[C]) Leaf(fn LeafFunc[C]) *Builder[C] {
	if !b.check("leaf", fn == nil) {
		return b
	}
	b.last = b.nodes.Len()
	b.nodes.Leaf(routine[C]{name: "leaf", leaf: fn})
	return b
}

// BoolLeaf adds a leaf that succeeds when fn returns true.
func (b *Builder[C]) BoolLeaf(fn func(c *C) bool) *Builder[C] {
	if !b.check("leaf", fn == nil) {
		return b
	}
	return b.Leaf(BoolLeafFunc(fn))
}

// VoidLeaf adds a leaf that runs fn and always succeeds.
func (b *Builder[C]) VoidLeaf(fn func(c *C)) *Builder[C] {
	if !b.check("leaf", fn == nil) {
		return b
	}
	return b.Leaf(VoidLeafFunc(fn))
}

// Tree embeds a copy of sub as a single child. The implicit root of sub is
// kept as a forwarder, so sub's outcome passes through unchanged. The
// embedded copy carries no run state.
func (b *Builder[C]) Tree(sub Tree[C]) *Builder[C] {
	if b.Err() != nil {
		return b
	}
	if sub.nodes.Len() == 0 {
		sub = Empty[C]()
	}
	b.last = b.nodes.Len()
	b.nodes.Embed(sub.nodes)
	if b.nodes.Err() == nil && sub.name != "" {
		b.nodes.At(b.last).Value.name = sub.name
	}
	return b
}

// Named renames the most recently added node, opened branch or embedded
// tree.
func (b *Builder[C]) Named(name string) *Builder[C] {
	if b.Err() != nil || b.last == 0 {
		return b
	}
	b.nodes.At(b.last).Value.name = name
	return b
}

// End closes the innermost open composite or decorator.
func (b *Builder[C]) End() *Builder[C] {
	if b.Err() != nil {
		return b
	}
	top, ok := b.nodes.Top()
	if !ok || top == 0 {
		b.err = fmt.Errorf("%w: End without matching open", api.ErrNoOpenBranch)
		return b
	}
	b.nodes.Close()
	b.last = top
	return b
}

// Build finalizes the tree. The builder may keep being used afterwards;
// the returned tree does not share storage with it.
func (b *Builder[C]) Build() (Tree[C], error) {
	if err := b.Err(); err != nil {
		return Tree[C]{}, b.wrap(err)
	}
	if top, _ := b.nodes.Top(); top != 0 || b.nodes.Depth() != 1 {
		return Tree[C]{}, b.wrap(fmt.Errorf("%w: %d branch(es) open", api.ErrUnclosedBranch, b.nodes.Depth()-1))
	}
	if b.nodes.Len() == 1 {
		return Tree[C]{}, b.wrap(api.ErrEmptyTree)
	}

	nodes := b.nodes
	nodes.Close()
	s, err := nodes.Finish()
	if err != nil {
		return Tree[C]{}, b.wrap(err)
	}
	return newTree(s, b.cfg.name, b.cfg.observer()), nil
}

// MustBuild is like Build but panics on error.
// Useful for package-level trees.
func (b *Builder[C]) MustBuild() Tree[C] {
	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	return t
}

func (b *Builder[C]) open(kind Kind, r routine[C]) *Builder[C] {
	b.last = b.nodes.Len()
	b.nodes.Open(kind, r)
	return b
}

func (b *Builder[C]) check(name string, isNil bool) bool {
	if b.Err() != nil {
		return false
	}
	if isNil {
		b.err = fmt.Errorf("%w: %s at node %d", api.ErrNilFunc, name, b.nodes.Len())
		return false
	}
	return true
}

func (b *Builder[C]) wrap(err error) error {
	return fmt.Errorf("canopy: build %q: %w", b.cfg.name, err)
}

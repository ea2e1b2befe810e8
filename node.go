package canopy

// LeafFunc evaluates a leaf against the caller's context.
type LeafFunc[C any] func(c *C) Status

// DecoratorFunc evaluates a single-child node. It decides whether and how
// often to process child and how to transform the child's outcome.
type DecoratorFunc[C any] func(child Child[C], c *C) Status

// CompositeFunc evaluates a multi-child node by pulling children from the
// generator. Resumption after a RUNNING outcome is handled by the generator:
// the function is written as a plain left-to-right loop.
type CompositeFunc[C any] func(children *Children[C], c *C) Status

// BoolLeafFunc adapts a predicate: true yields SUCCESS and false FAILURE.
// Such a leaf can never return RUNNING.
func BoolLeafFunc[C any](fn func(c *C) bool) LeafFunc[C] {
	return func(c *C) Status {
		if fn(c) {
			return StatusSuccess
		}
		return StatusFailure
	}
}

// VoidLeafFunc adapts an action with no outcome. The leaf always succeeds.
func VoidLeafFunc[C any](fn func(c *C)) LeafFunc[C] {
	return func(c *C) Status {
		fn(c)
		return StatusSuccess
	}
}

// routine is the evaluation capability stored with each node. Exactly one
// of the function fields is set, matching the node's kind.
type routine[C any] struct {
	name      string
	leaf      LeafFunc[C]
	decorator DecoratorFunc[C]
	composite CompositeFunc[C]
}

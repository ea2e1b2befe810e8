// Package canopy provides a resumable behavior tree engine for Go.
//
// A behavior tree is built once and evaluated repeatedly against a
// caller-supplied context value. Each evaluation call returns SUCCESS,
// FAILURE or RUNNING. RUNNING means "not decided yet": the next call resumes
// at the node that returned it instead of re-running the parts of the tree
// that already settled.
//
// # Core Concepts
//
// The canopy programming model is intentionally small:
//
//  1. Tree
//  2. Builder
//  3. Cursor
//  4. Children
//  5. Runner
//
// # Tree
//
// A Tree is an immutable, flattened pre-order array of nodes. Each node
// stores its child count and descendant count, so structural navigation is
// index arithmetic: node i's first child is i+1, its subtree spans
// [i, i+DescendantCount(i)], and the node after its subtree is its next
// sibling.
//
// Node kinds are:
//   - leaf: a LeafFunc evaluated directly on the context
//   - decorator: a DecoratorFunc with exactly one child (Inverter, Succeeder, ...)
//   - composite: a CompositeFunc pulling children from a generator (Sequence, Selector, ...)
//
// Tree is a value type. Copying a tree gives an independent default run.
//
// # Builder
//
// Builder provides a fluent API that emits nodes in pre-order:
//
//	tree, err := canopy.NewBuilder[Zombie](canopy.WithName("zombie")).
//	    Selector().
//	        Sequence().
//	            BoolLeaf(isHungry).
//	            BoolLeaf(hasFood).
//	            VoidLeaf(eat).
//	        End().
//	        Sequence().
//	            BoolLeaf(isHungry).
//	            VoidLeaf(complain).
//	        End().
//	    End().
//	    Build()
//
// Structural defects (a decorator given two children, a branch closed
// without children, an unclosed branch, an empty tree) are reported by Build.
//
// # Cursor
//
// A Cursor records where a run suspended. Tree.Process uses the tree's own
// default cursor; Tree.ProcessWith takes an explicit one so many runs can
// share one tree:
//
//	cur := tree.NewCursor()
//	for tree.ProcessWith(&cur, &zombie) == canopy.StatusRunning {
//	    // wait for the next frame
//	}
//
// A cursor binds to the shape of the first tree that evaluates it. Using it
// with a different tree panics with an error wrapping ErrForeignCursor.
// Cursors are not safe for concurrent use; the tree is.
//
// # Children
//
// Composite routines receive a Children generator and pull children left to
// right. On resumption the generator starts at the child containing the
// suspended node, so custom composites get correct resumption for free:
//
//	func All[C any](children *canopy.Children[C], c *C) canopy.Status {
//	    running := false
//	    for child := range children.All() {
//	        switch child.Process(c) {
//	        case canopy.StatusFailure:
//	            return canopy.StatusFailure
//	        case canopy.StatusRunning:
//	            running = true
//	        }
//	    }
//	    if running {
//	        return canopy.StatusRunning
//	    }
//	    return canopy.StatusSuccess
//	}
//
// # Runner and Drive
//
// Drive re-invokes a tree until it settles, sleeping between calls per a
// DrivePolicy built with Poll. Runner keeps named runs over one shared tree
// and serializes calls per run, so it can be driven from many goroutines.
//
// # Observability
//
// Observers receive tick start, node completion and tick completion
// callbacks:
//
//   - NewLoggingObserver logs through log/slog
//   - BasicMetrics keeps in-process counters
//   - NewTraceObserver appends tick events to a TraceStore (in-memory, SQLite, Redis)
//   - metrics.NewPrometheusObserver exports Prometheus collectors
//
// Attach them with WithObserver or WithLogger when building the tree.
package canopy

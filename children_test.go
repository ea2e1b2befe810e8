package canopy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// all is a parallel-AND composite: every child is evaluated on each call,
// failure wins, then RUNNING.
func all(children *Children[probe], p *probe) Status {
	running := false
	for child := range children.All() {
		switch child.Process(p) {
		case StatusFailure:
			return StatusFailure
		case StatusRunning:
			running = true
		}
	}
	if running {
		return StatusRunning
	}
	return StatusSuccess
}

func TestCustomComposite_ParallelAnd(t *testing.T) {
	tree := NewBuilder[probe]().
		Composite("all", all).
		Leaf(script("a", StatusRunning, StatusSuccess)).
		Leaf(succeed("b")).
		Leaf(script("c", StatusRunning, StatusRunning, StatusSuccess)).
		End().
		MustBuild()
	p := newProbe()

	require.Equal(t, StatusRunning, tree.Process(p))
	pos, _ := tree.Cursor().Suspended()
	assert.Equal(t, 2, pos, "the first RUNNING child is the resume point")

	// Resumes at a; b and c follow it.
	require.Equal(t, StatusRunning, tree.Process(p))
	pos, _ = tree.Cursor().Suspended()
	assert.Equal(t, 4, pos)

	// Resumes at c; a and b settled on earlier calls.
	require.Equal(t, StatusSuccess, tree.Process(p))
	assert.Equal(t, []string{"a", "b", "c", "a", "b", "c", "c"}, p.order)
}

func TestCustomComposite_ParallelAndFailure(t *testing.T) {
	tree := NewBuilder[probe]().
		Composite("all", all).
		Leaf(script("a", StatusRunning)).
		Leaf(fail("b")).
		Leaf(succeed("c")).
		End().
		MustBuild()
	p := newProbe()

	require.Equal(t, StatusFailure, tree.Process(p))
	_, ok := tree.Cursor().Suspended()
	assert.False(t, ok, "failure discards the suspension recorded by a")
	assert.Zero(t, p.calls["c"])
}

// weighted picks one child by weight and sticks with it while it runs.
func weighted(weights []int, roll func() int) CompositeFunc[probe] {
	return func(children *Children[probe], p *probe) Status {
		if children.Resumed() {
			child, _ := children.Next()
			return child.Process(p)
		}
		total := 0
		for _, w := range weights {
			total += w
		}
		r := roll() % total
		for child := range children.All() {
			w := weights[children.Index()]
			if r < w {
				return child.Process(p)
			}
			r -= w
		}
		return StatusFailure
	}
}

func TestCustomComposite_WeightedSelection(t *testing.T) {
	rolls := []int{4, 0, 9}
	roll := func() int {
		r := rolls[0]
		rolls = rolls[1:]
		return r
	}

	// weights 2, 3, 5: roll 4 -> b, roll 0 -> a, roll 9 -> c
	tree := NewBuilder[probe]().
		Composite("weighted", weighted([]int{2, 3, 5}, roll)).
		Leaf(succeed("a")).
		Leaf(script("b", StatusRunning, StatusRunning, StatusSuccess)).
		Leaf(succeed("c")).
		End().
		MustBuild()
	p := newProbe()

	assert.Equal(t, StatusRunning, tree.Process(p))
	assert.Equal(t, StatusRunning, tree.Process(p), "no new roll while b runs")
	assert.Equal(t, StatusSuccess, tree.Process(p))
	assert.Equal(t, StatusSuccess, tree.Process(p))
	assert.Equal(t, StatusSuccess, tree.Process(p))
	assert.Equal(t, []string{"b", "b", "b", "a", "c"}, p.order)
	assert.Empty(t, rolls)
}

func TestChildren_GeneratorState(t *testing.T) {
	type snapshot struct {
		len     int
		resumed bool
		indexes []int
		nodes   []int
	}
	var seen []snapshot

	inspect := func(children *Children[probe], p *probe) Status {
		s := snapshot{len: children.Len(), resumed: children.Resumed()}
		assert.Equal(t, -1, children.Index(), "no child yielded yet")
		for {
			child, ok := children.Next()
			if !ok {
				break
			}
			s.indexes = append(s.indexes, children.Index())
			s.nodes = append(s.nodes, child.Index())
			if st := child.Process(p); st != StatusSuccess {
				seen = append(seen, s)
				return st
			}
		}
		_, ok := children.Next()
		assert.False(t, ok, "exhausted generator stays exhausted")
		seen = append(seen, s)
		return StatusSuccess
	}

	// 0 root
	// 1 inspect
	// 2   a
	// 3   sequence
	// 4     b
	// 5     c (RUNNING once)
	// 6   d
	tree := NewBuilder[probe]().
		Composite("inspect", inspect).
		Leaf(succeed("a")).
		Sequence().Leaf(succeed("b")).Leaf(script("c", StatusRunning, StatusSuccess)).End().
		Leaf(succeed("d")).
		End().
		MustBuild()
	p := newProbe()

	require.Equal(t, StatusRunning, tree.Process(p))
	require.Equal(t, StatusSuccess, tree.Process(p))
	require.Len(t, seen, 2)

	assert.Equal(t, snapshot{len: 3, resumed: false, indexes: []int{0, 1}, nodes: []int{2, 3}}, seen[0])
	assert.Equal(t, snapshot{len: 3, resumed: true, indexes: []int{1, 2}, nodes: []int{3, 6}}, seen[1])
	assert.Equal(t, []string{"a", "b", "c", "c", "d"}, p.order)
}

func TestChildren_LazyIndexOnDirectResume(t *testing.T) {
	var indexes []int
	track := func(children *Children[probe], p *probe) Status {
		for {
			child, ok := children.Next()
			if !ok {
				return StatusSuccess
			}
			indexes = append(indexes, children.Index())
			if st := child.Process(p); st != StatusSuccess {
				return st
			}
		}
	}

	tree := NewBuilder[probe]().
		Composite("track", track).
		Leaf(succeed("a")).
		Leaf(succeed("b")).
		Leaf(script("c", StatusRunning, StatusSuccess)).
		Leaf(succeed("d")).
		End().
		MustBuild()
	p := newProbe()

	require.Equal(t, StatusRunning, tree.Process(p))
	require.Equal(t, StatusSuccess, tree.Process(p))
	assert.Equal(t, []int{0, 1, 2, 2, 3}, indexes)
}

func TestChild_Accessors(t *testing.T) {
	var kinds []Kind
	var names []string
	collect := func(children *Children[probe], p *probe) Status {
		assert.Equal(t, 1, children.Parent())
		for child := range children.All() {
			kinds = append(kinds, child.Kind())
			names = append(names, child.Name())
		}
		return StatusSuccess
	}

	tree := NewBuilder[probe]().
		Composite("collect", collect).
		Leaf(succeed("a")).Named("first").
		Inverter().Leaf(succeed("b")).End().
		Selector().Leaf(succeed("c")).End().Named("fallback").
		End().
		MustBuild()

	require.Equal(t, StatusSuccess, tree.Process(newProbe()))
	assert.Equal(t, []Kind{KindLeaf, KindDecorator, KindComposite}, kinds)
	assert.Equal(t, []string{"first", "inverter", "fallback"}, names)
}

package main

import (
	"fmt"

	"github.com/petrijr/canopy"
)

// guard is the per-run context of the demo tree.
type guard struct {
	name     string
	route    int
	walked   int
	intruder bool
	log      []string
}

func (g *guard) logf(format string, args ...any) {
	g.log = append(g.log, fmt.Sprintf(format, args...))
}

// patrolTree raises the alarm when an intruder is spotted and otherwise
// walks the route one waypoint per tick before reporting in.
func patrolTree(opts ...canopy.Option) (canopy.Tree[guard], error) {
	return canopy.NewBuilder[guard](append([]canopy.Option{canopy.WithName("patrol")}, opts...)...).
		Selector().Named("guard").
		Sequence().Named("respond").
		BoolLeaf(func(g *guard) bool { return g.intruder }).Named("intruder?").
		VoidLeaf(func(g *guard) { g.logf("%s: alarm raised", g.name) }).Named("alarm").
		End().
		Sequence().Named("patrol").
		Leaf(walk).Named("walk").
		VoidLeaf(func(g *guard) { g.logf("%s: route clear", g.name) }).Named("report").
		End().
		End().
		Build()
}

func walk(g *guard) canopy.Status {
	if g.walked >= g.route {
		g.walked = 0
		return canopy.StatusSuccess
	}
	g.walked++
	g.logf("%s: waypoint %d/%d", g.name, g.walked, g.route)
	return canopy.StatusRunning
}

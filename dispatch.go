package canopy

import "github.com/petrijr/canopy/pkg/api"

// eval evaluates node i, whose parent is at position parent, and updates
// the cursor from the outcome.
//
// A RUNNING outcome records i unless a node inside the subtree already did
// during this pass. Starting a pass over the subtree drops what an earlier
// pass in the same call recorded there. A terminal outcome forgets any
// suspension recorded inside the subtree. Either way the subtree is no
// longer a resume target.
func (t *Tree[C]) eval(cur *Cursor, i, parent int, c *C) Status {
	n := t.nodes.At(i)
	cur.restart(i, i+n.Descendants)

	var st Status
	switch n.Kind {
	case api.KindLeaf:
		st = n.Value.leaf(c)
	case api.KindDecorator:
		st = n.Value.decorator(Child[C]{tree: t, cur: cur, pos: i + 1, parent: i}, c)
	default:
		ch := t.frame(cur, i)
		st = n.Value.composite(ch, c)
		cur.depth--
	}

	if st == StatusRunning {
		cur.suspend(i, parent)
	}
	cur.settle(i, i+n.Descendants, st)

	if t.observer != nil {
		t.observer.OnNodeCompleted(t.tickInfo(cur), api.NodeInfo{Index: i, Kind: n.Kind, Name: n.Value.name}, st)
	}
	return st
}

// frame returns the generator for the composite at i, reusing the one the
// cursor keeps for the current nesting depth.
func (t *Tree[C]) frame(cur *Cursor, i int) *Children[C] {
	d := cur.depth
	cur.depth++

	var ch *Children[C]
	if d < len(cur.frames) {
		ch, _ = cur.frames[d].(*Children[C])
	}
	if ch == nil {
		ch = &Children[C]{}
		if d < len(cur.frames) {
			cur.frames[d] = ch
		} else {
			cur.frames = append(cur.frames, ch)
		}
	}
	ch.reset(t, cur, i)
	return ch
}

func (t *Tree[C]) tickInfo(cur *Cursor) api.TickInfo {
	return api.TickInfo{
		Tree:      t.name,
		RunID:     cur.id,
		Tick:      cur.ticks,
		Resume:    cur.from - 1,
		Suspended: cur.node - 1,
	}
}

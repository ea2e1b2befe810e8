package canopy

import "fmt"

// probe is the context used across the engine tests. It counts leaf
// invocations by name and keeps the invocation order.
type probe struct {
	calls map[string]int
	order []string
}

func newProbe() *probe {
	return &probe{calls: make(map[string]int)}
}

// script returns a leaf that reports results in order, one per invocation,
// repeating the last one once exhausted.
func script(name string, results ...Status) LeafFunc[probe] {
	if len(results) == 0 {
		results = []Status{StatusSuccess}
	}
	return func(p *probe) Status {
		p.calls[name]++
		p.order = append(p.order, name)
		n := p.calls[name] - 1
		if n >= len(results) {
			n = len(results) - 1
		}
		return results[n]
	}
}

func succeed(name string) LeafFunc[probe] { return script(name, StatusSuccess) }
func fail(name string) LeafFunc[probe]    { return script(name, StatusFailure) }

// sequenceOf builds root > sequence > leaves.
func sequenceOf(leaves ...LeafFunc[probe]) Tree[probe] {
	b := NewBuilder[probe]().Sequence()
	for _, l := range leaves {
		b.Leaf(l)
	}
	return b.End().MustBuild()
}

// selectorOf builds root > selector > leaves.
func selectorOf(leaves ...LeafFunc[probe]) Tree[probe] {
	b := NewBuilder[probe]().Selector()
	for _, l := range leaves {
		b.Leaf(l)
	}
	return b.End().MustBuild()
}

// recoverError runs fn and returns the error it panicked with, if any.
func recoverError(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(error)
			if !ok {
				e = fmt.Errorf("panic: %v", r)
			}
			err = e
		}
	}()
	fn()
	return nil
}

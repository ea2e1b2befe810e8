package canopy

// Sequence returns the first outcome that is not SUCCESS, evaluating
// children left to right. It succeeds when every child succeeds.
func Sequence[C any](children *Children[C], c *C) Status {
	for {
		child, ok := children.Next()
		if !ok {
			return StatusSuccess
		}
		if st := child.Process(c); st != StatusSuccess {
			return st
		}
	}
}

// Selector returns the first outcome that is not FAILURE, evaluating
// children left to right. It fails when every child fails.
func Selector[C any](children *Children[C], c *C) Status {
	for {
		child, ok := children.Next()
		if !ok {
			return StatusFailure
		}
		if st := child.Process(c); st != StatusFailure {
			return st
		}
	}
}

// Forwarder returns its child's outcome unchanged. Builders use it as the
// implicit root of every tree.
func Forwarder[C any](child Child[C], c *C) Status {
	return child.Process(c)
}

// Inverter swaps SUCCESS and FAILURE. RUNNING passes through.
func Inverter[C any](child Child[C], c *C) Status {
	switch st := child.Process(c); st {
	case StatusSuccess:
		return StatusFailure
	case StatusFailure:
		return StatusSuccess
	default:
		return st
	}
}

// Succeeder evaluates its child for its side effects and always succeeds.
func Succeeder[C any](child Child[C], c *C) Status {
	child.Process(c)
	return StatusSuccess
}

// Noop is a leaf that always succeeds.
func Noop[C any](c *C) Status {
	return StatusSuccess
}

package gc

// Collect runs one complete stop-the-world mark-and-sweep cycle: every
// used block starts unmarked, the data segment, the current stack, and
// the transitive closure of the heap are scanned, and every block still
// white afterward is released. It returns immediately if nothing is
// allocated.
//
// Per design note 9 ("Implementers should prefer the work-list
// formulation in both modes"), marking here uses a work-list of marked
// blocks, as CollectIncremental does with its grey list, drained to
// completion in a single call with no time budget — rather than the
// source's single heap pass,
// which only achieves transitive closure because its traversal order
// happens to follow pointer dependencies.
func (c *Collector) Collect() error {
	if !c.initialized() {
		return ErrNotInitialized
	}
	if c.usedHead == 0 {
		return nil
	}

	c.resetUsedColors(white)

	var work []*header
	mark := func(v uintptr) {
		b := c.hitTest(v)
		if b == nil || b.next.color() == black {
			return
		}
		setColor(b, black)
		work = append(work, b)
	}

	if start, end, err := dataSegment(); err == nil {
		scanRange(start, end, mark)
	} else if c.cfg.Logger != nil {
		c.cfg.Logger.Printf("gc: data segment scan skipped: %v", err)
	}

	lo, hi := c.stackRange()
	scanRange(lo, hi, mark)

	for len(work) > 0 {
		b := work[len(work)-1]
		work = work[:len(work)-1]
		scanPayload(b, mark)
	}

	c.sweep()
	return nil
}

// stackRange returns the ascending [lo, hi) window between the stack
// pointer recorded at Bind and the current one, regardless of which end
// is numerically larger — the stack may grow toward higher or lower
// addresses depending on platform, and the caller only needs the two ends
// in order. Returns (0, 0), a no-op range, if Bind has never been called.
//
// If Config.StackScanLimit is set and the window is wider than it, the end
// farthest from the current stack pointer is trimmed to fit: the limit is
// a safety net against a stale or far-away stackBase, not against scanning
// close to the mutator's current frame.
func (c *Collector) stackRange() (lo, hi uintptr) {
	if !c.bound {
		return 0, 0
	}
	cur := currentStackPointer()
	growsUp := cur >= c.stackBase
	if growsUp {
		lo, hi = c.stackBase, cur
	} else {
		lo, hi = cur, c.stackBase
	}

	if limit := c.cfg.StackScanLimit; limit != 0 && hi-lo > limit {
		if growsUp {
			lo = hi - limit
		} else {
			hi = lo + limit
		}
	}
	return lo, hi
}

package gc

import (
	"time"
	"unsafe"
)

// greyCell is a node on the grey work-list: blocks that have been marked
// but not yet had their payload scanned. offset records how far into the
// block's payload the last invocation got before its time budget expired,
// so CollectIncremental can resume mid-block instead of only mid-list —
// the source never tracks this and so can only bound its *next* candidate
// comparison, not the heap scan of a single large block.
type greyCell struct {
	block  *header
	offset uintptr
	next   *greyCell
}

// blackCell records a block that has been fully scanned during the
// current cycle, so CollectIncremental's caller can observe monotonic
// progress (see Collector.BlackCount) without re-walking the used list.
type blackCell struct {
	block *header
	next  *blackCell
}

// CollectIncremental runs one time-bounded slice of an ongoing mark cycle,
// starting a fresh cycle if none is in progress. It returns once its
// MaxDelay budget is spent or the cycle completes (in which case it also
// sweeps). Calling it repeatedly until a cycle completes produces the
// same survivors as one Collect call.
func (c *Collector) CollectIncremental() error {
	if !c.initialized() {
		return ErrNotInitialized
	}
	if c.usedHead == 0 {
		return nil
	}

	if !c.collecting {
		c.resetUsedColors(white)
		c.grey = nil
		c.black = nil
		c.collecting = true
	}

	deadline := time.Now().Add(c.cfg.MaxDelay)
	overBudget := func() bool { return time.Now().After(deadline) }

	if start, end, err := dataSegment(); err == nil {
		if !c.incrementalScanRange(start, end, overBudget) {
			return nil
		}
	} else if c.cfg.Logger != nil {
		c.cfg.Logger.Printf("gc: data segment scan skipped: %v", err)
	}

	lo, hi := c.stackRange()
	if !c.incrementalScanRange(lo, hi, overBudget) {
		return nil
	}

	if !c.drainGrey(overBudget) {
		return nil
	}

	c.sweep()
	c.black = nil
	c.collecting = false
	return nil
}

// incrementalScanRange is scanRange with a per-word time budget check, so
// a suspension point falls strictly between two candidate inspections.
// Returns false if it had to stop early.
func (c *Collector) incrementalScanRange(start, end uintptr, overBudget func() bool) bool {
	for addr := start; addr+wordSize <= end; addr += wordSize {
		v := *(*uintptr)(unsafe.Pointer(addr))
		c.markGrey(v)
		if overBudget() {
			return false
		}
	}
	return true
}

// markGrey looks up the block v hits, if any, and if it is still white,
// marks it grey and pushes it onto the grey work-list. It searches the
// used list (hitTest), not the address of the word just read — the
// defect noted for the source, which instead passed the scanned word's
// own address as the candidate table.
func (c *Collector) markGrey(v uintptr) {
	b := c.hitTest(v)
	if b == nil || b.next.color() != white {
		return
	}
	setColor(b, grey)
	c.grey = &greyCell{block: b, next: c.grey}
}

// drainGrey pops the grey work-list, scanning each block's payload for
// further roots, until it is empty or the time budget expires. A block
// interrupted mid-payload stays at the head of the list with its offset
// updated, so the next call resumes exactly where this one stopped.
// Returns false if it had to stop early.
func (c *Collector) drainGrey(overBudget func() bool) bool {
	for c.grey != nil {
		cell := c.grey
		c.grey = cell.next
		b := cell.block

		if b.next.color() != grey {
			// Superseded: already advanced past grey by some other path.
			continue
		}

		addr := b.payload() + cell.offset
		end := b.payloadEnd()
		for addr+wordSize <= end {
			v := *(*uintptr)(unsafe.Pointer(addr))
			c.markGrey(v)
			addr += wordSize
			if overBudget() {
				cell.offset = addr - b.payload()
				cell.next = c.grey
				c.grey = cell
				return false
			}
		}

		setColor(b, black)
		c.black = &blackCell{block: b, next: c.black}
	}
	return true
}

// BlackCount returns the number of blocks fully scanned so far in the
// current incremental cycle, for observing monotonic progress (§8 time-
// budget-resumption scenario). It is 0 outside an active cycle.
func (c *Collector) BlackCount() int {
	n := 0
	for cell := c.black; cell != nil; cell = cell.next {
		n++
	}
	return n
}

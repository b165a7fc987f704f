package gc

// setColor overwrites block's own color tag, leaving its link address
// unchanged.
func setColor(block *header, c color) {
	block.next = block.next.recolor(c)
}

// resetUsedColors sets every used-list block's own color tag to c. Used
// to reset to white at the start of a stop-the-world cycle (§4.4 step 1)
// and at the IDLE -> MARKING transition of an incremental cycle (§4.6).
func (c *Collector) resetUsedColors(col color) {
	if c.usedHead == 0 {
		return
	}
	start := headerAt(c.usedHead)
	cur := start
	for {
		setColor(cur, col)
		cur = headerAt(cur.next.addr())
		if cur.addr() == start.addr() {
			return
		}
	}
}

// sweep releases every white block in the used list back to the free
// list, repairs the surrounding links, and sets usedHead to 0 if nothing
// survives. Every block that survives is reset to WHITE before sweep
// returns, so the invariant that the used list is all-white outside an
// active cycle (§8) holds the instant a cycle ends, whether that cycle
// was a single Collect call or the final CollectIncremental slice of one.
// Shared by the stop-the-world collector (§4.4 step 5) and the
// incremental collector's final step (§4.6 step 4), per the source, which
// names the same sweep for both.
//
// The source's own sweep never examines usedp itself as a sweep
// candidate — its loop starts at usedp->next and stops as soon as it
// walks back around to usedp, so a white head block is silently kept
// alive forever. That is corrected here, and the fix-up is done in a
// single bounded pass rather than a free-the-head-then-walk-the-rest
// split: freeing usedHead itself, and potentially several more nodes in a
// row, still needs the true circular predecessor of the original head
// relinked once the run of frees ends, and an address equal to the
// original head is not a safe loop terminator once that very node may
// have already been released. So sweep first counts the ring and locates
// that predecessor in a read-only pass, then walks exactly that many
// steps, each using the node's own next pointer captured before any
// release call that might retarget it.
func (c *Collector) sweep() {
	if c.usedHead == 0 {
		return
	}

	origHead := c.usedHead

	n := 0
	pred := headerAt(origHead)
	for {
		n++
		next := headerAt(pred.next.addr())
		if next.addr() == origHead {
			break
		}
		pred = next
	}

	prev := pred
	cur := headerAt(origHead)
	for i := 0; i < n; i++ {
		next := headerAt(cur.next.addr())
		if cur.next.color() == white {
			wasHead := cur.addr() == c.usedHead
			onlyNode := prev.addr() == cur.addr()
			c.release(cur)
			if onlyNode {
				c.usedHead = 0
				return
			}
			// Leave prev unchanged except for its target address: its
			// own color tag must survive the relink. (The source's
			// nonsense write into prev->next is in the survivor branch
			// below, which here only advances prev and cur.)
			prev.next = tag(next.addr(), prev.next.color())
			if wasHead {
				c.usedHead = next.addr()
			}
			cur = next
		} else {
			prev = cur
			cur = next
		}
	}

	c.resetUsedColors(white)
}

package gc

// findInsertionPoint walks the free list starting from the roving pointer
// and returns the free block cur such that inserting a new free block at
// address blockAddr immediately after cur preserves address order.
//
// The free list is circular, so exactly one adjacent pair (cur, cur.next)
// has cur.addr() >= next.addr(): that is the wrap point, where the
// highest-addressed free block's next is the lowest-addressed one (or the
// sentinel, when the list holds a single block). Any blockAddr that falls
// outside the span covered by the rest of the list — above the highest
// free block or below the lowest — belongs there. This explicit two-way
// split (rather than a single loop condition trying to do both jobs at
// once) is what keeps the search from spinning forever on an address
// outside the list's current span, the defect noted for the source's
// add_to_free.
func (c *Collector) findInsertionPoint(blockAddr uintptr) *header {
	cur := headerAt(c.freeRover)
	for {
		next := headerAt(cur.next.addr())
		if cur.addr() < next.addr() {
			if blockAddr > cur.addr() && blockAddr < next.addr() {
				return cur
			}
		} else {
			if blockAddr > cur.addr() || blockAddr < next.addr() {
				return cur
			}
		}
		cur = next
	}
}

// release inserts block into the free list at its address-ordered
// position and coalesces it with either physical neighbor that is already
// free. block.size must already describe the block being released.
func (c *Collector) release(block *header) {
	cur := c.findInsertionPoint(block.addr())
	next := headerAt(cur.next.addr())

	if block.addr()+block.size*headerSize == next.addr() {
		// block's upper edge touches next exactly: absorb next into block.
		block.size += next.size
		block.next = next.next
	} else {
		block.next = tag(next.addr(), white)
	}

	if cur.addr()+cur.size*headerSize == block.addr() {
		// cur's upper edge touches block exactly: absorb block into cur.
		cur.size += block.size
		cur.next = block.next
	} else {
		cur.next = tag(block.addr(), white)
	}

	c.freeRover = cur.addr()
}

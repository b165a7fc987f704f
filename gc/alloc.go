package gc

import "unsafe"

// Allocate returns a pointer to a payload of at least n bytes, correctly
// aligned for any object the client can place there. The returned block
// is threaded into the used list and is white (unmarked). Payload bytes
// are not zeroed.
func (c *Collector) Allocate(n uintptr) (unsafe.Pointer, error) {
	if !c.initialized() {
		return nil, ErrNotInitialized
	}

	units, err := blockUnits(n)
	if err != nil {
		return nil, err
	}

	prev := headerAt(c.freeRover)
	cur := headerAt(prev.next.addr())

	for {
		switch {
		case cur.size < units:
			if cur.addr() == c.freeRover {
				// A full circuit of the free list found nothing big
				// enough; grow the heap and resume the search from
				// wherever morecore left the roving pointer.
				if err := c.morecore(units); err != nil {
					return nil, err
				}
				prev = headerAt(c.freeRover)
				cur = headerAt(prev.next.addr())
				continue
			}
			prev = cur
			cur = headerAt(cur.next.addr())
			continue

		case cur.size > units:
			// Carve the tail off the oversized block: the lower region
			// stays free and shrinks, the upper region becomes the
			// allocated block.
			cur.size -= units
			tail := headerAt(cur.addr() + cur.size*headerSize)
			tail.size = units
			cur = tail

		default:
			// Exact fit: remove cur from the free list entirely.
			prev.next = tag(cur.next.addr(), white)
		}
		break
	}

	c.linkUsed(cur)
	c.freeRover = prev.addr()

	return unsafe.Pointer(cur.payload()), nil
}

// blockUnits converts a requested payload size in bytes into a unit count
// that includes the header, rejecting sizes whose unit count would
// overflow uintptr arithmetic.
func blockUnits(n uintptr) (uintptr, error) {
	maxUintptr := ^uintptr(0)
	if n > maxUintptr-2*headerSize {
		return 0, ErrOutOfMemory
	}
	return (n+headerSize-1)/headerSize + 1, nil
}

// linkUsed splices block into the used list immediately after the head,
// preserving the head's own color tag and giving block the white tag
// every newly allocated block starts with.
func (c *Collector) linkUsed(block *header) {
	if c.usedHead == 0 {
		block.next = tag(block.addr(), white)
		c.usedHead = block.addr()
		return
	}
	head := headerAt(c.usedHead)
	block.next = tag(head.next.addr(), white)
	head.next = tag(block.addr(), head.next.color())
}

package gc

import (
	"testing"
	"unsafe"
)

// threeUsedBlocks carves three physically separate, back-to-back header
// records out of a single Go-heap buffer, the same trick
// threeAdjacentBlocks uses for the free list tests, but leaves size
// unset only for fields the caller doesn't need — here all three are
// always given a size so release can run on any of them.
func threeUsedBlocks(unit uintptr) (a, b, c *header) {
	buf := make([]header, unit*3)
	base := uintptr(unsafe.Pointer(&buf[0]))
	a = headerAt(base)
	b = headerAt(base + unit*headerSize)
	c = headerAt(base + 2*unit*headerSize)
	a.size, b.size, c.size = unit, unit, unit
	return a, b, c
}

// ringUsed threads three blocks into a circular used list a -> b -> c -> a,
// giving each block its own color as the tag on its own next pointer.
func ringUsed(a, b, cc *header, colorA, colorB, colorC color) {
	a.next = tag(b.addr(), colorA)
	b.next = tag(cc.addr(), colorB)
	cc.next = tag(a.addr(), colorC)
}

// TestSweepRelinksTruePredecessorOfFreedHead reproduces the exact scenario
// identified in review: a 3-node ring where the used-list head itself is
// white and must be freed, a second node survives, and a third (also
// white) follows it back around to the head. A sweep that only advances a
// local head/next pair without first locating the ring's true circular
// predecessor of the original head corrupts the survivor's link into an
// already-released block instead of closing the ring onto itself.
func TestSweepRelinksTruePredecessorOfFreedHead(t *testing.T) {
	const unit = 4
	c := newEmptyCollector(t)
	h0, h1, h2 := threeUsedBlocks(unit)
	ringUsed(h0, h1, h2, white, black, white)
	c.usedHead = h0.addr()

	c.sweep()

	if c.usedHead != h1.addr() {
		t.Fatalf("expected usedHead %#x (sole survivor), got %#x", h1.addr(), c.usedHead)
	}
	if got := h1.next.addr(); got != h1.addr() {
		t.Fatalf("expected surviving block to self-loop at %#x, got %#x", h1.addr(), got)
	}
	if got := h1.next.color(); got != white {
		t.Fatalf("expected surviving block reset to white, got %s", got)
	}
}

// TestSweepAllWhiteRingEmptiesUsedList exercises the degenerate case where
// every block in the ring is garbage, including the head: a sweep that
// treats "wrapped back onto the original head's now-stale address" as
// still-live would re-release the head a second time instead of reporting
// an empty used list.
func TestSweepAllWhiteRingEmptiesUsedList(t *testing.T) {
	const unit = 4
	c := newEmptyCollector(t)
	h0, h1, h2 := threeUsedBlocks(unit)
	ringUsed(h0, h1, h2, white, white, white)
	c.usedHead = h0.addr()

	c.sweep()

	if c.usedHead != 0 {
		t.Fatalf("expected usedHead 0 after sweeping an all-white ring, got %#x", c.usedHead)
	}
}

// TestSweepHeadSurvivesMiddleBlockFreed checks the ordinary case where the
// head is not garbage: only the middle block is white and must be
// removed, leaving the head's own address as usedHead, now pointing
// straight at the block that used to follow the one just freed.
func TestSweepHeadSurvivesMiddleBlockFreed(t *testing.T) {
	const unit = 4
	c := newEmptyCollector(t)
	h0, h1, h2 := threeUsedBlocks(unit)
	ringUsed(h0, h1, h2, black, white, black)
	c.usedHead = h0.addr()

	c.sweep()

	if c.usedHead != h0.addr() {
		t.Fatalf("expected usedHead unchanged at %#x, got %#x", h0.addr(), c.usedHead)
	}
	if got := h0.next.addr(); got != h2.addr() {
		t.Fatalf("expected head to link directly to surviving block %#x, got %#x", h2.addr(), got)
	}
	if got := h2.next.addr(); got != h0.addr() {
		t.Fatalf("expected ring closed back onto head %#x, got %#x", h0.addr(), got)
	}
	if got := h0.next.color(); got != white {
		t.Fatalf("expected head reset to white, got %s", got)
	}
	if got := h2.next.color(); got != white {
		t.Fatalf("expected surviving tail block reset to white, got %s", got)
	}
}

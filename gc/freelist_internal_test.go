package gc

import (
	"testing"
	"time"
	"unsafe"
)

// newEmptyCollector builds a Collector whose free list holds nothing but
// the sentinel, ready for tests that hand it hand-built blocks directly
// via release rather than going through morecore.
func newEmptyCollector(t *testing.T) *Collector {
	t.Helper()
	c, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

// threeAdjacentBlocks carves a single Go-heap buffer into three
// back-to-back blocks of unit header-units each, addresses strictly
// ascending and physically contiguous, without threading any of them
// into a free or used list.
func threeAdjacentBlocks(unit uintptr) (low, mid, high *header) {
	buf := make([]header, unit*3)
	base := uintptr(unsafe.Pointer(&buf[0]))
	low = headerAt(base)
	mid = headerAt(base + unit*headerSize)
	high = headerAt(base + 2*unit*headerSize)
	low.size, mid.size, high.size = unit, unit, unit
	return low, mid, high
}

func TestFreeListCoalescesMixedReleaseOrder(t *testing.T) {
	const unit = 4
	c := newEmptyCollector(t)
	low, mid, high := threeAdjacentBlocks(unit)

	// Release low, then high, then mid: low and high each coalesce with
	// nothing at first (their one real neighbor, mid, is not yet free),
	// then mid's release touches both sides at once and must merge all
	// three into a single run.
	c.release(low)
	c.release(high)
	c.release(mid)

	free := headerAt(c.freeSentinel.next.addr())
	if free.addr() != low.addr() {
		t.Fatalf("expected the sole free block to start at low (%#x), got %#x", low.addr(), free.addr())
	}
	if free.size != unit*3 {
		t.Fatalf("expected coalesced size %d, got %d", unit*3, free.size)
	}
	if free.next.addr() != c.freeSentinel.addr() {
		t.Fatal("expected exactly one free block after full coalescing")
	}
}

func TestFreeListInsertionTerminatesOutsideCurrentSpan(t *testing.T) {
	// A block whose address falls outside the span currently covered by
	// the free list (above the highest free block, or below the lowest)
	// must still terminate instead of spinning forever around the
	// circular list — the defect documented for the source's
	// add_to_free.
	const unit = 4
	c := newEmptyCollector(t)
	low, _, high := threeAdjacentBlocks(unit)

	c.release(low)
	c.release(high)

	other := make([]header, unit)
	otherBlock := &other[0]
	otherBlock.size = unit

	done := make(chan *header, 1)
	go func() {
		done <- c.findInsertionPoint(otherBlock.addr())
	}()

	select {
	case cur := <-done:
		if cur == nil {
			t.Fatal("findInsertionPoint returned nil")
		}
	case <-time.After(time.Second):
		t.Fatal("findInsertionPoint did not terminate for an out-of-span address")
	}
}

package gc

import "testing"

// TestStackRangeUnclampedByDefault checks that a zero StackScanLimit (the
// default) leaves the full stack window intact.
func TestStackRangeUnclampedByDefault(t *testing.T) {
	c := newEmptyCollector(t)
	c.bound = true
	cur := currentStackPointer()
	c.stackBase = cur - 1000

	lo, hi := c.stackRange()
	if lo != c.stackBase || hi != cur {
		t.Fatalf("expected full window [%#x, %#x), got [%#x, %#x)", c.stackBase, cur, lo, hi)
	}
}

// TestStackRangeClampedGrowingUp covers a stack growing toward higher
// addresses (stackBase below the current pointer): StackScanLimit must
// trim the far end, away from the current frame, not the near end.
func TestStackRangeClampedGrowingUp(t *testing.T) {
	c := newEmptyCollector(t)
	c.cfg.StackScanLimit = 16
	c.bound = true
	cur := currentStackPointer()
	c.stackBase = cur - 1000

	lo, hi := c.stackRange()
	if hi != cur {
		t.Fatalf("expected window to still end at the current stack pointer %#x, got hi=%#x", cur, hi)
	}
	if hi-lo != 16 {
		t.Fatalf("expected window width 16, got %d ([%#x, %#x))", hi-lo, lo, hi)
	}
}

// TestStackRangeClampedGrowingDown mirrors the above for a stack growing
// toward lower addresses (stackBase above the current pointer).
func TestStackRangeClampedGrowingDown(t *testing.T) {
	c := newEmptyCollector(t)
	c.cfg.StackScanLimit = 16
	c.bound = true
	cur := currentStackPointer()
	c.stackBase = cur + 1000

	lo, hi := c.stackRange()
	if lo != cur {
		t.Fatalf("expected window to still start at the current stack pointer %#x, got lo=%#x", cur, lo)
	}
	if hi-lo != 16 {
		t.Fatalf("expected window width 16, got %d ([%#x, %#x))", hi-lo, lo, hi)
	}
}

// TestStackRangeUnboundIsNoop checks that a never-Bind'd collector still
// returns the (0, 0) no-op range regardless of StackScanLimit.
func TestStackRangeUnboundIsNoop(t *testing.T) {
	c := newEmptyCollector(t)
	c.cfg.StackScanLimit = 16

	lo, hi := c.stackRange()
	if lo != 0 || hi != 0 {
		t.Fatalf("expected (0, 0) for an unbound collector, got (%#x, %#x)", lo, hi)
	}
}

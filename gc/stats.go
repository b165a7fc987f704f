package gc

import (
	"fmt"
	"log"
	"os"

	"github.com/inhies/go-bytesize"
	"github.com/mattn/go-colorable"
)

// NewStatsLogger wraps f (typically os.Stdout) with go-colorable, which
// translates ANSI color escape sequences for consoles that need it; on
// platforms where colorable has nothing to translate it hands f back
// unchanged. The reports Statistics writes are plain text and contain no
// color codes of their own.
func NewStatsLogger(f *os.File) *log.Logger {
	return log.New(colorable.NewColorable(f), "", 0)
}

// Fragmentation returns the fraction of free-list capacity that sits in
// gaps between used blocks: gap_bytes / (free_bytes + gap_bytes), where
// gap_bytes sums the distance between one free block's end and the next
// free block's header across every pair of consecutive free-list blocks
// (the list is kept in address order). It is 0 when
// the free list holds no real blocks (only the sentinel).
//
// The sentinel's own address is meaningless as a point in the heap's
// address space — it lives wherever the Go allocator happened to place
// the Collector, not in the mmap'd arena — so pairs involving it are
// excluded from the gap sum. The source's literal translation of this
// computation subtracts straight through the sentinel's pointer, which
// would poison the ratio with a huge, meaningless term whenever the
// sentinel sits directly before or after a real free block.
func (c *Collector) Fragmentation() float64 {
	sentinel := &c.freeSentinel
	var freeBytes, gapBytes uintptr

	cur := sentinel
	for {
		freeBytes += cur.size * headerSize
		next := headerAt(cur.next.addr())
		if cur != sentinel && next != sentinel && next.addr() > cur.payloadEnd() {
			gapBytes += next.addr() - cur.payloadEnd()
		}
		cur = next
		if cur == sentinel {
			break
		}
	}

	if freeBytes+gapBytes == 0 {
		return 0
	}
	return float64(gapBytes) / float64(freeBytes+gapBytes)
}

// Statistics writes a human-readable summary of the free and used lists
// to c.cfg.Logger (a no-op if Logger is nil) and returns the fraction of
// accounted-for memory that is currently free. When verbose, each
// section also lists every block's address and size, the way the
// source's print_statistics does with its "(%p, %d)" pairs.
func (c *Collector) Statistics(verbose bool) (float64, error) {
	if !c.initialized() {
		return 0, ErrNotInitialized
	}
	freeBytes, freeCount := c.freeTotals()
	usedBytes, usedCount := c.usedTotals()

	if c.cfg.Logger != nil {
		c.writeSection("Free Blocks", freeCount, freeBytes, verbose, c.freeBlocks)
		c.writeSection("Used Blocks", usedCount, usedBytes, verbose, c.usedBlocks)
	}

	if freeBytes+usedBytes == 0 {
		return 0, nil
	}
	return float64(freeBytes) / float64(freeBytes+usedBytes), nil
}

// StatisticsTo is Statistics, but writing to logger instead of c's own
// configured Logger for this one call. Useful for a host process that
// wants to redirect a single report (e.g. to a freshly opened log file)
// without reconstructing the Collector just to change Config.Logger.
func (c *Collector) StatisticsTo(logger *log.Logger, verbose bool) (float64, error) {
	prev := c.cfg.Logger
	c.cfg.Logger = logger
	defer func() { c.cfg.Logger = prev }()
	return c.Statistics(verbose)
}

func (c *Collector) writeSection(title string, count int, total uintptr, verbose bool, blocks func(yield func(addr, size uintptr))) {
	if count == 0 {
		c.cfg.Logger.Printf("--- no %s ---", lowerFirst(title))
		return
	}
	c.cfg.Logger.Printf("--- %s ---", title)
	if verbose {
		var b fmt.Stringer = verboseList(blocks)
		c.cfg.Logger.Printf("sizes: %s", b)
	}
	c.cfg.Logger.Printf("%s: %s (%d blocks)", title, bytesize.New(float64(total)), count)
}

type verboseList func(yield func(addr, size uintptr))

func (v verboseList) String() string {
	s := ""
	v(func(addr, size uintptr) {
		s += fmt.Sprintf(" (%#x, %s)", addr, bytesize.New(float64(size)))
	})
	return s
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]+('a'-'A')) + s[1:]
}

func (c *Collector) freeTotals() (total uintptr, count int) {
	sentinel := &c.freeSentinel
	cur := headerAt(sentinel.next.addr())
	for cur != sentinel {
		total += cur.bytes()
		count++
		cur = headerAt(cur.next.addr())
	}
	return total, count
}

func (c *Collector) usedTotals() (total uintptr, count int) {
	if c.usedHead == 0 {
		return 0, 0
	}
	start := headerAt(c.usedHead)
	cur := start
	for {
		total += cur.bytes()
		count++
		cur = headerAt(cur.next.addr())
		if cur.addr() == start.addr() {
			return total, count
		}
	}
}

func (c *Collector) freeBlocks(yield func(addr, size uintptr)) {
	sentinel := &c.freeSentinel
	cur := headerAt(sentinel.next.addr())
	for cur != sentinel {
		yield(cur.addr(), cur.bytes())
		cur = headerAt(cur.next.addr())
	}
}

func (c *Collector) usedBlocks(yield func(addr, size uintptr)) {
	if c.usedHead == 0 {
		return
	}
	start := headerAt(c.usedHead)
	cur := start
	for {
		yield(cur.addr(), cur.bytes())
		cur = headerAt(cur.next.addr())
		if cur.addr() == start.addr() {
			return
		}
	}
}

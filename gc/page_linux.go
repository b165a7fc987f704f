//go:build linux

package gc

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// morecore obtains at least max(units, PageSize/headerSize) fresh header
// units of anonymous read-write memory from the OS, packages it as a
// single free block, and releases it into the free list. It never returns
// memory to the OS; like the source, released blocks only ever flow back
// into the free list, never back to mmap's counterpart munmap.
//
// An anonymous MAP_PRIVATE mapping is used rather than brk-style growth,
// per §4.5: brk cannot coexist with the host process's own allocator
// (Go's own runtime allocates from its own arenas, never brk, but the
// constraint is kept here since it is also what makes this safe to call
// from a cgo-free, multi-allocator host).
func (c *Collector) morecore(units uintptr) error {
	pageUnits := c.cfg.PageSize / headerSize
	if units < pageUnits {
		units = pageUnits
	}
	length := int(units * headerSize)

	data, err := unix.Mmap(-1, 0, length,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return fmt.Errorf("%w: mmap %d bytes: %v", ErrOutOfMemory, length, err)
	}

	block := headerAt(uintptr(unsafe.Pointer(&data[0])))
	block.size = units
	c.release(block)
	return nil
}

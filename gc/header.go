package gc

import "unsafe"

// color is the two-bit tag packed into the low bits of a used-list
// next-pointer. Stop-the-world marking only ever uses white and black;
// incremental marking additionally uses grey for work still on the list.
type color uintptr

const (
	white color = 0
	black color = 1
	grey  color = 2

	colorMask = taggedAddr(0x3)
)

func (c color) String() string {
	switch c {
	case white:
		return "white"
	case black:
		return "black"
	case grey:
		return "grey"
	default:
		return "invalid"
	}
}

// taggedAddr is a header address with a color tag folded into its low two
// bits. It is deliberately a uintptr and not unsafe.Pointer: these values
// address blocks carved out of pages obtained directly from the OS (see
// page_linux.go), never memory the Go runtime's own collector is asked to
// trace, so keeping them untyped here avoids ever handing the host
// runtime's GC a pointer into memory it doesn't own.
type taggedAddr uintptr

// tag folds color c into addr's low bits, discarding any tag addr may
// already carry.
func tag(addr uintptr, c color) taggedAddr {
	return taggedAddr(addr) &^ colorMask | taggedAddr(c)
}

// addr strips the color tag and returns the real header address.
func (t taggedAddr) addr() uintptr {
	return uintptr(t &^ colorMask)
}

// color returns the two-bit tag.
func (t taggedAddr) color() color {
	return color(t & colorMask)
}

// recolor returns t with its address unchanged and its tag replaced by c.
func (t taggedAddr) recolor(c color) taggedAddr {
	return tag(t.addr(), c)
}

// header is the fixed record prepended to every block, free or used. size
// counts header-sized units and includes the header itself; a block's
// payload therefore spans (size-1) units starting immediately after the
// header. next threads the block into exactly one of the free or used
// list; free-list next-pointers never carry a tag (they are always
// effectively white), used-list next-pointers carry the block's color.
type header struct {
	size uintptr
	next taggedAddr
}

// headerSize is the alignment quantum used for the size field and for
// payload alignment: one unit equals one header.
const headerSize = unsafe.Sizeof(header{})

// headerAt reinterprets addr, which must be the address of a live header,
// as a *header.
func headerAt(addr uintptr) *header {
	return (*header)(unsafe.Pointer(addr))
}

// addr returns h's own address.
func (h *header) addr() uintptr {
	return uintptr(unsafe.Pointer(h))
}

// payload returns the address one header-unit past h, i.e. the first byte
// of the block's payload.
func (h *header) payload() uintptr {
	return h.addr() + headerSize
}

// payloadEnd returns the address one unit past the block's last payload
// byte: header address + size units. Candidate pointers are allowed to
// equal this address (an intentionally inclusive upper bound, see scan.go)
// to accommodate clients holding a legitimate one-past-the-end pointer.
func (h *header) payloadEnd() uintptr {
	return h.addr() + h.size*headerSize
}

// bytes returns the usable payload size of the block in bytes.
func (h *header) bytes() uintptr {
	return (h.size - 1) * headerSize
}

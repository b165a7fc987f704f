package gc

import "unsafe"

// currentStackPointer is this port's platform hook for "the current frame
// pointer" called for in design note 9: the source reads the hardware RBP
// register with inline assembly, a technique that does not survive
// translation to a language whose stacks can grow and move underneath a
// running goroutine. Instead this takes the address of a local variable in
// a function the compiler is forbidden to inline, which satisfies the same
// contract the source relies on — the returned address lies within the
// current call's activation record and is no younger than any live local
// the caller holds — without assuming a fixed hardware stack layout.
//
//go:noinline
func currentStackPointer() uintptr {
	var probe byte
	return uintptr(unsafe.Pointer(&probe))
}

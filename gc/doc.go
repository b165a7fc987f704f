// Package gc implements a conservative, tracing, mark-and-sweep garbage
// collector for memory obtained directly from the OS via mmap: a free-list
// allocator in front of anonymous pages, a used list carrying tri-color
// marks folded into each block's own link field, and both a stop-the-world
// collector and a time-bounded incremental one sharing the same mark core.
//
// A Collector is never a package-level global; construct one with New or
// NewDefault and call Bind from the goroutine that will later call Collect
// or CollectIncremental, so the collector knows that goroutine's current
// stack position as the base of its conservative stack scan.
package gc

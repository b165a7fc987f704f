package gc

import "errors"

// ErrOutOfMemory is returned from Allocate when the OS refuses to supply
// more pages, or when the requested size overflows the unit calculation.
var ErrOutOfMemory = errors.New("gc: out of memory")

// ErrNotInitialized is returned, with no other effect, by Allocate,
// Collect, CollectIncremental and Statistics when they are invoked on a
// nil Collector (what a failed New returns) or one not built by New.
var ErrNotInitialized = errors.New("gc: collector not initialized")

// ErrPlatformUnsupported is returned from New when the process-info
// facility or the data-segment discovery this platform needs is
// unavailable. A Collector that failed with this error is unusable.
var ErrPlatformUnsupported = errors.New("gc: platform unsupported")

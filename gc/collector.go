package gc

// Collector is a conservative mark-and-sweep heap. The zero value is not
// usable; construct one with New. A Collector must not be copied after
// first use — like sync.Mutex, its address is load-bearing: the free list
// is anchored at &c.freeSentinel, and taking that address after a copy
// would point at a different list than the one blocks are threaded into.
type Collector struct {
	cfg Config

	// freeSentinel anchors the free list: a zero-size header that is
	// always present, even when every other free block has been
	// allocated out. freeRover starts out pointing at it.
	freeSentinel header
	freeRover    uintptr

	// usedHead is 0 when no block is allocated, otherwise the address of
	// an arbitrary member of the (circular) used list.
	usedHead uintptr

	// Incremental mark state. Persists across CollectIncremental calls so
	// a cycle can resume where the time budget cut it off.
	collecting bool
	grey       *greyCell
	black      *blackCell

	// stackBase is the stack pointer captured when Bind last ran, the
	// "older" end of the conservatively scanned stack window.
	stackBase uintptr
	bound     bool
}

// New constructs a Collector from cfg, which is validated with
// Config.Verify. The returned Collector still needs Bind called from the
// mutator goroutine before Collect or CollectIncremental can find stack
// roots; NewDefault does both steps at once for the common case of a
// single-goroutine mutator.
func New(cfg Config) (*Collector, error) {
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	if !platformSupported() {
		return nil, ErrPlatformUnsupported
	}

	c := &Collector{cfg: cfg}
	c.freeSentinel.size = 0
	c.freeSentinel.next = tag(c.freeSentinel.addr(), white)
	c.freeRover = c.freeSentinel.addr()
	return c, nil
}

// NewDefault is New(DefaultConfig()) followed by Bind, for callers that
// construct and use the Collector from the same goroutine.
func NewDefault() (*Collector, error) {
	c, err := New(DefaultConfig())
	if err != nil {
		return nil, err
	}
	c.Bind()
	return c, nil
}

// Bind records the calling goroutine's current stack position as the
// collector's stack base, the "older" end of every future stack scan.
// Bind is idempotent only in the sense that calling it again moves the
// base; it is not safe to call concurrently with Collect or
// CollectIncremental. Every later Collect/CollectIncremental call must
// happen on the same goroutine that called Bind: Go's goroutine stacks
// are growable and relocatable, so a stack base recorded on one goroutine
// is meaningless once read from another.
func (c *Collector) Bind() {
	c.stackBase = currentStackPointer()
	c.bound = true
}

// initialized reports whether c is ready to serve Allocate/Collect calls.
func (c *Collector) initialized() bool {
	return c != nil && c.freeRover != 0
}

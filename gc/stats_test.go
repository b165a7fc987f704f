package gc_test

import (
	"bytes"
	"log"
	"os"
	"testing"

	"github.com/dumpster-gc/dumpster/gc"
)

func TestNewStatsLoggerWritesThrough(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	defer r.Close()

	logger := gc.NewStatsLogger(w)
	logger.Print("probe")
	w.Close()

	buf := make([]byte, 64)
	n, _ := r.Read(buf)
	if n == 0 {
		t.Fatal("NewStatsLogger's writer produced no output")
	}
	if !bytes.Contains(buf[:n], []byte("probe")) {
		t.Fatalf("output %q does not contain the logged message", buf[:n])
	}
}

func TestStatisticsReportsAllocatedBytes(t *testing.T) {
	var buf bytes.Buffer
	cfg := gc.DefaultConfig()
	cfg.Logger = log.New(&buf, "", 0)

	c, err := gc.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Bind()

	if _, err := c.Allocate(256); err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	frac, err := c.Statistics(true)
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if frac < 0 || frac > 1 {
		t.Fatalf("free fraction %v out of [0,1]", frac)
	}
	if buf.Len() == 0 {
		t.Fatal("Statistics with a non-nil Logger produced no output")
	}
}

func TestFragmentationZeroOnEmptyHeap(t *testing.T) {
	c := newTestCollector(t)
	if got := c.Fragmentation(); got != 0 {
		t.Fatalf("Fragmentation on a freshly constructed heap = %v, want 0", got)
	}
}

// Command dumpster-stat periodically appends a collector's usage and
// fragmentation statistics to a shared file, advisory-locked with
// github.com/gofrs/flock so concurrent writers (e.g. several instances
// sharing one log) never interleave a line.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gofrs/flock"

	"github.com/dumpster-gc/dumpster/gc"
)

func main() {
	path := flag.String("out", "dumpster-stat.log", "file to append statistics lines to")
	interval := flag.Duration("interval", time.Second, "how often to sample")
	verbose := flag.Bool("v", false, "include per-block sizes in each sample")
	flag.Parse()

	c, err := gc.NewDefault()
	if err != nil {
		fmt.Fprintln(os.Stderr, "dumpster-stat:", err)
		os.Exit(1)
	}

	lock := flock.New(*path + ".lock")

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for range ticker.C {
		if err := sample(c, lock, *path, *verbose); err != nil {
			log.Println("dumpster-stat:", err)
		}
	}
}

// sample takes an exclusive advisory lock on lock, appends one statistics
// report to path (the Statistics section lines, then one summary line with
// timestamp, free fraction and fragmentation), and releases the lock
// before returning.
func sample(c *gc.Collector, lock *flock.Flock, path string, verbose bool) error {
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock: %w", err)
	}
	defer lock.Unlock()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	logger := gc.NewStatsLogger(f)
	free, err := c.StatisticsTo(logger, verbose)
	if err != nil {
		return fmt.Errorf("statistics: %w", err)
	}

	logger.Printf("timestamp=%s free_fraction=%f fragmentation=%f",
		time.Now().UTC().Format(time.RFC3339), free, c.Fragmentation())
	return nil
}

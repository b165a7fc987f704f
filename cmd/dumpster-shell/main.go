// Command dumpster-shell is an interactive REPL for exercising a
// *gc.Collector by hand: alloc, free (via collect), and inspect a heap one
// command at a time.
package main

import (
	"fmt"
	"os"
	"strconv"
	"unicode"

	"github.com/google/shlex"
	"github.com/mattn/go-tty"

	"github.com/dumpster-gc/dumpster/gc"
)

// heldSlots is the shell's root set: a fixed package-level array of
// addresses, which is to say a slice of the process data segment the
// collector's own conservative scan walks. A Go map or slice living on the
// Go heap would not do — Collect and CollectIncremental only ever look at
// this binary's data/BSS segment, the mutator's stack, and blocks reachable
// from those, so anything meant to outlive a collection has to sit
// somewhere one of those scans can actually see it.
var heldSlots [256]uintptr

func main() {
	c, err := gc.NewDefault()
	if err != nil {
		fmt.Fprintln(os.Stderr, "dumpster-shell:", err)
		os.Exit(1)
	}

	t, err := tty.Open()
	if err != nil {
		fmt.Fprintln(os.Stderr, "dumpster-shell: open tty:", err)
		os.Exit(1)
	}
	defer t.Close()

	names := make(map[string]int) // name -> heldSlots index; bookkeeping only, not a root

	fmt.Println("dumpster-shell: alloc <name> <bytes> | release <name> | collect | collect-incremental | stats [-v] | frag | quit")
	for {
		fmt.Print("> ")
		line, err := readLine(t)
		if err != nil {
			fmt.Println()
			return
		}
		fields, err := shlex.Split(line)
		if err != nil || len(fields) == 0 {
			if err != nil {
				fmt.Fprintln(os.Stderr, "dumpster-shell: parse:", err)
			}
			continue
		}

		switch fields[0] {
		case "quit", "exit":
			return

		case "alloc":
			if len(fields) != 3 {
				fmt.Fprintln(os.Stderr, "usage: alloc <name> <bytes>")
				continue
			}
			n, err := strconv.ParseUint(fields[2], 10, 64)
			if err != nil {
				fmt.Fprintln(os.Stderr, "dumpster-shell: bad size:", err)
				continue
			}
			slot, ok := freeSlot(names)
			if !ok {
				fmt.Fprintln(os.Stderr, "dumpster-shell: out of name slots (256 max)")
				continue
			}
			p, err := c.Allocate(uintptr(n))
			if err != nil {
				fmt.Fprintln(os.Stderr, "dumpster-shell: alloc:", err)
				continue
			}
			heldSlots[slot] = uintptr(p)
			names[fields[1]] = slot
			fmt.Printf("allocated %q: %d bytes\n", fields[1], n)

		case "release":
			if len(fields) != 2 {
				fmt.Fprintln(os.Stderr, "usage: release <name>")
				continue
			}
			if slot, ok := names[fields[1]]; ok {
				heldSlots[slot] = 0
				delete(names, fields[1])
			}
			fmt.Printf("%q no longer held; it is garbage until the next collection\n", fields[1])

		case "collect":
			if err := c.Collect(); err != nil {
				fmt.Fprintln(os.Stderr, "dumpster-shell: collect:", err)
			}

		case "collect-incremental":
			if err := c.CollectIncremental(); err != nil {
				fmt.Fprintln(os.Stderr, "dumpster-shell: collect:", err)
			}

		case "frag":
			fmt.Printf("fragmentation: %f\n", c.Fragmentation())

		case "stats":
			verbose := len(fields) > 1 && fields[1] == "-v"
			free, err := c.Statistics(verbose)
			if err != nil {
				fmt.Fprintln(os.Stderr, "dumpster-shell: stats:", err)
				continue
			}
			fmt.Printf("free fraction: %f\n", free)

		default:
			fmt.Fprintf(os.Stderr, "dumpster-shell: unknown command %q\n", fields[0])
		}
	}
}

// freeSlot finds an index in heldSlots not currently referenced by names.
func freeSlot(names map[string]int) (int, bool) {
	used := make([]bool, len(heldSlots))
	for _, i := range names {
		used[i] = true
	}
	for i, u := range used {
		if !u {
			return i, true
		}
	}
	return 0, false
}

// readLine assembles one line from raw keystrokes, the way a REPL built on
// go-tty's per-rune reads has to: there is no terminal line discipline to
// rely on, so Enter, backspace, and Ctrl-C/Ctrl-D are handled here by hand.
func readLine(t *tty.TTY) (string, error) {
	var runes []rune
	for {
		r, err := t.ReadRune()
		if err != nil {
			return "", err
		}
		switch {
		case r == '\r' || r == '\n':
			fmt.Println()
			return string(runes), nil
		case r == 3: // Ctrl-C
			return "", fmt.Errorf("interrupted")
		case r == 4 && len(runes) == 0: // Ctrl-D on an empty line
			return "", fmt.Errorf("eof")
		case r == 127 || r == 8: // backspace / delete
			if len(runes) > 0 {
				runes = runes[:len(runes)-1]
				fmt.Print("\b \b")
			}
		case unicode.IsPrint(r):
			runes = append(runes, r)
			fmt.Print(string(r))
		}
	}
}

//go:build linux

package gc

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// dataSegment approximates the C source's `etext`/`end` linker symbols by
// reading /proc/self/maps and taking the span of the writable mappings that
// back the running executable's own image, extended over the anonymous
// writable mapping that directly follows them (where the kernel places the
// part of BSS that lies past the file-backed pages). That span covers the
// initialized-data and BSS sections a real etext/end pair would bound.
//
// This is intentionally conservative rather than exact: scanning a few
// extra read-write bytes that happen to belong to the loader's PT_GNU_RELRO
// padding only risks a few more false-positive candidate words, never a
// missed root.
func dataSegment() (start, end uintptr, err error) {
	exe, err := os.Readlink("/proc/self/exe")
	if err != nil {
		return 0, 0, fmt.Errorf("gc: resolve /proc/self/exe: %w", err)
	}

	f, err := os.Open("/proc/self/maps")
	if err != nil {
		return 0, 0, fmt.Errorf("gc: open /proc/self/maps: %w", err)
	}
	defer f.Close()

	var found bool
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lo, hi, perms, path, ok := parseMapsLine(sc.Text())
		if !ok {
			continue
		}
		if found && path == "" && lo == end && strings.Contains(perms, "w") {
			// Anonymous BSS tail mapped right after the image's data.
			end = hi
			continue
		}
		if path != exe {
			continue
		}
		if !strings.Contains(perms, "w") {
			continue
		}
		if !found || lo < start {
			start = lo
		}
		if !found || hi > end {
			end = hi
		}
		found = true
	}
	if err := sc.Err(); err != nil {
		return 0, 0, fmt.Errorf("gc: scan /proc/self/maps: %w", err)
	}
	if !found {
		return 0, 0, fmt.Errorf("gc: no writable mapping for %s in /proc/self/maps", exe)
	}
	return start, end, nil
}

// parseMapsLine splits one /proc/self/maps line, e.g.:
//
//	00400000-00452000 r-xp 00000000 08:02 173521 /usr/bin/dbus-daemon
func parseMapsLine(line string) (lo, hi uintptr, perms, path string, ok bool) {
	fields := strings.Fields(line)
	if len(fields) < 5 {
		return 0, 0, "", "", false
	}
	addrs := strings.SplitN(fields[0], "-", 2)
	if len(addrs) != 2 {
		return 0, 0, "", "", false
	}
	loVal, err := strconv.ParseUint(addrs[0], 16, 64)
	if err != nil {
		return 0, 0, "", "", false
	}
	hiVal, err := strconv.ParseUint(addrs[1], 16, 64)
	if err != nil {
		return 0, 0, "", "", false
	}
	perms = fields[1]
	if len(fields) >= 6 {
		path = fields[len(fields)-1]
	}
	return uintptr(loVal), uintptr(hiVal), perms, path, true
}

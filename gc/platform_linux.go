//go:build linux

package gc

// platformSupported reports whether this platform's process-info facility
// and data-segment discovery (see roots_linux.go) are available. Linux
// provides both via /proc/self/maps.
func platformSupported() bool {
	return true
}

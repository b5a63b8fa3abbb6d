// file: internal/organizer/device_unix.go
// version: 2.0.0
// guid: a1b2c3d4-e5f6-7890-abcd-ef1234567890

//go:build !windows

package organizer

import (
	"os"
	"syscall"
)

// deviceID returns the ID of the device holding the file.
// Returns 0, false if the underlying syscall type is unavailable.
func deviceID(info os.FileInfo) (uint64, bool) {
	sys, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, false
	}
	return uint64(sys.Dev), true
}

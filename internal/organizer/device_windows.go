// file: internal/organizer/device_windows.go
// version: 2.0.0
// guid: b2c3d4e5-f6a7-8901-bcde-f12345678901

//go:build windows

package organizer

import "os"

// deviceID is unknown on Windows; callers treat that as "same device" and
// let the link itself report a cross-volume failure.
func deviceID(_ os.FileInfo) (uint64, bool) {
	return 0, false
}

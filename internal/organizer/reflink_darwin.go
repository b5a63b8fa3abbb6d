// file: internal/organizer/reflink_darwin.go
// version: 1.0.0
// guid: 2b8e5f41-c7d0-4a93-86e2-f5a1d9c03b78

//go:build darwin

package organizer

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// reflinkFile creates an APFS clone of src at dst.
func reflinkFile(src, dst string) error {
	if err := unix.Clonefile(src, dst, unix.CLONE_NOFOLLOW); err != nil {
		return fmt.Errorf("reflink not supported on this filesystem: %w", err)
	}
	return nil
}

// file: internal/organizer/reflink_linux.go
// version: 2.0.0
// guid: 6f7a8b9c-0d1e-2f3a-4b5c-6d7e8f9a0b1c

//go:build linux

package organizer

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// reflinkFile clones src into a new file dst with the FICLONE ioctl
// (btrfs, XFS, bcachefs). dst is removed again when cloning fails.
func reflinkFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer srcFile.Close()

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}

	cloneErr := unix.IoctlFileClone(int(dstFile.Fd()), int(srcFile.Fd()))
	closeErr := dstFile.Close()
	if cloneErr != nil {
		os.Remove(dst)
		return fmt.Errorf("reflink not supported on this filesystem: %w", cloneErr)
	}
	return closeErr
}

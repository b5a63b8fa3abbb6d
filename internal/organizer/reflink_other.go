// file: internal/organizer/reflink_other.go
// version: 2.0.0
// guid: 7c6d5e4f-3a2b-1c0d-9e8f-7a6b5c4d3e2f

//go:build !linux && !darwin

package organizer

import "errors"

// reflinkFile is unavailable here so auto mode falls back to hardlink or copy.
func reflinkFile(_, _ string) error {
	return errors.New("reflink not supported on this platform")
}

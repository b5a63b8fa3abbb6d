// file: internal/metadata/taglib_support.go
// version: 2.0.0
// guid: 0c1d2e3f-4a5b-6c7d-8e9f-0a1b2c3d4e5f

//go:build taglib
// +build taglib

// Native TagLib reader, compiled in with the 'taglib' build tag.

package metadata

import (
	"fmt"
	"path/filepath"

	taglib "go.senan.xyz/taglib"
)

// taglibAvailable indicates native taglib path compiled in
var taglibAvailable = true

// readNativeTags returns TagLib's property map for path.
func readNativeTags(path string) (map[string][]string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	props, err := taglib.ReadTags(abs)
	if err != nil {
		return nil, fmt.Errorf("taglib read failed: %w", err)
	}
	return props, nil
}

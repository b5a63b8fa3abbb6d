// file: internal/metadata/taglib_stub.go
// version: 2.0.0
// guid: 4f3e2d1c-0b9a-8d7e-6c5b-4a3f2e1d0c9b

//go:build !taglib

package metadata

import "errors"

// ErrTaglibUnavailable is returned when the binary was built without taglib.
var ErrTaglibUnavailable = errors.New("taglib support not compiled in")

// taglibAvailable false when not built with taglib
var taglibAvailable = false

func readNativeTags(string) (map[string][]string, error) {
	return nil, ErrTaglibUnavailable
}

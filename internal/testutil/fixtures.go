// file: internal/testutil/fixtures.go
// version: 2.0.0
// guid: a1b2c3d4-e5f6-7890-abcd-ef1234567890

// Package testutil builds on-disk audiobook fixtures for tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/bogem/id3v2/v2"
	"github.com/stretchr/testify/require"
)

// WriteFile creates path (and its parents) with content.
func WriteFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// WriteMP3 writes an ID3v2.4 tagged file followed by filler audio bytes.
// Keys are text frame IDs ("TIT2", "TPE1", ...) or "TXXX:<description>"
// for user-defined frames.
func WriteMP3(t *testing.T, path string, frames map[string]string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	tag := id3v2.NewEmptyTag()
	enc := id3v2.EncodingUTF8
	keys := make([]string, 0, len(frames))
	for k := range frames {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if desc, ok := strings.CutPrefix(k, "TXXX:"); ok {
			tag.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{Encoding: enc, Description: desc, Value: frames[k]})
			continue
		}
		tag.AddTextFrame(k, enc, frames[k])
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	_, err = tag.WriteTo(f)
	require.NoError(t, err)
	// Filler differs per file so hard links and copies are distinguishable.
	_, err = f.Write(append([]byte(filepath.Base(path)), make([]byte, 512)...))
	require.NoError(t, err)
	return path
}

// Book writes numbered tracks "01.mp3".. into dir, all sharing frames,
// with TRCK set to "i/n".
func Book(t *testing.T, dir string, tracks int, frames map[string]string) []string {
	t.Helper()
	var paths []string
	for i := 1; i <= tracks; i++ {
		f := make(map[string]string, len(frames)+1)
		for k, v := range frames {
			f[k] = v
		}
		f["TRCK"] = fmt.Sprintf("%d/%d", i, tracks)
		paths = append(paths, WriteMP3(t, filepath.Join(dir, fmt.Sprintf("%02d.mp3", i)), f))
	}
	return paths
}

// file: internal/report/report_test.go
// version: 1.0.0
// guid: e71b4d08-3c6a-4f95-8d2e-b49a0c5f7d16

package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualLogEmpty(t *testing.T) {
	var buf bytes.Buffer
	n, err := NewManualLog().WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	want := "--- Audio-Related Manual Actions ---\n" +
		"[INFO] No audio-related manual actions required.\n" +
		"\n" +
		"--- Non-Audio/Image File Manual Actions (Including Unorganized Files) ---\n" +
		"[INFO] No non-audio/image file manual actions required.\n"
	assert.Equal(t, want, buf.String())
}

func TestManualLogSections(t *testing.T) {
	m := NewManualLog()
	m.Audio(LevelError, "Could not link %q", "01.mp3")
	m.Other(LevelInfo, "Linked %s to leftbehind. Reason: %s", "a/notes.txt", "not organized")

	audio, other := m.Counts()
	assert.Equal(t, 1, audio)
	assert.Equal(t, 1, other)

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "[ERROR] Could not link \"01.mp3\"\n")
	assert.Contains(t, out, "[INFO] Linked a/notes.txt to leftbehind. Reason: not organized\n")
	assert.NotContains(t, out, "No audio-related")
	assert.Less(t, strings.Index(out, "01.mp3"), strings.Index(out, "Non-Audio"))
}

func TestManualLogConcurrent(t *testing.T) {
	m := NewManualLog()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.Audio(LevelWarning, "a%d", i)
			m.Other(LevelWarning, "o%d", i)
		}(i)
	}
	wg.Wait()
	audio, other := m.Counts()
	assert.Equal(t, 10, audio)
	assert.Equal(t, 10, other)
}

func TestManualLogWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "manual.log")
	m := NewManualLog()
	m.Other(LevelInfo, "x")
	require.NoError(t, m.WriteFile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[INFO] x")
}

func TestWriteTree(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{
		"Author/Series/01 - Book/01.mp3",
		"Author/Series/01 - Book/Extras/notes.txt",
		"Author/Standalone/track.m4b",
		".hidden/skip.txt",
	} {
		p := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, nil, 0o644))
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTree(root, &buf))

	j := func(parts ...string) string { return filepath.Join(append([]string{root}, parts...)...) }
	want := root + ":\nAuthor\n" +
		"\n" + j("Author") + ":\nSeries\nStandalone\n" +
		"\n" + j("Author", "Series") + ":\n01 - Book\n" +
		"\n" + j("Author", "Series", "01 - Book") + ":\n01.mp3\nExtras\n" +
		"\n" + j("Author", "Series", "01 - Book", "Extras") + ":\nnotes.txt\n" +
		"\n" + j("Author", "Standalone") + ":\ntrack.m4b\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteTreeFile(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(t.TempDir(), "listing.txt")
	require.NoError(t, WriteTreeFile(root, out))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, root+":\n", string(data))

	assert.Error(t, WriteTreeFile(filepath.Join(root, "missing"), out))
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	s := Summary{RunID: "01J", Folders: 4, Books: 3, Linked: 20, Leftbehind: 2, Errors: 1, Duration: 3723*time.Second + 450*time.Millisecond, OrganizedDir: "/o"}
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Run: 01J\n")
	assert.Contains(t, out, "Books organized: 3\n")
	assert.Contains(t, out, "Files linked to leftbehind directory: 2\n")
	assert.Contains(t, out, "Organized library: /o\n")
	assert.Contains(t, out, "Total time: 1h 2m 3.45s\n")
	assert.NotContains(t, out, "Dry run")
	assert.NotContains(t, out, "Leftbehind files:")
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0h 0m 0.00s"},
		{90 * time.Second, "0h 1m 30.00s"},
		{2*time.Hour + 8*time.Millisecond, "2h 0m 0.01s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

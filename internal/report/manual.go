// file: internal/report/manual.go
// version: 1.0.0
// guid: 0f4c8e2a-6b91-4d37-a5e0-c2d87f1b3964

// Package report writes the human-facing run artifacts: the manual-actions
// log, directory listings of the output trees and the end-of-run summary.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Manual-action severities.
const (
	LevelInfo    = "INFO"
	LevelWarning = "WARNING"
	LevelError   = "ERROR"
)

// ManualLog collects entries that need a human to look at them, split into
// audio-related entries and everything else. Safe for concurrent use.
type ManualLog struct {
	mu    sync.Mutex
	audio []string
	other []string
}

// NewManualLog returns an empty log.
func NewManualLog() *ManualLog {
	return &ManualLog{}
}

// Audio records an audio-related entry.
func (m *ManualLog) Audio(level, format string, args ...any) {
	m.add(&m.audio, level, format, args)
}

// Other records an entry about a non-audio file, including files swept to
// leftbehind.
func (m *ManualLog) Other(level, format string, args ...any) {
	m.add(&m.other, level, format, args)
}

func (m *ManualLog) add(dst *[]string, level, format string, args []any) {
	line := fmt.Sprintf("[%s] %s", level, fmt.Sprintf(format, args...))
	m.mu.Lock()
	*dst = append(*dst, line)
	m.mu.Unlock()
}

// Counts returns the number of audio and other entries.
func (m *ManualLog) Counts() (audio, other int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.audio), len(m.other)
}

// WriteTo writes both sections. An empty section gets a placeholder line.
func (m *ManualLog) WriteTo(w io.Writer) (int64, error) {
	m.mu.Lock()
	audio := append([]string(nil), m.audio...)
	other := append([]string(nil), m.other...)
	m.mu.Unlock()

	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)
	fmt.Fprintln(bw, "--- Audio-Related Manual Actions ---")
	if len(audio) == 0 {
		fmt.Fprintln(bw, "[INFO] No audio-related manual actions required.")
	}
	for _, line := range audio {
		fmt.Fprintln(bw, line)
	}
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "--- Non-Audio/Image File Manual Actions (Including Unorganized Files) ---")
	if len(other) == 0 {
		fmt.Fprintln(bw, "[INFO] No non-audio/image file manual actions required.")
	}
	for _, line := range other {
		fmt.Fprintln(bw, line)
	}
	err := bw.Flush()
	return cw.n, err
}

// WriteFile writes the log to path, replacing any previous file.
func (m *ManualLog) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create manual log: %w", err)
	}
	if _, err := m.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write manual log: %w", err)
	}
	return f.Close()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

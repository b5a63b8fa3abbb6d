// file: internal/report/summary.go
// version: 1.0.0
// guid: 5c27e9b0-84d3-4f1a-9e6c-a03b7d5f18e2

package report

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Summary holds the end-of-run counts.
type Summary struct {
	RunID         string
	Folders       int
	Books         int
	Linked        int
	Leftbehind    int
	Errors        int
	DryRun        bool
	Duration      time.Duration
	OrganizedDir  string
	LeftbehindDir string
}

// WriteTo prints the summary block shown at the end of a run.
func (s Summary) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	rule := strings.Repeat("-", 60)
	fmt.Fprintln(&b, rule)
	if s.DryRun {
		fmt.Fprintln(&b, "Dry run: nothing was linked.")
	}
	if s.RunID != "" {
		fmt.Fprintf(&b, "Run: %s\n", s.RunID)
	}
	fmt.Fprintf(&b, "Book folders scanned: %d\n", s.Folders)
	fmt.Fprintf(&b, "Books organized: %d\n", s.Books)
	fmt.Fprintf(&b, "Files linked to organized directory: %d\n", s.Linked)
	fmt.Fprintf(&b, "Files linked to leftbehind directory: %d\n", s.Leftbehind)
	fmt.Fprintf(&b, "Errors: %d\n", s.Errors)
	if s.OrganizedDir != "" {
		fmt.Fprintf(&b, "Organized library: %s\n", s.OrganizedDir)
	}
	if s.LeftbehindDir != "" {
		fmt.Fprintf(&b, "Leftbehind files: %s\n", s.LeftbehindDir)
	}
	fmt.Fprintf(&b, "Total time: %s\n", FormatDuration(s.Duration))

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// FormatDuration renders d as "1h 2m 3.45s".
func FormatDuration(d time.Duration) string {
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := float64(d%time.Minute) / float64(time.Second)
	return fmt.Sprintf("%dh %dm %.2fs", h, m, s)
}

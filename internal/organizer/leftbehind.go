// file: internal/organizer/leftbehind.go
// version: 1.0.0
// guid: 4d9a2e67-1f3b-4c85-b0e7-6a2c8d5f91b3

package organizer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jdfalk/audiobook-librarian/internal/metrics"
	"github.com/jdfalk/audiobook-librarian/internal/report"
)

// SweepReason is recorded for files that no book claimed.
const SweepReason = "File not organized into main structure."

// LeftbehindPath maps src to its place in the leftbehind tree, keeping the
// path relative to the source root. Files outside the root keep only their
// base name.
func (e *Executor) LeftbehindPath(src string) string {
	rel, err := filepath.Rel(e.opts.SourceRoot, src)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = filepath.Base(src)
	}
	return filepath.Join(e.opts.LeftbehindDir, rel)
}

// LinkToLeftbehind links src into the leftbehind tree. A file already present
// there counts as success.
func (e *Executor) LinkToLeftbehind(src, reason string) (string, error) {
	return e.linkToLeftbehind(src, reason, report.LevelInfo)
}

func (e *Executor) linkToLeftbehind(src, reason, level string) (string, error) {
	dst := e.LeftbehindPath(src)
	rel, _ := filepath.Rel(e.opts.LeftbehindDir, dst)
	if e.opts.DryRun {
		return dst, nil
	}

	if _, err := os.Lstat(dst); err == nil {
		e.log.Debug("File already in leftbehind", "path", rel, "reason", reason)
		return dst, nil
	}

	if _, err := e.placeFile(src, dst); err != nil {
		e.log.Error("failed to link to leftbehind", "path", rel, "error", err)
		e.manual.Other(level, "Could not link '%s' into leftbehind: %v. Reason: %s", rel, err, reason)
		return "", fmt.Errorf("failed to link %s to leftbehind: %w", src, err)
	}

	metrics.IncLeftbehind()
	e.log.Debug("Linked file to leftbehind", "path", rel, "reason", reason)
	e.manual.Other(level, "Linked '%s' into leftbehind. Reason: %s", rel, reason)
	return dst, nil
}

// SweepResult summarizes a leftbehind sweep.
type SweepResult struct {
	Linked []string // sources now in leftbehind
	Failed []string // sources that could not be linked
}

// Sweep sends every file in all that is not in handled to leftbehind.
// handled holds the sources that Place already dealt with, placed or held
// aside.
func (e *Executor) Sweep(all []string, handled map[string]bool) SweepResult {
	var res SweepResult
	for _, src := range all {
		if handled[src] {
			continue
		}
		if _, err := e.LinkToLeftbehind(src, SweepReason); err != nil {
			res.Failed = append(res.Failed, src)
			continue
		}
		res.Linked = append(res.Linked, src)
	}
	e.log.Info("Sweep complete", "linked", len(res.Linked), "failed", len(res.Failed), "dir", e.opts.LeftbehindDir)
	return res
}

// HandledSources returns every source that appears in results.
func HandledSources(results []PlaceResult) map[string]bool {
	handled := make(map[string]bool)
	for _, r := range results {
		for _, o := range r.Outcomes {
			handled[o.Placement.Source] = true
		}
	}
	return handled
}

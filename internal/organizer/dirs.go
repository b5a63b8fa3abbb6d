// file: internal/organizer/dirs.go
// version: 1.0.0
// guid: 8e1c5b94-7a20-4d6f-93b8-c4f0e2a71d59

package organizer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jdfalk/audiobook-librarian/internal/config"
)

var (
	// ErrDestinationExists is returned when the organized directory already
	// exists and emptying it was not requested.
	ErrDestinationExists = errors.New("destination directory already exists")
	// ErrCrossDevice is returned when link strategies that need a single
	// filesystem span more than one.
	ErrCrossDevice = errors.New("directories are not on the same filesystem")
)

// PrepareDirectories creates the organized and leftbehind trees. An existing
// organized tree is emptied only when force is set; leftbehind is always
// recreated.
func (e *Executor) PrepareDirectories(force bool) error {
	for _, dir := range []string{e.opts.OrganizedDir, e.opts.LeftbehindDir} {
		if dir == "" {
			return fmt.Errorf("output directory not configured")
		}
		if overlaps(dir, e.opts.SourceRoot) {
			return fmt.Errorf("output directory %s overlaps source %s", dir, e.opts.SourceRoot)
		}
	}

	if _, err := os.Stat(e.opts.OrganizedDir); err == nil {
		if !force {
			return fmt.Errorf("%w: %s (use --force-empty to replace it)", ErrDestinationExists, e.opts.OrganizedDir)
		}
		e.log.Warn("Emptying destination directory", "dir", e.opts.OrganizedDir)
		if err := os.RemoveAll(e.opts.OrganizedDir); err != nil {
			return fmt.Errorf("failed to empty destination directory: %w", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to check destination directory: %w", err)
	}
	if err := os.MkdirAll(e.opts.OrganizedDir, 0o755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	if err := os.RemoveAll(e.opts.LeftbehindDir); err != nil {
		return fmt.Errorf("failed to empty leftbehind directory: %w", err)
	}
	if err := os.MkdirAll(e.opts.LeftbehindDir, 0o755); err != nil {
		return fmt.Errorf("failed to create leftbehind directory: %w", err)
	}
	return nil
}

// overlaps reports whether one of a, b contains the other.
func overlaps(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	a, b = filepath.Clean(a), filepath.Clean(b)
	return a == b || within(a, b) || within(b, a)
}

func within(child, parent string) bool {
	rel, err := filepath.Rel(parent, child)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && rel != "."
}

// SameFilesystem reports whether all paths live on one device. Paths whose
// device cannot be determined are ignored.
func SameFilesystem(paths ...string) (bool, error) {
	var first uint64
	seen := false
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return false, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		dev, ok := deviceID(info)
		if !ok {
			continue
		}
		if !seen {
			first, seen = dev, true
			continue
		}
		if dev != first {
			return false, nil
		}
	}
	return true, nil
}

// CheckFilesystem fails with ErrCrossDevice when the strategy is hardlink and
// source, organized and leftbehind trees are not on one filesystem.
func (e *Executor) CheckFilesystem() error {
	if e.opts.Strategy != config.StrategyHardlink {
		return nil
	}
	same, err := SameFilesystem(e.opts.SourceRoot, e.opts.OrganizedDir, e.opts.LeftbehindDir)
	if err != nil {
		return err
	}
	if !same {
		return fmt.Errorf("%w: hard links need %s, %s and %s on one filesystem",
			ErrCrossDevice, e.opts.SourceRoot, e.opts.OrganizedDir, e.opts.LeftbehindDir)
	}
	return nil
}

// CleanupEmptyDirs removes empty directories below root, deepest first, and
// returns how many were removed. root itself is kept.
func CleanupEmptyDirs(root string) (int, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && path != root {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.Slice(dirs, func(i, j int) bool { return len(dirs[i]) > len(dirs[j]) })
	removed := 0
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			continue
		}
		if err := os.Remove(dir); err == nil {
			removed++
		}
	}
	return removed, nil
}

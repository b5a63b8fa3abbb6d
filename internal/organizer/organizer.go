// file: internal/organizer/organizer.go
// version: 2.0.0
// guid: 5e6f7a8b-9c0d-1e2f-3a4b-5c6d7e8f9a0b

// Package organizer realizes book plans on disk: it links every planned file
// into the organized tree and hands anything that could not be placed to the
// leftbehind tree, keeping its path relative to the source root.
package organizer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/jdfalk/audiobook-librarian/internal/config"
	"github.com/jdfalk/audiobook-librarian/internal/fileops"
	"github.com/jdfalk/audiobook-librarian/internal/logger"
	"github.com/jdfalk/audiobook-librarian/internal/metrics"
	"github.com/jdfalk/audiobook-librarian/internal/naming"
	"github.com/jdfalk/audiobook-librarian/internal/report"
	"github.com/schollz/progressbar/v3"
)

// MethodDryRun marks outcomes of a dry run.
const MethodDryRun = "dry-run"

// Options configures an Executor.
type Options struct {
	SourceRoot    string
	OrganizedDir  string
	LeftbehindDir string
	Strategy      string
	VerifyCopies  bool
	DryRun        bool
	Workers       int
	Log           *logger.Logger
	Manual        *report.ManualLog
	Progress      io.Writer // progress bar output; nil hides it
}

// Executor places files according to book plans.
type Executor struct {
	opts   Options
	log    *logger.Logger
	manual *report.ManualLog
}

// New creates an executor. Missing logger and manual log are replaced by
// discarding ones; an empty strategy means hard links.
func New(opts Options) *Executor {
	if opts.Strategy == "" {
		opts.Strategy = config.StrategyHardlink
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	e := &Executor{opts: opts, log: opts.Log, manual: opts.Manual}
	if e.log == nil {
		e.log = logger.Nop()
	}
	if e.manual == nil {
		e.manual = report.NewManualLog()
	}
	return e
}

// Outcome is the result of one placement.
type Outcome struct {
	Placement   naming.Placement
	Destination string
	Method      string // link method actually used
	Err         error
	Leftbehind  string // where a failed file was held aside, if that worked
}

// PlaceResult collects the outcomes of one book plan.
type PlaceResult struct {
	Plan     naming.BookPlan
	Outcomes []Outcome
}

// Linked counts placements that reached the organized tree.
func (r PlaceResult) Linked() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err == nil {
			n++
		}
	}
	return n
}

// Failed counts placements that did not.
func (r PlaceResult) Failed() int { return len(r.Outcomes) - r.Linked() }

// HeldAside counts failed placements that were linked into leftbehind.
func (r PlaceResult) HeldAside() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err != nil && o.Leftbehind != "" {
			n++
		}
	}
	return n
}

// Place realizes every placement of plan. A failed placement is logged,
// recorded in the manual log and linked into leftbehind instead.
func (e *Executor) Place(ctx context.Context, plan naming.BookPlan) PlaceResult {
	result := PlaceResult{Plan: plan, Outcomes: make([]Outcome, 0, len(plan.Placements))}
	for _, p := range plan.Placements {
		out := Outcome{Placement: p, Destination: filepath.Join(e.opts.OrganizedDir, p.RelPath)}
		if err := ctx.Err(); err != nil {
			out.Err = err
			result.Outcomes = append(result.Outcomes, out)
			continue
		}

		if e.opts.DryRun {
			out.Method = MethodDryRun
			metrics.IncPlacement(string(p.Kind), metrics.OutcomeDryRun)
			result.Outcomes = append(result.Outcomes, out)
			continue
		}

		out.Method, out.Err = e.placeFile(p.Source, out.Destination)
		if out.Err == nil {
			metrics.IncPlacement(string(p.Kind), metrics.OutcomeLinked)
			e.log.Debug("Linked file", "src", p.Source, "dst", p.RelPath, "method", out.Method)
		} else {
			metrics.IncPlacement(string(p.Kind), metrics.OutcomeFailed)
			out.Leftbehind = e.holdAside(p, out.Err)
		}
		result.Outcomes = append(result.Outcomes, out)
	}

	e.log.Info("Organized book", "dir", plan.RelDir, "linked", result.Linked(), "failed", result.Failed())
	return result
}

func (e *Executor) holdAside(p naming.Placement, cause error) string {
	e.log.Error("failed to link", "src", p.Source, "dst", p.RelPath, "error", cause)
	msg := fmt.Sprintf("Could not link '%s' to '%s': %v", filepath.Base(p.Source), p.RelPath, cause)
	if p.Kind == naming.KindAudio {
		e.manual.Audio(report.LevelError, "%s", msg)
	} else {
		e.manual.Other(report.LevelError, "%s", msg)
	}

	dst, err := e.linkToLeftbehind(p.Source, fmt.Sprintf("Link failed: %v", cause), report.LevelError)
	if err != nil {
		return ""
	}
	return dst
}

// PlaceAll places plans on a worker pool, one book per task. Results keep the
// order of plans.
func (e *Executor) PlaceAll(ctx context.Context, plans []naming.BookPlan) []PlaceResult {
	results := make([]PlaceResult, len(plans))
	bar := newBar(len(plans), "Organizing", e.opts.Progress)

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, e.opts.Workers)
	for i := range plans {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release
			results[idx] = e.Place(ctx, plans[idx])
			bar.Add(1)
		}(i)
	}
	wg.Wait()
	bar.Finish()
	return results
}

func newBar(n int, desc string, w io.Writer) *progressbar.ProgressBar {
	if w == nil {
		return progressbar.DefaultSilent(int64(n), desc)
	}
	return progressbar.NewOptions64(int64(n),
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

// placeFile creates dst's directory and links src there.
func (e *Executor) placeFile(src, dst string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("failed to create target directory: %w", err)
	}
	return e.link(src, dst)
}

// link realizes src at dst with the configured strategy and returns the
// method that succeeded. An existing dst is an error and never overwritten.
func (e *Executor) link(src, dst string) (string, error) {
	strategy := e.opts.Strategy

	if strategy == config.StrategyAuto {
		// Try reflink -> hardlink -> copy
		err := reflinkFile(src, dst)
		if err == nil {
			return config.StrategyReflink, nil
		}
		if errors.Is(err, fs.ErrExist) {
			return "", err
		}
		err = hardlinkFile(src, dst)
		if err == nil {
			return config.StrategyHardlink, nil
		}
		if errors.Is(err, fs.ErrExist) {
			return "", err
		}
		strategy = config.StrategyCopy
	}

	var err error
	switch strategy {
	case config.StrategyCopy:
		err = e.copyFile(src, dst)
	case config.StrategyHardlink:
		err = hardlinkFile(src, dst)
	case config.StrategyReflink:
		err = reflinkFile(src, dst)
	case config.StrategySymlink:
		err = symlinkFile(src, dst)
	default:
		err = fmt.Errorf("unknown organization strategy: %s", strategy)
	}
	if err != nil {
		return "", err
	}
	return strategy, nil
}

// copyFile copies src to a new file dst, optionally verifying the content.
func (e *Executor) copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer sourceFile.Close()

	destFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}

	_, err = io.Copy(destFile, sourceFile)
	if err == nil {
		err = destFile.Sync()
	}
	if cerr := destFile.Close(); err == nil {
		err = cerr
	}
	if err == nil && e.opts.VerifyCopies {
		err = fileops.VerifySameContent(src, dst)
	}
	if err != nil {
		os.Remove(dst)
		return fmt.Errorf("failed to copy file: %w", err)
	}
	return nil
}

// hardlinkFile creates a hard link from src to dst
func hardlinkFile(src, dst string) error {
	return os.Link(src, dst)
}

// symlinkFile creates a symbolic link from src to dst
func symlinkFile(src, dst string) error {
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}
	return os.Symlink(absSrc, dst)
}

// file: internal/pipeline/organize.go
// version: 1.1.0
// guid: c3d4e5f6-a7b8-c9d0-e1f2-a3b4c5d6e7f8

// Package pipeline runs a complete organize pass: discover book folders,
// read their metadata, group and name the books, place every file and sweep
// what is left into the leftbehind tree.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jdfalk/audiobook-librarian/internal/config"
	"github.com/jdfalk/audiobook-librarian/internal/database"
	"github.com/jdfalk/audiobook-librarian/internal/grouping"
	"github.com/jdfalk/audiobook-librarian/internal/logger"
	"github.com/jdfalk/audiobook-librarian/internal/matcher"
	"github.com/jdfalk/audiobook-librarian/internal/metadata"
	"github.com/jdfalk/audiobook-librarian/internal/metrics"
	"github.com/jdfalk/audiobook-librarian/internal/naming"
	"github.com/jdfalk/audiobook-librarian/internal/organizer"
	"github.com/jdfalk/audiobook-librarian/internal/report"
	"github.com/jdfalk/audiobook-librarian/internal/resolver"
	"github.com/jdfalk/audiobook-librarian/internal/scanner"
)

// Options wires an OrganizeService. Config must have its paths resolved.
type Options struct {
	Config   config.Config
	Log      *logger.Logger
	Reader   metadata.RecordReader // nil reads tags directly
	Runs     *database.RunStore    // nil skips the run manifest
	Progress io.Writer             // progress bars; nil hides them
}

type OrganizeService struct {
	cfg      config.Config
	log      *logger.Logger
	reader   metadata.RecordReader
	runs     *database.RunStore
	progress io.Writer
	manual   *report.ManualLog
}

func NewOrganizeService(opts Options) *OrganizeService {
	svc := &OrganizeService{
		cfg:      opts.Config,
		log:      opts.Log,
		reader:   opts.Reader,
		runs:     opts.Runs,
		progress: opts.Progress,
		manual:   report.NewManualLog(),
	}
	if svc.log == nil {
		svc.log = logger.Nop()
	}
	if svc.reader == nil {
		svc.reader = metadata.TagReader{}
	}
	return svc
}

// Manual returns the manual-actions log collected so far.
func (svc *OrganizeService) Manual() *report.ManualLog { return svc.manual }

// Analysis is everything known about the source before any file is placed.
type Analysis struct {
	Folders []string
	Scanned []scanner.FolderResult
	Books   []grouping.LogicalBookInfo
	Plans   []naming.BookPlan
}

// SweepFolders is the set of folders whose leftover files belong in the
// leftbehind tree: all of them, or only the selected books' folders when a
// filter narrowed the run.
func (a *Analysis) SweepFolders(filtered bool) []string {
	if !filtered {
		return a.Folders
	}
	return matcher.Folders(a.Books)
}

// Analyze scans the source and plans every book without touching the
// output trees.
func (svc *OrganizeService) Analyze(ctx context.Context) (*Analysis, error) {
	cfg := svc.cfg
	skip := []string{cfg.OrganizedDir, cfg.LeftbehindDir, cfg.DataDir}

	stop := metrics.Timer("discover")
	folders, err := scanner.FindBookFolders(ctx, cfg.SourcePath, skip)
	stop()
	if err != nil {
		return nil, fmt.Errorf("failed to find book folders: %w", err)
	}
	svc.log.Info("Found book folders", "count", len(folders), "source", cfg.SourcePath)

	stop = metrics.Timer("scan")
	scanned, err := scanner.ScanFolders(ctx, folders, svc.reader, scanner.Options{
		Workers:  cfg.Workers,
		Log:      svc.log,
		Progress: svc.progress,
	})
	stop()
	if err != nil {
		return nil, fmt.Errorf("scan interrupted: %w", err)
	}

	var usable []metadata.FolderMetadata
	for _, r := range scanned {
		for _, path := range r.Unreadable {
			svc.manual.Audio(report.LevelWarning, "Could not read metadata from '%s'; treated as unorganized.", path)
		}
		if !r.OK {
			svc.log.Warn("Folder has no readable audio", "folder", r.Folder)
			svc.manual.Audio(report.LevelWarning, "No readable audio in '%s'; its files go to leftbehind.", r.Folder)
			continue
		}
		usable = append(usable, r.Metadata)
	}

	stop = metrics.Timer("plan")
	books := grouping.Group(usable)
	// Ambiguity and series padding always cover the whole collection.
	res := resolver.Resolve(books)
	filter := matcher.Filter{Author: cfg.Author, Series: cfg.Series}
	if !filter.IsZero() {
		all := len(books)
		books = filter.Apply(books)
		svc.log.Info("Filtered books", "author", cfg.Author, "series", cfg.Series, "kept", len(books), "total", all)
	}
	plans := naming.PlanAll(books, res)
	stop()
	metrics.SetBooksGrouped(len(books))

	return &Analysis{Folders: folders, Scanned: scanned, Books: books, Plans: plans}, nil
}

// PerformOrganize executes a full run and returns its summary. The run is
// recorded in the manifest when one is configured.
func (svc *OrganizeService) PerformOrganize(ctx context.Context) (report.Summary, error) {
	cfg := svc.cfg
	start := time.Now()
	summary := report.Summary{
		DryRun:        cfg.DryRun,
		OrganizedDir:  cfg.OrganizedDir,
		LeftbehindDir: cfg.LeftbehindDir,
	}

	info, err := os.Stat(cfg.SourcePath)
	if err != nil {
		return summary, fmt.Errorf("source directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return summary, fmt.Errorf("source %s is not a directory", cfg.SourcePath)
	}

	exec := organizer.New(organizer.Options{
		SourceRoot:    cfg.SourcePath,
		OrganizedDir:  cfg.OrganizedDir,
		LeftbehindDir: cfg.LeftbehindDir,
		Strategy:      cfg.Strategy,
		VerifyCopies:  cfg.VerifyCopies,
		DryRun:        cfg.DryRun,
		Workers:       cfg.Workers,
		Log:           svc.log,
		Manual:        svc.manual,
		Progress:      svc.progress,
	})

	if !cfg.DryRun {
		if err := exec.PrepareDirectories(cfg.ForceEmpty); err != nil {
			return summary, svc.abort(err)
		}
		if err := exec.CheckFilesystem(); err != nil {
			return summary, svc.abort(err)
		}
	}

	run := database.Run{
		SourcePath:   cfg.SourcePath,
		OrganizedDir: cfg.OrganizedDir,
		Strategy:     cfg.Strategy,
		DryRun:       cfg.DryRun,
		StartedAt:    start,
	}
	if svc.runs != nil {
		if run, err = svc.runs.StartRun(run); err != nil {
			return summary, err
		}
		summary.RunID = run.ID
		svc.log = svc.log.With("run", run.ID)
	}

	runErr := svc.organize(ctx, exec, &summary)
	summary.Duration = time.Since(start)

	if svc.runs != nil {
		run.Status = database.RunCompleted
		if runErr != nil {
			run.Status = database.RunFailed
		}
		run.Books, run.Linked, run.Leftbehind, run.Errors = summary.Books, summary.Linked, summary.Leftbehind, summary.Errors
		if err := svc.runs.FinishRun(run); err != nil {
			svc.log.Error("failed to record run", "error", err)
		}
	}
	return summary, runErr
}

// abort records a setup failure in the manual log before giving up.
func (svc *OrganizeService) abort(cause error) error {
	svc.log.Error("Organization aborted", "error", cause)
	svc.manual.Other(report.LevelError, "%v. Organization aborted.", cause)
	if err := svc.manual.WriteFile(svc.cfg.ManualLogPath()); err != nil {
		svc.log.Warn("failed to write manual log", "error", err)
	}
	return cause
}

func (svc *OrganizeService) organize(ctx context.Context, exec *organizer.Executor, summary *report.Summary) error {
	cfg := svc.cfg
	analysis, err := svc.Analyze(ctx)
	if err != nil {
		return err
	}
	summary.Folders = len(analysis.Folders)

	stop := metrics.Timer("place")
	results := exec.PlaceAll(ctx, analysis.Plans)
	stop()
	if err := ctx.Err(); err != nil {
		svc.record(summary.RunID, results, organizer.SweepResult{}, exec)
		return fmt.Errorf("organize interrupted: %w", err)
	}

	filtered := !matcher.Filter{Author: cfg.Author, Series: cfg.Series}.IsZero()
	files, err := scanner.CollectFiles(analysis.SweepFolders(filtered))
	if err != nil {
		return err
	}
	stop = metrics.Timer("sweep")
	sweep := exec.Sweep(files, organizer.HandledSources(results))
	stop()

	books := make(map[string]bool)
	for _, r := range results {
		top := r.Plan.RelDir
		if r.Plan.ParentRelDir != "" {
			top = r.Plan.ParentRelDir
		}
		books[top] = true
		summary.Linked += r.Linked()
		summary.Leftbehind += r.HeldAside()
		summary.Errors += r.Failed()
	}
	summary.Books = len(books)
	summary.Leftbehind += len(sweep.Linked)
	summary.Errors += len(sweep.Failed)

	svc.record(summary.RunID, results, sweep, exec)

	if !cfg.DryRun {
		if n, err := organizer.CleanupEmptyDirs(cfg.OrganizedDir); err != nil {
			svc.log.Warn("failed to clean up empty directories", "error", err)
		} else if n > 0 {
			svc.log.Debug("Removed empty directories", "count", n)
		}
	}
	return svc.writeReports()
}

// record stores every placement and sweep outcome of the run.
func (svc *OrganizeService) record(runID string, results []organizer.PlaceResult, sweep organizer.SweepResult, exec *organizer.Executor) {
	if svc.runs == nil || runID == "" {
		return
	}
	var records []database.PlacementRecord
	for _, r := range results {
		for _, o := range r.Outcomes {
			rec := database.PlacementRecord{
				RunID:       runID,
				Source:      o.Placement.Source,
				Destination: o.Destination,
				Kind:        string(o.Placement.Kind),
				Status:      database.PlacementLinked,
			}
			switch {
			case o.Method == organizer.MethodDryRun:
				rec.Status = database.PlacementPlanned
			case o.Err != nil && o.Leftbehind != "":
				rec.Status = database.PlacementLeftbehind
				rec.Destination = o.Leftbehind
				rec.Error = o.Err.Error()
			case o.Err != nil:
				rec.Status = database.PlacementFailed
				rec.Error = o.Err.Error()
			}
			records = append(records, rec)
		}
	}
	for _, src := range sweep.Linked {
		records = append(records, database.PlacementRecord{
			RunID: runID, Source: src, Destination: exec.LeftbehindPath(src),
			Kind: "leftover", Status: database.PlacementLeftbehind,
		})
	}
	for _, src := range sweep.Failed {
		records = append(records, database.PlacementRecord{
			RunID: runID, Source: src, Destination: exec.LeftbehindPath(src),
			Kind: "leftover", Status: database.PlacementFailed,
		})
	}
	if err := svc.runs.RecordPlacements(records); err != nil {
		svc.log.Error("failed to record placements", "error", err)
	}
}

// writeReports leaves the tree listings and the manual-actions log in the
// data directory.
func (svc *OrganizeService) writeReports() error {
	cfg := svc.cfg
	var errs []error
	if !cfg.DryRun {
		for kind, dir := range map[string]string{"organized": cfg.OrganizedDir, "leftbehind": cfg.LeftbehindDir} {
			if err := report.WriteTreeFile(dir, cfg.TreeListingPath(kind)); err != nil {
				errs = append(errs, fmt.Errorf("failed to write %s listing: %w", kind, err))
			}
		}
	}
	if err := svc.manual.WriteFile(cfg.ManualLogPath()); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

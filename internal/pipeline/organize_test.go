// file: internal/pipeline/organize_test.go
// version: 1.1.0
// guid: 9b2e4d71-6c3a-4f58-a0e9-d17c5b83f6a2

package pipeline

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/jdfalk/audiobook-librarian/internal/config"
	"github.com/jdfalk/audiobook-librarian/internal/database"
	"github.com/jdfalk/audiobook-librarian/internal/metadata"
	"github.com/jdfalk/audiobook-librarian/internal/organizer"
	"github.com/jdfalk/audiobook-librarian/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// folderReader hands out tags by parent folder name; unknown folders fail.
type folderReader map[string]metadata.Tags

func (r folderReader) ReadRecord(path string) (metadata.AudioFileRecord, error) {
	tags, ok := r[filepath.Base(filepath.Dir(path))]
	if !ok {
		return metadata.AudioFileRecord{}, errors.New("unreadable")
	}
	if tags.Track == "" {
		tags.Track = filepath.Base(path)[:2] + "/2"
	}
	return metadata.AudioFileRecord{Path: path, Tags: tags}, nil
}

var library = folderReader{
	"Dune": {Artist: "Frank Herbert", Title: "Dune", Track: "1/1"},
	"Eye":  {Artist: "Robert Jordan", Title: "The Eye of the World"},
}

// newLibrary lays out three book folders: two readable books and one whose
// audio cannot be read.
func newLibrary(t *testing.T) config.Config {
	t.Helper()
	src := filepath.Join(t.TempDir(), "books")
	testutil.WriteFile(t, filepath.Join(src, "Dune", "01.mp3"), "dune audio")
	testutil.WriteFile(t, filepath.Join(src, "Dune", "cover.jpg"), "jpg")
	testutil.WriteFile(t, filepath.Join(src, "Dune", "notes.txt"), "notes")
	testutil.WriteFile(t, filepath.Join(src, "Dune", "extras", "map.pdf"), "pdf")
	testutil.WriteFile(t, filepath.Join(src, "Eye", "01.mp3"), "eye 1")
	testutil.WriteFile(t, filepath.Join(src, "Eye", "02.mp3"), "eye 2")
	testutil.WriteFile(t, filepath.Join(src, "Broken", "01.mp3"), "garbage")

	cfg := config.Config{SourcePath: src, Strategy: config.StrategyHardlink, Workers: 2}
	require.NoError(t, cfg.ResolvePaths())
	return cfg
}

func countFiles(t *testing.T, root string) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			n++
		}
		return nil
	})
	require.NoError(t, err)
	return n
}

func TestPerformOrganize_EndToEnd(t *testing.T) {
	cfg := newLibrary(t)
	runs, err := database.OpenRunStore(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer runs.Close()

	svc := NewOrganizeService(Options{Config: cfg, Reader: library, Runs: runs})
	summary, err := svc.PerformOrganize(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Folders)
	assert.Equal(t, 2, summary.Books)
	assert.Equal(t, 5, summary.Linked)
	assert.Equal(t, 2, summary.Leftbehind)
	assert.Equal(t, 0, summary.Errors)
	assert.NotEmpty(t, summary.RunID)

	dune := filepath.Join(cfg.OrganizedDir, "Frank Herbert", "Dune", "Dune.mp3")
	src, err := os.Stat(filepath.Join(cfg.SourcePath, "Dune", "01.mp3"))
	require.NoError(t, err)
	dst, err := os.Stat(dune)
	require.NoError(t, err)
	assert.True(t, os.SameFile(src, dst), "organized file should be a hard link")
	assert.FileExists(t, filepath.Join(cfg.OrganizedDir, "Robert Jordan", "The Eye of the World",
		"The Eye of the World Track 02 of 02.mp3"))
	assert.Equal(t, 5, countFiles(t, cfg.OrganizedDir))

	assert.FileExists(t, filepath.Join(cfg.LeftbehindDir, "Dune", "extras", "map.pdf"))
	assert.FileExists(t, filepath.Join(cfg.LeftbehindDir, "Broken", "01.mp3"))
	assert.Equal(t, 2, countFiles(t, cfg.LeftbehindDir))

	assert.FileExists(t, cfg.ManualLogPath())
	assert.FileExists(t, cfg.TreeListingPath("organized"))
	assert.FileExists(t, cfg.TreeListingPath("leftbehind"))

	run, err := runs.GetRun(summary.RunID)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, database.RunCompleted, run.Status)
	assert.Equal(t, 5, run.Linked)
	assert.Equal(t, 2, run.Leftbehind)

	placements, err := runs.RunPlacements(summary.RunID)
	require.NoError(t, err)
	require.Len(t, placements, 7)
	statuses := map[string]int{}
	for _, p := range placements {
		statuses[p.Status]++
	}
	assert.Equal(t, map[string]int{database.PlacementLinked: 5, database.PlacementLeftbehind: 2}, statuses)
}

func TestPerformOrganize_DryRunTouchesNothing(t *testing.T) {
	cfg := newLibrary(t)
	cfg.DryRun = true

	summary, err := NewOrganizeService(Options{Config: cfg, Reader: library}).PerformOrganize(context.Background())
	require.NoError(t, err)

	assert.True(t, summary.DryRun)
	assert.Equal(t, 5, summary.Linked)
	assert.NoDirExists(t, cfg.OrganizedDir)
	assert.NoDirExists(t, cfg.LeftbehindDir)
	assert.FileExists(t, cfg.ManualLogPath())
}

func TestPerformOrganize_ExistingDestination(t *testing.T) {
	cfg := newLibrary(t)
	stale := testutil.WriteFile(t, filepath.Join(cfg.OrganizedDir, "stale.txt"), "old")

	_, err := NewOrganizeService(Options{Config: cfg, Reader: library}).PerformOrganize(context.Background())
	require.ErrorIs(t, err, organizer.ErrDestinationExists)
	assert.FileExists(t, stale)

	data, err := os.ReadFile(cfg.ManualLogPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "Organization aborted")

	cfg.ForceEmpty = true
	summary, err := NewOrganizeService(Options{Config: cfg, Reader: library}).PerformOrganize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Linked)
	assert.NoFileExists(t, stale)
}

func TestPerformOrganize_FilterLimitsRun(t *testing.T) {
	cfg := newLibrary(t)
	cfg.Author = "herbert"

	summary, err := NewOrganizeService(Options{Config: cfg, Reader: library}).PerformOrganize(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Books)
	assert.Equal(t, 3, summary.Linked)
	assert.Equal(t, 1, summary.Leftbehind)
	assert.NoDirExists(t, filepath.Join(cfg.OrganizedDir, "Robert Jordan"))
	assert.FileExists(t, filepath.Join(cfg.LeftbehindDir, "Dune", "extras", "map.pdf"))
	assert.NoFileExists(t, filepath.Join(cfg.LeftbehindDir, "Broken", "01.mp3"))
}

func TestPerformOrganize_MissingSource(t *testing.T) {
	cfg := config.Config{SourcePath: filepath.Join(t.TempDir(), "missing"), Strategy: config.StrategyHardlink, Workers: 1}
	require.NoError(t, cfg.ResolvePaths())

	_, err := NewOrganizeService(Options{Config: cfg}).PerformOrganize(context.Background())
	require.Error(t, err)
	assert.NoDirExists(t, cfg.OrganizedDir)
}

func TestPerformOrganize_Canceled(t *testing.T) {
	cfg := newLibrary(t)
	runs, err := database.OpenRunStore(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer runs.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	summary, err := NewOrganizeService(Options{Config: cfg, Reader: library, Runs: runs}).PerformOrganize(ctx)
	require.ErrorIs(t, err, context.Canceled)

	run, err := runs.GetRun(summary.RunID)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, database.RunFailed, run.Status)
}

func TestAnalyze(t *testing.T) {
	cfg := newLibrary(t)
	svc := NewOrganizeService(Options{Config: cfg, Reader: library})

	analysis, err := svc.Analyze(context.Background())
	require.NoError(t, err)

	assert.Len(t, analysis.Folders, 3)
	assert.Len(t, analysis.Scanned, 3)
	require.Len(t, analysis.Books, 2)
	require.Len(t, analysis.Plans, 2)
	assert.Equal(t, analysis.Folders, analysis.SweepFolders(false))
	assert.Len(t, analysis.SweepFolders(true), 2)

	audio, _ := svc.Manual().Counts()
	assert.Equal(t, 2, audio, "unreadable file and unusable folder are both reported")
	assert.NoDirExists(t, cfg.OrganizedDir)
}

func TestAnalyze_FilterKeepsCollectionWideNames(t *testing.T) {
	src := filepath.Join(t.TempDir(), "books")
	testutil.WriteFile(t, filepath.Join(src, "Heir", "01.mp3"), "heir")
	testutil.WriteFile(t, filepath.Join(src, "Bane", "01.mp3"), "bane")
	reader := folderReader{
		"Heir": {Artist: "Timothy Zahn", Title: "Heir to the Empire", Album: "Star Wars #1", Track: "1/1"},
		"Bane": {Artist: "Drew Karpyshyn", Title: "Darth Bane", Album: "Star Wars #12", Track: "1/1"},
	}
	cfg := config.Config{SourcePath: src, Strategy: config.StrategyHardlink, Workers: 1}
	require.NoError(t, cfg.ResolvePaths())

	full, err := NewOrganizeService(Options{Config: cfg, Reader: reader}).Analyze(context.Background())
	require.NoError(t, err)
	require.Len(t, full.Plans, 2)

	cfg.Author = "Timothy Zahn"
	filtered, err := NewOrganizeService(Options{Config: cfg, Reader: reader}).Analyze(context.Background())
	require.NoError(t, err)
	require.Len(t, filtered.Plans, 1)

	want := filepath.Join("Timothy Zahn", "Star Wars", "01 - Heir to the Empire")
	assert.Equal(t, want, filtered.Plans[0].RelDir)

	for _, p := range full.Plans {
		if p.RelDir == want {
			assert.Equal(t, p.Placements, filtered.Plans[0].Placements)
			return
		}
	}
	t.Fatalf("full run has no plan for %s", want)
}

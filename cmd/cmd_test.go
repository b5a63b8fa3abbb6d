// file: cmd/cmd_test.go
// version: 2.0.0
// guid: 5480d7f7-4a6a-4b7f-9d16-6b589c8a3c0b

package cmd

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jdfalk/audiobook-librarian/internal/config"
	"github.com/jdfalk/audiobook-librarian/internal/database"
	"github.com/jdfalk/audiobook-librarian/internal/testutil"
)

func TestTruncateString(t *testing.T) {
	if got := truncateString("short", 10); got != "short" {
		t.Fatalf("expected no truncation, got %q", got)
	}
	if got := truncateString("this is long", 4); got != "this..." {
		t.Fatalf("expected truncation, got %q", got)
	}
}

func TestPromptYesNo(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"yes\n", true},
		{"  YES \n", true},
		{"no\n", false},
		{"y\n", false},
		{"yes", true},
		{"", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got, err := promptYesNo(strings.NewReader(tt.input), &out, "Delete")
		if err != nil {
			t.Fatalf("promptYesNo(%q) failed: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("promptYesNo(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if !strings.Contains(out.String(), "Delete?") {
			t.Errorf("prompt not written, got %q", out.String())
		}
	}
}

// testLibrary writes one two-track book and returns a resolved config for it.
func testLibrary(t *testing.T) config.Config {
	t.Helper()
	src := filepath.Join(t.TempDir(), "books")
	testutil.Book(t, filepath.Join(src, "Dune"), 2, map[string]string{
		"TIT2": "Dune",
		"TPE1": "Frank Herbert",
	})
	testutil.WriteFile(t, filepath.Join(src, "Dune", "cover.jpg"), "jpg")

	cfg := config.Config{
		SourcePath:   src,
		Strategy:     config.StrategyHardlink,
		VerifyCopies: true,
		Workers:      2,
		EnableCache:  true,
		LogLevel:     "error",
	}
	if err := cfg.ResolvePaths(); err != nil {
		t.Fatalf("ResolvePaths failed: %v", err)
	}
	return cfg
}

func TestRunPlanFillsCache(t *testing.T) {
	cfg := testLibrary(t)

	var out bytes.Buffer
	if err := runPlan(context.Background(), cfg, &out, io.Discard); err != nil {
		t.Fatalf("runPlan failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		filepath.Join("Frank Herbert", "Dune"),
		"Dune Track 01 of 02.mp3 <- " + filepath.Join("Dune", "01.mp3"),
		"Dune Cover.jpg",
		"1 books, 3 files planned from 1 folders",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("plan output missing %q:\n%s", want, got)
		}
	}

	var stats bytes.Buffer
	if err := runCacheStats(cfg.CachePath(), &stats); err != nil {
		t.Fatalf("runCacheStats failed: %v", err)
	}
	if !strings.Contains(stats.String(), "Cached files: 2") {
		t.Errorf("expected two cached files, got %q", stats.String())
	}

	var dump bytes.Buffer
	if err := runCacheDump(cfg.CachePath(), 5, "meta:file:", &dump); err != nil {
		t.Fatalf("runCacheDump failed: %v", err)
	}
	if strings.Count(dump.String(), "Key: meta:file:") != 2 {
		t.Errorf("expected two keys in dump, got:\n%s", dump.String())
	}
	if err := runCacheDump(cfg.CachePath(), 0, "", &dump); err == nil {
		t.Fatal("expected error for non-positive limit")
	}

	var cleared bytes.Buffer
	if err := runCacheClear(cfg.CachePath(), false, strings.NewReader("no\n"), &cleared); err != nil {
		t.Fatalf("runCacheClear failed: %v", err)
	}
	if !strings.Contains(cleared.String(), "Aborted") {
		t.Errorf("expected abort, got %q", cleared.String())
	}
	cleared.Reset()
	if err := runCacheClear(cfg.CachePath(), true, nil, &cleared); err != nil {
		t.Fatalf("runCacheClear failed: %v", err)
	}
	if !strings.Contains(cleared.String(), "Deleted 2 cached records") {
		t.Errorf("unexpected clear output %q", cleared.String())
	}
}

func TestRunOrganizeAndHistory(t *testing.T) {
	cfg := testLibrary(t)
	cfg.MetricsFile = filepath.Join(t.TempDir(), "run.prom")

	var out bytes.Buffer
	if err := runOrganize(context.Background(), cfg, &out, io.Discard); err != nil {
		t.Fatalf("runOrganize failed: %v", err)
	}
	for _, want := range []string{
		"Books organized: 1",
		"Files linked to organized directory: 3",
		"Errors: 0",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("summary missing %q:\n%s", want, out.String())
		}
	}

	store, err := database.OpenRunStore(cfg.ManifestPath())
	if err != nil {
		t.Fatalf("OpenRunStore failed: %v", err)
	}
	defer store.Close()

	var list bytes.Buffer
	if err := listRuns(store, 10, &list); err != nil {
		t.Fatalf("listRuns failed: %v", err)
	}
	runs, err := store.ListRuns(1)
	if err != nil || len(runs) != 1 {
		t.Fatalf("expected one run, got %d (%v)", len(runs), err)
	}
	if !strings.Contains(list.String(), runs[0].ID) {
		t.Errorf("run list missing %s:\n%s", runs[0].ID, list.String())
	}

	var detail bytes.Buffer
	if err := showRun(store, runs[0].ID, database.PlacementLinked, &detail); err != nil {
		t.Fatalf("showRun failed: %v", err)
	}
	if !strings.Contains(detail.String(), "3 of 3 placements shown") {
		t.Errorf("unexpected run detail:\n%s", detail.String())
	}
	if err := showRun(store, "missing", "", &detail); err == nil {
		t.Fatal("expected error for unknown run")
	}

	// A second run without --force-empty refuses the existing library.
	if err := runOrganize(context.Background(), cfg, io.Discard, io.Discard); err == nil {
		t.Fatal("expected existing destination to be refused")
	}
}

func TestListRunsEmpty(t *testing.T) {
	store, err := database.OpenRunStore(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("OpenRunStore failed: %v", err)
	}
	defer store.Close()

	var out bytes.Buffer
	if err := listRuns(store, 0, &out); err != nil {
		t.Fatalf("listRuns failed: %v", err)
	}
	if !strings.Contains(out.String(), "No runs recorded.") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestDataConfig(t *testing.T) {
	orig := config.AppConfig
	defer func() { config.AppConfig = orig }()

	config.AppConfig = config.Config{}
	if _, err := dataConfig(); err == nil {
		t.Fatal("expected error without source or data dir")
	}

	config.AppConfig = config.Config{DataDir: "/data"}
	cfg, err := dataConfig()
	if err != nil || cfg.DataDir != "/data" {
		t.Fatalf("expected explicit data dir, got %q (%v)", cfg.DataDir, err)
	}

	src := filepath.Join(t.TempDir(), "books")
	config.AppConfig = config.Config{SourcePath: src}
	cfg, err = dataConfig()
	if err != nil {
		t.Fatalf("dataConfig failed: %v", err)
	}
	if want := filepath.Join(filepath.Dir(src), config.DataDirName); cfg.DataDir != want {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, want)
	}
}

func TestConfigShow(t *testing.T) {
	orig := config.AppConfig
	defer func() { config.AppConfig = orig }()
	config.AppConfig = config.Config{Strategy: config.StrategyReflink, Workers: 3}

	var out bytes.Buffer
	configShowCmd.SetOut(&out)
	defer configShowCmd.SetOut(nil)
	if err := configShowCmd.RunE(configShowCmd, nil); err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(out.String(), "strategy: reflink") || !strings.Contains(out.String(), "workers: 3") {
		t.Errorf("unexpected YAML:\n%s", out.String())
	}
}

func TestConfigSave(t *testing.T) {
	orig := config.AppConfig
	defer func() { config.AppConfig = orig }()
	config.AppConfig = config.Config{Strategy: config.StrategyCopy, Workers: 1}

	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := configSaveCmd.Flags().Set("path", path); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}
	defer configSaveCmd.Flags().Set("path", "")

	var out bytes.Buffer
	configSaveCmd.SetOut(&out)
	defer configSaveCmd.SetOut(nil)
	if err := configSaveCmd.RunE(configSaveCmd, nil); err != nil {
		t.Fatalf("config save failed: %v", err)
	}
	if !strings.Contains(out.String(), path) {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestExecuteHelp(t *testing.T) {
	rootCmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "none.yaml"), "--help"})
	defer rootCmd.SetArgs(nil)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	defer rootCmd.SetOut(nil)

	if err := Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(out.String(), "organize") {
		t.Errorf("help output missing organize command:\n%s", out.String())
	}
}

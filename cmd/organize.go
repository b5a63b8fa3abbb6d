// file: cmd/organize.go
// version: 1.0.0
// guid: 2f7c9a14-b3e8-4d60-8a5f-c1e6d09b7a32

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jdfalk/audiobook-librarian/internal/config"
	"github.com/jdfalk/audiobook-librarian/internal/database"
	"github.com/jdfalk/audiobook-librarian/internal/logger"
	"github.com/jdfalk/audiobook-librarian/internal/metadata"
	"github.com/jdfalk/audiobook-librarian/internal/metrics"
	"github.com/jdfalk/audiobook-librarian/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// organizeCmd represents the organize command
var organizeCmd = &cobra.Command{
	Use:   "organize",
	Short: "Link the collection into an organized library",
	Long: `Scan the source directory, group its folders into logical books and link
every file into <source>_organized. Files that cannot be placed end up in
<source>_leftbehind with their original relative path.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolvedConfig()
		if err != nil {
			return err
		}
		return runOrganize(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

// planCmd represents the plan command
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the planned library without touching the filesystem",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolvedConfig()
		if err != nil {
			return err
		}
		return runPlan(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	flags := organizeCmd.Flags()
	flags.Bool("force-empty", false, "empty an existing organized directory without asking")
	flags.Bool("dry-run", false, "plan and report without linking anything")
	flags.String("strategy", config.StrategyHardlink, "link strategy: auto, hardlink, reflink, copy or symlink")
	flags.Bool("verify-copies", true, "compare SHA-256 of copied files with their source")
	flags.String("metrics-file", "", "write Prometheus metrics of the run to this file")

	viper.BindPFlag("force_empty", flags.Lookup("force-empty"))
	viper.BindPFlag("dry_run", flags.Lookup("dry-run"))
	viper.BindPFlag("strategy", flags.Lookup("strategy"))
	viper.BindPFlag("verify_copies", flags.Lookup("verify-copies"))
	viper.BindPFlag("metrics_file", flags.Lookup("metrics-file"))
}

// session holds what every organize-style command opens and must close.
type session struct {
	log    *logger.Logger
	reader metadata.RecordReader
	cache  *database.MetadataCache
	runs   *database.RunStore
}

func openSession(cfg config.Config, console io.Writer, withRuns bool) (*session, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	log, err := logger.New(logger.Options{
		Level:   logger.ParseLevel(cfg.LogLevel),
		Console: console,
		File:    cfg.LogPath(),
	})
	if err != nil {
		return nil, err
	}
	s := &session{log: log, reader: metadata.TagReader{}}
	log.Debug("Tag readers", "taglib", metadata.NativeTagsAvailable())

	if cfg.EnableCache {
		cache, err := database.OpenMetadataCache(cfg.CachePath(), nil, log)
		if err != nil {
			log.Warn("Metadata cache unavailable, reading tags directly", "error", err)
		} else {
			s.cache, s.reader = cache, cache
		}
	}
	if withRuns {
		runs, err := database.OpenRunStore(cfg.ManifestPath())
		if err != nil {
			log.Warn("Run history unavailable", "error", err)
		} else {
			s.runs = runs
		}
	}
	return s, nil
}

func (s *session) Close() {
	if s.cache != nil {
		if err := s.cache.Flush(); err != nil {
			s.log.Warn("failed to flush metadata cache", "error", err)
		}
		if stats, err := s.cache.Stats(); err == nil {
			s.log.Debug("Metadata cache", "entries", stats.Entries, "hits", stats.Hits, "misses", stats.Misses)
		}
		s.cache.Close()
	}
	if s.runs != nil {
		s.runs.Close()
	}
	s.log.Close()
}

// signalContext cancels on Ctrl-C or SIGTERM so a run stops between files.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func runOrganize(parent context.Context, cfg config.Config, out, errOut io.Writer) error {
	s, err := openSession(cfg, errOut, true)
	if err != nil {
		return err
	}
	defer s.Close()
	metrics.Register()

	ctx, stop := signalContext(parent)
	defer stop()

	fmt.Fprintf(out, "Source: %s\n", cfg.SourcePath)
	fmt.Fprintf(out, "Organized library: %s\n", cfg.OrganizedDir)
	fmt.Fprintf(out, "Leftbehind files: %s\n", cfg.LeftbehindDir)
	fmt.Fprintf(out, "Data directory: %s\n", cfg.DataDir)
	fmt.Fprintf(out, "Strategy: %s, workers: %d\n", cfg.Strategy, cfg.Workers)
	if cfg.Author != "" {
		fmt.Fprintf(out, "Focusing on author: %q\n", cfg.Author)
	}
	if cfg.Series != "" {
		fmt.Fprintf(out, "Focusing on series: %q\n", cfg.Series)
	}

	svc := pipeline.NewOrganizeService(pipeline.Options{
		Config:   cfg,
		Log:      s.log,
		Reader:   s.reader,
		Runs:     s.runs,
		Progress: errOut,
	})
	summary, runErr := svc.PerformOrganize(ctx)
	if summary.Duration > 0 {
		summary.WriteTo(out)
		fmt.Fprintf(out, "Manual actions: %s\n", cfg.ManualLogPath())
	}

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			s.log.Error("failed to write metrics", "path", cfg.MetricsFile, "error", err)
		}
	}
	return runErr
}

func runPlan(parent context.Context, cfg config.Config, out, errOut io.Writer) error {
	s, err := openSession(cfg, errOut, false)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signalContext(parent)
	defer stop()

	svc := pipeline.NewOrganizeService(pipeline.Options{Config: cfg, Log: s.log, Reader: s.reader, Progress: errOut})
	analysis, err := svc.Analyze(ctx)
	if err != nil {
		return err
	}

	files := 0
	for _, plan := range analysis.Plans {
		fmt.Fprintln(out, plan.RelDir+string(filepath.Separator))
		for _, p := range plan.Placements {
			name, err := filepath.Rel(plan.RelDir, p.RelPath)
			if err != nil {
				name = p.RelPath
			}
			src, err := filepath.Rel(cfg.SourcePath, p.Source)
			if err != nil {
				src = p.Source
			}
			fmt.Fprintf(out, "  %s <- %s\n", name, src)
			files++
		}
	}
	audio, other := svc.Manual().Counts()
	fmt.Fprintf(out, "\n%d books, %d files planned from %d folders; %d audio and %d other notes.\n",
		len(analysis.Plans), files, len(analysis.Folders), audio, other)
	return nil
}

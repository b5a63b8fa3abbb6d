// file: cmd/history.go
// version: 1.0.0
// guid: 5d1a8e36-f2c7-4b09-9e64-0a3c7b2d81f5

package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/jdfalk/audiobook-librarian/internal/database"
	"github.com/jdfalk/audiobook-librarian/internal/report"
	"github.com/spf13/cobra"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history [RUN_ID]",
	Short: "List past runs, or the placements of one run",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := dataConfig()
		if err != nil {
			return err
		}
		store, err := database.OpenRunStore(cfg.ManifestPath())
		if err != nil {
			return err
		}
		defer store.Close()

		if len(args) == 0 {
			limit, _ := cmd.Flags().GetInt("limit")
			return listRuns(store, limit, cmd.OutOrStdout())
		}
		status, _ := cmd.Flags().GetString("status")
		return showRun(store, args[0], status, cmd.OutOrStdout())
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Number of runs to list (0 for all)")
	historyCmd.Flags().String("status", "", "Only show placements with this status (linked, leftbehind, failed, planned)")
}

func listRuns(store *database.RunStore, limit int, out io.Writer) error {
	runs, err := store.ListRuns(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	fmt.Fprintf(out, "%-26s  %-19s  %-9s  %5s  %6s  %10s  %6s\n", "RUN", "STARTED", "STATUS", "BOOKS", "LINKED", "LEFTBEHIND", "ERRORS")
	for _, r := range runs {
		status := r.Status
		if r.DryRun {
			status += "*"
		}
		fmt.Fprintf(out, "%-26s  %-19s  %-9s  %5d  %6d  %10d  %6d\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), status, r.Books, r.Linked, r.Leftbehind, r.Errors)
	}
	fmt.Fprintln(out, "* dry run")
	return nil
}

func showRun(store *database.RunStore, id, status string, out io.Writer) error {
	run, err := store.GetRun(id)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %s not found", id)
	}

	fmt.Fprintf(out, "Run: %s (%s)\n", run.ID, run.Status)
	fmt.Fprintf(out, "Source: %s\n", run.SourcePath)
	fmt.Fprintf(out, "Organized: %s\n", run.OrganizedDir)
	fmt.Fprintf(out, "Strategy: %s, dry run: %t\n", run.Strategy, run.DryRun)
	fmt.Fprintf(out, "Started: %s\n", run.StartedAt.Local().Format(time.DateTime))
	if !run.FinishedAt.IsZero() {
		fmt.Fprintf(out, "Duration: %s\n", report.FormatDuration(run.FinishedAt.Sub(run.StartedAt)))
	}

	placements, err := store.RunPlacements(run.ID)
	if err != nil {
		return err
	}
	shown := 0
	for _, p := range placements {
		if status != "" && p.Status != status {
			continue
		}
		fmt.Fprintf(out, "[%s] %s -> %s", p.Status, p.Source, p.Destination)
		if p.Error != "" {
			fmt.Fprintf(out, " (%s)", p.Error)
		}
		fmt.Fprintln(out)
		shown++
	}
	fmt.Fprintf(out, "%d of %d placements shown.\n", shown, len(placements))
	return nil
}

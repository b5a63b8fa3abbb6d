// file: cmd/cache.go
// version: 2.0.0
// guid: c8f6a0d4-2a8b-48cf-9d08-02cc9915d9fc

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/pebble/v2"
	"github.com/jdfalk/audiobook-librarian/internal/database"
	"github.com/spf13/cobra"
)

var (
	cacheCmd = &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the metadata cache",
		Long:  "Utilities for the Pebble store that remembers the tags of already scanned files.",
	}

	cacheStatsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Show how many files the cache holds",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := dataConfig()
			if err != nil {
				return err
			}
			return runCacheStats(cfg.CachePath(), cmd.OutOrStdout())
		},
	}

	cacheClearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Forget every cached record",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := dataConfig()
			if err != nil {
				return err
			}
			force, _ := cmd.Flags().GetBool("yes")
			return runCacheClear(cfg.CachePath(), force, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cacheDumpCmd = &cobra.Command{
		Use:   "dump",
		Short: "Show raw cache keys and values",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := dataConfig()
			if err != nil {
				return err
			}
			limit, _ := cmd.Flags().GetInt("limit")
			prefix, _ := cmd.Flags().GetString("prefix")
			return runCacheDump(cfg.CachePath(), limit, prefix, cmd.OutOrStdout())
		},
	}
)

func init() {
	cacheClearCmd.Flags().Bool("yes", false, "Skip confirmation prompt")

	cacheDumpCmd.Flags().Int("limit", 5, "Number of records to display")
	cacheDumpCmd.Flags().String("prefix", "meta:file:", "Key prefix to inspect")

	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheDumpCmd)
}

func runCacheStats(path string, out io.Writer) error {
	cache, err := database.OpenMetadataCache(path, nil, nil)
	if err != nil {
		return err
	}
	defer cache.Close()

	stats, err := cache.Stats()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Cache: %s\n", path)
	fmt.Fprintf(out, "Cached files: %d\n", stats.Entries)
	return nil
}

func runCacheClear(path string, force bool, in io.Reader, out io.Writer) error {
	cache, err := database.OpenMetadataCache(path, nil, nil)
	if err != nil {
		return err
	}
	defer cache.Close()

	stats, err := cache.Stats()
	if err != nil {
		return err
	}
	if stats.Entries == 0 {
		fmt.Fprintln(out, "Cache is already empty.")
		return nil
	}

	if !force {
		confirmed, err := promptYesNo(in, out, fmt.Sprintf("Delete %d cached records", stats.Entries))
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(out, "Aborted. No records deleted.")
			return nil
		}
	}

	if err := cache.Clear(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Deleted %d cached records. The next run rereads every file.\n", stats.Entries)
	return nil
}

func runCacheDump(path string, limit int, prefix string, out io.Writer) error {
	if limit <= 0 {
		return errors.New("limit must be positive")
	}
	db, err := pebble.Open(path, &pebble.Options{
		FormatMajorVersion: pebble.FormatNewest,
		ReadOnly:           true,
	})
	if err != nil {
		return fmt.Errorf("failed to open Pebble database: %w", err)
	}
	defer db.Close()

	iterOpts := &pebble.IterOptions{}
	if prefix != "" {
		iterOpts.LowerBound = []byte(prefix)
		iterOpts.UpperBound = append([]byte(prefix), 0xFF)
	}

	iter, err := db.NewIter(iterOpts)
	if err != nil {
		return fmt.Errorf("failed to create iterator: %w", err)
	}
	defer iter.Close()

	count := 0
	for ok := iter.First(); ok && iter.Valid(); ok = iter.Next() {
		fmt.Fprintf(out, "Key: %s\n", string(iter.Key()))
		val := iter.Value()
		fmt.Fprintf(out, "Value length: %d bytes\n", len(val))
		fmt.Fprintf(out, "Value preview: %s\n", truncateString(string(val), 500))
		fmt.Fprintln(out, "---")

		count++
		if count >= limit {
			break
		}
	}

	if err := iter.Error(); err != nil {
		return fmt.Errorf("iterator error: %w", err)
	}
	if count == 0 {
		fmt.Fprintln(out, "No keys matched the requested prefix.")
	}
	return nil
}

func promptYesNo(in io.Reader, out io.Writer, action string) (bool, error) {
	fmt.Fprintf(out, "%s? Type 'yes' to confirm: ", action)
	reader := bufio.NewReader(in)
	response, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "yes", nil
}

func truncateString(in string, max int) string {
	if len(in) <= max {
		return in
	}
	return in[:max] + "..."
}

// file: cmd/root.go
// version: 2.0.0
// guid: 6a7b8c9d-0e1f-2a3b-4c5d-6e7f8a9b0c1d

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/jdfalk/audiobook-librarian/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. AUDIOBOOK_LIBRARIAN_WORKERS.
const EnvPrefix = "AUDIOBOOK_LIBRARIAN"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "audiobook-librarian",
	Short: "Organize audiobooks into an Author/Series/Title library",
	Long: `Audiobook Librarian reads the tags of a messy audiobook collection and
links every file into a clean Author/Series/NN - Title tree next to it.

Sources are never modified. Files that cannot be placed are linked into a
parallel _leftbehind tree, and anything needing attention is listed in the
manual actions log.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/"+config.ConfigFileName+")")
	flags.String("source-path", "", "root directory containing the audiobooks")
	flags.String("data-dir", "", "directory for logs, cache and run history (default: beside the source)")
	flags.String("author", "", "only organize books by this author (fuzzy, accent-insensitive)")
	flags.String("series", "", "only organize books of this series (fuzzy, accent-insensitive)")
	flags.Int("workers", 0, "parallel workers (default: number of CPUs)")
	flags.Bool("no-cache", false, "read every file's tags instead of using the metadata cache")
	flags.String("log-level", "info", "console log level: debug, info, warn or error")

	viper.BindPFlag("source_path", flags.Lookup("source-path"))
	viper.BindPFlag("data_dir", flags.Lookup("data-dir"))
	viper.BindPFlag("author", flags.Lookup("author"))
	viper.BindPFlag("series", flags.Lookup("series"))
	viper.BindPFlag("log_level", flags.Lookup("log-level"))

	rootCmd.AddCommand(organizeCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(strings.TrimSuffix(config.ConfigFileName, ".yaml"))
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	config.InitConfig()
	applyFlagOverrides()
}

// applyFlagOverrides copies flags whose zero value means "use the default"
// onto AppConfig only when they were set.
func applyFlagOverrides() {
	flags := rootCmd.PersistentFlags()
	if flags.Changed("workers") {
		if n, err := flags.GetInt("workers"); err == nil && n > 0 {
			config.AppConfig.Workers = n
		}
	}
	if flags.Changed("no-cache") {
		if off, err := flags.GetBool("no-cache"); err == nil {
			config.AppConfig.EnableCache = !off
		}
	}
}

// resolvedConfig returns AppConfig with its derived paths filled in.
func resolvedConfig() (config.Config, error) {
	cfg := config.AppConfig
	if err := cfg.ResolvePaths(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// dataConfig locates the data directory for commands that only read it.
func dataConfig() (config.Config, error) {
	cfg := config.AppConfig
	if cfg.DataDir != "" {
		return cfg, nil
	}
	if err := cfg.ResolvePaths(); err != nil {
		return cfg, fmt.Errorf("set --source-path or --data-dir: %w", err)
	}
	return cfg, nil
}

// file: internal/config/config.go
// version: 2.0.0
// guid: 7b8c9d0e-1f2a-3b4c-5d6e-7f8a9b0c1d2e

package config

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Link strategies accepted by the organizer.
const (
	StrategyAuto     = "auto"
	StrategyHardlink = "hardlink"
	StrategyReflink  = "reflink"
	StrategyCopy     = "copy"
	StrategySymlink  = "symlink"
)

// DataDirName is created next to the source directory and holds logs, the
// metadata cache, the run manifest and the tree listings.
const DataDirName = ".audiobook_organizer_data"

// Config holds application configuration
type Config struct {
	SourcePath    string `yaml:"source_path"`
	OrganizedDir  string `yaml:"organized_dir"`
	LeftbehindDir string `yaml:"leftbehind_dir"`
	DataDir       string `yaml:"data_dir"`

	Author string `yaml:"author,omitempty"`
	Series string `yaml:"series,omitempty"`

	ForceEmpty   bool   `yaml:"force_empty"`
	DryRun       bool   `yaml:"dry_run"`
	Strategy     string `yaml:"strategy"`
	VerifyCopies bool   `yaml:"verify_copies"`
	Workers      int    `yaml:"workers"`

	EnableCache bool   `yaml:"enable_cache"`
	LogLevel    string `yaml:"log_level"`
	MetricsFile string `yaml:"metrics_file,omitempty"`
}

var AppConfig Config

// InitConfig initializes the application configuration
func InitConfig() {
	viper.SetDefault("strategy", StrategyHardlink)
	viper.SetDefault("verify_copies", true)
	viper.SetDefault("workers", runtime.NumCPU())
	viper.SetDefault("enable_cache", true)
	viper.SetDefault("log_level", "info")

	AppConfig = Config{
		SourcePath:    viper.GetString("source_path"),
		OrganizedDir:  viper.GetString("organized_dir"),
		LeftbehindDir: viper.GetString("leftbehind_dir"),
		DataDir:       viper.GetString("data_dir"),
		Author:        viper.GetString("author"),
		Series:        viper.GetString("series"),
		ForceEmpty:    viper.GetBool("force_empty"),
		DryRun:        viper.GetBool("dry_run"),
		Strategy:      strings.ToLower(strings.TrimSpace(viper.GetString("strategy"))),
		VerifyCopies:  viper.GetBool("verify_copies"),
		Workers:       viper.GetInt("workers"),
		EnableCache:   viper.GetBool("enable_cache"),
		LogLevel:      viper.GetString("log_level"),
		MetricsFile:   viper.GetString("metrics_file"),
	}

	if AppConfig.Strategy == "" {
		AppConfig.Strategy = StrategyHardlink
	}
	if AppConfig.Workers < 1 {
		AppConfig.Workers = 1
	}
}

// ResolvePaths cleans SourcePath and fills the derived directories that were
// not set explicitly: <source>_organized, <source>_leftbehind and the data
// directory beside the source.
func (c *Config) ResolvePaths() error {
	if strings.TrimSpace(c.SourcePath) == "" {
		return fmt.Errorf("source path is required")
	}
	abs, err := filepath.Abs(c.SourcePath)
	if err != nil {
		return fmt.Errorf("failed to resolve source path: %w", err)
	}
	c.SourcePath = abs

	parent, name := filepath.Split(abs)
	if c.OrganizedDir == "" {
		c.OrganizedDir = filepath.Join(parent, name+"_organized")
	}
	if c.LeftbehindDir == "" {
		c.LeftbehindDir = filepath.Join(parent, name+"_leftbehind")
	}
	if c.DataDir == "" {
		c.DataDir = filepath.Join(parent, DataDirName)
	}
	return nil
}

// Validate checks values that cannot be fixed up silently.
func (c *Config) Validate() error {
	switch c.Strategy {
	case StrategyAuto, StrategyHardlink, StrategyReflink, StrategyCopy, StrategySymlink:
	default:
		return fmt.Errorf("unknown strategy %q", c.Strategy)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return nil
}

// Files kept in the data directory.
func (c *Config) LogPath() string       { return filepath.Join(c.DataDir, "organize.log") }
func (c *Config) ManualLogPath() string { return filepath.Join(c.DataDir, "manual_actions_required.log") }
func (c *Config) CachePath() string     { return filepath.Join(c.DataDir, "metadata-cache") }
func (c *Config) ManifestPath() string  { return filepath.Join(c.DataDir, "runs.db") }
func (c *Config) TreeListingPath(kind string) string {
	return filepath.Join(c.DataDir, kind+"_ls_result.txt")
}

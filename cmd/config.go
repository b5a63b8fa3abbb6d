// file: cmd/config.go
// version: 1.0.0
// guid: 8a3f6c20-1d9e-4b75-a2c8-e0f4d7b19c63

package cmd

import (
	"fmt"

	"github.com/jdfalk/audiobook-librarian/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or save the effective configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.AppConfig
		if cfg.SourcePath != "" {
			if err := cfg.ResolvePaths(); err != nil {
				return err
			}
		}
		data, err := cfg.YAML()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Write the effective configuration to the config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("path")
		if path == "" {
			path = config.ConfigFilePath()
		}
		if err := config.SaveConfigFile(path, config.AppConfig); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved to %s\n", path)
		return nil
	},
}

func init() {
	configSaveCmd.Flags().String("path", "", "file to write (default is $HOME/"+config.ConfigFileName+")")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSaveCmd)
}

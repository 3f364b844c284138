package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"edachat/config"
)

// configCmd inspects the effective configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration with the API key redacted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		loader := newConfigLoader()
		cfg, err := loader.Load(configFile)
		if err != nil {
			return WrapError("Config", "Load", err)
		}
		data, err := json.MarshalIndent(cfg.Redacted(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print where the configuration is stored",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := newConfigLoader().GetConfigPath()
		if err != nil {
			return WrapError("Config", "GetConfigPath", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
}

func newConfigLoader() *config.Loader {
	loader := config.NewLoader(nil)
	if storageDir != "" {
		loader.SetStorageDir(storageDir)
	}
	return loader
}

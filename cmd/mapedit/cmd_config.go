package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jask/mapedit/internal/config"
	"github.com/jask/mapedit/internal/input"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or write the configuration file",
}

var configSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Write the effective configuration, including key bindings, to the config file",
	RunE:  runConfigSave,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), config.Path())
	},
}

func init() {
	configCmd.AddCommand(configSaveCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigSave(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := input.Keys.ApplyOverrides(cfg.Keys); err != nil {
		return fmt.Errorf("key overrides: %w", err)
	}
	cfg.Keys = input.Keys.Export()
	if err := config.Save(cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", config.Path())
	return nil
}

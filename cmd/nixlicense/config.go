package main

import (
	"fmt"

	"github.com/nao1215/nixlicense/internal/config"
	"github.com/spf13/cobra"
)

// buildConfig creates a Config from defaults, the configuration file and
// the global flags, in increasing order of precedence. Command specific
// flags are applied by the caller.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	if flag := cmd.Flags().Lookup("config"); flag != nil {
		cfg.ConfigFilePath = flag.Value.String()
	}

	// An explicitly named config file must exist; otherwise a missing
	// file just means defaults.
	found := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case found != "":
		file, err := config.LoadConfigFile(found)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", found, err)
		}
		file.Apply(cfg)
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	cfg.Verbose = getBoolFlag(cmd, "verbose")
	cfg.LogJSON = getBoolFlag(cmd, "log-json")

	return cfg, nil
}

// changedString stores the value of a string flag in dst when the user set it.
func changedString(cmd *cobra.Command, name string, dst *string) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return err
	}
	*dst = value
	return nil
}

// changedBool stores the value of a bool flag in dst when the user set it.
func changedBool(cmd *cobra.Command, name string, dst *bool) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		return err
	}
	*dst = value
	return nil
}

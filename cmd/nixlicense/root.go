package main

import (
	"fmt"
	"log/slog"
	"os"

	applog "github.com/nao1215/nixlicense/internal/log"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for nixlicense.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nixlicense",
		Short: "License report generator for nixpkgs packages",
		Long: `nixlicense builds a license table for a list of nixpkgs packages.

For every identifier in the input list it runs
  nix eval --json nixpkgs#<identifier>.meta.license
and writes name, fullName, shortName, spdxId and url as one CSV row.
Identifiers that cannot be evaluated are left out of the table.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON lines")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .nixlicense in current directory, then XDG config directory)")

	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewDistCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getBoolFlag retrieves a bool flag from the command or its root.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		value, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return value
}

// setupLogger creates the sanitizing logger selected by the global flags.
func setupLogger(cmd *cobra.Command, verbose, jsonLogs bool) *slog.Logger {
	if jsonLogs {
		return applog.NewJSONLogger(cmd.ErrOrStderr(), verbose)
	}
	return applog.NewLogger(cmd.ErrOrStderr(), verbose)
}

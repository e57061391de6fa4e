package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/nixlicense/internal/config"
	"github.com/nao1215/nixlicense/internal/database"
	"github.com/nao1215/nixlicense/internal/pipeline"
	"github.com/nao1215/nixlicense/internal/source"
	"github.com/spf13/cobra"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build the license table for a list of package identifiers",
		Long: `Report reads package identifiers, one per line, and writes their
licenses as CSV with the columns name,fullName,shortName,spdxId,url.

Each identifier is evaluated with
  nix eval --json nixpkgs#<identifier>.meta.license
one after another, in input order. Identifiers whose evaluation fails or
prints something other than a license object are left out of the table.
The output file is truncated at the start of every run.

Examples:
  # Use the defaults (./data/pkgs.txt -> ./data/pkgs.csv)
  nixlicense report

  # Custom paths
  nixlicense report -i top-packages.txt -o top-packages.csv

  # Enable flakes for nix installations that lack them
  nixlicense report --eval-arg=--extra-experimental-features --eval-arg="nix-command flakes"

  # Evaluate against a pinned nixpkgs and keep the run in history
  nixlicense report --namespace github:NixOS/nixpkgs/nixos-24.05 --history`,
		Args: cobra.NoArgs,
		RunE: runReportCmd,
	}

	cmd.Flags().StringP("input", "i", config.DefaultInputPath,
		"Identifier list, one identifier per line")
	cmd.Flags().StringP("output", "o", config.DefaultOutputPath,
		"License table to write (truncated on every run)")

	// Evaluator flags
	cmd.Flags().String("evaluator", config.DefaultCommand,
		"Evaluator executable")
	cmd.Flags().StringP("namespace", "n", config.DefaultNamespace,
		"Attribute set identifiers are looked up in")
	cmd.Flags().StringArray("eval-arg", nil,
		"Extra argument passed to the evaluator after 'eval' (repeatable)")
	cmd.Flags().Duration("eval-timeout", config.DefaultTimeout,
		"Timeout for each evaluation (0 disables the timeout)")
	cmd.Flags().Bool("strict-exit", false,
		"Drop identifiers whose evaluator exits non-zero even if its output parses")

	// History flags
	cmd.Flags().Bool("history", false,
		"Record the run in the history database")
	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")

	return cmd
}

// runReportCmd executes the report command.
func runReportCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildReportConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd, cfg.Verbose, cfg.LogJSON)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runReport(ctx, cfg, logger)
}

// buildReportConfig applies the report flags on top of buildConfig.
func buildReportConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, err
	}

	for name, dst := range map[string]*string{
		"input":     &cfg.InputPath,
		"output":    &cfg.OutputPath,
		"evaluator": &cfg.Command,
		"namespace": &cfg.Namespace,
		"db-dir":    &cfg.DBDir,
	} {
		if err := changedString(cmd, name, dst); err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("eval-arg") {
		cfg.EvalArgs, err = cmd.Flags().GetStringArray("eval-arg")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("eval-timeout") {
		cfg.Timeout, err = cmd.Flags().GetDuration("eval-timeout")
		if err != nil {
			return nil, err
		}
	}

	if err := changedBool(cmd, "strict-exit", &cfg.StrictExitStatus); err != nil {
		return nil, err
	}
	if err := changedBool(cmd, "history", &cfg.History); err != nil {
		return nil, err
	}

	return cfg, nil
}

// runReport builds the license table described by cfg.
func runReport(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting report",
		"input", cfg.InputPath,
		"output", cfg.OutputPath,
		"evaluator", cfg.Command,
		"namespace", cfg.Namespace,
		"history", cfg.History,
	)

	nix := source.NewNix(
		source.WithCommand(cfg.Command),
		source.WithNamespace(cfg.Namespace),
		source.WithArgs(cfg.EvalArgs...),
		source.WithTimeout(cfg.Timeout),
		source.WithStrictExitStatus(cfg.StrictExitStatus),
		source.WithLogger(logger),
	)

	opts := []pipeline.Option{pipeline.WithLogger(logger)}

	var recorder *database.Recorder
	if cfg.History {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "path", db.Path())

		recorder = database.NewRecorder(db, cfg.InputPath, cfg.OutputPath)
		opts = append(opts, pipeline.WithSink(recorder))
	}

	result, err := pipeline.NewReportBuilder(nix, opts...).Run(ctx, cfg.InputPath, cfg.OutputPath)
	if err != nil {
		return err
	}

	if recorder != nil {
		run, err := recorder.Save(ctx, result.Lines, result.InvalidLines, len(result.Dropped))
		if err != nil {
			return err
		}
		logger.Info("run recorded", "id", run.ID, "uuid", run.UUID)
	}

	return nil
}

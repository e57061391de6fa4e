package main

import (
	"fmt"
	"io"
	"os"

	"github.com/nao1215/nixlicense/internal/config"
	"github.com/nao1215/nixlicense/internal/model"
	"github.com/nao1215/nixlicense/internal/report"
	"github.com/spf13/cobra"
)

// NewDistCmd creates the dist command.
func NewDistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dist",
		Short: "Summarize the license distribution of a license table",
		Long: `Dist reads a license table written by 'nixlicense report' and groups
its rows by license family, the part of the SPDX identifier before the
first '-' (GPL-3.0-or-later belongs to GPL).

It writes a license,sub-license,count table and prints a summary.

Examples:
  # Use the defaults (./data/pkgs.csv -> ./data/pkgs_distribution.csv)
  nixlicense dist

  # Markdown summary with a pie chart, e.g. for a README
  nixlicense dist --markdown > LICENSES.md

  # JSON summary for other tools
  nixlicense dist --json | jq '.families[0]'`,
		Args: cobra.NoArgs,
		RunE: runDistCmd,
	}

	cmd.Flags().StringP("input", "i", config.DefaultOutputPath,
		"License table to read")
	cmd.Flags().StringP("output", "o", config.DefaultDistributionPath,
		"Distribution table to write")

	cmd.Flags().BoolP("json", "j", false,
		"Print the summary as JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Print the summary as Markdown (mutually exclusive with --json)")

	return cmd
}

// runDistCmd executes the dist command.
func runDistCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := changedString(cmd, "input", &cfg.OutputPath); err != nil {
		return err
	}
	if err := changedString(cmd, "output", &cfg.DistributionPath); err != nil {
		return err
	}
	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd, cfg.Verbose, cfg.LogJSON)

	dist, err := loadDistribution(cfg.OutputPath)
	if err != nil {
		return err
	}

	if err := writeDistributionTable(cfg.DistributionPath, dist); err != nil {
		return err
	}
	logger.Info("distribution table written",
		"path", cfg.DistributionPath,
		"packages", dist.Total,
		"families", len(dist.Families),
	)

	_, err = summaryWriter(cmd.OutOrStdout(), cfg).WriteDistribution(dist)
	return err
}

// loadDistribution reads a license table and computes its distribution.
func loadDistribution(path string) (*model.Distribution, error) {
	f, err := os.Open(path) //nolint:gosec // user-provided input path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open license table: %w", err)
	}
	defer f.Close()

	pkgs, err := report.ReadPkgs(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return model.NewDistribution(pkgs), nil
}

// writeDistributionTable writes dist as CSV to path.
func writeDistributionTable(path string, dist *model.Distribution) error {
	f, err := os.Create(path) //nolint:gosec // user-provided output path is intentional
	if err != nil {
		return fmt.Errorf("failed to create distribution table: %w", err)
	}

	if _, err := report.NewDistributionCSVWriter(f).WriteDistribution(dist); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write distribution table: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close distribution table: %w", err)
	}
	return nil
}

// summaryWriter selects the summary format from cfg.
func summaryWriter(w io.Writer, cfg *config.Config) report.DistributionWriter {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(w, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(w)
	default:
		return report.NewSimpleWriter(w, report.WithVerbose(cfg.Verbose))
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/nixlicense/internal/database"
	"github.com/nao1215/nixlicense/internal/model"
	"github.com/nao1215/nixlicense/internal/report"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
// This command compares license tables recorded by 'report --history'.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Compare recorded report runs",
		Long: `History shows how package licenses changed between recorded runs.

Runs are recorded by 'nixlicense report --history'. By default the latest
run is compared with the one before it and the output lists:
- Packages that appeared since the previous run
- Packages that disappeared
- Packages whose SPDX identifier or license name changed

Examples:
  # Compare the latest two runs
  nixlicense history

  # List recorded runs
  nixlicense history --list

  # Compare the latest run with run 3
  nixlicense history --with-run-id 3

  # Output comparison in JSON format
  nixlicense history --json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list", "l", false,
		"List recorded runs")
	cmd.Flags().Int("limit", 20,
		"Maximum number of runs listed by --list (0 lists all)")
	cmd.Flags().Int64P("with-run-id", "r", 0,
		"Compare the latest run with a specific run by ID (use --list to see available IDs)")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")
	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := changedString(cmd, "db-dir", &cfg.DBDir); err != nil {
		return err
	}

	list, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	withRunID, err := cmd.Flags().GetInt64("with-run-id")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.DBDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if list {
		return listRuns(ctx, db, out, limit, jsonOutput)
	}

	comparison, err := compareRuns(ctx, db, withRunID)
	if err != nil {
		return err
	}
	if jsonOutput {
		_, err := report.NewJSONWriter(out, report.WithPrettyPrint()).WriteValue(comparison)
		return err
	}
	return outputComparisonText(out, comparison)
}

// listRuns prints recorded runs, newest first.
func listRuns(ctx context.Context, db *database.HistoryDB, out io.Writer, limit int, jsonOutput bool) error {
	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		if runs == nil {
			runs = []database.Run{}
		}
		_, err := report.NewJSONWriter(out, report.WithPrettyPrint()).WriteValue(runs)
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No recorded runs found in the database.")
		fmt.Fprintln(out, "\nUse 'nixlicense report --history' to record a run.")
		return nil
	}

	fmt.Fprintf(out, "Recorded runs (%d):\n\n", len(runs))
	fmt.Fprintf(out, "  %-6s  %-20s  %-8s  %-8s  %s\n", "ID", "Date", "Written", "Dropped", "Input")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 64))
	for _, run := range runs {
		fmt.Fprintf(out, "  %-6d  %-20s  %-8d  %-8d  %s\n",
			run.ID,
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.Written,
			run.Dropped,
			run.Input,
		)
	}

	fmt.Fprintln(out, "\nUse 'nixlicense history' to compare the latest two runs.")
	fmt.Fprintln(out, "Use 'nixlicense history --with-run-id <id>' to compare with a specific run.")

	return nil
}

// RunComparison holds the result of comparing two recorded runs.
type RunComparison struct {
	// Previous is the older run.
	Previous database.Run `json:"previous"`

	// Current is the latest run.
	Current database.Run `json:"current"`

	// Diff lists the package level differences.
	Diff *model.RunDiff `json:"diff"`
}

// compareRuns compares the latest run with withRunID, or with the run
// before it when withRunID is zero.
func compareRuns(ctx context.Context, db *database.HistoryDB, withRunID int64) (*RunComparison, error) {
	latest, err := db.ListRuns(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(latest) == 0 {
		return nil, errors.New("no recorded runs found (use 'nixlicense report --history' first)")
	}
	current := latest[0]

	var previous *database.Run
	if withRunID > 0 {
		previous, err = db.GetRunByID(ctx, withRunID)
		if err != nil {
			return nil, fmt.Errorf("failed to get run with ID %d: %w", withRunID, err)
		}
		if previous.ID == current.ID {
			return nil, fmt.Errorf("run %d is the latest run; choose an older run", withRunID)
		}
	} else {
		previous, err = db.GetPreviousRun(ctx, current.ID)
		if err != nil {
			return nil, fmt.Errorf("at least 2 runs are required for comparison: %w", err)
		}
	}

	previousPkgs, err := db.GetRunPkgs(ctx, previous.ID)
	if err != nil {
		return nil, err
	}
	currentPkgs, err := db.GetRunPkgs(ctx, current.ID)
	if err != nil {
		return nil, err
	}

	return &RunComparison{
		Previous: *previous,
		Current:  current,
		Diff:     model.DiffPkgs(previousPkgs, currentPkgs),
	}, nil
}

// outputComparisonText outputs the comparison in human-readable text format.
func outputComparisonText(out io.Writer, c *RunComparison) error {
	fmt.Fprintf(out, "Run Comparison: #%d -> #%d\n", c.Previous.ID, c.Current.ID)
	fmt.Fprintln(out, strings.Repeat("=", 60))

	fmt.Fprintf(out, "\nPrevious run: %s  (%d packages)\n",
		c.Previous.StartedAt.Format("2006-01-02 15:04:05"), c.Previous.Written)
	fmt.Fprintf(out, "Current run:  %s  (%d packages)\n",
		c.Current.StartedAt.Format("2006-01-02 15:04:05"), c.Current.Written)

	d := c.Diff
	if !d.HasChanges() {
		fmt.Fprintf(out, "\nNo license changes (%d packages unchanged)\n", d.UnchangedCount)
		return nil
	}

	if len(d.Added) > 0 {
		fmt.Fprintf(out, "\nAdded (%d):\n", len(d.Added))
		for _, p := range d.Added {
			fmt.Fprintf(out, "  [+] %s: %s\n", p.Name, licenseLabel(p.License))
		}
	}

	if len(d.Removed) > 0 {
		fmt.Fprintf(out, "\nRemoved (%d):\n", len(d.Removed))
		for _, p := range d.Removed {
			fmt.Fprintf(out, "  [-] %s: %s\n", p.Name, licenseLabel(p.License))
		}
	}

	if len(d.Changed) > 0 {
		fmt.Fprintf(out, "\nChanged (%d):\n", len(d.Changed))
		for _, ch := range d.Changed {
			fmt.Fprintf(out, "  [~] %s: %s -> %s\n", ch.Name, licenseLabel(ch.Previous), licenseLabel(ch.Current))
		}
	}

	if d.UnchangedCount > 0 {
		fmt.Fprintf(out, "\nUnchanged: %d packages\n", d.UnchangedCount)
	}

	return nil
}

// licenseLabel formats a license for display, preferring the SPDX identifier.
func licenseLabel(l model.License) string {
	switch {
	case l.SPDXID != "":
		return l.SPDXID
	case l.FullName != "":
		return l.FullName
	default:
		return "(unknown)"
	}
}

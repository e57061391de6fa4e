package main

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/nixlicense/internal/database"
	"github.com/nao1215/nixlicense/internal/model"
)

// seedHistory creates a database with the given runs and returns its directory.
func seedHistory(t *testing.T, runs ...[]model.Pkg) string {
	t.Helper()

	dir := t.TempDir()
	db, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	for i, pkgs := range runs {
		run := &database.Run{
			UUID:      "run-" + string(rune('a'+i)),
			Input:     "./data/pkgs.txt",
			Output:    "./data/pkgs.csv",
			StartedAt: time.Date(2026, 10, 1+i, 12, 0, 0, 0, time.UTC),
			Lines:     len(pkgs),
		}
		if err := db.SaveRun(context.Background(), run, pkgs); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
	}

	return dir
}

func historyRuns() [][]model.Pkg {
	mit := model.License{FullName: "MIT License", SPDXID: "MIT"}
	gpl2 := model.License{FullName: "GNU General Public License v2.0 or later", SPDXID: "GPL-2.0-or-later"}
	gpl3 := model.License{FullName: "GNU General Public License v3.0 or later", SPDXID: "GPL-3.0-or-later"}

	return [][]model.Pkg{
		{
			model.NewPkg("hello", mit),
			model.NewPkg("oldtool", mit),
			model.NewPkg("bash", gpl2),
		},
		{
			model.NewPkg("hello", mit),
			model.NewPkg("bash", gpl3),
			model.NewPkg("newtool", mit),
		},
	}
}

// TestHistoryCmd tests the history command.
func TestHistoryCmd(t *testing.T) {
	t.Parallel()

	t.Run("compares the latest two runs", func(t *testing.T) {
		t.Parallel()

		dbDir := seedHistory(t, historyRuns()...)
		stdout, _, err := execute(t, "history", "--config", emptyConfig(t), "--db-dir", dbDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for _, want := range []string{
			"Run Comparison: #1 -> #2",
			"[+] newtool: MIT",
			"[-] oldtool: MIT",
			"[~] bash: GPL-2.0-or-later -> GPL-3.0-or-later",
			"Unchanged: 1 packages",
		} {
			if !strings.Contains(stdout, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, stdout)
			}
		}
	})

	t.Run("json comparison", func(t *testing.T) {
		t.Parallel()

		dbDir := seedHistory(t, historyRuns()...)
		stdout, _, err := execute(t, "history", "--config", emptyConfig(t), "--db-dir", dbDir, "--json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got RunComparison
		if err := json.Unmarshal([]byte(stdout), &got); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, stdout)
		}
		if got.Previous.ID != 1 || got.Current.ID != 2 {
			t.Errorf("unexpected runs: %+v", got)
		}
		if len(got.Diff.Added) != 1 || len(got.Diff.Removed) != 1 || len(got.Diff.Changed) != 1 {
			t.Errorf("unexpected diff: %+v", got.Diff)
		}
	})

	t.Run("with-run-id selects the older run", func(t *testing.T) {
		t.Parallel()

		runs := historyRuns()
		dbDir := seedHistory(t, runs[0], runs[1], runs[1])
		stdout, _, err := execute(t, "history", "--config", emptyConfig(t), "--db-dir", dbDir, "--with-run-id", "1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "#1 -> #3") {
			t.Errorf("expected comparison of run 1 and 3, got:\n%s", stdout)
		}
	})

	t.Run("no changes", func(t *testing.T) {
		t.Parallel()

		runs := historyRuns()
		dbDir := seedHistory(t, runs[1], runs[1])
		stdout, _, err := execute(t, "history", "--config", emptyConfig(t), "--db-dir", dbDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "No license changes (3 packages unchanged)") {
			t.Errorf("unexpected output:\n%s", stdout)
		}
	})

	t.Run("single run cannot be compared", func(t *testing.T) {
		t.Parallel()

		dbDir := seedHistory(t, historyRuns()[0])
		_, _, err := execute(t, "history", "--config", emptyConfig(t), "--db-dir", dbDir)
		if err == nil || !strings.Contains(err.Error(), "at least 2 runs") {
			t.Errorf("expected at least 2 runs error, got %v", err)
		}
	})

	t.Run("latest run id is rejected", func(t *testing.T) {
		t.Parallel()

		dbDir := seedHistory(t, historyRuns()...)
		if _, _, err := execute(t, "history", "--config", emptyConfig(t), "--db-dir", dbDir, "--with-run-id", "2"); err == nil {
			t.Error("expected error when comparing the latest run with itself")
		}
	})

	t.Run("list runs", func(t *testing.T) {
		t.Parallel()

		dbDir := seedHistory(t, historyRuns()...)
		stdout, _, err := execute(t, "history", "--config", emptyConfig(t), "--db-dir", dbDir, "--list")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "Recorded runs (2)") || !strings.Contains(stdout, "2026-10-02 12:00:00") {
			t.Errorf("unexpected output:\n%s", stdout)
		}
	})

	t.Run("list runs as json", func(t *testing.T) {
		t.Parallel()

		dbDir := seedHistory(t)
		stdout, _, err := execute(t, "history", "--config", emptyConfig(t), "--db-dir", dbDir, "--list", "--json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.TrimSpace(stdout) != "[]" {
			t.Errorf("expected empty JSON list, got %q", stdout)
		}
	})

	t.Run("missing database is an error", func(t *testing.T) {
		t.Parallel()

		_, _, err := execute(t, "history", "--config", emptyConfig(t), "--db-dir", t.TempDir())
		if err == nil || !strings.Contains(err.Error(), "database not found") {
			t.Errorf("expected database not found error, got %v", err)
		}
	})
}

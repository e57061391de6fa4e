package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/nixlicense/internal/config"
	"github.com/nao1215/nixlicense/internal/database"
)

const scenarioTable = "name,fullName,shortName,spdxId,url\n" +
	"hello,MIT License,mit,MIT,https://spdx.org/licenses/MIT.html\n" +
	"ffmpeg,GNU Lesser General Public License v2.1 or later,lgpl21Plus,LGPL-2.1-or-later,https://spdx.org/licenses/LGPL-2.1-or-later.html\n"

// writeList writes an identifier list and returns its path together with
// an output path in the same directory.
func writeList(t *testing.T, identifiers ...string) (string, string) {
	t.Helper()

	dir := t.TempDir()
	input := filepath.Join(dir, "pkgs.txt")
	if err := os.WriteFile(input, []byte(strings.Join(identifiers, "\n")+"\n"), 0o600); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}
	return input, filepath.Join(dir, "pkgs.csv")
}

func readString(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path) //nolint:gosec // test file
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

// TestNewReportCmd tests the report command flags.
func TestNewReportCmd(t *testing.T) {
	t.Parallel()

	cmd := NewReportCmd()

	tests := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{"input", "i", config.DefaultInputPath},
		{"output", "o", config.DefaultOutputPath},
		{"evaluator", "", config.DefaultCommand},
		{"namespace", "n", config.DefaultNamespace},
		{"eval-timeout", "", "0s"},
		{"strict-exit", "", "false"},
		{"history", "", "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			flag := cmd.Flags().Lookup(tt.name)
			if flag == nil {
				t.Fatalf("expected %s flag", tt.name)
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("expected shorthand %q, got %q", tt.shorthand, flag.Shorthand)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("expected default %q, got %q", tt.defValue, flag.DefValue)
			}
		})
	}
}

// TestReportCmd tests the report command end to end with a fake evaluator.
func TestReportCmd(t *testing.T) {
	t.Parallel()

	t.Run("writes the scenario table", func(t *testing.T) {
		t.Parallel()
		skipIfNoShell(t)

		input, output := writeList(t, "hello", "ffmpeg", "broken-pkg")
		stdout, _, err := execute(t, "report",
			"--config", emptyConfig(t),
			"--evaluator", fakeNixPath,
			"-i", input, "-o", output,
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := readString(t, output); got != scenarioTable {
			t.Errorf("output:\n%s\nwant:\n%s", got, scenarioTable)
		}
		if stdout != "" {
			t.Errorf("expected silent success, got %q", stdout)
		}
	})

	t.Run("non-zero exit keeps parsed output by default", func(t *testing.T) {
		t.Parallel()
		skipIfNoShell(t)

		input, output := writeList(t, "warns")
		if _, _, err := execute(t, "report", "--config", emptyConfig(t), "--evaluator", fakeNixPath, "-i", input, "-o", output); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := "name,fullName,shortName,spdxId,url\nwarns,,,MIT,\n"
		if got := readString(t, output); got != want {
			t.Errorf("output = %q, want %q", got, want)
		}
	})

	t.Run("strict exit drops non-zero exits", func(t *testing.T) {
		t.Parallel()
		skipIfNoShell(t)

		input, output := writeList(t, "warns", "hello")
		if _, _, err := execute(t, "report", "--config", emptyConfig(t), "--evaluator", fakeNixPath, "--strict-exit", "-i", input, "-o", output); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got := readString(t, output)
		if strings.Contains(got, "warns") || !strings.Contains(got, "hello,") {
			t.Errorf("unexpected output:\n%s", got)
		}
	})

	t.Run("verbose logs dropped identifiers", func(t *testing.T) {
		t.Parallel()
		skipIfNoShell(t)

		input, output := writeList(t, "broken-pkg")
		_, stderr, err := execute(t, "report", "-v", "--config", emptyConfig(t), "--evaluator", fakeNixPath, "-i", input, "-o", output)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stderr, "dropping identifier") || !strings.Contains(stderr, "broken-pkg") {
			t.Errorf("expected debug log for dropped identifier, got:\n%s", stderr)
		}
	})

	t.Run("missing input is an error", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		_, _, err := execute(t, "report", "--config", emptyConfig(t),
			"-i", filepath.Join(dir, "missing.txt"),
			"-o", filepath.Join(dir, "pkgs.csv"),
		)
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected not exist error, got %v", err)
		}
	})

	t.Run("same input and output is rejected", func(t *testing.T) {
		t.Parallel()

		input, _ := writeList(t, "hello")
		_, _, err := execute(t, "report", "--config", emptyConfig(t), "-i", input, "-o", input)
		if !errors.Is(err, config.ErrSamePath) {
			t.Errorf("expected ErrSamePath, got %v", err)
		}
		if got := readString(t, input); got != "hello\n" {
			t.Errorf("input was modified: %q", got)
		}
	})

	t.Run("explicit config file must exist", func(t *testing.T) {
		t.Parallel()

		_, _, err := execute(t, "report", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
		if err == nil || !strings.Contains(err.Error(), "configuration file not found") {
			t.Errorf("expected config not found error, got %v", err)
		}
	})

	t.Run("config file values are overridden by flags", func(t *testing.T) {
		t.Parallel()
		skipIfNoShell(t)

		input, output := writeList(t, "hello")
		fromFile := filepath.Join(t.TempDir(), "from-file.csv")

		configPath := filepath.Join(t.TempDir(), "config.yaml")
		content := "input: " + input + "\n" +
			"output: " + fromFile + "\n" +
			"evaluator:\n  command: " + fakeNixPath + "\n"
		if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		if _, _, err := execute(t, "report", "--config", configPath, "-o", output); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(readString(t, output), "hello,MIT License") {
			t.Error("expected table at the flag path")
		}
		if _, err := os.Stat(fromFile); !os.IsNotExist(err) {
			t.Error("expected config file output path to be overridden")
		}
	})

	t.Run("history records the run", func(t *testing.T) {
		t.Parallel()
		skipIfNoShell(t)

		input, output := writeList(t, "hello", "broken-pkg")
		dbDir := t.TempDir()
		if _, _, err := execute(t, "report", "--config", emptyConfig(t), "--evaluator", fakeNixPath,
			"-i", input, "-o", output, "--history", "--db-dir", dbDir); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		db, err := database.Open(dbDir, database.Options{})
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		runs, err := db.ListRuns(context.Background(), 0)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 1 {
			t.Fatalf("expected 1 run, got %d", len(runs))
		}
		if runs[0].Lines != 2 || runs[0].Written != 1 || runs[0].Dropped != 1 {
			t.Errorf("unexpected run counters: %+v", runs[0])
		}
	})
}

// TestRunReport tests runReport with a configuration built in code.
func TestRunReport(t *testing.T) {
	t.Parallel()
	skipIfNoShell(t)

	input, output := writeList(t, "bash")
	cfg := config.NewConfig()
	cfg.InputPath = input
	cfg.OutputPath = output
	cfg.Command = fakeNixPath

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := runReport(context.Background(), cfg, logger); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := readString(t, output); !strings.Contains(got, "bash,GNU General Public License v3.0 or later,gpl3Plus,GPL-3.0-or-later,") {
		t.Errorf("unexpected output:\n%s", got)
	}
}

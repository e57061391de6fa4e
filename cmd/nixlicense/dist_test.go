package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/nixlicense/internal/config"
	"github.com/nao1215/nixlicense/internal/model"
	"github.com/nao1215/nixlicense/internal/report"
)

const distTable = "name,fullName,shortName,spdxId,url\n" +
	"hello,MIT License,mit,MIT,https://spdx.org/licenses/MIT.html\n" +
	"jq,MIT License,mit,MIT,https://spdx.org/licenses/MIT.html\n" +
	"bash,GNU General Public License v3.0 or later,gpl3Plus,GPL-3.0-or-later,https://spdx.org/licenses/GPL-3.0-or-later.html\n" +
	"coreutils,GNU General Public License v3.0 or later,gpl3Plus,GPL-3.0-or-later,https://spdx.org/licenses/GPL-3.0-or-later.html\n" +
	"git,GNU General Public License v2.0 only,gpl2Only,GPL-2.0-only,https://spdx.org/licenses/GPL-2.0-only.html\n"

// writeTable writes a license table and returns its path and a
// distribution path next to it.
func writeTable(t *testing.T, content string) (string, string) {
	t.Helper()

	dir := t.TempDir()
	table := filepath.Join(dir, "pkgs.csv")
	if err := os.WriteFile(table, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write table: %v", err)
	}
	return table, filepath.Join(dir, "pkgs_distribution.csv")
}

// TestDistCmd tests the dist command.
func TestDistCmd(t *testing.T) {
	t.Parallel()

	t.Run("writes distribution table and text summary", func(t *testing.T) {
		t.Parallel()

		table, dist := writeTable(t, distTable)
		stdout, _, err := execute(t, "dist", "--config", emptyConfig(t), "-i", table, "-o", dist)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := "license,sub-license,count\n" +
			"MIT,MIT License,2\n" +
			"GPL,GNU General Public License v3.0 or later,2\n" +
			"GPL,GNU General Public License v2.0 only,1\n"
		if got := readString(t, dist); got != want {
			t.Errorf("distribution:\n%s\nwant:\n%s", got, want)
		}

		if !strings.Contains(stdout, "LICENSE FAMILIES") || !strings.Contains(stdout, "Packages:         5") {
			t.Errorf("unexpected summary:\n%s", stdout)
		}
	})

	t.Run("json summary", func(t *testing.T) {
		t.Parallel()

		table, dist := writeTable(t, distTable)
		stdout, _, err := execute(t, "dist", "--config", emptyConfig(t), "-i", table, "-o", dist, "--json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded model.Distribution
		if err := json.Unmarshal([]byte(stdout), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, stdout)
		}
		if decoded.Total != 5 || len(decoded.Families) != 2 || decoded.Families[0].Family != "GPL" {
			t.Errorf("unexpected distribution: %+v", decoded)
		}
	})

	t.Run("markdown summary", func(t *testing.T) {
		t.Parallel()

		table, dist := writeTable(t, distTable)
		stdout, _, err := execute(t, "dist", "--config", emptyConfig(t), "-i", table, "-o", dist, "--markdown")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "# "+report.DefaultTitle) || !strings.Contains(stdout, "```mermaid") {
			t.Errorf("unexpected markdown:\n%s", stdout)
		}
	})

	t.Run("json and markdown conflict", func(t *testing.T) {
		t.Parallel()

		table, dist := writeTable(t, distTable)
		_, _, err := execute(t, "dist", "--config", emptyConfig(t), "-i", table, "-o", dist, "--json", "--markdown")
		if !errors.Is(err, config.ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})

	t.Run("rejects a foreign table", func(t *testing.T) {
		t.Parallel()

		table, dist := writeTable(t, "a,b\n1,2\n")
		_, _, err := execute(t, "dist", "--config", emptyConfig(t), "-i", table, "-o", dist)
		if !errors.Is(err, report.ErrUnexpectedHeader) {
			t.Errorf("expected ErrUnexpectedHeader, got %v", err)
		}
	})

	t.Run("missing table is an error", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		_, _, err := execute(t, "dist", "--config", emptyConfig(t),
			"-i", filepath.Join(dir, "missing.csv"),
			"-o", filepath.Join(dir, "dist.csv"),
		)
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected not exist error, got %v", err)
		}
	})
}

// TestSummaryWriter tests summary format selection.
func TestSummaryWriter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*config.Config)
		check  func(report.DistributionWriter) bool
	}{
		{
			name:   "text by default",
			modify: func(*config.Config) {},
			check: func(w report.DistributionWriter) bool {
				_, ok := w.(*report.SimpleWriter)
				return ok
			},
		},
		{
			name:   "json",
			modify: func(c *config.Config) { c.JSONReport = true },
			check: func(w report.DistributionWriter) bool {
				_, ok := w.(*report.JSONWriter)
				return ok
			},
		},
		{
			name:   "markdown",
			modify: func(c *config.Config) { c.MarkdownReport = true },
			check: func(w report.DistributionWriter) bool {
				_, ok := w.(*report.MarkdownWriter)
				return ok
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			tt.modify(cfg)
			if !tt.check(summaryWriter(os.Stdout, cfg)) {
				t.Error("unexpected writer type")
			}
		})
	}
}

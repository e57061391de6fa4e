package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/nixlicense/internal/model"
)

// ruleWidth is the width of section rules in text output.
const ruleWidth = 70

// SimpleWriter outputs human-readable distribution reports for terminal display.
type SimpleWriter struct {
	baseWriter

	// title is printed in the report header.
	title string

	// verbose adds the per sub-license table after the family summary.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithTitle sets the report title.
func WithTitle(title string) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.title = title
	}
}

// WithVerbose enables verbose output with the full sub-license table.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		title:      DefaultTitle,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WriteDistribution outputs the distribution in human-readable format.
func (w *SimpleWriter) WriteDistribution(dist *model.Distribution) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, dist)
	w.writeFamilies(&sb, dist)
	if w.verbose {
		w.writeEntries(&sb, dist)
	}

	return io.WriteString(w.output, sb.String())
}

// writeHeader writes the report title and package count.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, dist *model.Distribution) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(strings.ToUpper(w.title))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Packages:         %d\n", dist.Total)
	fmt.Fprintf(sb, "License families: %d\n", len(dist.Families))
	fmt.Fprintf(sb, "Sub-licenses:     %d\n", len(dist.Entries))
	sb.WriteString("\n")
}

// writeFamilies writes one line per license family with its share.
func (w *SimpleWriter) writeFamilies(sb *strings.Builder, dist *model.Distribution) {
	sectionHeader(sb, "LICENSE FAMILIES")

	if len(dist.Families) == 0 {
		sb.WriteString("  No packages\n\n")
		return
	}

	for _, f := range dist.Families {
		fmt.Fprintf(sb, "  %-24s %6d  %5.1f%%\n", f.Family, f.Count, percent(f.Count, dist.Total))
	}
	sb.WriteString("\n")
}

// writeEntries writes the sub-license table.
func (w *SimpleWriter) writeEntries(sb *strings.Builder, dist *model.Distribution) {
	sectionHeader(sb, "SUB-LICENSES")

	for _, e := range dist.Entries {
		name := e.SubLicense
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(sb, "  [%s] %s (%d)\n", e.License, name, e.Count)
	}
	sb.WriteString("\n")
}

func sectionHeader(sb *strings.Builder, name string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(name)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")
}

// percent returns part as a percentage of total, or 0 for an empty total.
func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) * 100 / float64(total)
}

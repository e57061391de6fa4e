package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/nixlicense/internal/model"
)

// DefaultTitle is the title of distribution reports.
const DefaultTitle = "The License and Sub-License Distribution of nixpkgs"

// maxPieSlices bounds the number of families drawn in the pie chart;
// the remainder is merged into an "Other" slice.
const maxPieSlices = 12

// MarkdownWriter outputs distribution reports in Markdown format.
type MarkdownWriter struct {
	baseWriter

	title string
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		title:      DefaultTitle,
	}
}

// WriteDistribution outputs the distribution in Markdown format.
func (w *MarkdownWriter) WriteDistribution(dist *model.Distribution) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, dist)
	w.writeFamilies(md, dist)
	w.writeEntries(md, dist)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the title and summary table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, dist *model.Distribution) {
	md.H1(w.title)
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Packages", strconv.Itoa(dist.Total)},
			{"License families", strconv.Itoa(len(dist.Families))},
			{"Sub-licenses", strconv.Itoa(len(dist.Entries))},
		},
	})
	md.PlainText("")
}

// writeFamilies writes the family table and pie chart.
func (w *MarkdownWriter) writeFamilies(md *markdown.Markdown, dist *model.Distribution) {
	md.H2("License Families")
	md.PlainText("")

	if len(dist.Families) == 0 {
		md.Note("No packages in the license table.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(dist.Families))
	for i, f := range dist.Families {
		rows[i] = []string{
			"`" + f.Family + "`",
			strconv.Itoa(f.Count),
			strconv.FormatFloat(percent(f.Count, dist.Total), 'f', 1, 64) + "%",
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Family", "Packages", "Share"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writePieChart(md, dist)
}

// writePieChart writes a mermaid pie chart of the family distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, dist *model.Distribution) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("License Family Distribution"),
		piechart.WithShowData(true),
	)

	other := 0
	for i, f := range dist.Families {
		if i >= maxPieSlices {
			other += f.Count
			continue
		}
		chart.LabelAndIntValue(f.Family, uint64(f.Count)) //nolint:gosec // counts are never negative
	}
	if other > 0 {
		chart.LabelAndIntValue("Other", uint64(other)) //nolint:gosec // counts are never negative
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeEntries writes the full license/sub-license/count table.
func (w *MarkdownWriter) writeEntries(md *markdown.Markdown, dist *model.Distribution) {
	if len(dist.Entries) == 0 {
		return
	}

	md.H2("Sub-Licenses")
	md.PlainText("")

	rows := make([][]string, len(dist.Entries))
	for i, e := range dist.Entries {
		name := e.SubLicense
		if name == "" {
			name = "-"
		}
		rows[i] = []string{e.License, name, strconv.Itoa(e.Count)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"License", "Sub-License", "Count"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [nixlicense](https://github.com/nao1215/nixlicense)*")
}

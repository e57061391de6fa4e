package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nao1215/nixlicense/internal/model"
	"github.com/nao1215/nixlicense/internal/report"
)

// MetadataSource provides the license of a package identifier.
type MetadataSource interface {
	// Fetch returns the license of identifier. Any error means the
	// identifier has no usable license record.
	Fetch(ctx context.Context, identifier string) (model.License, error)
}

// Result summarizes a completed run.
type Result struct {
	// Lines is the number of well-formed input lines processed.
	Lines int

	// InvalidLines is the number of input lines skipped for invalid encoding.
	InvalidLines int

	// Written is the number of rows written, excluding the header.
	Written int

	// Dropped lists the identifiers without a usable license, in input order.
	Dropped []string
}

// ReportBuilder turns an identifier list into a license table.
type ReportBuilder struct {
	// source resolves identifiers to licenses.
	source MetadataSource

	// sinks receive every written row after the table itself.
	sinks []report.Writer

	logger *slog.Logger
}

// Option configures a ReportBuilder.
type Option func(*ReportBuilder)

// WithLogger sets the logger. Dropped identifiers are logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(b *ReportBuilder) {
		b.logger = logger
	}
}

// WithSink adds a writer that receives every row written to the table.
// A sink failure aborts the run like a table write failure.
func WithSink(sink report.Writer) Option {
	return func(b *ReportBuilder) {
		b.sinks = append(b.sinks, sink)
	}
}

// NewReportBuilder creates a ReportBuilder that reads licenses from source.
func NewReportBuilder(source MetadataSource, opts ...Option) *ReportBuilder {
	b := &ReportBuilder{source: source}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = slog.Default()
	}

	return b
}

// Run builds the license table for the identifiers listed in inputPath
// and writes it as CSV to outputPath. Compressed lists (.gz, .zst, .xz)
// are accepted.
//
// The output file is created or truncated before the input is opened, so
// a missing input leaves an empty output file behind.
func (b *ReportBuilder) Run(ctx context.Context, inputPath, outputPath string) (*Result, error) {
	//nolint:gosec // G302/G304: output path and permissions are operator choices
	out, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	in, err := openInput(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer in.Close()

	result, err := b.Process(ctx, in, b.writerFor(out))
	if err != nil {
		return result, err
	}

	if err := out.Close(); err != nil {
		return result, fmt.Errorf("failed to close output file: %w", err)
	}

	return result, nil
}

// writerFor returns the CSV writer for out, fanned out to the sinks.
func (b *ReportBuilder) writerFor(out io.Writer) report.Writer {
	table := report.NewCSVWriter(out)
	if len(b.sinks) == 0 {
		return table
	}

	writers := make([]report.Writer, 0, len(b.sinks)+1)
	writers = append(writers, table)
	writers = append(writers, b.sinks...)
	return report.NewMultiWriter(writers...)
}

// Process reads identifiers from r and writes the header and one row per
// identifier with a usable license to w, then flushes w.
//
// The context is checked before each identifier; cancellation aborts the
// run with the context's error.
func (b *ReportBuilder) Process(ctx context.Context, r io.Reader, w report.Writer) (*Result, error) {
	result := &Result{}

	if err := w.WriteHeader(); err != nil {
		return result, fmt.Errorf("failed to write header: %w", err)
	}

	lines := newLineSequence(r)
	for identifier := range lines.All() {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Lines++

		pkg, err := CaptureLicenseInfo(ctx, b.source, identifier)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			b.logger.Debug("dropping identifier",
				"identifier", identifier,
				"error", err,
			)
			result.Dropped = append(result.Dropped, identifier)
			continue
		}

		if err := w.WriteRecord(pkg); err != nil {
			return result, fmt.Errorf("failed to write record for %q: %w", identifier, err)
		}
		result.Written++
	}
	result.InvalidLines = lines.Invalid()

	if err := lines.Err(); err != nil {
		b.logger.Warn("stopped reading input early", "error", err)
	}

	if err := w.Flush(); err != nil {
		return result, fmt.Errorf("failed to flush output: %w", err)
	}

	b.logger.Info("license table complete",
		"lines", result.Lines,
		"written", result.Written,
		"dropped", len(result.Dropped),
		"invalidLines", result.InvalidLines,
	)

	return result, nil
}

// CaptureLicenseInfo fetches the license of identifier and pairs it with
// the identifier.
func CaptureLicenseInfo(ctx context.Context, source MetadataSource, identifier string) (model.Pkg, error) {
	license, err := source.Fetch(ctx, identifier)
	if err != nil {
		return model.Pkg{}, err
	}
	return model.NewPkg(identifier, license), nil
}

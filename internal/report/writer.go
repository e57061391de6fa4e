package report

import (
	"io"

	"github.com/nao1215/nixlicense/internal/model"
)

// Writer receives the license table row by row.
type Writer interface {
	// WriteHeader writes the table header. It is called once, before any row.
	WriteHeader() error

	// WriteRecord appends one package to the table.
	WriteRecord(pkg model.Pkg) error

	// Flush commits everything buffered so far.
	Flush() error
}

// DistributionWriter outputs a license distribution.
type DistributionWriter interface {
	// WriteDistribution writes the distribution to the configured destination.
	// Returns the number of bytes written and any error encountered.
	WriteDistribution(dist *model.Distribution) (int, error)
}

// MultiWriter writes rows to multiple Writers in order.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteHeader writes the header to all Writers.
// Stops on first error encountered.
func (m *MultiWriter) WriteHeader() error {
	for _, w := range m.writers {
		if err := w.WriteHeader(); err != nil {
			return err
		}
	}
	return nil
}

// WriteRecord writes the row to all Writers.
// Stops on first error encountered.
func (m *MultiWriter) WriteRecord(pkg model.Pkg) error {
	for _, w := range m.writers {
		if err := w.WriteRecord(pkg); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes all Writers.
// Stops on first error encountered.
func (m *MultiWriter) Flush() error {
	for _, w := range m.writers {
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

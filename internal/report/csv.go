package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/nao1215/nixlicense/internal/model"
)

// ErrUnexpectedHeader is returned when a license table does not start with
// the expected header row.
var ErrUnexpectedHeader = errors.New("unexpected license table header")

// CSVWriter writes the license table as CSV.
// Fields containing commas, quotes or line breaks are quoted.
type CSVWriter struct {
	w *csv.Writer
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(output)}
}

// WriteHeader writes name,fullName,shortName,spdxId,url.
func (c *CSVWriter) WriteHeader() error {
	return c.w.Write(model.CSVHeader())
}

// WriteRecord writes the five table columns of pkg.
func (c *CSVWriter) WriteRecord(pkg model.Pkg) error {
	return c.w.Write(pkg.Record())
}

// Flush writes any buffered rows to the underlying writer.
func (c *CSVWriter) Flush() error {
	c.w.Flush()
	return c.w.Error()
}

// ReadPkgs reads a license table written by CSVWriter.
func ReadPkgs(r io.Reader) ([]model.Pkg, error) {
	// The header fixes the record width; later rows must match it.
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty input", ErrUnexpectedHeader)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if !slices.Equal(header, model.CSVHeader()) {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedHeader, header)
	}

	var pkgs []model.Pkg
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read license table: %w", err)
		}

		pkg, ok := model.PkgFromRecord(record)
		if !ok {
			return nil, fmt.Errorf("malformed row: %v", record)
		}
		pkgs = append(pkgs, pkg)
	}

	return pkgs, nil
}

// DistributionCSVWriter writes the distribution as a
// license,sub-license,count table.
type DistributionCSVWriter struct {
	baseWriter
}

// NewDistributionCSVWriter creates a DistributionCSVWriter that outputs to the given writer.
func NewDistributionCSVWriter(output io.Writer) *DistributionCSVWriter {
	return &DistributionCSVWriter{
		baseWriter: newBaseWriter(output),
	}
}

// WriteDistribution writes the header and one row per distribution entry.
func (w *DistributionCSVWriter) WriteDistribution(dist *model.Distribution) (int, error) {
	counter := &countingWriter{w: w.output}
	cw := csv.NewWriter(counter)

	if err := cw.Write(model.DistributionHeader()); err != nil {
		return counter.n, err
	}
	for _, e := range dist.Entries {
		if err := cw.Write([]string{e.License, e.SubLicense, strconv.Itoa(e.Count)}); err != nil {
			return counter.n, err
		}
	}
	cw.Flush()

	return counter.n, cw.Error()
}

// countingWriter counts bytes written through it.
type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}

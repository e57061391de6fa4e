package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// openInput opens the identifier list at path. Lists ending in .gz, .zst
// or .xz are decompressed while they are read.
func openInput(path string) (io.ReadCloser, error) {
	f, err := os.Open(path) //nolint:gosec // user-provided input path is intentional
	if err != nil {
		return nil, err
	}

	r, err := decompress(f, filepath.Ext(path))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to read compressed input %s: %w", path, err)
	}
	return r, nil
}

// decompress wraps f in a decoder chosen by ext. Closing the result
// closes f.
func decompress(f *os.File, ext string) (io.ReadCloser, error) {
	switch strings.ToLower(ext) {
	case ".gz":
		gr, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		return &compressedFile{Reader: gr, close: gr.Close, file: f}, nil
	case ".zst":
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, err
		}
		return &compressedFile{Reader: zr, close: func() error { zr.Close(); return nil }, file: f}, nil
	case ".xz":
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, err
		}
		return &compressedFile{Reader: xr, file: f}, nil
	default:
		return f, nil
	}
}

// compressedFile is a decoder reading from file.
type compressedFile struct {
	io.Reader

	close func() error
	file  *os.File
}

// Close releases the decoder and closes the underlying file.
func (c *compressedFile) Close() error {
	var err error
	if c.close != nil {
		err = c.close()
	}
	if ferr := c.file.Close(); err == nil {
		err = ferr
	}
	return err
}

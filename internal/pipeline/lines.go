package pipeline

import (
	"bufio"
	"errors"
	"io"
	"iter"
	"strings"
	"unicode/utf8"
)

// lineSequence lazily splits an input into lines.
//
// A line ends at "\n"; a "\r" directly before it is removed as well.
// No other trimming happens. Lines that are not valid UTF-8 are skipped
// and counted. A read error other than io.EOF ends the sequence and is
// reported by Err.
type lineSequence struct {
	r       *bufio.Reader
	invalid int
	err     error
}

func newLineSequence(r io.Reader) *lineSequence {
	return &lineSequence{r: bufio.NewReader(r)}
}

// All yields the remaining lines in order. The sequence is single-use.
func (s *lineSequence) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for {
			raw, err := s.r.ReadString('\n')
			if raw != "" {
				line, terminated := strings.CutSuffix(raw, "\n")
				if terminated {
					line = strings.TrimSuffix(line, "\r")
				}

				if !utf8.ValidString(line) {
					s.invalid++
				} else if !yield(line) {
					return
				}
			}

			if err != nil {
				if !errors.Is(err, io.EOF) {
					s.err = err
				}
				return
			}
		}
	}
}

// Invalid returns how many lines were skipped for invalid encoding.
func (s *lineSequence) Invalid() int {
	return s.invalid
}

// Err returns the read error that ended the sequence, if any.
func (s *lineSequence) Err() error {
	return s.err
}

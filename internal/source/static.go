package source

import (
	"context"
	"fmt"
	"sync"

	"github.com/nao1215/nixlicense/internal/model"
)

// Response is a canned evaluator reply.
type Response struct {
	// Output is the raw standard output of the evaluator.
	Output string

	// Err, when set, is returned instead of parsing Output.
	Err error
}

// Static serves canned evaluator output from memory.
// Output goes through the same decoding as Nix output.
type Static struct {
	responses map[string]Response

	mu    sync.Mutex
	calls []string
}

// NewStatic creates a Static source from identifier to response.
func NewStatic(responses map[string]Response) *Static {
	r := make(map[string]Response, len(responses))
	for k, v := range responses {
		r[k] = v
	}
	return &Static{responses: r}
}

// NewStaticOutputs creates a Static source from identifier to raw output.
func NewStaticOutputs(outputs map[string]string) *Static {
	r := make(map[string]Response, len(outputs))
	for k, v := range outputs {
		r[k] = Response{Output: v}
	}
	return &Static{responses: r}
}

// Fetch returns the license parsed from the canned output for identifier.
func (s *Static) Fetch(ctx context.Context, identifier string) (model.License, error) {
	if err := ctx.Err(); err != nil {
		return model.License{}, err
	}

	s.mu.Lock()
	s.calls = append(s.calls, identifier)
	s.mu.Unlock()

	resp, ok := s.responses[identifier]
	if !ok {
		return model.License{}, fmt.Errorf("%w: %q", ErrUnknownIdentifier, identifier)
	}
	if resp.Err != nil {
		return model.License{}, resp.Err
	}
	return ParseOutput([]byte(resp.Output))
}

// Calls returns the identifiers Fetch was called with, in order.
func (s *Static) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

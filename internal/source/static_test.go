package source

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func TestStatic(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	src := NewStatic(map[string]Response{
		"hello":  {Output: `{"spdxId":"MIT"}`},
		"empty":  {Output: "{}"},
		"broken": {Output: "error: evaluation failed"},
		"failed": {Err: errBoom},
	})

	t.Run("parses canned output", func(t *testing.T) {
		t.Parallel()

		got, err := src.Fetch(context.Background(), "hello")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.SPDXID != "MIT" {
			t.Errorf("expected MIT, got %q", got.SPDXID)
		}
	})

	t.Run("canned error is returned", func(t *testing.T) {
		t.Parallel()

		if _, err := src.Fetch(context.Background(), "failed"); !errors.Is(err, errBoom) {
			t.Errorf("expected errBoom, got %v", err)
		}
	})

	t.Run("non-json output is an error", func(t *testing.T) {
		t.Parallel()

		if _, err := src.Fetch(context.Background(), "broken"); !errors.Is(err, ErrNotLicenseObject) {
			t.Errorf("expected ErrNotLicenseObject, got %v", err)
		}
	})

	t.Run("unknown identifier", func(t *testing.T) {
		t.Parallel()

		if _, err := src.Fetch(context.Background(), "nope"); !errors.Is(err, ErrUnknownIdentifier) {
			t.Errorf("expected ErrUnknownIdentifier, got %v", err)
		}
	})
}

func TestStaticCalls(t *testing.T) {
	t.Parallel()

	src := NewStaticOutputs(map[string]string{"a": "{}", "b": "{}"})
	for _, id := range []string{"b", "a", "missing"} {
		_, _ = src.Fetch(context.Background(), id) //nolint:errcheck // only the call log matters here
	}

	want := []string{"b", "a", "missing"}
	if got := src.Calls(); !slices.Equal(got, want) {
		t.Errorf("Calls() = %v, want %v", got, want)
	}

	t.Run("cancelled context is not recorded", func(t *testing.T) {
		t.Parallel()

		s := NewStaticOutputs(map[string]string{"a": "{}"})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := s.Fetch(ctx, "a"); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if len(s.Calls()) != 0 {
			t.Errorf("expected no calls, got %v", s.Calls())
		}
	})
}

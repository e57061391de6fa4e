package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// MaxValueLength is the longest string attribute passed through unchanged.
// Longer values are cut and marked with the number of bytes dropped.
const MaxValueLength = 2048

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// escapeSequence matches ANSI CSI and OSC escape sequences.
var escapeSequence = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]|\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)`)

// sensitiveKeys contains attribute keys whose values are never logged.
var sensitiveKeys = map[string]bool{
	"access-tokens": true,
	"access_tokens": true,
	"token":         true,
	"password":      true,
	"netrc":         true,
	"authorization": true,
}

// sensitivePatterns match tokens inside otherwise harmless values, such as
// an "access-tokens = github.com=ghp_..." line echoed in a trace.
var sensitivePatterns = []*regexp.Regexp{
	// GitHub tokens
	regexp.MustCompile(`gh[pousr]_[A-Za-z0-9]{36,}`),
	regexp.MustCompile(`github_pat_[A-Za-z0-9_]{22,}`),

	// GitLab personal access tokens
	regexp.MustCompile(`glpat-[A-Za-z0-9_-]{20,}`),

	// Bearer tokens
	regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9._~+/=-]+`),
}

// SanitizeHandler wraps an slog.Handler and cleans string attributes
// before passing records on: escape sequences are removed, tokens are
// masked and oversized values are truncated. Error values are cleaned
// through their message.
type SanitizeHandler struct {
	// handler is the underlying slog handler that receives sanitized records.
	handler slog.Handler
}

// NewSanitizeHandler creates a new SanitizeHandler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used.
func NewSanitizeHandler(handler slog.Handler) *SanitizeHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SanitizeHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *SanitizeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle sanitizes the record's message and attributes and passes it to
// the underlying handler.
func (h *SanitizeHandler) Handle(ctx context.Context, r slog.Record) error {
	sanitized := slog.NewRecord(r.Time, r.Level, SanitizeString(r.Message), r.PC)

	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(h.sanitizeAttr(a))
		return true
	})

	return h.handler.Handle(ctx, sanitized)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are sanitized before being added.
func (h *SanitizeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitizedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		sanitizedAttrs[i] = h.sanitizeAttr(a)
	}
	return &SanitizeHandler{handler: h.handler.WithAttrs(sanitizedAttrs)}
}

// WithGroup returns a new handler with the given group name.
func (h *SanitizeHandler) WithGroup(name string) slog.Handler {
	return &SanitizeHandler{handler: h.handler.WithGroup(name)}
}

// sanitizeAttr sanitizes a single attribute, recursively handling groups.
func (h *SanitizeHandler) sanitizeAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	switch a.Value.Kind() {
	case slog.KindGroup:
		attrs := a.Value.Group()
		sanitizedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			sanitizedAttrs[i] = h.sanitizeAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(sanitizedAttrs...)}
	case slog.KindString:
		if sensitiveKeys[strings.ToLower(a.Key)] {
			return slog.String(a.Key, MaskValue)
		}
		return slog.String(a.Key, SanitizeString(a.Value.String()))
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok && err != nil {
			return slog.String(a.Key, SanitizeString(err.Error()))
		}
	}

	return a
}

// SanitizeString removes escape sequences and other control characters
// except newlines and tabs, masks known token formats and truncates the
// result to MaxValueLength bytes.
func SanitizeString(s string) string {
	s = escapeSequence.ReplaceAllString(s, "")
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)

	for _, pattern := range sensitivePatterns {
		s = pattern.ReplaceAllString(s, MaskValue)
	}

	return truncate(s)
}

// truncate cuts s to MaxValueLength bytes on a rune boundary.
func truncate(s string) string {
	if len(s) <= MaxValueLength {
		return s
	}

	cut := MaxValueLength
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return fmt.Sprintf("%s...(%d bytes truncated)", s[:cut], len(s)-cut)
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// NewLogger creates a new slog.Logger writing text to w through a
// SanitizeHandler.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: levelFor(verbose),
	}

	return slog.New(NewSanitizeHandler(slog.NewTextHandler(w, opts)))
}

// NewJSONLogger creates a new slog.Logger that outputs sanitized JSON.
// Useful for structured log aggregation.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: levelFor(verbose),
	}

	return slog.New(NewSanitizeHandler(slog.NewJSONHandler(w, opts)))
}

func levelFor(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// Package log provides logging for nixlicense, built on top of the
// standard slog package.
//
// This package extends slog to provide:
//   - Removal of terminal escape sequences from logged values
//   - Truncation of oversized values such as captured evaluator stderr
//   - Masking of access tokens that evaluator diagnostics may echo
//   - Configurable log levels with verbose mode support
//
// The package evaluator colours its diagnostics and can print pages of
// evaluation traces. Logged as-is, they would corrupt terminals and bury
// the interesting lines, so SanitizeHandler cleans every string attribute
// before it reaches the underlying handler.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	logger.Debug("evaluator exited non-zero",
//	    "identifier", "hello",
//	    "stderr", "\x1b[31;1merror:\x1b[0m attribute missing", // logged as "error: attribute missing"
//	)
//
//	slog.SetDefault(logger)
package log

package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can use
// errors.Is() to tell them apart.
var (
	// ErrEmptyInputPath is returned when no identifier list is configured.
	ErrEmptyInputPath = errors.New("invalid input: path must not be empty")

	// ErrEmptyOutputPath is returned when no license table path is configured.
	ErrEmptyOutputPath = errors.New("invalid output: path must not be empty")

	// ErrEmptyDistributionPath is returned when no distribution table path is configured.
	ErrEmptyDistributionPath = errors.New("invalid distribution output: path must not be empty")

	// ErrSamePath is returned when two configured files would overwrite each other.
	// The license table is truncated before the identifier list is opened,
	// so pointing both at one file would destroy the list.
	ErrSamePath = errors.New("invalid paths: input and output files must differ")

	// ErrEmptyCommand is returned when the evaluator command is empty.
	ErrEmptyCommand = errors.New("invalid evaluator: command must not be empty")

	// ErrInvalidTimeout is returned when the evaluator timeout is negative.
	// Zero disables the timeout.
	ErrInvalidTimeout = errors.New("invalid evaluator timeout: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)

package source

import "errors"

var (
	// ErrNotLicenseObject is returned when evaluator output is not a JSON
	// object, e.g. empty output, null, an array of licenses or plain text.
	ErrNotLicenseObject = errors.New("evaluator output is not a license object")

	// ErrInvalidField is returned when a license field is null or appears
	// more than once in one document.
	ErrInvalidField = errors.New("invalid license field")

	// ErrNonZeroExit is returned in strict mode when the evaluator exits
	// with a non-zero status, regardless of what it printed.
	ErrNonZeroExit = errors.New("evaluator exited with non-zero status")

	// ErrUnknownIdentifier is returned by Static for identifiers it has no
	// canned response for.
	ErrUnknownIdentifier = errors.New("no response for identifier")
)

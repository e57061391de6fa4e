package source

import (
	"bytes"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/nao1215/nixlicense/internal/model"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// licenseJSON decodes evaluator output. Keys are matched case-sensitively
// and unknown keys are ignored.
var licenseJSON = jsoniter.Config{
	CaseSensitive:          true,
	ValidateJsonRawMessage: true,
}.Froze()

// licenseFields are the keys decoded into model.License.
var licenseFields = map[string]bool{
	"deprecated":      true,
	"free":            true,
	"fullName":        true,
	"redistributable": true,
	"shortName":       true,
	"spdxId":          true,
	"url":             true,
}

// previewLength bounds how much of a rejected document is quoted in errors.
const previewLength = 64

// DecodeOutput converts raw evaluator stdout to a string. Invalid UTF-8
// sequences are replaced with U+FFFD and surrounding whitespace is trimmed.
func DecodeOutput(raw []byte) string {
	decoded, _, err := transform.Bytes(unicode.UTF8.NewDecoder(), raw)
	if err != nil {
		return strings.TrimSpace(strings.ToValidUTF8(string(raw), "�"))
	}
	return string(bytes.TrimSpace(decoded))
}

// ParseLicense parses a license document. Every key is optional; a missing
// key leaves the corresponding field at its zero value, so "{}" yields an
// empty License. Anything that is not a single JSON object with correctly
// typed values is an error, including null values and repeated keys for
// license fields.
func ParseLicense(doc string) (model.License, error) {
	if !strings.HasPrefix(doc, "{") {
		return model.License{}, fmt.Errorf("%w: %q", ErrNotLicenseObject, preview(doc))
	}

	if !licenseJSON.Valid([]byte(doc)) {
		return model.License{}, fmt.Errorf("%w: invalid JSON %q", ErrNotLicenseObject, preview(doc))
	}

	if err := checkFields(doc); err != nil {
		return model.License{}, err
	}

	var license model.License
	if err := licenseJSON.UnmarshalFromString(doc, &license); err != nil {
		return model.License{}, fmt.Errorf("failed to parse license document: %w", err)
	}
	return license, nil
}

// checkFields walks the top-level object of doc and rejects license fields
// that are null or repeated. Unknown keys are skipped unchecked.
func checkFields(doc string) error {
	iter := jsoniter.ParseString(licenseJSON, doc)
	seen := make(map[string]bool, len(licenseFields))

	var fieldErr error
	iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
		if licenseFields[key] {
			if seen[key] {
				fieldErr = fmt.Errorf("%w: duplicate field %q", ErrInvalidField, key)
				return false
			}
			seen[key] = true

			if it.WhatIsNext() == jsoniter.NilValue {
				fieldErr = fmt.Errorf("%w: null value for %q", ErrInvalidField, key)
				return false
			}
		}
		it.Skip()
		return true
	})
	return fieldErr
}

// ParseOutput decodes raw evaluator stdout and parses it as a license.
func ParseOutput(raw []byte) (model.License, error) {
	return ParseLicense(DecodeOutput(raw))
}

func preview(s string) string {
	if len(s) <= previewLength {
		return s
	}
	return s[:previewLength] + "..."
}

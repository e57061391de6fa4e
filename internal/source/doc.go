// Package source provides license metadata sources.
//
// A source turns a package identifier into a model.License. The production
// source, Nix, shells out to `nix eval --json` and parses the license
// attribute of the package. Static serves canned evaluator output from
// memory and is used wherever the real evaluator must not be invoked.
//
// Both sources share ParseOutput, which decodes raw evaluator output the
// same way regardless of where it came from: invalid UTF-8 is replaced,
// surrounding whitespace is trimmed, and absent keys keep their zero value.
package source

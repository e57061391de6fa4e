// Package config provides configuration structures and utilities for nixlicense.
// It defines where identifiers are read from and tables are written to, how
// the package evaluator is invoked, and whether run history is recorded.
package config

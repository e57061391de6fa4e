// Package model defines the data structures shared by nixlicense packages.
//
// This package contains the following main types:
//   - License: license metadata as reported by the package evaluator
//   - Pkg: a package identifier paired with its License
//   - Distribution: license family statistics over a package set
//   - RunDiff: the difference between two recorded runs
//
// The types carry JSON tags so they can be decoded from evaluator output,
// stored in the history database and written as JSON reports.
package model

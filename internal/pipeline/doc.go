// Package pipeline builds the license table.
//
// ReportBuilder reads package identifiers one line at a time, asks a
// MetadataSource for each identifier's license and writes one row per
// package. The flow is strictly sequential and preserves input order:
//
//	input line -> MetadataSource.Fetch -> model.Pkg -> report.Writer
//
// Failures for a single identifier (an unreadable line, a failed
// evaluation, unusable evaluator output) drop that identifier and the run
// continues. Failures of the output itself (creating the file, writing a
// row, flushing) abort the run.
package pipeline

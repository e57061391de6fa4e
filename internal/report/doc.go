// Package report writes license tables and license distribution reports.
//
// Row sinks implement Writer and receive the license table one package at
// a time:
//   - CSVWriter: the five-column license table
//   - MultiWriter: fans rows out to several Writers
//
// Distribution reports implement DistributionWriter:
//   - DistributionCSVWriter: the license/sub-license/count table
//   - SimpleWriter: human-readable text for terminal display
//   - JSONWriter: structured JSON for tool integration
//   - MarkdownWriter: Markdown with a Mermaid pie chart of license families
package report

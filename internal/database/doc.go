// Package database provides SQLite-based run history for nixlicense.
//
// This package implements the HistoryDB, which stores:
//   - One row per report run with its input, output and counters
//   - The license table each run produced, including the boolean
//     license attributes the CSV leaves out
//
// History is opt-in; a report run without it persists nothing besides
// the CSV file. The database is a single file under the XDG data
// directory, opened through the CGO-free modernc.org/sqlite driver.
package database

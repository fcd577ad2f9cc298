// Package report contains the read models and pure calculations behind the
// dashboard. All queries are scoped to one tenant; aggregates over zero rows
// are reported as 0, never null.
package report

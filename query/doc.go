// Package query contains date oriented query helpers for reporting
// workloads: constraining a query to a date window, generating date bucket
// series and zero-filling gaps in aggregates grouped by date. The series
// helpers rely on generate_series and interval arithmetic, so they target
// postgres.
package query

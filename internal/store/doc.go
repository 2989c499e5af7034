// Package store provides the embedded SQLite persistence layer: one table
// per report type plus the derived FINAL table.
//
// Writes are idempotent upserts keyed by each table's natural key and run in
// a single transaction per batch, so a failed or cancelled batch leaves no
// partial rows and is safe to re-run. The only persisted resume cursor is
// LatestDate.
//
// The merge engine recomputes FINAL for a date range from the award, bid,
// offer and price tables. It reads the source tables without locking them;
// running it concurrently with ingestion of the same range gives undefined
// results — merge after ingestion for the target range has finished.
package store

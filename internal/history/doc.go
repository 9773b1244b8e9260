// Package history persists per-file outcomes in SQLite for reporting.
//
// Every terminal decision the engine makes (moved as canonical, renamed as
// duplicate, skipped, failed) is recorded with its run ID, digest, and
// destination so `sortd report` can reconstruct what a run actually did.
// The database is bookkeeping, not recovery state: resume correctness
// depends only on the plain-text ledger, and a failed history write never
// fails the task it describes.
package history

// Package sorter runs the concurrent classification engine.
//
// A run walks the root once, queues every pending file, and drains the
// queue with a fixed pool of workers. Each worker digests its file, claims
// the digest in the shared registry, moves the file into its per-extension
// bucket (under its own name when it won the claim, under a duplicate
// marker otherwise), and durably records completion in the recovery ledger.
// Per-task failures are logged skips; only an invalid root aborts a run.
package sorter

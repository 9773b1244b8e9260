// Command sortd classifies the files under a directory into per-extension
// buckets, detecting byte-identical duplicates by content digest. Runs are
// resumable: completed files are recorded in a durable ledger and skipped
// on the next invocation.
package main

// Package faults defines the error taxonomy shared across the sorting
// engine. Sentinel markers classify failures so the worker loop and the CLI
// can react uniformly: a directory fault aborts the run before any worker
// starts, while the per-task markers are logged skips that leave the task
// eligible for retry on the next invocation.
package faults

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDirectory marks a fatal problem with the sort root itself.
	ErrDirectory = errors.New("directory error")
	// ErrIO marks a failed read while computing a content digest.
	ErrIO = errors.New("io error")
	// ErrFilesystem marks a failed bucket creation or move.
	ErrFilesystem = errors.New("filesystem error")
	// ErrLedgerWrite marks a failed durable ledger append. The file has
	// usually already been moved, so this must never be silently swallowed.
	ErrLedgerWrite = errors.New("ledger write error")
)

// Wrap builds an error that includes component context while tagging it with
// the provided marker for later classification. The marker should be one of
// the exported sentinels above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrFilesystem
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Fatal reports whether the error should abort the whole run rather than
// skip a single task.
func Fatal(err error) bool {
	return errors.Is(err, ErrDirectory)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "engine failure"
	}
	return strings.Join(parts, ": ")
}

// Package ledger persists the set of completed source paths that makes runs
// resumable.
//
// The ledger is a plain-text file with one absolute path per line, opened in
// append mode and loaded into memory at startup. A path in the ledger means
// the file reached a terminal state in an earlier run and must not be
// reprocessed. Appends are serialized and synced so a crash immediately
// after RecordDone never loses the record. An advisory lock next to the
// ledger stops two processes from sorting the same root concurrently.
package ledger

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"sortd/internal/faults"
)

// Ledger is the durable record of completed file paths.
type Ledger struct {
	path string
	lock *flock.Flock

	mu   sync.Mutex
	file *os.File
	done map[string]struct{}
}

// Open loads the ledger at path, creating it if absent, and acquires the
// advisory lock at lockPath. A held lock means another sortd process is
// already running over this root.
func Open(path, lockPath string) (*Ledger, error) {
	for _, p := range []string{path, lockPath} {
		if dir := filepath.Dir(p); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("ensure ledger directory: %w", err)
			}
		}
	}

	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire ledger lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("ledger %s is locked: another sortd instance is processing this root", path)
	}

	done, err := loadCompleted(path)
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open ledger for append: %w", err)
	}

	return &Ledger{path: path, lock: lock, file: file, done: done}, nil
}

// ReadEntries returns the recorded paths in sorted order without taking the
// advisory lock, for read-only inspection while a run may be in progress.
func ReadEntries(path string) ([]string, error) {
	done, err := loadCompleted(path)
	if err != nil {
		return nil, err
	}
	entries := make([]string, 0, len(done))
	for p := range done {
		entries = append(entries, p)
	}
	sort.Strings(entries)
	return entries, nil
}

func loadCompleted(path string) (map[string]struct{}, error) {
	done := make(map[string]struct{})

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			// No prior run.
			return done, nil
		}
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		done[line] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	return done, nil
}

// Contains reports whether path was recorded as completed by a prior run.
// The completed set is fixed at Open; in-run completions are appended to
// disk but tasks are unique, so re-consultation never happens mid-run.
func (l *Ledger) Contains(path string) bool {
	_, ok := l.done[path]
	return ok
}

// Count returns the number of paths loaded at Open.
func (l *Ledger) Count() int {
	return len(l.done)
}

// Completed returns the loaded paths in sorted order.
func (l *Ledger) Completed() []string {
	paths := make([]string, 0, len(l.done))
	for p := range l.done {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Path returns the ledger file location.
func (l *Ledger) Path() string {
	return l.path
}

// RecordDone durably appends path as completed. The append is a single
// write of one full line followed by a sync, serialized across workers so
// concurrent records never interleave partial lines.
func (l *Ledger) RecordDone(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.file.WriteString(path + "\n"); err != nil {
		return faults.Wrap(faults.ErrLedgerWrite, "ledger", "append", path, err)
	}
	if err := l.file.Sync(); err != nil {
		return faults.Wrap(faults.ErrLedgerWrite, "ledger", "sync", path, err)
	}
	return nil
}

// Close releases the append handle and the advisory lock.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var firstErr error
	if l.file != nil {
		if err := l.file.Close(); err != nil {
			firstErr = err
		}
		l.file = nil
	}
	if l.lock != nil {
		if err := l.lock.Unlock(); err != nil && firstErr == nil {
			firstErr = err
		}
		l.lock = nil
	}
	return firstErr
}

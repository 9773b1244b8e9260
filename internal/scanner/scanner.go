// Package scanner discovers the files a run still has to classify.
//
// The walk happens exactly once, before any worker starts; no paths are
// added while the pool is running. Paths recorded in the recovery ledger
// and files already sitting in the bucket their extension maps to are
// filtered out, which is what makes repeated runs over the same root
// idempotent.
package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"sortd/internal/faults"
)

// Options configures a scan.
type Options struct {
	// Root is the directory to walk.
	Root string
	// AlreadyDone reports whether a path was recorded by a prior run.
	AlreadyDone func(path string) bool
	// BucketFor maps a file name to its destination bucket directory name.
	BucketFor func(name string) string
	// StateDirName is the engine state directory to skip (direct child of
	// Root holding the ledger, lock, and logs).
	StateDirName string
}

// Result summarizes a completed scan.
type Result struct {
	// Pending are the absolute paths that still need processing, in walk
	// (lexical) order.
	Pending []string
	// SkippedDone counts files excluded because the ledger records them.
	SkippedDone int
	// AlreadyPlaced counts files excluded because they already live in the
	// bucket their extension maps to.
	AlreadyPlaced int
	// WalkErrors collects per-entry failures (unreadable subdirectories and
	// the like). They never abort the scan.
	WalkErrors []error
}

// Total returns the number of regular files the walk saw.
func (r *Result) Total() int {
	return len(r.Pending) + r.SkippedDone + r.AlreadyPlaced
}

// Scan walks the root once and partitions every regular file into pending,
// ledger-recorded, or already in place. A missing or non-directory root is
// a directory fault: no work is possible.
func Scan(opts Options) (*Result, error) {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, faults.Wrap(faults.ErrDirectory, "scanner", "resolve root", opts.Root, err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, faults.Wrap(faults.ErrDirectory, "scanner", "stat root", root, err)
	}
	if !info.IsDir() {
		return nil, faults.Wrap(faults.ErrDirectory, "scanner", "stat root", root+" is not a directory", nil)
	}

	result := &Result{}
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			result.WalkErrors = append(result.WalkErrors, err)
			return nil
		}

		if d.IsDir() {
			if opts.StateDirName != "" && d.Name() == opts.StateDirName && filepath.Dir(path) == root {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		if opts.AlreadyDone != nil && opts.AlreadyDone(path) {
			result.SkippedDone++
			return nil
		}
		if opts.BucketFor != nil && inOwnBucket(root, path, opts.BucketFor(d.Name())) {
			result.AlreadyPlaced++
			return nil
		}

		result.Pending = append(result.Pending, path)
		return nil
	})
	if walkErr != nil {
		return nil, faults.Wrap(faults.ErrDirectory, "scanner", "walk root", root, walkErr)
	}

	return result, nil
}

// inOwnBucket reports whether path already lives under root/<bucket>/.
func inOwnBucket(root, path, bucket string) bool {
	if bucket == "" {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	first, _, found := strings.Cut(rel, string(filepath.Separator))
	return found && first == bucket
}

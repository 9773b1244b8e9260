// Package testsupport provides shared fixtures for sortd tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"sortd/internal/config"
	"sortd/internal/history"
	"sortd/internal/ledger"
)

// NewConfig produces a validated default config with a small fixed worker
// count so tests exercise real concurrency without depending on host CPUs.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Sorting.Workers = 4
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}

// WriteFile creates path (and any parent directories) with the given
// content.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// MustOpenLedger opens the recovery ledger for root using cfg's state
// paths, closing it when the test finishes.
func MustOpenLedger(t testing.TB, cfg *config.Config, root string) *ledger.Ledger {
	t.Helper()

	l, err := ledger.Open(cfg.LedgerPath(root), cfg.LockPath(root))
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

// MustOpenHistory opens the outcome store for root using cfg's state paths,
// closing it when the test finishes.
func MustOpenHistory(t testing.TB, cfg *config.Config, root string) *history.Store {
	t.Helper()

	store, err := history.Open(cfg.HistoryPath(root))
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

package ledger_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"sortd/internal/faults"
	"sortd/internal/ledger"
)

func openLedger(t *testing.T, dir string) *ledger.Ledger {
	t.Helper()
	l, err := ledger.Open(filepath.Join(dir, "ledger.txt"), filepath.Join(dir, "sortd.lock"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestOpenMissingFileMeansNoPriorRun(t *testing.T) {
	l := openLedger(t, t.TempDir())
	if l.Count() != 0 {
		t.Fatalf("expected empty ledger, got %d entries", l.Count())
	}
	if l.Contains("/anything") {
		t.Fatal("empty ledger should contain nothing")
	}
}

func TestRecordDoneSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	l := openLedger(t, dir)

	paths := []string{"/root/a.txt", "/root/sub/b.jpg", "/root/c"}
	for _, p := range paths {
		if err := l.RecordDone(p); err != nil {
			t.Fatalf("RecordDone(%s): %v", p, err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := openLedger(t, dir)
	if reopened.Count() != len(paths) {
		t.Fatalf("expected %d entries after reopen, got %d", len(paths), reopened.Count())
	}
	for _, p := range paths {
		if !reopened.Contains(p) {
			t.Fatalf("reopened ledger missing %q", p)
		}
	}
}

func TestRecordDoneAppendsOneLinePerPath(t *testing.T) {
	dir := t.TempDir()
	l := openLedger(t, dir)
	if err := l.RecordDone("/root/x.txt"); err != nil {
		t.Fatalf("RecordDone: %v", err)
	}
	if err := l.RecordDone("/root/y.txt"); err != nil {
		t.Fatalf("RecordDone: %v", err)
	}

	content, err := os.ReadFile(l.Path())
	if err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	if string(content) != "/root/x.txt\n/root/y.txt\n" {
		t.Fatalf("unexpected ledger content %q", content)
	}
}

func TestConcurrentAppendsNeverInterleave(t *testing.T) {
	dir := t.TempDir()
	l := openLedger(t, dir)

	const writers = 8
	const perWriter = 50
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				path := fmt.Sprintf("/root/worker-%d/file-%d.txt", w, i)
				if err := l.RecordDone(path); err != nil {
					t.Errorf("RecordDone: %v", err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	content, err := os.ReadFile(l.Path())
	if err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
	if len(lines) != writers*perWriter {
		t.Fatalf("expected %d lines, got %d", writers*perWriter, len(lines))
	}
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if !strings.HasPrefix(line, "/root/worker-") || !strings.HasSuffix(line, ".txt") {
			t.Fatalf("interleaved or corrupt line %q", line)
		}
		if _, dup := seen[line]; dup {
			t.Fatalf("duplicate line %q", line)
		}
		seen[line] = struct{}{}
	}
}

func TestRecordDoneOnClosedLedgerWrapsLedgerWriteError(t *testing.T) {
	l := openLedger(t, t.TempDir())
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	err := l.RecordDone("/root/a.txt")
	if err == nil {
		t.Fatal("expected append to a closed ledger to fail")
	}
	if !errors.Is(err, faults.ErrLedgerWrite) {
		t.Fatalf("expected ledger write classification, got %v", err)
	}
}

func TestSecondInstanceIsRejected(t *testing.T) {
	dir := t.TempDir()
	openLedger(t, dir)

	_, err := ledger.Open(filepath.Join(dir, "ledger.txt"), filepath.Join(dir, "sortd.lock"))
	if err == nil {
		t.Fatal("expected lock conflict for second instance")
	}
	if !strings.Contains(err.Error(), "another sortd instance") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestCompletedSorted(t *testing.T) {
	dir := t.TempDir()
	l := openLedger(t, dir)
	for _, p := range []string{"/c", "/a", "/b"} {
		if err := l.RecordDone(p); err != nil {
			t.Fatalf("RecordDone: %v", err)
		}
	}
	_ = l.Close()

	reopened := openLedger(t, dir)
	got := reopened.Completed()
	want := []string{"/a", "/b", "/c"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestBlankLinesIgnoredOnLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.txt")
	if err := os.WriteFile(path, []byte("/a\n\n/b\n\n"), 0o644); err != nil {
		t.Fatalf("seed ledger: %v", err)
	}

	l, err := ledger.Open(path, filepath.Join(dir, "sortd.lock"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer l.Close()
	if l.Count() != 2 {
		t.Fatalf("expected 2 entries, got %d", l.Count())
	}
}

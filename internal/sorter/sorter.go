package sorter

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"sortd/internal/config"
	"sortd/internal/dedup"
	"sortd/internal/digest"
	"sortd/internal/faults"
	"sortd/internal/history"
	"sortd/internal/ledger"
	"sortd/internal/logging"
	"sortd/internal/scanner"
	"sortd/internal/workqueue"
)

// Options describes engine construction parameters. Config, Root, and
// Ledger are required; History and Progress are optional collaborators.
type Options struct {
	Config  *config.Config
	Root    string
	Ledger  *ledger.Ledger
	History *history.Store
	Logger  *slog.Logger
	RunID   string
	// Progress receives a monotonically increasing completed count. It is
	// called from worker goroutines and must be cheap; correctness never
	// depends on it.
	Progress func(completed, total int)
}

// Summary reports what a run did.
type Summary struct {
	RunID         string `json:"run_id"`
	Total         int    `json:"total"`
	Pending       int    `json:"pending"`
	AlreadyDone   int    `json:"already_done"`
	AlreadyPlaced int    `json:"already_placed"`

	Moved          int `json:"moved"`
	Duplicates     int `json:"duplicates"`
	Skipped        int `json:"skipped"`
	Failed         int `json:"failed"`
	LedgerFailures int `json:"ledger_failures"`
}

// NothingFound reports whether the walk saw no files at all, the condition
// that maps to a non-zero exit.
func (s *Summary) NothingFound() bool {
	return s.Total == 0
}

// Sorter is the concurrent classification engine.
type Sorter struct {
	cfg      *config.Config
	root     string
	ledger   *ledger.Ledger
	history  *history.Store
	logger   *slog.Logger
	runID    string
	progress func(completed, total int)

	registry *dedup.Registry
	// destMu serializes every destination probe+rename, canonical and
	// duplicate alike. Two workers placing distinct-content files under
	// the same base name both pass Claim; without the lock both see the
	// name as free and the second rename replaces the first file's bytes.
	destMu sync.Mutex

	total          int
	completed      atomic.Int64
	moved          atomic.Int64
	duplicates     atomic.Int64
	skipped        atomic.Int64
	failed         atomic.Int64
	ledgerFailures atomic.Int64
}

// New constructs an engine over an opened ledger.
func New(opts Options) (*Sorter, error) {
	if opts.Config == nil || opts.Ledger == nil {
		return nil, errors.New("sorter requires config and ledger")
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, faults.Wrap(faults.ErrDirectory, "sorter", "resolve root", opts.Root, err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	logger = logger.With(
		logging.String(logging.FieldComponent, "sorter"),
		logging.String(logging.FieldRunID, runID),
	)

	return &Sorter{
		cfg:      opts.Config,
		root:     root,
		ledger:   opts.Ledger,
		history:  opts.History,
		logger:   logger,
		runID:    runID,
		progress: opts.Progress,
		registry: dedup.NewRegistry(),
	}, nil
}

// RunID returns the identifier attached to this run's logs and history rows.
func (s *Sorter) RunID() string {
	return s.runID
}

// Run scans the root, then drains the resulting queue with a fixed pool of
// workers. Only a directory fault returns an error; per-task failures are
// logged skips reflected in the summary.
func (s *Sorter) Run(ctx context.Context) (*Summary, error) {
	scan, err := scanner.Scan(scanner.Options{
		Root:         s.root,
		AlreadyDone:  s.ledger.Contains,
		BucketFor:    func(name string) string { return bucketFor(name, s.cfg.Sorting.NoExtensionBucket) },
		StateDirName: s.cfg.Sorting.StateDirName,
	})
	if err != nil {
		return nil, err
	}
	for _, walkErr := range scan.WalkErrors {
		s.logger.Warn("scan entry skipped", logging.Error(walkErr))
	}

	s.total = len(scan.Pending)
	s.logger.Info("scan complete",
		logging.Int("pending", len(scan.Pending)),
		logging.Int("already_done", scan.SkippedDone),
		logging.Int("already_placed", scan.AlreadyPlaced),
	)

	if s.total > 0 {
		queue := workqueue.New(scan.Pending)
		workers := s.cfg.Sorting.Workers
		if workers > s.total {
			workers = s.total
		}

		p := pool.New().WithMaxGoroutines(workers)
		for i := 0; i < workers; i++ {
			p.Go(func() { s.work(ctx, queue) })
		}
		p.Wait()
	}

	summary := &Summary{
		RunID:          s.runID,
		Total:          scan.Total(),
		Pending:        s.total,
		AlreadyDone:    scan.SkippedDone,
		AlreadyPlaced:  scan.AlreadyPlaced,
		Moved:          int(s.moved.Load()),
		Duplicates:     int(s.duplicates.Load()),
		Skipped:        int(s.skipped.Load()),
		Failed:         int(s.failed.Load()),
		LedgerFailures: int(s.ledgerFailures.Load()),
	}
	s.logger.Info("run complete",
		logging.Int("moved", summary.Moved),
		logging.Int("duplicates", summary.Duplicates),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
	)
	return summary, nil
}

// work is one worker's loop: pop, process, repeat until the queue drains or
// the context asks for a cooperative stop. A task in flight at cancellation
// is simply not recorded and retries next run.
func (s *Sorter) work(ctx context.Context, queue *workqueue.Queue) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		task, ok := queue.TryPop()
		if !ok {
			return
		}
		s.process(ctx, task)
	}
}

func (s *Sorter) process(ctx context.Context, task workqueue.Task) {
	outcome, dest, dg, err := s.place(task)

	switch {
	case err != nil:
		s.failed.Add(1)
		s.logger.Error("task failed; eligible for retry next run",
			logging.String(logging.FieldPath, task.Path),
			logging.Error(err),
		)
		s.recordHistory(ctx, task, dest, dg, history.OutcomeFailed, err)
	case outcome == history.OutcomeSkipped:
		s.skipped.Add(1)
		s.logger.Debug("source gone before processing; benign skip",
			logging.String(logging.FieldPath, task.Path),
		)
		s.recordHistory(ctx, task, "", "", history.OutcomeSkipped, nil)
	default:
		if outcome == history.OutcomeMoved {
			s.moved.Add(1)
		} else {
			s.duplicates.Add(1)
		}
		s.logger.Info(string(outcome),
			logging.String(logging.FieldPath, task.Path),
			logging.String(logging.FieldDestination, dest),
			logging.String(logging.FieldDigest, dg),
		)
		s.recordDone(task)
		s.recordHistory(ctx, task, dest, dg, outcome, nil)
	}

	completed := s.completed.Add(1)
	if s.progress != nil {
		s.progress(int(completed), s.total)
	}
}

// place digests the task and moves it to its terminal location. A nil error
// with OutcomeSkipped means the source vanished, the accepted crash-gap
// case.
func (s *Sorter) place(task workqueue.Task) (history.Outcome, string, string, error) {
	dg, err := digest.File(task.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return history.OutcomeSkipped, "", "", nil
		}
		return history.OutcomeFailed, "", "", err
	}

	name := filepath.Base(task.Path)
	bucket := bucketFor(name, s.cfg.Sorting.NoExtensionBucket)
	bucketDir := filepath.Join(s.root, bucket)
	// Racing creators of the same new bucket are a benign no-op.
	if err := os.MkdirAll(bucketDir, 0o755); err != nil {
		return history.OutcomeFailed, "", dg, faults.Wrap(faults.ErrFilesystem, "mover", "create bucket", bucketDir, err)
	}

	candidate := filepath.Join(bucketDir, name)
	canonical, accepted := s.registry.Claim(dg, candidate)
	if accepted {
		if moveErr := s.placeCanonical(task.Path, candidate); moveErr != nil {
			return history.OutcomeFailed, candidate, dg, moveErr
		}
		return history.OutcomeMoved, candidate, dg, nil
	}

	dest, dupErr := s.placeDuplicate(task.Path, bucketDir, name)
	if dupErr != nil {
		return history.OutcomeFailed, "", dg, dupErr
	}
	s.logger.Debug("content already claimed",
		logging.String(logging.FieldPath, task.Path),
		logging.String("canonical", canonical),
	)
	return history.OutcomeDuplicate, dest, dg, nil
}

// placeCanonical moves src to its claimed name. Probe and rename happen
// under the destination lock so a racing worker placing a different file
// under the same name fails the collision check instead of replacing it.
func (s *Sorter) placeCanonical(src, candidate string) error {
	s.destMu.Lock()
	defer s.destMu.Unlock()

	if _, statErr := os.Lstat(candidate); statErr == nil {
		return faults.Wrap(faults.ErrFilesystem, "mover", "place canonical", candidate+" already exists", nil)
	} else if !os.IsNotExist(statErr) {
		return faults.Wrap(faults.ErrFilesystem, "mover", "probe destination", candidate, statErr)
	}
	return moveFile(src, candidate)
}

// placeDuplicate finds the first free duplicate-marked name in the bucket
// and moves the file there, under the same destination lock.
func (s *Sorter) placeDuplicate(src, bucketDir, name string) (string, error) {
	s.destMu.Lock()
	defer s.destMu.Unlock()

	marker := s.cfg.Sorting.DuplicateMarker
	for attempt := 0; attempt < maxDuplicateProbes; attempt++ {
		candidate := filepath.Join(bucketDir, duplicateName(name, marker, attempt))
		if _, err := os.Lstat(candidate); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return "", faults.Wrap(faults.ErrFilesystem, "mover", "probe duplicate name", candidate, err)
		}
		if err := moveFile(src, candidate); err != nil {
			return "", err
		}
		return candidate, nil
	}
	return "", faults.Wrap(faults.ErrFilesystem, "mover", "allocate duplicate name", name+": probe limit exhausted", nil)
}

// recordDone appends the source path to the recovery ledger. A failed
// append means the file is moved but unrecorded, a latent duplicate risk on
// the next run, so it is surfaced loudly rather than swallowed.
func (s *Sorter) recordDone(task workqueue.Task) {
	if err := s.ledger.RecordDone(task.Path); err != nil {
		s.ledgerFailures.Add(1)
		s.logger.Error("ledger append failed; file moved but not recorded as done",
			logging.Alert("ledger_write_failed"),
			logging.String(logging.FieldPath, task.Path),
			logging.Error(err),
		)
	}
}

func (s *Sorter) recordHistory(ctx context.Context, task workqueue.Task, dest, dg string, outcome history.Outcome, cause error) {
	if s.history == nil {
		return
	}
	rec := history.Record{
		RunID:       s.runID,
		SourcePath:  task.Path,
		Destination: dest,
		Digest:      dg,
		Outcome:     outcome,
	}
	if cause != nil {
		rec.ErrorText = cause.Error()
	}
	if err := s.history.Record(ctx, rec); err != nil {
		s.logger.Warn("history record failed",
			logging.String(logging.FieldPath, task.Path),
			logging.Error(err),
		)
	}
}

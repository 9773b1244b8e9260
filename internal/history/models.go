package history

import "time"

// Outcome classifies how a file's processing ended.
type Outcome string

const (
	// OutcomeMoved means the file won its digest and kept its name.
	OutcomeMoved Outcome = "moved"
	// OutcomeDuplicate means the file matched an existing digest and was
	// renamed with the duplicate marker.
	OutcomeDuplicate Outcome = "duplicate"
	// OutcomeSkipped means the source vanished before processing, the
	// benign re-run case.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFailed means a recoverable per-task error; the file stays
	// eligible for retry on the next run.
	OutcomeFailed Outcome = "failed"
)

// Record is one file's outcome within a run.
type Record struct {
	ID          int64     `json:"id"`
	RunID       string    `json:"run_id"`
	SourcePath  string    `json:"source_path"`
	Destination string    `json:"destination,omitempty"`
	Digest      string    `json:"digest,omitempty"`
	Outcome     Outcome   `json:"outcome"`
	ErrorText   string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

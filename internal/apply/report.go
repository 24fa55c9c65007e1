package apply

import "centerview/internal/review"

// FailureReason classifies a per-item apply failure.
type FailureReason string

const (
	// ReasonMissingSource means the record's file disappeared before the move.
	ReasonMissingSource FailureReason = "missing_source"
	// ReasonMoveFailed means the OS-level move could not be completed.
	ReasonMoveFailed FailureReason = "move_failed"
)

// MoveResult records one completed filesystem move.
type MoveResult struct {
	OldPath string
	NewPath string
	From    review.Label
	To      review.Label
}

// AppliedResult records an item whose source and destination already resolved
// to the same location, committed without a move.
type AppliedResult struct {
	Path  string
	Label review.Label
}

// Failure records one isolated per-item apply failure.
type Failure struct {
	Path   string
	Reason FailureReason
	Err    error
}

// Cause renders the underlying failure for display.
func (f Failure) Cause() string {
	if f.Err == nil {
		return string(f.Reason)
	}
	return f.Err.Error()
}

// Report is the exhaustive, order-preserving record of one apply run.
type Report struct {
	RunID          string
	Moved          []MoveResult
	AlreadyApplied []AppliedResult
	Failed         []Failure
}

// Empty reports whether the run had nothing to do.
func (r *Report) Empty() bool {
	return len(r.Moved) == 0 && len(r.AlreadyApplied) == 0 && len(r.Failed) == 0
}

// Reconciled returns the number of records whose state was committed.
func (r *Report) Reconciled() int {
	return len(r.Moved) + len(r.AlreadyApplied)
}

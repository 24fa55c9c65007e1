package apply

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"centerview/internal/events"
	"centerview/internal/fileutil"
	"centerview/internal/logging"
	"centerview/internal/review"
)

// Engine moves dirty records to their target category directories.
type Engine struct {
	root   string
	dirs   review.LabelDirs
	sink   events.Sink
	logger *slog.Logger
}

// NewEngine constructs an apply engine for the given root. A nil sink
// suppresses event emission.
func NewEngine(root string, dirs review.LabelDirs, sink events.Sink, logger *slog.Logger) *Engine {
	if sink == nil {
		sink = events.Nop{}
	}
	return &Engine{
		root:   root,
		dirs:   dirs,
		sink:   sink,
		logger: logging.NewComponentLogger(logger, "apply"),
	}
}

// Apply drains the session's dirty set against the filesystem and reconciles
// the session afterwards. Per-item failures are collected into the report and
// never abort the batch; the returned error covers setup failures only
// (another apply in flight, missing root, lock contention).
func (e *Engine) Apply(ctx context.Context, session *review.Session) (*Report, error) {
	dirty, err := session.BeginApply()
	if err != nil {
		return nil, err
	}
	// The closure reads delta after the loop fills it; a plain deferred call
	// would capture the zero value now.
	var delta review.Delta
	defer func() { session.FinishApply(delta) }()

	report := &Report{RunID: uuid.NewString()}
	if len(dirty) == 0 {
		e.logger.Info("no pending changes to apply", logging.String(logging.FieldRoot, e.root))
		return report, nil
	}

	info, err := os.Stat(e.root)
	if err != nil || !info.IsDir() {
		return nil, review.Wrap(review.ErrInvalidRoot, "apply", e.root, err)
	}

	unlock, err := e.lockRoot()
	if err != nil {
		return nil, err
	}
	defer unlock()

	e.sink.Publish(events.ApplyStarted{RunID: report.RunID, Pending: len(dirty)})
	e.logger.Info("starting apply run",
		logging.String(logging.FieldRunID, report.RunID),
		logging.Int("pending", len(dirty)),
	)

	// No cancellation mid-batch: each move is an atomic rename and the run
	// stops only after the whole dirty set is processed.
	for _, record := range dirty {
		e.applyOne(record, report, &delta)
	}

	e.sink.Publish(events.ApplyFinished{
		RunID:          report.RunID,
		Moved:          len(report.Moved),
		AlreadyApplied: len(report.AlreadyApplied),
		Failed:         len(report.Failed),
	})
	e.logger.Info("apply run finished",
		logging.String(logging.FieldRunID, report.RunID),
		logging.Int("moved", len(report.Moved)),
		logging.Int("already_applied", len(report.AlreadyApplied)),
		logging.Int("failed", len(report.Failed)),
	)
	return report, nil
}

func (e *Engine) applyOne(record review.Record, report *Report, delta *review.Delta) {
	source := record.Path
	destination := filepath.Join(e.root, e.dirs.Dir(record.CurrentLabel), filepath.Base(source))

	if _, err := os.Stat(source); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			e.fail(report, Failure{Path: source, Reason: ReasonMissingSource, Err: err})
			return
		}
		e.fail(report, Failure{Path: source, Reason: ReasonMoveFailed, Err: fmt.Errorf("stat source: %w", err)})
		return
	}

	if fileutil.SamePath(source, destination) {
		// Case-insensitive filesystems can collapse the directory-name
		// difference; commit the label without touching the file.
		report.AlreadyApplied = append(report.AlreadyApplied, AppliedResult{Path: source, Label: record.CurrentLabel})
		delta.AlreadyApplied = append(delta.AlreadyApplied, source)
		e.logger.Info("label already applied on disk", logging.String(logging.FieldPath, source))
		return
	}

	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		e.fail(report, Failure{Path: source, Reason: ReasonMoveFailed, Err: fmt.Errorf("ensure category directory: %w", err)})
		return
	}

	// The first mover wins a destination collision; later records with the
	// same basename fail deterministically in session order.
	if _, err := os.Lstat(destination); err == nil {
		e.fail(report, Failure{Path: source, Reason: ReasonMoveFailed, Err: fmt.Errorf("destination exists: %w", os.ErrExist)})
		return
	}

	if err := fileutil.MoveFile(source, destination); err != nil {
		e.fail(report, Failure{Path: source, Reason: ReasonMoveFailed, Err: err})
		return
	}

	report.Moved = append(report.Moved, MoveResult{
		OldPath: source,
		NewPath: destination,
		From:    record.InitialLabel,
		To:      record.CurrentLabel,
	})
	delta.Moved = append(delta.Moved, review.Move{OldPath: source, NewPath: destination})
	e.logger.Info("moved file",
		logging.String("from", source),
		logging.String("to", destination),
	)
}

func (e *Engine) fail(report *Report, failure Failure) {
	report.Failed = append(report.Failed, failure)
	e.sink.Publish(events.ErrorEvent{Context: "apply", Detail: fmt.Sprintf("%s: %s", filepath.Base(failure.Path), failure.Cause())})
	e.logger.Warn("apply item failed",
		logging.String(logging.FieldPath, failure.Path),
		logging.String("reason", string(failure.Reason)),
		logging.Error(failure.Err),
	)
}

func (e *Engine) lockRoot() (func(), error) {
	stateDir := filepath.Join(e.root, review.StateDirName)
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure state directory: %w", err)
	}
	lock := flock.New(filepath.Join(stateDir, "apply.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire apply lock: %w", err)
	}
	if !locked {
		return nil, review.Wrap(review.ErrApplyInFlight, "apply",
			"another process holds the apply lock for this root", nil)
	}
	return func() { _ = lock.Unlock() }, nil
}

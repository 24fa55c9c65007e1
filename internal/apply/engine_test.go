package apply_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"centerview/internal/apply"
	"centerview/internal/catalog"
	"centerview/internal/events"
	"centerview/internal/review"
	"centerview/internal/testsupport"
)

var labelDirs = review.LabelDirs{Center: "center", NotCenter: "not_center"}

type captureSink struct {
	got []events.Event
}

func (c *captureSink) Publish(event events.Event) { c.got = append(c.got, event) }

func loadSession(t *testing.T, root string, sink events.Sink) *review.Session {
	t.Helper()
	scanner := catalog.NewScanner(labelDirs, []string{".png", ".jpg", ".jpeg", ".gif"}, nil)
	entries, err := scanner.Scan(root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	session := review.NewSession(root, sink)
	if err := session.Load(entries); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return session
}

func TestApplyNoPendingChanges(t *testing.T) {
	root := testsupport.NewRoot(t, testsupport.Image("center", "a.jpg"))
	session := loadSession(t, root, nil)

	report, err := apply.NewEngine(root, labelDirs, nil, nil).Apply(context.Background(), session)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !report.Empty() {
		t.Fatalf("expected empty report: %+v", report)
	}
	if _, err := os.Stat(filepath.Join(root, "center", "a.jpg")); err != nil {
		t.Fatalf("file moved on no-op apply: %v", err)
	}
}

func TestApplyMovesDirtyRecord(t *testing.T) {
	root := testsupport.NewRoot(t,
		testsupport.Image("center", "a.jpg"),
		testsupport.Image("not_center", "b.png"),
	)
	sink := &captureSink{}
	session := loadSession(t, root, sink)

	moved := filepath.Join(root, "center", "a.jpg")
	if _, err := session.Toggle(moved); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	report, err := apply.NewEngine(root, labelDirs, sink, nil).Apply(context.Background(), session)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(report.Moved) != 1 || len(report.Failed) != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}

	newPath := filepath.Join(root, "not_center", "a.jpg")
	if report.Moved[0].NewPath != newPath {
		t.Fatalf("moved to %q, want %q", report.Moved[0].NewPath, newPath)
	}
	if _, err := os.Stat(newPath); err != nil {
		t.Fatalf("destination missing: %v", err)
	}
	if _, err := os.Stat(moved); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("source still present: %v", err)
	}

	if session.PendingCount() != 0 {
		t.Fatalf("pending = %d after successful apply", session.PendingCount())
	}
	record, err := session.Get(newPath)
	if err != nil {
		t.Fatalf("session not reconciled to new path: %v", err)
	}
	if record.Dirty() || record.InitialLabel != review.LabelNotCenter {
		t.Fatalf("record not committed: %+v", record)
	}

	var started, finished bool
	for _, event := range sink.got {
		switch e := event.(type) {
		case events.ApplyStarted:
			started = e.Pending == 1
		case events.ApplyFinished:
			finished = e.Moved == 1 && e.Failed == 0
		}
	}
	if !started || !finished {
		t.Fatalf("missing apply events: %#v", sink.got)
	}
}

func TestApplyFullSuccessLeavesAllRecordsClean(t *testing.T) {
	root := testsupport.NewRoot(t,
		testsupport.Image("center", "a.jpg"),
		testsupport.Image("center", "b.jpg"),
		testsupport.Image("not_center", "c.png"),
	)
	session := loadSession(t, root, nil)
	for _, name := range []string{"center/a.jpg", "center/b.jpg", "not_center/c.png"} {
		if _, err := session.Toggle(filepath.Join(root, name)); err != nil {
			t.Fatalf("Toggle %s: %v", name, err)
		}
	}

	report, err := apply.NewEngine(root, labelDirs, nil, nil).Apply(context.Background(), session)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(report.Moved) != 3 {
		t.Fatalf("moved = %d, want 3", len(report.Moved))
	}
	if session.PendingCount() != 0 {
		t.Fatalf("pending = %d", session.PendingCount())
	}
	for _, record := range session.Snapshot() {
		if record.Dirty() {
			t.Fatalf("dirty record after full apply: %+v", record)
		}
		if _, err := os.Stat(record.Path); err != nil {
			t.Fatalf("session path %q does not exist: %v", record.Path, err)
		}
	}
}

func TestApplyMissingSourceKeepsRecordDirty(t *testing.T) {
	root := testsupport.NewRoot(t, testsupport.Image("center", "a.jpg"))
	session := loadSession(t, root, nil)
	path := filepath.Join(root, "center", "a.jpg")
	if _, err := session.Toggle(path); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove source: %v", err)
	}

	report, err := apply.NewEngine(root, labelDirs, nil, nil).Apply(context.Background(), session)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(report.Failed) != 1 || report.Failed[0].Reason != apply.ReasonMissingSource {
		t.Fatalf("unexpected failures: %+v", report.Failed)
	}
	if session.PendingCount() != 1 {
		t.Fatalf("record must stay dirty, pending = %d", session.PendingCount())
	}
}

func TestApplyDestinationCollisionIsDeterministic(t *testing.T) {
	// Two dirty records head for not_center; a.jpg's slot is occupied by a
	// file that appeared after the scan. Records run in session order, so
	// a.jpg fails and b.jpg still moves.
	root := testsupport.NewRoot(t,
		testsupport.Image("center", "a.jpg"),
		testsupport.Image("center", "b.jpg"),
	)
	session := loadSession(t, root, nil)
	for _, name := range []string{"a.jpg", "b.jpg"} {
		if _, err := session.Toggle(filepath.Join(root, "center", name)); err != nil {
			t.Fatalf("Toggle %s: %v", name, err)
		}
	}
	testsupport.WriteFile(t, filepath.Join(root, "not_center", "a.jpg"))

	report, err := apply.NewEngine(root, labelDirs, nil, nil).Apply(context.Background(), session)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(report.Moved) != 1 || len(report.Failed) != 1 {
		t.Fatalf("want 1 moved + 1 failed, got %+v", report)
	}
	if got := report.Failed[0].Path; got != filepath.Join(root, "center", "a.jpg") {
		t.Fatalf("failed path = %q", got)
	}
	if report.Failed[0].Reason != apply.ReasonMoveFailed {
		t.Fatalf("failure reason = %q", report.Failed[0].Reason)
	}
	if !errors.Is(report.Failed[0].Err, os.ErrExist) {
		t.Fatalf("failure cause = %v, want destination exists", report.Failed[0].Err)
	}
	if _, err := os.Stat(filepath.Join(root, "center", "a.jpg")); err != nil {
		t.Fatalf("loser must stay at its source: %v", err)
	}
	// Pending decreases by one, not two.
	if session.PendingCount() != 1 {
		t.Fatalf("pending = %d, want 1", session.PendingCount())
	}
}

func TestApplySwappedPairNeverOverwrites(t *testing.T) {
	// Same basename on both sides, both toggled: each record's destination
	// is the other's still-present source, so neither move can happen.
	root := testsupport.NewRoot(t, testsupport.Image("center", "x.jpg"))
	testsupport.WriteFile(t, filepath.Join(root, "not_center", "x.jpg"))

	session := loadSession(t, root, nil)
	centerPath := filepath.Join(root, "center", "x.jpg")
	notCenterPath := filepath.Join(root, "not_center", "x.jpg")
	if _, err := session.Toggle(centerPath); err != nil {
		t.Fatalf("Toggle center: %v", err)
	}
	if _, err := session.Toggle(notCenterPath); err != nil {
		t.Fatalf("Toggle not_center: %v", err)
	}

	report, err := apply.NewEngine(root, labelDirs, nil, nil).Apply(context.Background(), session)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(report.Moved) != 0 || len(report.Failed) != 2 {
		t.Fatalf("want 0 moved + 2 failed, got %+v", report)
	}
	for _, failure := range report.Failed {
		if !errors.Is(failure.Err, os.ErrExist) {
			t.Fatalf("failure cause = %v, want destination exists", failure.Err)
		}
	}
	for _, path := range []string{centerPath, notCenterPath} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("file must stay put: %v", err)
		}
	}
	if session.PendingCount() != 2 {
		t.Fatalf("pending = %d, want 2", session.PendingCount())
	}
}

func TestApplyRetryAfterFailureSucceeds(t *testing.T) {
	root := testsupport.NewRoot(t, testsupport.Image("center", "a.jpg"))
	session := loadSession(t, root, nil)
	centerPath := filepath.Join(root, "center", "a.jpg")
	if _, err := session.Toggle(centerPath); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	blocker := filepath.Join(root, "not_center", "a.jpg")
	testsupport.WriteFile(t, blocker)

	engine := apply.NewEngine(root, labelDirs, nil, nil)
	report, err := engine.Apply(context.Background(), session)
	if err != nil {
		t.Fatalf("first Apply: %v", err)
	}
	if len(report.Failed) != 1 || session.PendingCount() != 1 {
		t.Fatalf("first apply: report %+v, pending %d", report, session.PendingCount())
	}

	// The record stays dirty; once the blocker is gone a retry lands.
	if err := os.Remove(blocker); err != nil {
		t.Fatalf("remove blocker: %v", err)
	}
	report, err = engine.Apply(context.Background(), session)
	if err != nil {
		t.Fatalf("second Apply: %v", err)
	}
	if len(report.Moved) != 1 || len(report.Failed) != 0 {
		t.Fatalf("retry report: %+v", report)
	}
	if session.PendingCount() != 0 {
		t.Fatalf("pending = %d after retry", session.PendingCount())
	}
	if _, err := os.Stat(blocker); err != nil {
		t.Fatalf("expected a.jpg at its destination: %v", err)
	}
}

func TestApplyCreatesMissingCategoryDirectory(t *testing.T) {
	// Scan requires both dirs; load first, then simulate external deletion.
	testRoot := testsupport.NewRoot(t, testsupport.Image("center", "a.jpg"))
	session := loadSession(t, testRoot, nil)
	if err := os.Remove(filepath.Join(testRoot, "not_center")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := session.Toggle(filepath.Join(testRoot, "center", "a.jpg")); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	report, err := apply.NewEngine(testRoot, labelDirs, nil, nil).Apply(context.Background(), session)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(report.Moved) != 1 {
		t.Fatalf("expected recreated category dir and move, got %+v", report)
	}
}

func TestApplyEngineLockExcludesSecondRun(t *testing.T) {
	root := testsupport.NewRoot(t, testsupport.Image("center", "a.jpg"))
	session := loadSession(t, root, nil)
	if _, err := session.Toggle(filepath.Join(root, "center", "a.jpg")); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	other := loadSession(t, root, nil)
	if _, err := other.Toggle(filepath.Join(root, "center", "a.jpg")); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	// Hold the session-level guard on one session and verify the other
	// session's engine still applies (locks are per-process-run, released
	// after each apply).
	if _, err := session.BeginApply(); err != nil {
		t.Fatalf("BeginApply: %v", err)
	}
	if _, err := apply.NewEngine(root, labelDirs, nil, nil).Apply(context.Background(), session); !errors.Is(err, review.ErrApplyInFlight) {
		t.Fatalf("expected ErrApplyInFlight, got %v", err)
	}
	session.FinishApply(review.Delta{})

	report, err := apply.NewEngine(root, labelDirs, nil, nil).Apply(context.Background(), other)
	if err != nil {
		t.Fatalf("Apply on other session: %v", err)
	}
	if len(report.Moved) != 1 {
		t.Fatalf("expected move, got %+v", report)
	}
}

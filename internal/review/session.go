package review

import (
	"fmt"
	"sync"

	"centerview/internal/events"
)

// Record tracks one image's committed and working labels.
type Record struct {
	Path         string
	InitialLabel Label
	CurrentLabel Label
}

// Dirty reports whether the working label differs from the committed one.
func (r Record) Dirty() bool {
	return r.CurrentLabel != r.InitialLabel
}

// Entry is one scanner result fed into Load.
type Entry struct {
	Path  string
	Label Label
}

// Session is the authoritative in-memory model of a review run. Records keep
// their scan-order position across toggles and across apply-driven path
// rewrites. All methods are safe for concurrent use.
type Session struct {
	mu      sync.Mutex
	root    string
	records []*Record
	index   map[string]int
	pending int
	busy    bool
	sink    events.Sink
}

// NewSession constructs an empty session rooted at the given directory.
// A nil sink suppresses event emission.
func NewSession(root string, sink events.Sink) *Session {
	if sink == nil {
		sink = events.Nop{}
	}
	return &Session{
		root:  root,
		index: make(map[string]int),
		sink:  sink,
	}
}

// Root returns the review root directory.
func (s *Session) Root() string { return s.root }

// Load replaces all session state with the given entries. Duplicate paths in
// the input indicate a scanner contract violation and abort the load without
// touching existing state.
func (s *Session) Load(entries []Entry) error {
	records := make([]*Record, 0, len(entries))
	index := make(map[string]int, len(entries))
	for _, entry := range entries {
		if _, exists := index[entry.Path]; exists {
			return Wrap(ErrDuplicatePath, "load", fmt.Sprintf("scanner returned %q twice", entry.Path), nil)
		}
		index[entry.Path] = len(records)
		records = append(records, &Record{
			Path:         entry.Path,
			InitialLabel: entry.Label,
			CurrentLabel: entry.Label,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return Wrap(ErrApplyInFlight, "load", "cannot replace state during apply", nil)
	}
	s.records = records
	s.index = index
	s.pending = 0

	s.sink.Publish(events.Loaded{Root: s.root, Count: len(records)})
	return nil
}

// Clear drops all records and resets the pending counter.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	s.index = make(map[string]int)
	s.pending = 0
}

// Toggle flips the working label of the record at path and returns the new
// label. The pending counter is adjusted incrementally, never recomputed.
func (s *Session) Toggle(path string) (Label, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return "", Wrap(ErrApplyInFlight, "toggle", path, nil)
	}
	idx, ok := s.index[path]
	if !ok {
		return "", Wrap(ErrNotFound, "toggle", path, nil)
	}
	record := s.records[idx]
	from := record.CurrentLabel
	s.applyLabelLocked(record, from.Other())
	return record.CurrentLabel, nil
}

// SetLabel sets the working label explicitly. Setting the already-current
// label is a no-op and emits no event.
func (s *Session) SetLabel(path string, label Label) error {
	if !label.Valid() {
		return fmt.Errorf("set label: invalid label %q", label)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return Wrap(ErrApplyInFlight, "set label", path, nil)
	}
	idx, ok := s.index[path]
	if !ok {
		return Wrap(ErrNotFound, "set label", path, nil)
	}
	record := s.records[idx]
	if record.CurrentLabel == label {
		return nil
	}
	s.applyLabelLocked(record, label)
	return nil
}

func (s *Session) applyLabelLocked(record *Record, to Label) {
	from := record.CurrentLabel
	wasDirty := record.Dirty()
	record.CurrentLabel = to
	switch {
	case record.Dirty() && !wasDirty:
		s.pending++
	case !record.Dirty() && wasDirty:
		s.pending--
	}
	s.sink.Publish(events.Toggled{Path: record.Path, From: from.String(), To: to.String()})
}

// PendingCount returns the number of dirty records.
func (s *Session) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Len returns the number of tracked records.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Snapshot returns read-only copies of all records in session order.
func (s *Session) Snapshot() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	for i, record := range s.records {
		out[i] = *record
	}
	return out
}

// Get returns a copy of the record at path.
func (s *Session) Get(path string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.index[path]
	if !ok {
		return Record{}, Wrap(ErrNotFound, "get", path, nil)
	}
	return *s.records[idx], nil
}

// BeginApply marks the session busy and returns copies of the dirty records
// in session order. Callers must pair it with FinishApply. A second apply
// attempted while one is in flight fails with ErrApplyInFlight.
func (s *Session) BeginApply() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return nil, Wrap(ErrApplyInFlight, "apply", s.root, nil)
	}
	s.busy = true
	dirty := make([]Record, 0, s.pending)
	for _, record := range s.records {
		if record.Dirty() {
			dirty = append(dirty, *record)
		}
	}
	return dirty, nil
}

// Move records the identity rewrite for one successfully moved record.
type Move struct {
	OldPath string
	NewPath string
}

// Delta is the reconciliation outcome of an apply run.
type Delta struct {
	Moved          []Move
	AlreadyApplied []string
}

// FinishApply reconciles the session after an apply run and releases the
// apply guard. Moved records have their path key rewritten in place, keeping
// their scan-order position; both moved and already-applied records commit
// their working label. Records absent from the delta stay dirty and keep
// counting toward PendingCount. Returns the number of records reconciled.
func (s *Session) FinishApply(delta Delta) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false

	reconciled := 0
	for _, move := range delta.Moved {
		idx, ok := s.index[move.OldPath]
		if !ok {
			continue
		}
		record := s.records[idx]
		delete(s.index, move.OldPath)
		record.Path = move.NewPath
		record.InitialLabel = record.CurrentLabel
		s.index[move.NewPath] = idx
		reconciled++
	}
	for _, path := range delta.AlreadyApplied {
		idx, ok := s.index[path]
		if !ok {
			continue
		}
		record := s.records[idx]
		record.InitialLabel = record.CurrentLabel
		reconciled++
	}

	s.pending -= reconciled
	if s.pending < 0 {
		s.pending = 0
	}
	return reconciled
}

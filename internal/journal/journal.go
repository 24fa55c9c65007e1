// Package journal persists a human-readable action log inside the review
// root.
//
// The journal subscribes to engine events and appends one timestamped line
// per action to <root>/review_log.json, keeping only the most recent entries.
// It gives operators a durable record of what was toggled and applied without
// depending on the process's log output surviving.
package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"centerview/internal/events"
)

// FileName is the journal file written inside the review root.
const FileName = "review_log.json"

// Journal accumulates log entries and persists the most recent ones as a
// JSON array. It implements events.Sink.
type Journal struct {
	mu      sync.Mutex
	path    string
	max     int
	entries []string
	dirty   bool
	now     func() time.Time
}

// Open loads or creates a journal for the given review root. Existing entries
// are retained so the cap applies across runs.
func Open(root string, maxEntries int) (*Journal, error) {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	j := &Journal{
		path: filepath.Join(root, FileName),
		max:  maxEntries,
		now:  time.Now,
	}

	data, err := os.ReadFile(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return j, nil
		}
		return nil, fmt.Errorf("read journal: %w", err)
	}
	if err := json.Unmarshal(data, &j.entries); err != nil {
		return nil, fmt.Errorf("parse journal %s: %w", j.path, err)
	}
	j.trim()
	return j, nil
}

// Publish records an event as a journal line.
func (j *Journal) Publish(event events.Event) {
	if event == nil {
		return
	}
	if _, ok := event.(events.ErrorEvent); ok {
		j.Append("ERROR: " + event.Message())
		return
	}
	j.Append(event.Message())
}

// Append adds one timestamped entry.
func (j *Journal) Append(message string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	stamp := j.now().Format("2006-01-02 15:04:05")
	j.entries = append(j.entries, fmt.Sprintf("[%s] %s", stamp, message))
	j.trim()
	j.dirty = true
}

// Len returns the number of retained entries.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.entries)
}

// Entries returns a copy of the retained entries, oldest first.
func (j *Journal) Entries() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]string, len(j.entries))
	copy(out, j.entries)
	return out
}

// Flush writes the retained entries to disk if anything changed since the
// last flush.
func (j *Journal) Flush() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.dirty {
		return nil
	}
	data, err := json.MarshalIndent(j.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode journal: %w", err)
	}
	if err := os.WriteFile(j.path, data, 0o644); err != nil {
		return fmt.Errorf("write journal: %w", err)
	}
	j.dirty = false
	return nil
}

// Close flushes pending entries.
func (j *Journal) Close() error {
	return j.Flush()
}

func (j *Journal) trim() {
	if len(j.entries) > j.max {
		j.entries = append([]string(nil), j.entries[len(j.entries)-j.max:]...)
	}
}

package events

import (
	"fmt"
	"path/filepath"
)

// Event is implemented by every structured event the engine emits.
type Event interface {
	// Kind returns a stable machine-readable event name.
	Kind() string
	// Message renders a human-readable one-line summary.
	Message() string
}

// Sink receives structured events for display or persistence.
type Sink interface {
	Publish(event Event)
}

// Loaded reports a completed catalog load into the session.
type Loaded struct {
	Root  string
	Count int
}

func (Loaded) Kind() string { return "loaded" }

func (e Loaded) Message() string {
	return fmt.Sprintf("Loaded %d images from %s", e.Count, e.Root)
}

// Toggled reports a label change on a single record.
type Toggled struct {
	Path string
	From string
	To   string
}

func (Toggled) Kind() string { return "toggled" }

func (e Toggled) Message() string {
	return fmt.Sprintf("Toggled %q from %q to %q", filepath.Base(e.Path), e.From, e.To)
}

// ApplyStarted reports the beginning of a batched apply run.
type ApplyStarted struct {
	RunID   string
	Pending int
}

func (ApplyStarted) Kind() string { return "apply_started" }

func (e ApplyStarted) Message() string {
	return fmt.Sprintf("Applying %d pending changes", e.Pending)
}

// ApplyFinished reports the outcome of an apply run.
type ApplyFinished struct {
	RunID          string
	Moved          int
	AlreadyApplied int
	Failed         int
}

func (ApplyFinished) Kind() string { return "apply_finished" }

func (e ApplyFinished) Message() string {
	return fmt.Sprintf("Apply finished: moved=%d already_applied=%d failed=%d",
		e.Moved, e.AlreadyApplied, e.Failed)
}

// ErrorEvent reports a recoverable failure with its originating context.
type ErrorEvent struct {
	Context string
	Detail  string
}

func (ErrorEvent) Kind() string { return "error" }

func (e ErrorEvent) Message() string {
	return fmt.Sprintf("%s: %s", e.Context, e.Detail)
}

// Package events defines the structured event surface emitted by the review
// session and apply engine.
//
// The engine never renders UI; it publishes typed events to a Sink and leaves
// display or persistence to whatever layer subscribes. LogSink adapts a sink
// onto slog, Multi fans out to several sinks, and Nop discards everything for
// tests and wiring code that has no consumer.
package events

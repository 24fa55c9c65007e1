// Package review owns the in-memory model of a classification review session.
//
// A Session tracks one Record per image discovered under the review root,
// keyed by canonical absolute path in scan order. User edits flip a record's
// working label; the session maintains the pending-change counter
// incrementally so toggling stays O(1). The apply engine drains the dirty set
// against the filesystem and hands back a Delta that the session uses to
// rewrite record identities after successful moves.
package review

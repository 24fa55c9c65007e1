// Package store persists review state that must outlive a single process:
// pending label marks made by earlier CLI invocations and the history of
// apply runs.
//
// State lives in an SQLite database inside the review root's hidden state
// directory, so marks travel with the image tree rather than with the user's
// home directory.
package store

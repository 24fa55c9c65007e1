// Package apply executes the batched filesystem moves for a review session's
// dirty records.
//
// Each dirty record is processed independently in session order: there is no
// global transaction and partial application is an accepted outcome. A failed
// move leaves its record labeled exactly as before so it stays pending and is
// retried on a later apply. While a run is active the engine holds both the
// session's in-process apply guard and a file lock inside the root, so two
// processes cannot apply against the same tree at once.
package apply

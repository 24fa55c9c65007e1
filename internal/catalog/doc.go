// Package catalog enumerates eligible image files under a review root.
//
// A root is valid when both category directories exist. Each category is read
// independently so a failure on one side degrades to a partial scan instead
// of aborting. Results come back in a deterministic order: stable sort by
// basename, ties broken by discovery order, with every path normalized to its
// canonical absolute form so later lookups by path are reliable.
package catalog

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"centerview/internal/config"
	"centerview/internal/review"
)

var labelTitle = cases.Title(language.English)

// displayLabel renders a label for human output, e.g. "not_center" becomes
// "Not Center".
func displayLabel(label review.Label) string {
	return labelTitle.String(strings.ReplaceAll(string(label), "_", " "))
}

func shortRunID(runID string) string {
	if len(runID) > 8 {
		return runID[:8]
	}
	return runID
}

// resolveRecord maps a command argument to a session record. A bare file name
// is matched against record base names; anything containing a path separator
// is expanded and looked up directly.
func resolveRecord(session *review.Session, arg string) (review.Record, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return review.Record{}, fmt.Errorf("file name or path is required")
	}

	if strings.ContainsRune(arg, filepath.Separator) {
		expanded, err := config.ExpandPath(arg)
		if err != nil {
			return review.Record{}, err
		}
		return session.Get(expanded)
	}

	var matches []review.Record
	for _, record := range session.Snapshot() {
		if filepath.Base(record.Path) == arg {
			matches = append(matches, record)
		}
	}
	switch len(matches) {
	case 0:
		return review.Record{}, review.Wrap(review.ErrNotFound, "resolve", arg, nil)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, 0, len(matches))
		for _, record := range matches {
			names = append(names, record.Path)
		}
		return review.Record{}, fmt.Errorf("%s matches %d files (%s); use a path instead", arg, len(matches), strings.Join(names, ", "))
	}
}

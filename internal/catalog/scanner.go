package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"centerview/internal/logging"
	"centerview/internal/review"
)

// Scanner discovers eligible images inside a review root.
type Scanner struct {
	dirs       review.LabelDirs
	extensions map[string]struct{}
	logger     *slog.Logger
}

// NewScanner builds a scanner for the given category directory names and
// eligible extensions (lower-case, leading dot).
func NewScanner(dirs review.LabelDirs, extensions []string, logger *slog.Logger) *Scanner {
	set := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		set[strings.ToLower(ext)] = struct{}{}
	}
	return &Scanner{
		dirs:       dirs,
		extensions: set,
		logger:     logging.NewComponentLogger(logger, "catalog"),
	}
}

// Scan enumerates both category directories under root. Both directories must
// exist; a read failure on one side is logged and scanning continues with the
// other. Entries come back sorted by basename with ties kept in discovery
// order, paths absolute and cleaned.
func (s *Scanner) Scan(root string) ([]review.Entry, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, review.Wrap(review.ErrInvalidRoot, "scan", "no root directory given", nil)
	}
	absRoot, err := filepath.Abs(filepath.Clean(root))
	if err != nil {
		return nil, review.Wrap(review.ErrInvalidRoot, "scan", root, err)
	}

	sides := []struct {
		label review.Label
		dir   string
	}{
		{review.LabelCenter, filepath.Join(absRoot, s.dirs.Dir(review.LabelCenter))},
		{review.LabelNotCenter, filepath.Join(absRoot, s.dirs.Dir(review.LabelNotCenter))},
	}
	for _, side := range sides {
		info, err := os.Stat(side.dir)
		if err != nil || !info.IsDir() {
			return nil, review.Wrap(review.ErrInvalidRoot, "scan",
				fmt.Sprintf("missing category directory %q", filepath.Base(side.dir)), err)
		}
	}

	var entries []review.Entry
	for _, side := range sides {
		dirEntries, err := os.ReadDir(side.dir)
		if err != nil {
			s.logger.Warn("failed to read category directory",
				logging.String("dir", side.dir), logging.Error(err))
			continue
		}
		for _, dirEntry := range dirEntries {
			if dirEntry.IsDir() {
				continue
			}
			name := dirEntry.Name()
			if !s.eligible(name) {
				continue
			}
			entries = append(entries, review.Entry{
				Path:  filepath.Join(side.dir, name),
				Label: side.label,
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return filepath.Base(entries[i].Path) < filepath.Base(entries[j].Path)
	})
	return entries, nil
}

func (s *Scanner) eligible(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	_, ok := s.extensions[ext]
	return ok
}

package catalog_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"centerview/internal/catalog"
	"centerview/internal/review"
	"centerview/internal/testsupport"
)

func newScanner() *catalog.Scanner {
	return catalog.NewScanner(
		review.LabelDirs{Center: "center", NotCenter: "not_center"},
		[]string{".png", ".jpg", ".jpeg", ".bmp", ".gif", ".tif", ".tiff"},
		nil,
	)
}

func TestScanOrdersByBasenameAcrossCategories(t *testing.T) {
	root := testsupport.NewRoot(t,
		testsupport.Image("center", "c.jpg"),
		testsupport.Image("not_center", "a.png"),
		testsupport.Image("center", "b.gif"),
	)

	entries, err := newScanner().Scan(root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	wantNames := []string{"a.png", "b.gif", "c.jpg"}
	wantLabels := []review.Label{review.LabelNotCenter, review.LabelCenter, review.LabelCenter}
	for i, entry := range entries {
		if filepath.Base(entry.Path) != wantNames[i] {
			t.Errorf("entry %d = %q, want %q", i, filepath.Base(entry.Path), wantNames[i])
		}
		if entry.Label != wantLabels[i] {
			t.Errorf("entry %d label = %q, want %q", i, entry.Label, wantLabels[i])
		}
		if !filepath.IsAbs(entry.Path) {
			t.Errorf("entry %d path not absolute: %q", i, entry.Path)
		}
	}
}

func TestScanFiltersByExtensionCaseInsensitively(t *testing.T) {
	root := testsupport.NewRoot(t,
		testsupport.Image("center", "keep.JPG"),
		testsupport.Image("center", "keep.Tiff"),
		testsupport.Image("center", "skip.txt"),
		testsupport.Image("center", "noext"),
		testsupport.Image("not_center", "skip.raw"),
	)

	entries, err := newScanner().Scan(root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 eligible entries, got %d: %v", len(entries), entries)
	}
}

func TestScanSkipsNestedDirectories(t *testing.T) {
	root := testsupport.NewRoot(t, testsupport.Image("center", "a.jpg"))
	if err := os.MkdirAll(filepath.Join(root, "center", "nested.jpg"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	entries, err := newScanner().Scan(root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected directory to be skipped, got %d entries", len(entries))
	}
}

func TestScanRejectsRootMissingCategory(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "center"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	_, err := newScanner().Scan(root)
	if !errors.Is(err, review.ErrInvalidRoot) {
		t.Fatalf("expected ErrInvalidRoot, got %v", err)
	}
}

func TestScanRejectsEmptyRoot(t *testing.T) {
	if _, err := newScanner().Scan("  "); !errors.Is(err, review.ErrInvalidRoot) {
		t.Fatalf("expected ErrInvalidRoot, got %v", err)
	}
}

func TestScanEmptyCategoriesYieldNoEntries(t *testing.T) {
	root := testsupport.NewRoot(t)
	entries, err := newScanner().Scan(root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
}

// Package testsupport provides shared fixtures for centerview tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"centerview/internal/config"
)

// Seed describes one file planted inside a test review root.
type Seed struct {
	Dir  string
	Name string
}

// Image seeds one image file under the named category directory.
func Image(dir, name string) Seed {
	return Seed{Dir: dir, Name: name}
}

// NewRoot builds a temp review root with center and not_center directories
// plus the requested files, and returns its absolute path.
func NewRoot(t testing.TB, seeds ...Seed) string {
	t.Helper()

	root := t.TempDir()
	for _, dir := range []string{"center", "not_center"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	for _, seed := range seeds {
		WriteFile(t, filepath.Join(root, seed.Dir, seed.Name))
	}
	return root
}

// WriteFile creates path with small placeholder content, making parent
// directories as needed.
func WriteFile(t testing.TB, path string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("image-bytes"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}

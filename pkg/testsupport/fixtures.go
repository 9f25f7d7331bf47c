// Package testsupport carries small helpers shared by tests that need post
// fixtures on disk.
package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// LoadFixture reads a fixture file, usually from a testdata directory.
func LoadFixture(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// LoadGolden unmarshals a JSON golden file into v.
func LoadGolden(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// WriteTree materialises a content tree under dir: keys are slash-separated
// relative paths, values the file contents. Parent directories are created
// as needed.
func WriteTree(dir string, files map[string]string) error {
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// Package output writes the scrape result to disk.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// outputMode replaces the owner-only mode temporary files are created with.
const outputMode os.FileMode = 0o644

// Path turns an output name into a file name, ".json" is appended unless
// already present.
func Path(name string) string {
	if strings.HasSuffix(strings.ToLower(name), ".json") {
		return name
	}
	return name + ".json"
}

// WriteJSON writes v as indented json. The document is written to a
// temporary file in the same directory first so a failed write never leaves
// a truncated file at path.
func WriteJSON(path string, v any) error {
	contents, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	contents = append(contents, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	_, err = tmp.Write(contents)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("write '%s': %w", tmp.Name(), err)
	}
	err = tmp.Chmod(outputMode)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("chmod '%s': %w", tmp.Name(), err)
	}
	err = tmp.Close()
	if err != nil {
		return err
	}
	err = os.Rename(tmp.Name(), path)
	if err != nil {
		return fmt.Errorf("rename to '%s': %w", path, err)
	}
	return nil
}

package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPath(t *testing.T) {
	require.Equal(t, "jane.json", Path("jane"))
	require.Equal(t, "out/jane.json", Path("out/jane.json"))
	require.Equal(t, "JANE.JSON", Path("JANE.JSON"))
}

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jane.json")

	type record struct {
		Name  *string `json:"name"`
		Count int     `json:"count"`
	}
	require.NoError(t, WriteJSON(path, record{Count: 3}))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "{\n  \"name\": null,\n  \"count\": 3\n}\n", string(contents))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	require.Error(t, WriteJSON(filepath.Join(dir, "missing", "jane.json"), record{}))
}

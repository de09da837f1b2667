package scan

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestScanRoot(t *testing.T) {
	root := t.TempDir()
	chat := []byte("[01/01/2024, 09:00:00] Alice: hello there\n")

	write(t, filepath.Join(root, "family.txt"), chat)
	write(t, filepath.Join(root, "work", "team.TXT"), chat)
	write(t, filepath.Join(root, "notes.md"), chat)
	write(t, filepath.Join(root, "photo.txt"), []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'})
	write(t, filepath.Join(root, ".trash", "old.txt"), chat)

	files, err := ScanRoot(root)
	require.NoError(t, err)

	var paths []string
	for _, f := range files {
		paths = append(paths, f.Path)
		assert.Positive(t, f.Size)
		assert.Positive(t, f.Mtime)
	}
	sort.Strings(paths)
	assert.Equal(t, []string{
		filepath.Join(root, "family.txt"),
		filepath.Join(root, "work", "team.TXT"),
	}, paths)
}

func TestScanRoot_Missing(t *testing.T) {
	files, err := ScanRoot(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, files)

	files, err = ScanRoot("")
	require.NoError(t, err)
	assert.Empty(t, files)
}

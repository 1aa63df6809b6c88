package dataset

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/jsphweid/melodex/model"
)

func touch(t *testing.T, path string) {
	t.Helper()
	assert.NoError(t, os.MkdirAll(filepath.Dir(path), 0777))
	assert.NoError(t, os.WriteFile(path, []byte{}, 0666))
}

func TestIterMaestro(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "maestro", "2004", "b.mid"))
	touch(t, filepath.Join(root, "maestro", "2004", "a.midi"))
	touch(t, filepath.Join(root, "maestro", "2011", "c.mid"))
	touch(t, filepath.Join(root, "maestro", "2004", "notes.txt")) // ignored

	paths, err := IterMaestro(root)
	assert.NoError(t, err)
	assert.Len(t, paths, 3)
	assert.Equal(t, "a.midi", filepath.Base(paths[0]))
	assert.Equal(t, "b.mid", filepath.Base(paths[1]))
	assert.Equal(t, "c.mid", filepath.Base(paths[2]))
	for _, p := range paths {
		assert.True(t, filepath.IsAbs(p))
	}
}

func TestIterMaestroMissingRoot(t *testing.T) {
	_, err := IterMaestro(t.TempDir())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestIterPOP909(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "POP909", "001", "001.mid"))
	touch(t, filepath.Join(root, "POP909", "002", "002.mid"))
	assert.NoError(t, os.MkdirAll(filepath.Join(root, "POP909", ".hidden"), 0777))

	paths, err := IterPOP909(root)
	assert.NoError(t, err)
	assert.Len(t, paths, 2)
	assert.Equal(t, "001.mid", filepath.Base(paths[0]))
	assert.Equal(t, "002.mid", filepath.Base(paths[1]))
}

func TestIterPOP909RequiresExactlyOneFile(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "POP909", "001", "001.mid"))
	touch(t, filepath.Join(root, "POP909", "001", "extra.mid"))

	_, err := IterPOP909(root)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestGatherAllMidiPaths(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a", "one.mid"))
	touch(t, filepath.Join(root, "a", "b", "two.midi"))
	touch(t, filepath.Join(root, "readme.md"))

	paths, err := GatherAllMidiPaths(root, 0)
	assert.NoError(t, err)
	assert.Len(t, paths, 2)

	limited, err := GatherAllMidiPaths(root, 1)
	assert.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestGatherAllMidiPathsMissingDir(t *testing.T) {
	_, err := GatherAllMidiPaths(filepath.Join(t.TempDir(), "nope"), 0)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestVerifyChecksum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.zip")
	assert.NoError(t, os.WriteFile(path, []byte("hello"), 0666))

	// sha256("hello")
	const want = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"

	ok, err := VerifyChecksum(path, want)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyChecksum(path, "deadbeef")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestExtractZip(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "songs.zip")

	f, err := os.Create(zipPath)
	assert.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("maestro/2004/a.mid")
	assert.NoError(t, err)
	_, err = w.Write([]byte("MThd"))
	assert.NoError(t, err)
	assert.NoError(t, zw.Close())
	assert.NoError(t, f.Close())

	dest := filepath.Join(dir, "out")
	assert.NoError(t, ExtractZip(zipPath, dest, zap.NewNop()))

	got, err := os.ReadFile(filepath.Join(dest, "maestro", "2004", "a.mid"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("MThd"), got)
}

func TestExtractZipRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "bad.zip")
	assert.NoError(t, os.WriteFile(zipPath, []byte("not a zip"), 0666))

	err := ExtractZip(zipPath, filepath.Join(dir, "out"), zap.NewNop())
	assert.ErrorIs(t, err, model.ErrCorrupt)
}

package writer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWriter_ReplacesContent(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/out", 0o755))
	w := NewFileWriter(fs, "/out/reg.json")

	require.NoError(t, w.Write([]byte(`{"a":1}`)))
	require.NoError(t, w.Write([]byte(`{}`)))

	got, err := afero.ReadFile(fs, "/out/reg.json")
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(got))

	info, err := fs.Stat("/out/reg.json")
	require.NoError(t, err)
	assert.Equal(t, DefaultFileMode, info.Mode().Perm())

	entries, err := afero.ReadDir(fs, "/out")
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileWriter_CustomMode(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/out", 0o755))
	w := &FileWriter{Fs: fs, Path: "/out/reg.json", Mode: 0o600}
	require.NoError(t, w.Write([]byte("x")))

	info, err := fs.Stat("/out/reg.json")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileWriter_OSFilesystem(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reg.json")
	w := &FileWriter{Path: path}
	require.NoError(t, w.Write([]byte("[]")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))
}

func TestFileWriter_MissingDirectory(t *testing.T) {
	dir := t.TempDir()
	w := &FileWriter{Path: filepath.Join(dir, "nope", "reg.json")}
	err := w.Write([]byte("{}"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create temp file")

	_, statErr := os.Stat(w.Path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFileWriter_ReadOnlyFs(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	err := NewFileWriter(fs, "/reg.json").Write([]byte("{}"))
	assert.Error(t, err)
}

func TestMemWriter(t *testing.T) {
	w := &MemWriter{}
	require.NoError(t, w.Write([]byte("first")))
	require.NoError(t, w.Write([]byte("2nd")))
	assert.Equal(t, "2nd", string(w.Buf))
	assert.Equal(t, 2, w.Writes)

	w.Err = errors.New("disk full")
	assert.EqualError(t, w.Write([]byte("third")), "disk full")
	assert.Equal(t, "2nd", string(w.Buf))
}

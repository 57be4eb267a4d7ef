// Package writer exposes sinks for encoded export documents.
package writer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// DefaultFileMode is the permission of a newly written document.
const DefaultFileMode os.FileMode = 0o644

// Sink receives one complete document per export.
type Sink interface {
	Write(buf []byte) error
}

// FileWriter replaces the file at Path on every Write. Readers of Path see
// either the previous document or the new one, never a partial write.
type FileWriter struct {
	Fs   afero.Fs // nil means the OS filesystem
	Path string
	Mode os.FileMode // 0 means DefaultFileMode
}

var _ Sink = (*FileWriter)(nil)

// NewFileWriter returns a FileWriter for path on fs.
func NewFileWriter(fs afero.Fs, path string) *FileWriter {
	return &FileWriter{Fs: fs, Path: path}
}

// Write stores buf at the configured path atomically via temp file + rename.
// The parent directory must already exist.
func (w *FileWriter) Write(buf []byte) error {
	fs := w.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	mode := w.Mode
	if mode == 0 {
		mode = DefaultFileMode
	}

	// Create temp file in same directory to ensure atomic rename
	dir := filepath.Dir(w.Path)
	tmpFile, err := afero.TempFile(fs, dir, ".regjson-tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on error
	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
			_ = fs.Remove(tmpPath)
		}
	}()

	if _, writeErr := tmpFile.Write(buf); writeErr != nil {
		return fmt.Errorf("write temp file: %w", writeErr)
	}
	if syncErr := tmpFile.Sync(); syncErr != nil {
		return fmt.Errorf("sync temp file: %w", syncErr)
	}

	// Close before rename
	if closeErr := tmpFile.Close(); closeErr != nil {
		return fmt.Errorf("close temp file: %w", closeErr)
	}
	tmpFile = nil

	if chmodErr := fs.Chmod(tmpPath, mode); chmodErr != nil {
		_ = fs.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", chmodErr)
	}
	if renameErr := fs.Rename(tmpPath, w.Path); renameErr != nil {
		_ = fs.Remove(tmpPath)
		return fmt.Errorf("rename temp file to %s: %w", w.Path, renameErr)
	}
	return nil
}

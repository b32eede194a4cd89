package gen

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/imports"
)

// FileWriter renders jennifer files to disk. Files whose content did not
// change are left untouched, so that file watchers are not re-triggered.
type FileWriter struct {
	mu      sync.Mutex
	metrics WriterMetrics
}

// WriterMetrics tracks generation output.
type WriterMetrics struct {
	FilesWritten   int
	FilesUnchanged int
	TotalBytes     int64
}

// NewFileWriter creates a new FileWriter.
func NewFileWriter() *FileWriter {
	return &FileWriter{}
}

// Metrics returns a snapshot of the writer metrics.
func (w *FileWriter) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// Render returns the formatted source of f as it would be written to path.
func Render(f *jen.File, path string) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, NewGenerationError("render", path, "", err)
	}
	// Normalize import grouping the same way goimports does for hand-written code.
	out, err := imports.Process(path, buf.Bytes(), nil)
	if err != nil {
		return nil, NewGenerationError("render", path, "format", err)
	}
	return out, nil
}

// Write renders f and writes it to path. It reports whether the file changed.
func (w *FileWriter) Write(f *jen.File, path string) (bool, error) {
	out, err := Render(f, path)
	if err != nil {
		return false, err
	}
	if prev, err := os.ReadFile(path); err == nil && bytes.Equal(prev, out) {
		w.mu.Lock()
		w.metrics.FilesUnchanged++
		w.mu.Unlock()
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, NewGenerationError("write", path, "create directory", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return false, NewGenerationError("write", path, "", err)
	}
	w.mu.Lock()
	w.metrics.FilesWritten++
	w.metrics.TotalBytes += int64(len(out))
	w.mu.Unlock()
	return true, nil
}

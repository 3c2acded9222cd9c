package models

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/dmitrijs2005/autoscanml/internal/filex"
)

// AllowedExtensions are the model and data formats the scanner accepts.
var AllowedExtensions = []string{
	"h5", "pkl", "pt", "joblib", "onnx", "sav", "model", "bin", "zip", "tar", "gz",
	"pytorch", "keras", "pb", "tflite", "pmml", "mlmodel", "xgb", "cbm", "pickle",
	"txt", "csv", "json", "xml", "yml", "yaml",
}

// IsAllowedFile reports whether name has an accepted extension.
func IsAllowedFile(name string) bool {
	return slices.Contains(AllowedExtensions, filex.Extension(name))
}

// FileHandle is an opaque reference to a file chosen for upload.
type FileHandle interface {
	Name() string
	Open() (io.ReadCloser, error)
}

// LocalFile is a FileHandle backed by a path on disk.
type LocalFile struct {
	Path string
}

func (f LocalFile) Name() string { return filepath.Base(f.Path) }

func (f LocalFile) Open() (io.ReadCloser, error) { return os.Open(f.Path) }

// MemoryFile is a FileHandle over in-memory content.
type MemoryFile struct {
	Filename string
	Content  []byte
}

func (f MemoryFile) Name() string { return f.Filename }

func (f MemoryFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.Content)), nil
}

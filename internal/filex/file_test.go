package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureDir_CreatesNestedDirectory(t *testing.T) {
	tmp := t.TempDir()
	want := filepath.Join(tmp, "data", "autoscanml")

	got, err := EnsureDir(want)
	require.NoError(t, err)
	require.Equal(t, want, got)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm())
	}
}

func TestEnsureDir_Idempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")

	first, err := EnsureDir(dir)
	require.NoError(t, err)

	second, err := EnsureDir(dir)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestEnsureDir_FailsIfFileWithSameNameExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	_, err := EnsureDir(path)
	require.Error(t, err, "should fail when a file exists with the same name")
}

func TestWriteFileAtomic_ReplacesContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "summary.md")

	require.NoError(t, WriteFileAtomic(path, []byte("first"), 0o600))
	require.NoError(t, WriteFileAtomic(path, []byte("second"), 0o600))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "second", string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
}

func TestWriteFileAtomic_MissingDir(t *testing.T) {
	err := WriteFileAtomic(filepath.Join(t.TempDir(), "nope", "x.md"), []byte("x"), 0o600)
	require.Error(t, err)
}

func TestExtension(t *testing.T) {
	cases := map[string]string{
		"model.PKL":      "pkl",
		"archive.tar.gz": "gz",
		"noext":          "",
		"dir/weights.h5": "h5",
		".hidden":        "hidden",
	}
	for in, want := range cases {
		require.Equal(t, want, Extension(in), in)
	}
}

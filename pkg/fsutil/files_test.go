package fsutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMove_File(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "download.part")
	dst := filepath.Join(dir, "nested", "artifact.zip")
	require.NoError(t, os.WriteFile(src, []byte("payload"), FileModeDefault))

	require.NoError(t, Move(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
	assert.NoFileExists(t, src)
}

func TestMove_Directory(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "staging")
	dst := filepath.Join(dir, "Editor-2.0")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "bin"), DirModeDefault))
	require.NoError(t, os.WriteFile(filepath.Join(src, "bin", "editor"), []byte("x"), FileModeExec))

	require.NoError(t, Move(src, dst))

	assert.FileExists(t, filepath.Join(dst, "bin", "editor"))
	assert.NoDirExists(t, src)
}

func TestMove_Errors(t *testing.T) {
	assert.Error(t, Move("", "x"))
	assert.Error(t, Move(filepath.Join(t.TempDir(), "missing"), filepath.Join(t.TempDir(), "x")))
}

func TestCopy_KeepsMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not preserved on windows")
	}
	dir := t.TempDir()
	src := filepath.Join(dir, "wpm")
	dst := filepath.Join(dir, "wpm-copy")
	require.NoError(t, os.WriteFile(src, []byte("#!/bin/sh\n"), FileModeExec))

	require.NoError(t, Copy(src, dst))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(FileModeExec), info.Mode().Perm())
}

func TestCopyDir(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "a", "b"), DirModeDefault))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a", "b", "c.txt"), []byte("c"), FileModeDefault))

	require.NoError(t, CopyDir(src, dst))

	data, err := os.ReadFile(filepath.Join(dst, "a", "b", "c.txt"))
	require.NoError(t, err)
	assert.Equal(t, "c", string(data))
	assert.FileExists(t, filepath.Join(src, "a", "b", "c.txt"))
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "installed.json")

	require.NoError(t, WriteFileAtomic(path, []byte(`{"a":1}`), FileModeDefault))
	require.NoError(t, WriteFileAtomic(path, []byte(`{"a":2}`), FileModeDefault))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")
}

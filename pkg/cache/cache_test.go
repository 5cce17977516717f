package cache_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/wpm/pkg/cache"
	"github.com/glorpus-work/wpm/pkg/errors"
	"github.com/glorpus-work/wpm/pkg/fsutil"
)

func fill(t *testing.T, dir string, files map[string]int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, fsutil.DirModeDefault))
	for name, size := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), make([]byte, size), fsutil.FileModeDefault))
	}
}

func TestInfo(t *testing.T) {
	dir := t.TempDir()
	fill(t, cache.RepositoriesPath(dir), map[string]int{"repository-0.xml": 100})
	fill(t, cache.DownloadsPath(dir), map[string]int{"a.zip": 1000, "b.exe": 24})

	info, err := cache.NewManager(dir).Info()
	require.NoError(t, err)
	assert.Equal(t, dir, info.Directory)
	assert.Equal(t, int64(100), info.RepositoriesSize)
	assert.Equal(t, 1, info.RepositoriesFiles)
	assert.Equal(t, int64(1024), info.DownloadsSize)
	assert.Equal(t, 2, info.DownloadsFiles)
	assert.Equal(t, int64(1124), info.TotalSize)
}

func TestInfo_EmptyCache(t *testing.T) {
	info, err := cache.NewManager(filepath.Join(t.TempDir(), "missing")).Info()
	require.NoError(t, err)
	assert.Zero(t, info.TotalSize)
}

func TestClean(t *testing.T) {
	tests := []struct {
		name          string
		options       cache.CleanOptions
		wantFreed     int64
		wantRemaining int
	}{
		{"everything by default", cache.CleanOptions{}, 150, 0},
		{"repositories only", cache.CleanOptions{Repositories: true}, 100, 1},
		{"downloads only", cache.CleanOptions{Downloads: true}, 50, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			fill(t, cache.RepositoriesPath(dir), map[string]int{"repository-0.xml": 100})
			fill(t, cache.DownloadsPath(dir), map[string]int{"a.zip": 50})

			mgr := cache.NewManager(dir)
			res, err := mgr.Clean(tt.options)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFreed, res.TotalFreed)

			info, err := mgr.Info()
			require.NoError(t, err)
			assert.Equal(t, tt.wantRemaining, info.RepositoriesFiles+info.DownloadsFiles)
			assert.DirExists(t, cache.DownloadsPath(dir))
		})
	}
}

func TestEmptyDirectory(t *testing.T) {
	mgr := cache.NewManager("")
	_, err := mgr.Clean(cache.CleanOptions{})
	assert.ErrorIs(t, err, errors.ErrCacheDirectory)
	_, err = mgr.Info()
	assert.ErrorIs(t, err, errors.ErrCacheDirectory)
}

// Package cache manages the download cache below the configured cache
// directory: synchronized repository documents and downloaded artifacts.
package cache

import (
	"os"
	"path/filepath"

	"github.com/glorpus-work/wpm/internal/logger"
	"github.com/glorpus-work/wpm/pkg/errors"
	"github.com/glorpus-work/wpm/pkg/fsutil"
)

// Subdirectories of the cache directory.
const (
	RepositoriesDir = "repositories"
	DownloadsDir    = "downloads"
)

// RepositoriesPath returns the directory repository documents are downloaded to.
func RepositoriesPath(cacheDir string) string {
	return filepath.Join(cacheDir, RepositoriesDir)
}

// DownloadsPath returns the directory package artifacts are downloaded to.
func DownloadsPath(cacheDir string) string {
	return filepath.Join(cacheDir, DownloadsDir)
}

// CleanOptions specifies what to clean from the cache. Nothing selected
// means everything.
type CleanOptions struct {
	Repositories bool
	Downloads    bool
}

// CleanResult contains information about what was cleaned.
type CleanResult struct {
	TotalFreed        int64
	RepositoriesFreed int64
	DownloadsFreed    int64
}

// Info represents cache information.
type Info struct {
	Directory         string
	TotalSize         int64
	RepositoriesSize  int64
	RepositoriesFiles int
	DownloadsSize     int64
	DownloadsFiles    int
}

// Manager inspects and cleans one cache directory.
type Manager struct {
	directory string
}

// NewManager creates a new cache manager.
func NewManager(directory string) *Manager {
	return &Manager{directory: directory}
}

// Clean removes cached files according to the specified options.
func (m *Manager) Clean(options CleanOptions) (*CleanResult, error) {
	if m.directory == "" {
		return nil, errors.ErrCacheDirectory
	}
	if !options.Repositories && !options.Downloads {
		options.Repositories, options.Downloads = true, true
	}
	logger.Debug("Cleaning cache", logger.Fields{
		"directory":    m.directory,
		"repositories": options.Repositories,
		"downloads":    options.Downloads,
	})

	result := &CleanResult{}
	if options.Repositories {
		size, err := cleanDirectory(RepositoriesPath(m.directory))
		if err != nil {
			return nil, errors.Wrap(err, "failed to clean repository cache")
		}
		result.RepositoriesFreed = size
	}
	if options.Downloads {
		size, err := cleanDirectory(DownloadsPath(m.directory))
		if err != nil {
			return nil, errors.Wrap(err, "failed to clean download cache")
		}
		result.DownloadsFreed = size
	}
	result.TotalFreed = result.RepositoriesFreed + result.DownloadsFreed
	return result, nil
}

// Info returns information about the cache.
func (m *Manager) Info() (*Info, error) {
	if m.directory == "" {
		return nil, errors.ErrCacheDirectory
	}
	info := &Info{Directory: m.directory}

	var err error
	info.RepositoriesSize, info.RepositoriesFiles, err = dirSizeAndFiles(RepositoriesPath(m.directory))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get repository cache info")
	}
	info.DownloadsSize, info.DownloadsFiles, err = dirSizeAndFiles(DownloadsPath(m.directory))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get download cache info")
	}
	info.TotalSize = info.RepositoriesSize + info.DownloadsSize
	return info, nil
}

// cleanDirectory removes a directory and returns bytes freed.
func cleanDirectory(dir string) (int64, error) {
	size, _, err := dirSizeAndFiles(dir)
	if err != nil {
		return 0, err
	}
	if err := os.RemoveAll(dir); err != nil {
		return 0, errors.Wrapf(err, "failed to remove directory %s", dir)
	}
	if err := os.MkdirAll(dir, fsutil.DirModePrivate); err != nil {
		return size, errors.Wrapf(err, "failed to recreate directory %s", dir)
	}
	return size, nil
}

// dirSizeAndFiles calculates directory size and file count. A missing
// directory is empty.
func dirSizeAndFiles(dir string) (size int64, count int, err error) {
	if _, err = os.Stat(dir); os.IsNotExist(err) {
		return 0, 0, nil
	}

	err = filepath.Walk(dir, func(_ string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !info.IsDir() {
			size += info.Size()
			count++
		}
		return nil
	})
	if err != nil {
		err = errors.Wrapf(err, "error walking directory %s", dir)
	}
	return size, count, err
}

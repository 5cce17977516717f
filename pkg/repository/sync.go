package repository

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/glorpus-work/wpm/internal/logger"
	"github.com/glorpus-work/wpm/pkg/cache"
	"github.com/glorpus-work/wpm/pkg/catalog"
	"github.com/glorpus-work/wpm/pkg/download"
	"github.com/glorpus-work/wpm/pkg/errors"
)

// Source is a remote repository document.
type Source struct {
	Name string
	URL  string
}

// Sync downloads every source in parallel and replaces the catalog with
// their contents. Sources are imported in order, so a later source wins for
// versions present in several. The catalog is left untouched when any
// source fails. It returns the number of imported package versions.
func (r *Repository) Sync(ctx context.Context, sources []Source, progress download.ProgressFunc) (int, error) {
	if r.downloader == nil {
		return 0, fmt.Errorf("%w: no downloader configured", errors.ErrDownloadFailed)
	}

	items := make([]download.Item, 0, len(sources))
	for i, s := range sources {
		u, err := url.Parse(s.URL)
		if err != nil {
			return 0, fmt.Errorf("%w: repository %s: %v", errors.ErrRepositoryParse, s.Name, err)
		}
		items = append(items, download.Item{
			ID:       s.Name,
			URL:      u,
			Filename: fmt.Sprintf("repository-%d.xml", i),
		})
	}

	paths, err := r.downloader.FetchAll(ctx, items, download.Options{
		Dir:         cache.RepositoriesPath(r.cacheDir),
		Concurrency: r.concurrency,
		Progress:    progress,
	})
	if err != nil {
		return 0, err
	}

	repos := make([]*catalog.Repository, 0, len(sources))
	for _, s := range sources {
		repo, err := parseFile(paths[s.Name])
		if err != nil {
			return 0, errors.Wrapf(err, "repository %s", s.Name)
		}
		repos = append(repos, repo)
	}

	if err := r.catalog.Clear(); err != nil {
		return 0, err
	}
	total := 0
	for i, repo := range repos {
		n, err := catalog.Import(r.catalog, repo, r.platform)
		total += n
		if err != nil {
			return total, err
		}
		logger.Debug("Imported repository", logger.Fields{"name": sources[i].Name, "versions": n})
	}
	return total, nil
}

func parseFile(path string) (*catalog.Repository, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return catalog.ParseRepository(f)
}

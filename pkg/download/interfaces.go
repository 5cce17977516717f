package download

import (
	"context"
	"net/url"
)

// Manager downloads repository documents and package artifacts.
type Manager interface {
	// FetchAll downloads all items in parallel and returns a map from Item.ID
	// to the local file path.
	FetchAll(ctx context.Context, items []Item, opts Options) (map[string]string, error)

	// Fetch downloads a single item into opts.Dir and returns the local path.
	Fetch(ctx context.Context, item Item, opts Options) (string, error)
}

// Item is one remote resource.
type Item struct {
	ID       string
	URL      *url.URL
	HashType string // "sha256" or "sha1"; empty means sha256
	Checksum string // hex encoded, verified when set
	Filename string // preferred file name, derived when empty
}

// ProgressFunc is called while the body of item is read. total is -1 when
// the server did not send a length.
type ProgressFunc func(item Item, read, total int64)

// Options control a download.
type Options struct {
	Dir         string // destination directory, must be absolute
	Concurrency int    // parallel downloads for FetchAll
	Progress    ProgressFunc
}

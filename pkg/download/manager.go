// Package download fetches remote files with checksum verification.
package download

import (
	"context"
	"crypto/sha1" //nolint:gosec // repositories still publish sha1 sums
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/glorpus-work/wpm/pkg/errors"
	"github.com/glorpus-work/wpm/pkg/fsutil"
)

// ManagerImpl is an HTTP download manager.
type ManagerImpl struct {
	client    *http.Client
	userAgent string
}

// NewManager creates a manager with the given request timeout and user agent.
func NewManager(timeout time.Duration, userAgent string) *ManagerImpl {
	if userAgent == "" {
		userAgent = "wpm/1.0"
	}
	return &ManagerImpl{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// FetchAll downloads items concurrently. Items sharing a URL are downloaded
// once. The first error is returned.
func (m *ManagerImpl) FetchAll(ctx context.Context, items []Item, opts Options) (map[string]string, error) {
	if opts.Concurrency <= 0 {
		opts.Concurrency = max(2, runtime.NumCPU()/2)
	}
	if err := prepareDir(opts.Dir); err != nil {
		return nil, err
	}

	byURL := make(map[string][]int)
	var order []string
	for i, it := range items {
		if it.URL == nil {
			return nil, fmt.Errorf("item %s has no URL: %w", it.ID, errors.ErrDownloadFailed)
		}
		key := it.URL.String()
		if _, ok := byURL[key]; !ok {
			order = append(order, key)
		}
		byURL[key] = append(byURL[key], i)
	}

	results := make(map[string]string, len(items))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for _, key := range order {
		idx := byURL[key]
		g.Go(func() error {
			p, err := m.fetchOne(gctx, items[idx[0]], opts)
			if err != nil {
				return err
			}
			mu.Lock()
			for _, i := range idx {
				results[items[i].ID] = p
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Fetch downloads a single item.
func (m *ManagerImpl) Fetch(ctx context.Context, item Item, opts Options) (string, error) {
	if err := prepareDir(opts.Dir); err != nil {
		return "", err
	}
	return m.fetchOne(ctx, item, opts)
}

func prepareDir(dir string) error {
	if dir == "" || !filepath.IsAbs(dir) {
		return fmt.Errorf("download dir must be absolute: %q: %w", dir, errors.ErrDownloadFailed)
	}
	if err := os.MkdirAll(dir, fsutil.DirModePrivate); err != nil {
		return errors.Wrap(err, "could not create download dir")
	}
	return nil
}

func (m *ManagerImpl) fetchOne(ctx context.Context, item Item, opts Options) (string, error) {
	if item.URL == nil {
		return "", fmt.Errorf("item %s has no URL: %w", item.ID, errors.ErrDownloadFailed)
	}

	absPath := filepath.Join(opts.Dir, selectFilename(item))
	if item.Checksum != "" {
		if ok, _ := verify(absPath, item.HashType, item.Checksum); ok {
			return absPath, nil
		}
	}

	if item.URL.Scheme == "file" {
		if err := copyLocal(item, absPath); err != nil {
			return "", err
		}
		return absPath, nil
	}

	resp, err := m.doRequest(ctx, item)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	var body io.Reader = resp.Body
	if opts.Progress != nil {
		body = &progressReader{r: resp.Body, item: item, total: resp.ContentLength, fn: opts.Progress}
	}

	tmpPath, err := writeTemp(body, absPath)
	if err != nil {
		return "", err
	}
	if err := finalize(tmpPath, absPath, item); err != nil {
		_ = os.Remove(tmpPath)
		return "", err
	}
	return absPath, nil
}

func copyLocal(item Item, absPath string) error {
	src := filepath.FromSlash(item.URL.Path)
	tmpPath := absPath + ".part"
	if err := fsutil.Copy(src, tmpPath); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrDownloadFailed, err)
	}
	if err := finalize(tmpPath, absPath, item); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

func selectFilename(item Item) string {
	if item.Filename != "" {
		return item.Filename
	}
	h := sha256.Sum256([]byte(item.URL.String()))
	name := hex.EncodeToString(h[:8])
	if base := path.Base(item.URL.Path); base != "" && base != "/" && base != "." {
		name += "-" + base
	}
	return name
}

func (m *ManagerImpl) doRequest(ctx context.Context, item Item) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, item.URL.String(), http.NoBody)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", m.userAgent)

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errors.ErrDownloadFailed, item.URL, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: %s: unexpected status code %d", errors.ErrDownloadFailed, item.URL, resp.StatusCode)
	}
	return resp, nil
}

func writeTemp(body io.Reader, absPath string) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(absPath), "dl-*.tmp")
	if err != nil {
		return "", errors.Wrap(err, "could not create temp file")
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("%w: %v", errors.ErrDownloadFailed, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", errors.Wrap(err, "could not close file")
	}
	return tmpPath, nil
}

func finalize(tmpPath, absPath string, item Item) error {
	if item.Checksum != "" {
		ok, err := verify(tmpPath, item.HashType, item.Checksum)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", errors.ErrChecksumMismatch, item.URL)
		}
	}
	if err := fsutil.Move(tmpPath, absPath); err != nil {
		return errors.Wrap(err, "could not finalize file")
	}
	return nil
}

func newHash(hashType string) (hash.Hash, error) {
	switch strings.ToLower(hashType) {
	case "", "sha256":
		return sha256.New(), nil
	case "sha1":
		return sha1.New(), nil //nolint:gosec // see import
	default:
		return nil, fmt.Errorf("%w: unsupported hash type %q", errors.ErrChecksumMismatch, hashType)
	}
}

func verify(path, hashType, want string) (bool, error) {
	h, err := newHash(hashType)
	if err != nil {
		return false, err
	}
	f, err := os.Open(path)
	if err != nil {
		return false, errors.Wrap(err, "open for checksum")
	}
	defer func() { _ = f.Close() }()

	if _, err := io.Copy(h, f); err != nil {
		return false, errors.Wrap(err, "hashing")
	}
	return hex.EncodeToString(h.Sum(nil)) == strings.ToLower(strings.TrimSpace(want)), nil
}

type progressReader struct {
	r     io.Reader
	item  Item
	read  int64
	total int64
	fn    ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		p.fn(p.item, p.read, p.total)
	}
	return n, err
}

package download

import (
	"context"
	"crypto/sha1" //nolint:gosec
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/wpm/pkg/errors"
)

func sha256Hex(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func serve(t *testing.T, body string, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		assert.Equal(t, "wpm-test", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewManager_DefaultUserAgent(t *testing.T) {
	m := NewManager(time.Second, "")
	assert.Equal(t, "wpm/1.0", m.userAgent)
	assert.Equal(t, time.Second, m.client.Timeout)
}

func TestFetch(t *testing.T) {
	srv := serve(t, "editor archive", nil)
	m := NewManager(5*time.Second, "wpm-test")
	dir := t.TempDir()

	var mu sync.Mutex
	var lastRead int64
	opts := Options{Dir: dir, Progress: func(_ Item, read, _ int64) {
		mu.Lock()
		lastRead = read
		mu.Unlock()
	}}

	p, err := m.Fetch(context.Background(), Item{ID: "editor", URL: mustURL(t, srv.URL+"/editor-2.0.zip"), Checksum: sha256Hex("editor archive")}, opts)
	require.NoError(t, err)

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "editor archive", string(data))
	assert.Contains(t, filepath.Base(p), "editor-2.0.zip")
	assert.Equal(t, int64(len("editor archive")), lastRead)
}

func TestFetch_ReusesVerifiedFile(t *testing.T) {
	var hits atomic.Int32
	srv := serve(t, "payload", &hits)
	m := NewManager(5*time.Second, "wpm-test")
	item := Item{ID: "x", URL: mustURL(t, srv.URL+"/x.zip"), Checksum: sha256Hex("payload")}
	opts := Options{Dir: t.TempDir()}

	_, err := m.Fetch(context.Background(), item, opts)
	require.NoError(t, err)
	_, err = m.Fetch(context.Background(), item, opts)
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestFetch_SHA1(t *testing.T) {
	srv := serve(t, "legacy", nil)
	h := sha1.Sum([]byte("legacy")) //nolint:gosec
	m := NewManager(5*time.Second, "wpm-test")

	_, err := m.Fetch(context.Background(), Item{URL: mustURL(t, srv.URL+"/l"), HashType: "SHA1", Checksum: hex.EncodeToString(h[:])}, Options{Dir: t.TempDir()})
	require.NoError(t, err)
}

func TestFetch_Errors(t *testing.T) {
	srv := serve(t, "payload", nil)
	m := NewManager(5*time.Second, "wpm-test")
	dir := t.TempDir()

	tests := []struct {
		name string
		item Item
		opts Options
		want error
	}{
		{"checksum mismatch", Item{URL: mustURL(t, srv.URL+"/a"), Checksum: sha256Hex("other")}, Options{Dir: dir}, errors.ErrChecksumMismatch},
		{"not found", Item{URL: mustURL(t, srv.URL+"/missing")}, Options{Dir: dir}, errors.ErrDownloadFailed},
		{"nil url", Item{ID: "x"}, Options{Dir: dir}, errors.ErrDownloadFailed},
		{"relative dir", Item{URL: mustURL(t, srv.URL+"/a")}, Options{Dir: "rel"}, errors.ErrDownloadFailed},
		{"unknown hash", Item{URL: mustURL(t, srv.URL+"/b"), HashType: "md5", Checksum: "00"}, Options{Dir: dir}, errors.ErrChecksumMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Fetch(context.Background(), tt.item, tt.opts)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "failed downloads leave nothing behind")
}

func TestFetch_Cancelled(t *testing.T) {
	srv := serve(t, "payload", nil)
	m := NewManager(5*time.Second, "wpm-test")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Fetch(ctx, Item{URL: mustURL(t, srv.URL+"/a")}, Options{Dir: t.TempDir()})
	assert.ErrorIs(t, err, errors.ErrDownloadFailed)
}

func TestFetch_FileURL(t *testing.T) {
	src := filepath.Join(t.TempDir(), "repo.xml")
	require.NoError(t, os.WriteFile(src, []byte("<root/>"), 0o644))
	m := NewManager(time.Second, "")

	p, err := m.Fetch(context.Background(), Item{URL: &url.URL{Scheme: "file", Path: filepath.ToSlash(src)}}, Options{Dir: t.TempDir()})
	require.NoError(t, err)
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "<root/>", string(data))
}

func TestFetchAll_DeduplicatesURLs(t *testing.T) {
	var hits atomic.Int32
	srv := serve(t, "repo", &hits)
	m := NewManager(5*time.Second, "wpm-test")

	items := []Item{
		{ID: "main", URL: mustURL(t, srv.URL+"/main.xml")},
		{ID: "mirror", URL: mustURL(t, srv.URL+"/main.xml")},
		{ID: "extra", URL: mustURL(t, srv.URL+"/extra.xml")},
	}

	paths, err := m.FetchAll(context.Background(), items, Options{Dir: t.TempDir(), Concurrency: 2})
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.Equal(t, paths["main"], paths["mirror"])
	assert.NotEqual(t, paths["main"], paths["extra"])
	assert.Equal(t, int32(2), hits.Load())
}

func TestFetchAll_FirstErrorWins(t *testing.T) {
	srv := serve(t, "repo", nil)
	m := NewManager(5*time.Second, "wpm-test")

	_, err := m.FetchAll(context.Background(), []Item{
		{ID: "ok", URL: mustURL(t, srv.URL+"/ok.xml")},
		{ID: "bad", URL: mustURL(t, srv.URL+"/missing")},
	}, Options{Dir: t.TempDir()})
	assert.ErrorIs(t, err, errors.ErrDownloadFailed)
}

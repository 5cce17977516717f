package detect

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/wpm/pkg/model"
)

func TestMarker_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	m, err := ReadMarker(dir)
	require.NoError(t, err)
	assert.Nil(t, m)

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, WriteMarker(dir, Marker{Package: "org.example.Tool", Version: "1.2", Title: "Tool", InstalledAt: at}))

	m, err = ReadMarker(dir)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "org.example.Tool", m.Package)
	assert.Equal(t, "1.2", m.Version)
	assert.True(t, at.Equal(m.InstalledAt))
}

func TestMarkerDetector(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, WriteMarker(filepath.Join(root, "Tool-1.2"), Marker{Package: "org.example.Tool", Version: "1.2"}))
	require.NoError(t, WriteMarker(filepath.Join(root, "Bad-x"), Marker{Package: "org.example.Bad", Version: "x"}))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "unmarked"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "file.txt"), nil, 0o644))

	res, err := NewMarkerDetector(root).Detect(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Installed, 1)
	ipv := res.Installed[0]
	assert.Equal(t, "org.example.Tool 1.2", ipv.String())
	assert.Equal(t, filepath.Join(root, "Tool-1.2"), ipv.Directory)
	assert.Equal(t, DetectionMarker, ipv.Detection)
	assert.Len(t, res.Packages, 1)
	assert.Len(t, res.Versions, 1)
}

func TestMarkerDetector_MissingRoot(t *testing.T) {
	res, err := NewMarkerDetector(filepath.Join(t.TempDir(), "nope")).Detect(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Installed)
}

func TestSelfDetector(t *testing.T) {
	dir := t.TempDir()
	exe := filepath.Join(dir, "wpm")
	require.NoError(t, os.WriteFile(exe, nil, 0o755))

	d := &SelfDetector{Version: "1.4", Executable: func() (string, error) { return exe, nil }}
	res, err := d.Detect(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Installed, 1)
	assert.Equal(t, model.SelfPackageName, res.Installed[0].Package)
	assert.Equal(t, "1.4", res.Installed[0].Version.String())

	wantDir, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, wantDir, res.Installed[0].Directory)
}

func TestSelfDetector_DevBuild(t *testing.T) {
	d := NewSelfDetector("dev")
	res, err := d.Detect(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Installed)
}

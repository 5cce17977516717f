package detect

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/glorpus-work/wpm/pkg/errors"
	"github.com/glorpus-work/wpm/pkg/fsutil"
	"github.com/glorpus-work/wpm/pkg/hooks"
	"github.com/glorpus-work/wpm/pkg/model"
	"github.com/glorpus-work/wpm/pkg/version"
)

// MarkerFile is the name of the marker inside the .wpm directory of an
// installation.
const MarkerFile = "installed.yaml"

// Marker is written into every directory wpm installs to.
type Marker struct {
	Package     string    `yaml:"package"`
	Version     string    `yaml:"version"`
	Title       string    `yaml:"title,omitempty"`
	InstalledAt time.Time `yaml:"installed_at"`
}

// MarkerPath returns the marker location for an installation directory.
func MarkerPath(dir string) string {
	return filepath.Join(dir, hooks.MetaDir, MarkerFile)
}

// WriteMarker records pkg in dir.
func WriteMarker(dir string, m Marker) error {
	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("failed to encode marker: %w", err)
	}
	path := MarkerPath(dir)
	if err := fsutil.EnsureFileDir(path); err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, fsutil.FileModeDefault)
}

// ReadMarker reads the marker of dir. It returns nil without an error when
// dir has none.
func ReadMarker(dir string) (*Marker, error) {
	data, err := os.ReadFile(MarkerPath(dir))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var m Marker
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "invalid marker in %s", dir)
	}
	return &m, nil
}

// MarkerDetector scans the direct sub-directories of Root for markers. It
// recovers installations after the installed database was lost.
type MarkerDetector struct {
	Root string
}

// NewMarkerDetector creates a detector for the installation root.
func NewMarkerDetector(root string) *MarkerDetector {
	return &MarkerDetector{Root: root}
}

func (d *MarkerDetector) Name() string { return DetectionMarker }

func (d *MarkerDetector) Detect(ctx context.Context) (*Result, error) {
	entries, err := os.ReadDir(d.Root)
	if os.IsNotExist(err) {
		return &Result{}, nil
	}
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(d.Root, e.Name())
		m, err := ReadMarker(dir)
		if err != nil {
			return nil, err
		}
		if m == nil || !model.IsValidName(m.Package) {
			continue
		}
		v, err := version.Parse(m.Version)
		if err != nil {
			continue
		}
		res.Packages = append(res.Packages, &model.Package{Name: m.Package, Title: m.Title})
		res.Versions = append(res.Versions, &model.PackageVersion{Package: m.Package, Version: v})
		res.Installed = append(res.Installed, &model.InstalledPackageVersion{
			Package:     m.Package,
			Version:     v,
			Directory:   dir,
			Detection:   DetectionMarker,
			InstalledAt: m.InstalledAt,
		})
	}
	return res, nil
}

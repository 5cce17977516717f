package detect

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/glorpus-work/wpm/pkg/model"
	"github.com/glorpus-work/wpm/pkg/version"
)

// SelfDetector registers the running wpm binary as an installed package so
// that updates of wpm itself go through the self-update path.
type SelfDetector struct {
	Version    string
	Executable func() (string, error)
}

// NewSelfDetector creates a detector for the given build version.
func NewSelfDetector(buildVersion string) *SelfDetector {
	return &SelfDetector{Version: buildVersion, Executable: os.Executable}
}

func (d *SelfDetector) Name() string { return DetectionSelf }

// Detect returns an empty result for development builds whose version is
// not numeric.
func (d *SelfDetector) Detect(_ context.Context) (*Result, error) {
	v, err := version.Parse(d.Version)
	if err != nil {
		return &Result{}, nil
	}
	exe, err := d.Executable()
	if err != nil {
		return nil, err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	return &Result{
		Packages: []*model.Package{{
			Name:        model.SelfPackageName,
			Title:       "wpm",
			ShortName:   "wpm",
			Description: "Package manager",
		}},
		Versions: []*model.PackageVersion{{
			Package: model.SelfPackageName,
			Version: v,
			Type:    model.InstallTypeOneFile,
		}},
		Installed: []*model.InstalledPackageVersion{{
			Package:     model.SelfPackageName,
			Version:     v,
			Directory:   filepath.Dir(exe),
			Detection:   DetectionSelf,
			InstalledAt: time.Now(),
		}},
	}, nil
}

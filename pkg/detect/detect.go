// Package detect finds package versions that are present on this machine
// without having been recorded in the installed database.
package detect

import (
	"context"

	"github.com/glorpus-work/wpm/pkg/model"
)

// Detection names stored in InstalledPackageVersion.Detection.
const (
	DetectionSelf   = "self"
	DetectionMarker = "marker"
	DetectionWPM    = "wpm"
)

// Result is what a detector found. Packages and Versions are saved to the
// catalog, Installed is merged into the installed database.
type Result struct {
	Packages  []*model.Package
	Versions  []*model.PackageVersion
	Installed []*model.InstalledPackageVersion
}

// Detector finds installed software.
type Detector interface {
	Name() string
	Detect(ctx context.Context) (*Result, error)
}

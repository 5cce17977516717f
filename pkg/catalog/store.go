// Package catalog stores the packages and package versions known from
// repositories and detection.
package catalog

import (
	"github.com/glorpus-work/wpm/pkg/model"
	"github.com/glorpus-work/wpm/pkg/version"
)

// Store is a package catalog. Lookups of unknown entries return nil without
// an error.
type Store interface {
	FindPackage(name string) (*model.Package, error)
	FindPackagesByShortName(name string) ([]*model.Package, error)
	PackageVersions(pkg string) ([]*model.PackageVersion, error)
	FindPackageVersion(pkg string, v *version.Version) (*model.PackageVersion, error)
	Packages() ([]*model.Package, error)
	SavePackage(p *model.Package) error
	SavePackageVersion(pv *model.PackageVersion) error
	Clear() error
	Close() error
}

package planner

import (
	"github.com/glorpus-work/wpm/pkg/errors"
	"github.com/glorpus-work/wpm/pkg/model"
)

// Matcher picks concrete versions for dependencies.
type Matcher struct {
	source Source
}

// NewMatcher creates a matcher reading catalog versions from source.
func NewMatcher(source Source) *Matcher {
	return &Matcher{source: source}
}

// FindHighestInstalledMatch returns the greatest installed version that
// satisfies dep, or nil.
func (m *Matcher) FindHighestInstalledMatch(dep model.Dependency, installed []*model.InstalledPackageVersion) *model.InstalledPackageVersion {
	var best *model.InstalledPackageVersion
	for _, ipv := range installed {
		if ipv.Package != dep.Package || !dep.Test(ipv.Version) {
			continue
		}
		if best == nil || ipv.Version.Compare(best.Version) > 0 {
			best = ipv
		}
	}
	return best
}

// FindBestMatchToInstall returns the greatest catalog version that satisfies
// dep and is not in avoid, or nil.
func (m *Matcher) FindBestMatchToInstall(dep model.Dependency, avoid AvoidSet) (*model.PackageVersion, error) {
	versions, err := m.source.PackageVersions(dep.Package)
	if err != nil {
		return nil, errors.Wrapf(err, "listing versions of %s", dep.Package)
	}

	var best *model.PackageVersion
	for _, pv := range versions {
		if !dep.Test(pv.Version) || avoid.Contains(pv.Key()) {
			continue
		}
		if best == nil || pv.Version.Compare(best.Version) > 0 {
			best = pv
		}
	}
	return best, nil
}

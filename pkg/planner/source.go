// Package planner turns install, remove and update requests into ordered
// lists of install operations.
package planner

import (
	"github.com/glorpus-work/wpm/pkg/model"
)

// Source is the read side of the package catalog.
//
// FindPackage returns nil without an error when the package is unknown.
type Source interface {
	FindPackage(name string) (*model.Package, error)
	FindPackagesByShortName(name string) ([]*model.Package, error)
	PackageVersions(pkg string) ([]*model.PackageVersion, error)
}

// AvoidSet holds package versions that must not be selected again while
// planning.
type AvoidSet map[model.VersionKey]struct{}

// NewAvoidSet creates a set containing pvs.
func NewAvoidSet(pvs ...*model.PackageVersion) AvoidSet {
	s := make(AvoidSet, len(pvs))
	for _, pv := range pvs {
		s.Add(pv.Key())
	}
	return s
}

// Add inserts k.
func (s AvoidSet) Add(k model.VersionKey) {
	s[k] = struct{}{}
}

// Contains reports whether k is in the set.
func (s AvoidSet) Contains(k model.VersionKey) bool {
	_, ok := s[k]
	return ok
}

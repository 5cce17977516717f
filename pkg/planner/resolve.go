package planner

import (
	"slices"
	"strings"

	"github.com/glorpus-work/wpm/pkg/errors"
	"github.com/glorpus-work/wpm/pkg/model"
	"github.com/glorpus-work/wpm/pkg/version"
)

// ResolvePackage finds a package by full name or, for names without a dot, by
// short name.
func (p *Planner) ResolvePackage(name string) (*model.Package, error) {
	if !strings.Contains(name, ".") {
		matches, err := p.source.FindPackagesByShortName(name)
		if err != nil {
			return nil, errors.Wrapf(err, "looking up %s", name)
		}
		switch len(matches) {
		case 0:
		case 1:
			return matches[0], nil
		default:
			names := make([]string, len(matches))
			for i, m := range matches {
				names[i] = m.Name
			}
			slices.Sort(names)
			return nil, &LookupError{Kind: errors.ErrAmbiguousShortName, Name: name, Candidates: names}
		}
	}

	pkg, err := p.source.FindPackage(name)
	if err != nil {
		return nil, errors.Wrapf(err, "looking up %s", name)
	}
	if pkg == nil {
		return nil, &LookupError{Kind: errors.ErrPackageNotFound, Name: name}
	}
	return pkg, nil
}

// NewestVersion returns the greatest catalog version of pkg.
func (p *Planner) NewestVersion(pkg string) (*model.PackageVersion, error) {
	versions, err := p.source.PackageVersions(pkg)
	if err != nil {
		return nil, errors.Wrapf(err, "listing versions of %s", pkg)
	}

	var newest *model.PackageVersion
	for _, pv := range versions {
		if newest == nil || pv.Version.Compare(newest.Version) > 0 {
			newest = pv
		}
	}
	if newest == nil {
		return nil, &LookupError{Kind: errors.ErrPackageVersionNotFound, Name: pkg}
	}
	return newest, nil
}

// ResolveVersion returns the catalog version of pkg named by text, or the
// newest one when text is empty.
func (p *Planner) ResolveVersion(pkg, text string) (*model.PackageVersion, error) {
	if text == "" {
		return p.NewestVersion(pkg)
	}

	v, err := version.Parse(text)
	if err != nil {
		return nil, err
	}

	versions, err := p.source.PackageVersions(pkg)
	if err != nil {
		return nil, errors.Wrapf(err, "listing versions of %s", pkg)
	}
	for _, pv := range versions {
		if pv.Version.Equal(v) {
			return pv, nil
		}
	}
	return nil, &LookupError{Kind: errors.ErrPackageVersionNotFound, Name: pkg, Version: text}
}

// ResolveInstalled returns the installed version of pkg named by text. An
// empty text is accepted only when exactly one version is installed.
func ResolveInstalled(pkg, text string, installed []*model.InstalledPackageVersion) (*model.InstalledPackageVersion, error) {
	var v *version.Version
	if text != "" {
		var err error
		if v, err = version.Parse(text); err != nil {
			return nil, err
		}
	}

	var matches []*model.InstalledPackageVersion
	for _, ipv := range installed {
		if ipv.Package != pkg {
			continue
		}
		if v != nil && !ipv.Version.Equal(v) {
			continue
		}
		matches = append(matches, ipv)
	}

	switch {
	case len(matches) == 0:
		return nil, &LookupError{Kind: errors.ErrNotInstalled, Name: pkg, Version: text}
	case len(matches) > 1:
		versions := make([]string, len(matches))
		for i, m := range matches {
			versions[i] = m.Version.String()
		}
		return nil, &LookupError{Kind: errors.ErrMultipleInstalled, Name: pkg, Candidates: versions}
	default:
		return matches[0], nil
	}
}

package planner

import (
	"slices"

	"github.com/glorpus-work/wpm/pkg/errors"
	"github.com/glorpus-work/wpm/pkg/model"
)

// Planner computes install operation lists. It performs no side effects.
type Planner struct {
	source  Source
	matcher *Matcher
}

// New creates a planner over the given catalog.
func New(source Source) *Planner {
	return &Planner{source: source, matcher: NewMatcher(source)}
}

// Matcher returns the dependency matcher used by the planner.
func (p *Planner) Matcher() *Matcher {
	return p.matcher
}

// PlanInstallation returns the operations that install target and every
// missing dependency, dependencies first. A target that is already installed
// yields an empty list. avoid may be nil.
func (p *Planner) PlanInstallation(target *model.PackageVersion, installed []*model.InstalledPackageVersion, avoid AvoidSet) ([]model.InstallOperation, error) {
	s := p.NewSession(installed)
	if avoid != nil {
		s.avoid = avoid
	}
	if err := s.Install(target); err != nil {
		return nil, err
	}
	return s.Operations(), nil
}

// PlanUninstallation returns a single uninstall operation when target is
// installed. Installed packages that still depend on target are not checked.
func (p *Planner) PlanUninstallation(target *model.PackageVersion, installed []*model.InstalledPackageVersion) ([]model.InstallOperation, error) {
	s := p.NewSession(installed)
	s.Uninstall(target.Key())
	return s.Operations(), nil
}

// PlanUpdates replaces the installed versions of each package with the newest
// catalog version. Packages already at the newest version contribute nothing,
// so an empty result means everything is up to date. The first failing
// package aborts the whole batch.
func (p *Planner) PlanUpdates(packages []*model.Package, installed []*model.InstalledPackageVersion) ([]model.InstallOperation, error) {
	s := p.NewSession(installed)

	for _, pkg := range packages {
		newest, err := p.NewestVersion(pkg.Name)
		if err != nil {
			return nil, err
		}

		current := s.InstalledVersions(pkg.Name)
		if len(current) == 0 {
			return nil, &LookupError{Kind: errors.ErrNotInstalled, Name: pkg.Name}
		}
		if upToDate(current, newest) {
			continue
		}

		for _, ipv := range current {
			s.Uninstall(ipv.Key())
		}
		if err := s.Install(newest); err != nil {
			return nil, err
		}
	}

	return s.Operations(), nil
}

func upToDate(current []*model.InstalledPackageVersion, newest *model.PackageVersion) bool {
	for _, ipv := range current {
		if ipv.Version.Compare(newest.Version) >= 0 {
			return true
		}
	}
	return false
}

// Session plans several requests against one evolving view of the installed
// set. Versions planned for installation count as installed for later
// requests and one avoid set is shared by all of them.
type Session struct {
	planner   *Planner
	installed []*model.InstalledPackageVersion
	avoid     AvoidSet
	ops       []model.InstallOperation
	seen      map[model.OperationKey]struct{}
}

// NewSession starts a planning session. installed is copied.
func (p *Planner) NewSession(installed []*model.InstalledPackageVersion) *Session {
	return &Session{
		planner:   p,
		installed: slices.Clone(installed),
		avoid:     make(AvoidSet),
		seen:      make(map[model.OperationKey]struct{}),
	}
}

// Operations returns the accumulated operations in execution order.
func (s *Session) Operations() []model.InstallOperation {
	return slices.Clone(s.ops)
}

// InstalledVersions returns the versions of pkg in the working installed set.
func (s *Session) InstalledVersions(pkg string) []*model.InstalledPackageVersion {
	var out []*model.InstalledPackageVersion
	for _, ipv := range s.installed {
		if ipv.Package == pkg {
			out = append(out, ipv)
		}
	}
	return out
}

// IsInstalled reports whether the working installed set contains k.
func (s *Session) IsInstalled(k model.VersionKey) bool {
	return slices.ContainsFunc(s.installed, func(ipv *model.InstalledPackageVersion) bool {
		return ipv.Key() == k
	})
}

// Install plans target and its missing dependencies. On error the session is
// left as it was before the call.
func (s *Session) Install(target *model.PackageVersion) error {
	nOps, nInstalled := len(s.ops), len(s.installed)

	if err := s.install(target); err != nil {
		for _, op := range s.ops[nOps:] {
			delete(s.seen, op.Key())
		}
		s.ops = s.ops[:nOps]
		s.installed = s.installed[:nInstalled]
		return err
	}
	return nil
}

func (s *Session) install(target *model.PackageVersion) error {
	if s.IsInstalled(target.Key()) {
		return nil
	}
	s.avoid.Add(target.Key())

	m := s.planner.matcher
	for _, dep := range target.Dependencies {
		if m.FindHighestInstalledMatch(dep, s.installed) != nil {
			continue
		}

		pv, err := m.FindBestMatchToInstall(dep, s.avoid)
		if err != nil {
			return err
		}
		if pv == nil {
			return &UnsatisfiableDependencyError{Dependency: dep, Dependent: target.Key()}
		}
		if err := s.install(pv); err != nil {
			return err
		}
	}

	s.add(model.InstallOperation{Package: target.Package, Version: target.Version, Install: true})
	s.installed = append(s.installed, &model.InstalledPackageVersion{Package: target.Package, Version: target.Version})
	return nil
}

// Uninstall plans the removal of the version identified by k when it is
// installed.
func (s *Session) Uninstall(k model.VersionKey) {
	idx := slices.IndexFunc(s.installed, func(ipv *model.InstalledPackageVersion) bool {
		return ipv.Key() == k
	})
	if idx < 0 {
		return
	}

	ipv := s.installed[idx]
	s.add(model.InstallOperation{Package: ipv.Package, Version: ipv.Version, Install: false})
	s.installed = slices.Delete(slices.Clone(s.installed), idx, idx+1)
}

func (s *Session) add(op model.InstallOperation) {
	k := op.Key()
	if _, ok := s.seen[k]; ok {
		return
	}
	s.seen[k] = struct{}{}
	s.ops = append(s.ops, op)
}

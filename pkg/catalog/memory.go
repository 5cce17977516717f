package catalog

import (
	"slices"
	"strings"
	"sync"

	"github.com/glorpus-work/wpm/pkg/model"
	"github.com/glorpus-work/wpm/pkg/version"
)

// Memory is an in-memory Store.
type Memory struct {
	mu       sync.RWMutex
	packages map[string]*model.Package
	versions map[string]map[string]*model.PackageVersion
}

// NewMemory creates an empty in-memory catalog.
func NewMemory() *Memory {
	return &Memory{
		packages: make(map[string]*model.Package),
		versions: make(map[string]map[string]*model.PackageVersion),
	}
}

func (m *Memory) FindPackage(name string) (*model.Package, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.packages[name], nil
}

func (m *Memory) FindPackagesByShortName(name string) ([]*model.Package, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*model.Package
	for _, p := range m.packages {
		if strings.EqualFold(p.GetShortName(), name) {
			out = append(out, p)
		}
	}
	sortPackages(out)
	return out, nil
}

func (m *Memory) PackageVersions(pkg string) ([]*model.PackageVersion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*model.PackageVersion, 0, len(m.versions[pkg]))
	for _, pv := range m.versions[pkg] {
		out = append(out, pv)
	}
	sortVersions(out)
	return out, nil
}

func (m *Memory) FindPackageVersion(pkg string, v *version.Version) (*model.PackageVersion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.versions[pkg][v.Normalized()], nil
}

func (m *Memory) Packages() ([]*model.Package, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*model.Package, 0, len(m.packages))
	for _, p := range m.packages {
		out = append(out, p)
	}
	sortPackages(out)
	return out, nil
}

func (m *Memory) SavePackage(p *model.Package) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.packages[p.Name] = p
	return nil
}

func (m *Memory) SavePackageVersion(pv *model.PackageVersion) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.versions[pv.Package] == nil {
		m.versions[pv.Package] = make(map[string]*model.PackageVersion)
	}
	m.versions[pv.Package][pv.Version.Normalized()] = pv
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.packages)
	clear(m.versions)
	return nil
}

func (m *Memory) Close() error {
	return nil
}

func sortPackages(pkgs []*model.Package) {
	slices.SortFunc(pkgs, func(a, b *model.Package) int {
		return strings.Compare(a.Name, b.Name)
	})
}

// sortVersions orders newest first.
func sortVersions(pvs []*model.PackageVersion) {
	slices.SortFunc(pvs, func(a, b *model.PackageVersion) int {
		return b.Version.Compare(a.Version)
	})
}

package planner

import (
	"strings"

	"github.com/glorpus-work/wpm/pkg/model"
	"github.com/glorpus-work/wpm/pkg/version"
)

type fakeSource struct {
	packages map[string]*model.Package
	versions map[string][]*model.PackageVersion
	err      error
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		packages: map[string]*model.Package{},
		versions: map[string][]*model.PackageVersion{},
	}
}

// add registers pkg@ver with deps given as "name range" strings.
func (f *fakeSource) add(name, ver string, deps ...string) *model.PackageVersion {
	if _, ok := f.packages[name]; !ok {
		f.packages[name] = &model.Package{Name: name}
	}
	pv := &model.PackageVersion{Package: name, Version: version.MustParse(ver)}
	for _, d := range deps {
		parts := strings.SplitN(d, " ", 2)
		rng := version.Any()
		if len(parts) == 2 {
			rng = version.MustParseRange(parts[1])
		}
		pv.Dependencies = append(pv.Dependencies, model.Dependency{Package: parts[0], Range: rng})
	}
	f.versions[name] = append(f.versions[name], pv)
	return pv
}

func (f *fakeSource) FindPackage(name string) (*model.Package, error) {
	return f.packages[name], f.err
}

func (f *fakeSource) FindPackagesByShortName(name string) ([]*model.Package, error) {
	var out []*model.Package
	for _, p := range f.packages {
		if p.GetShortName() == name {
			out = append(out, p)
		}
	}
	return out, f.err
}

func (f *fakeSource) PackageVersions(pkg string) ([]*model.PackageVersion, error) {
	return f.versions[pkg], f.err
}

func installedOf(pvs ...*model.PackageVersion) []*model.InstalledPackageVersion {
	out := make([]*model.InstalledPackageVersion, len(pvs))
	for i, pv := range pvs {
		out[i] = &model.InstalledPackageVersion{Package: pv.Package, Version: pv.Version}
	}
	return out
}

func opStrings(ops []model.InstallOperation) []string {
	out := make([]string, len(ops))
	for i, op := range ops {
		out[i] = op.String()
	}
	return out
}

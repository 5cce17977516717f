package orchestrator

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/wpm/pkg/catalog"
	"github.com/glorpus-work/wpm/pkg/installed"
	"github.com/glorpus-work/wpm/pkg/job"
	"github.com/glorpus-work/wpm/pkg/model"
	"github.com/glorpus-work/wpm/pkg/version"
)

const (
	testTimeout = time.Second
	testTick    = 5 * time.Millisecond
)

// fakeRepo keeps the catalog and installed set in memory and records the
// side effects it was asked to perform.
type fakeRepo struct {
	*catalog.Memory
	db    *installed.Database
	calls []string
	fail  map[string]error // keyed by "install a.B 1" / "uninstall a.B 1"
	saves int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		Memory: catalog.NewMemory(),
		db:     installed.NewDatabase(),
		fail:   make(map[string]error),
	}
}

// add registers a catalog version with dependencies written as
// "name range".
func (r *fakeRepo) add(t *testing.T, name, ver string, deps ...string) *model.PackageVersion {
	t.Helper()
	if p, _ := r.FindPackage(name); p == nil {
		require.NoError(t, r.SavePackage(&model.Package{Name: name}))
	}
	pv := &model.PackageVersion{Package: name, Version: version.MustParse(ver)}
	for _, d := range deps {
		pkg, rng, _ := strings.Cut(d, " ")
		pv.Dependencies = append(pv.Dependencies, model.Dependency{Package: pkg, Range: version.MustParseRange(rng)})
	}
	require.NoError(t, r.SavePackageVersion(pv))
	return pv
}

func (r *fakeRepo) install(name, ver, dir string) {
	r.db.Add(&model.InstalledPackageVersion{Package: name, Version: version.MustParse(ver), Directory: dir})
}

func (r *fakeRepo) Installed() []*model.InstalledPackageVersion { return r.db.All() }

func (r *fakeRepo) FindInstalled(k model.VersionKey) *model.InstalledPackageVersion {
	return r.db.Find(k)
}

func (r *fakeRepo) FindOwner(path string) *model.InstalledPackageVersion { return r.db.FindOwner(path) }

func (r *fakeRepo) AddInstalled(ipv *model.InstalledPackageVersion) { r.db.Add(ipv) }

func (r *fakeRepo) Prune() []*model.InstalledPackageVersion { return nil }

func (r *fakeRepo) Save() error {
	r.saves++
	return nil
}

func (r *fakeRepo) Install(_ context.Context, pv *model.PackageVersion, j *job.Job) error {
	call := "install " + pv.Key().String()
	r.calls = append(r.calls, call)
	if err := r.fail[call]; err != nil {
		return err
	}
	j.SetProgress(0.5)
	r.db.Add(&model.InstalledPackageVersion{Package: pv.Package, Version: pv.Version})
	return nil
}

func (r *fakeRepo) Uninstall(_ context.Context, ipv *model.InstalledPackageVersion, _ *job.Job) error {
	call := "uninstall " + ipv.Key().String()
	r.calls = append(r.calls, call)
	if err := r.fail[call]; err != nil {
		return err
	}
	r.db.Remove(ipv.Key())
	return nil
}

func opStrings(ops []model.InstallOperation) []string {
	out := make([]string, len(ops))
	for i, op := range ops {
		out[i] = op.String()
	}
	return out
}

func ops(specs ...string) []model.InstallOperation {
	out := make([]model.InstallOperation, len(specs))
	for i, s := range specs {
		parts := strings.Fields(s)
		out[i] = model.InstallOperation{
			Package: parts[1],
			Version: version.MustParse(parts[2]),
			Install: parts[0] == "install",
		}
	}
	return out
}

//go:generate mockgen -destination=./mocks/orchestrator.go -package=mocks . Repository,SelfUpdater,Detector

package orchestrator

import (
	"context"

	"github.com/glorpus-work/wpm/pkg/detect"
	"github.com/glorpus-work/wpm/pkg/job"
	"github.com/glorpus-work/wpm/pkg/model"
	"github.com/glorpus-work/wpm/pkg/version"
)

// Repository is the package information and installation backend used by
// the orchestrator.
type Repository interface {
	FindPackage(name string) (*model.Package, error)
	FindPackagesByShortName(name string) ([]*model.Package, error)
	PackageVersions(pkg string) ([]*model.PackageVersion, error)
	FindPackageVersion(pkg string, v *version.Version) (*model.PackageVersion, error)
	SavePackage(p *model.Package) error
	SavePackageVersion(pv *model.PackageVersion) error

	Installed() []*model.InstalledPackageVersion
	FindInstalled(k model.VersionKey) *model.InstalledPackageVersion
	FindOwner(path string) *model.InstalledPackageVersion
	AddInstalled(ipv *model.InstalledPackageVersion)
	Prune() []*model.InstalledPackageVersion
	Save() error

	Install(ctx context.Context, pv *model.PackageVersion, j *job.Job) error
	Uninstall(ctx context.Context, ipv *model.InstalledPackageVersion, j *job.Job) error
}

// SelfUpdater hands operations that would replace the running executable to
// a detached process.
type SelfUpdater interface {
	Stage(ops []model.InstallOperation) (script string, err error)
	Launch(script string) error
}

// Detector finds installed software that is not yet recorded.
type Detector interface {
	Name() string
	Detect(ctx context.Context) (*detect.Result, error)
}

// Orchestrator plans and executes package operations against a Repository.
type Orchestrator struct {
	Repo        Repository
	Detectors   []Detector
	SelfUpdater SelfUpdater
	// Executable returns the path of the running program. It defaults to
	// os.Executable.
	Executable func() (string, error)
}

// InstallResult describes the outcome of Install.
type InstallResult struct {
	Operations       []model.InstallOperation
	AlreadyInstalled []*model.InstalledPackageVersion
}

// Problem is an installed package version with a dependency that no
// installed version satisfies.
type Problem struct {
	Installed  *model.InstalledPackageVersion
	Dependency model.Dependency
}

// DependencyStatus tells how a dependency would be satisfied.
type DependencyStatus string

// Dependency statuses.
const (
	StatusInstalled DependencyStatus = "installed"
	StatusInstall   DependencyStatus = "install"
	StatusMissing   DependencyStatus = "missing"
)

// DependencyNode is one entry of a dependency tree.
type DependencyNode struct {
	Dependency model.Dependency  `json:"dependency"`
	Status     DependencyStatus  `json:"status"`
	Version    *version.Version  `json:"version,omitempty"` // nil when missing
	Children   []*DependencyNode `json:"children,omitempty"`
}

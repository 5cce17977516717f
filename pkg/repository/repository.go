// Package repository combines the package catalog, the installed database
// and the side effects of installing and removing package versions.
package repository

import (
	"context"

	"github.com/glorpus-work/wpm/pkg/archive"
	"github.com/glorpus-work/wpm/pkg/catalog"
	"github.com/glorpus-work/wpm/pkg/download"
	"github.com/glorpus-work/wpm/pkg/hooks"
	"github.com/glorpus-work/wpm/pkg/installed"
	"github.com/glorpus-work/wpm/pkg/model"
	"github.com/glorpus-work/wpm/pkg/platform"
	"github.com/glorpus-work/wpm/pkg/version"
)

// Extractor unpacks archive artifacts.
type Extractor interface {
	ExtractAll(ctx context.Context, archivePath, destDir string, progress archive.ProgressFunc) error
}

// HookRunner runs the hooks shipped inside an installation.
type HookRunner interface {
	Run(ctx context.Context, event hooks.Event, hctx hooks.Context) error
}

// Options configure a Repository.
type Options struct {
	Catalog       catalog.Store
	Installed     *installed.Database
	InstalledPath string // where Installed is persisted; empty keeps it in memory
	InstallDir    string
	CacheDir      string
	Platform      platform.Platform
	Downloader    download.Manager
	Extractor     Extractor
	Hooks         HookRunner
	Concurrency   int // parallel downloads during Sync, 4 when unset
}

// Repository is the single source of package information for the planner
// and the executor.
type Repository struct {
	catalog       catalog.Store
	db            *installed.Database
	installedPath string
	installDir    string
	cacheDir      string
	platform      platform.Platform
	downloader    download.Manager
	extractor     Extractor
	hooks         HookRunner
	concurrency   int
}

const defaultConcurrency = 4

// New creates a Repository. Missing collaborators get their defaults.
func New(opts Options) *Repository {
	r := &Repository{
		catalog:       opts.Catalog,
		db:            opts.Installed,
		installedPath: opts.InstalledPath,
		installDir:    opts.InstallDir,
		cacheDir:      opts.CacheDir,
		platform:      opts.Platform,
		downloader:    opts.Downloader,
		extractor:     opts.Extractor,
		hooks:         opts.Hooks,
		concurrency:   opts.Concurrency,
	}
	if r.catalog == nil {
		r.catalog = catalog.NewMemory()
	}
	if r.db == nil {
		r.db = installed.NewDatabase()
	}
	if r.platform == (platform.Platform{}) {
		r.platform = platform.Current()
	}
	if r.extractor == nil {
		r.extractor = archive.NewManager()
	}
	if r.concurrency < 1 {
		r.concurrency = defaultConcurrency
	}
	if r.hooks == nil {
		r.hooks = hooks.NewRunner(false)
	}
	return r
}

// InstallDir returns the root below which packages are installed.
func (r *Repository) InstallDir() string {
	return r.installDir
}

func (r *Repository) FindPackage(name string) (*model.Package, error) {
	return r.catalog.FindPackage(name)
}

func (r *Repository) FindPackagesByShortName(name string) ([]*model.Package, error) {
	return r.catalog.FindPackagesByShortName(name)
}

func (r *Repository) PackageVersions(pkg string) ([]*model.PackageVersion, error) {
	return r.catalog.PackageVersions(pkg)
}

func (r *Repository) FindPackageVersion(pkg string, v *version.Version) (*model.PackageVersion, error) {
	return r.catalog.FindPackageVersion(pkg, v)
}

// Packages returns every catalog package.
func (r *Repository) Packages() ([]*model.Package, error) {
	return r.catalog.Packages()
}

func (r *Repository) SavePackage(p *model.Package) error {
	return r.catalog.SavePackage(p)
}

func (r *Repository) SavePackageVersion(pv *model.PackageVersion) error {
	return r.catalog.SavePackageVersion(pv)
}

// Installed returns the installed package versions sorted by package and
// version.
func (r *Repository) Installed() []*model.InstalledPackageVersion {
	return r.db.All()
}

// FindInstalled returns the installed version for k or nil.
func (r *Repository) FindInstalled(k model.VersionKey) *model.InstalledPackageVersion {
	return r.db.Find(k)
}

// FindOwner returns the installation containing path or nil.
func (r *Repository) FindOwner(path string) *model.InstalledPackageVersion {
	return r.db.FindOwner(path)
}

// AddInstalled records ipv without touching the file system.
func (r *Repository) AddInstalled(ipv *model.InstalledPackageVersion) {
	r.db.Add(ipv)
}

// Prune forgets installations whose directory is gone.
func (r *Repository) Prune() []*model.InstalledPackageVersion {
	return r.db.Prune(dirExists)
}

// Save persists the installed database.
func (r *Repository) Save() error {
	if r.installedPath == "" {
		return nil
	}
	return r.db.SaveDatabase(r.installedPath)
}

// Close releases the catalog.
func (r *Repository) Close() error {
	return r.catalog.Close()
}

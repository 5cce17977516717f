package repository

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/glorpus-work/wpm/internal/logger"
	"github.com/glorpus-work/wpm/pkg/cache"
	"github.com/glorpus-work/wpm/pkg/detect"
	"github.com/glorpus-work/wpm/pkg/download"
	"github.com/glorpus-work/wpm/pkg/errors"
	"github.com/glorpus-work/wpm/pkg/fsutil"
	"github.com/glorpus-work/wpm/pkg/hooks"
	"github.com/glorpus-work/wpm/pkg/job"
	"github.com/glorpus-work/wpm/pkg/model"
)

// Install downloads pv, places its files in a fresh directory below the
// install root, runs its install hook and records it as installed. A failed
// installation leaves no directory behind. Progress is reported on j; the
// caller completes it.
func (r *Repository) Install(ctx context.Context, pv *model.PackageVersion, j *job.Job) error {
	if r.db.Find(pv.Key()) != nil {
		return nil
	}

	pkg, err := r.catalog.FindPackage(pv.Package)
	if err != nil {
		return err
	}
	if pkg == nil {
		pkg = &model.Package{Name: pv.Package}
	}

	dir, err := r.allocateDir(pkg, pv)
	if err != nil {
		return err
	}
	if err := fsutil.EnsureDir(dir); err != nil {
		return errors.Wrapf(err, "failed to create %s", dir)
	}

	if err := r.install(ctx, pkg, pv, dir, j); err != nil {
		_ = os.RemoveAll(dir)
		return err
	}

	r.db.Add(&model.InstalledPackageVersion{
		Package:     pv.Package,
		Version:     pv.Version,
		Directory:   dir,
		Detection:   detect.DetectionWPM,
		InstalledAt: time.Now(),
	})
	logger.Debug("Installed package version", logger.Fields{"package": pv.Package, "version": pv.Version.String(), "directory": dir})
	return r.Save()
}

func (r *Repository) install(ctx context.Context, pkg *model.Package, pv *model.PackageVersion, dir string, j *job.Job) error {
	if pv.URL != "" {
		if err := r.placeFiles(ctx, pv, dir, j); err != nil {
			return err
		}
	}
	if !j.ShouldProceed() {
		return errors.ErrCancelled
	}

	err := detect.WriteMarker(dir, detect.Marker{
		Package:     pv.Package,
		Version:     pv.Version.String(),
		Title:       pkg.Title,
		InstalledAt: time.Now(),
	})
	if err != nil {
		return err
	}

	hookJob := j.NewSubJob(0.1, "Running install hook")
	if err := r.hooks.Run(ctx, hooks.Install, hookContext(pv, dir)); err != nil {
		return err
	}
	hookJob.CompleteWithProgress()
	return nil
}

func (r *Repository) placeFiles(ctx context.Context, pv *model.PackageVersion, dir string, j *job.Job) error {
	if r.downloader == nil {
		return fmt.Errorf("%w: no downloader configured", errors.ErrDownloadFailed)
	}
	u, err := url.Parse(pv.URL)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", errors.ErrDownloadFailed, pv.URL, err)
	}

	dl := j.NewSubJob(0.6, "Downloading")
	file, err := r.downloader.Fetch(ctx, download.Item{
		ID:       pv.Key().String(),
		URL:      u,
		HashType: pv.HashType,
		Checksum: pv.Hash,
	}, download.Options{
		Dir: cache.DownloadsPath(r.cacheDir),
		Progress: func(_ download.Item, read, total int64) {
			if total > 0 {
				dl.SetProgress(float64(read) / float64(total))
			}
		},
	})
	if err != nil {
		return err
	}
	dl.CompleteWithProgress()

	if !j.ShouldProceed() {
		return errors.ErrCancelled
	}

	if pv.Type == model.InstallTypeOneFile {
		cp := j.NewSubJob(0.3, "Copying")
		if err := fsutil.Copy(file, filepath.Join(dir, artifactName(u, pv))); err != nil {
			return errors.Wrap(err, "failed to copy artifact")
		}
		cp.CompleteWithProgress()
		return nil
	}

	ex := j.NewSubJob(0.3, "Extracting")
	err = r.extractor.ExtractAll(ctx, file, dir, func(done, total int) {
		if total > 0 {
			ex.SetProgress(float64(done) / float64(total))
		}
	})
	if err != nil {
		return err
	}
	ex.CompleteWithProgress()
	return nil
}

// Uninstall runs the uninstall hook of ipv, deletes its directory and
// forgets it. Directories outside the install root are left in place.
func (r *Repository) Uninstall(ctx context.Context, ipv *model.InstalledPackageVersion, j *job.Job) error {
	owned := r.ownsDir(ipv.Directory)

	if owned && dirExists(ipv.Directory) {
		hookJob := j.NewSubJob(0.2, "Running uninstall hook")
		if err := r.hooks.Run(ctx, hooks.Uninstall, hookContext(&model.PackageVersion{
			Package: ipv.Package,
			Version: ipv.Version,
		}, ipv.Directory)); err != nil {
			return err
		}
		hookJob.CompleteWithProgress()

		if !j.ShouldProceed() {
			return errors.ErrCancelled
		}

		del := j.NewSubJob(0.7, "Deleting files")
		if err := os.RemoveAll(ipv.Directory); err != nil {
			return errors.Wrapf(err, "failed to delete %s", ipv.Directory)
		}
		del.CompleteWithProgress()
	} else if !owned {
		logger.Debug("Keeping directory outside the install root", logger.Fields{"directory": ipv.Directory})
	}

	r.db.Remove(ipv.Key())
	return r.Save()
}

func (r *Repository) ownsDir(dir string) bool {
	if dir == "" || r.installDir == "" {
		return false
	}
	return fsutil.IsWithin(r.installDir, dir) && filepath.Clean(dir) != filepath.Clean(r.installDir)
}

// allocateDir picks <install root>/<short name>-<version>, adding a counter
// when that directory is taken.
func (r *Repository) allocateDir(pkg *model.Package, pv *model.PackageVersion) (string, error) {
	if r.installDir == "" {
		return "", fmt.Errorf("no installation directory configured")
	}
	base := filepath.Join(r.installDir, sanitizeName(pkg.GetShortName())+"-"+pv.Version.String())
	dir := base
	for i := 2; pathExists(dir); i++ {
		dir = fmt.Sprintf("%s_%d", base, i)
	}
	return dir, nil
}

func hookContext(pv *model.PackageVersion, dir string) hooks.Context {
	return hooks.Context{
		PackageName:    pv.Package,
		PackageVersion: pv.Version.String(),
		InstallPath:    dir,
	}
}

func artifactName(u *url.URL, pv *model.PackageVersion) string {
	if base := path.Base(u.Path); base != "" && base != "/" && base != "." {
		return base
	}
	return pv.Package
}

func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return '_'
		}
		return r
	}, name)
}

func pathExists(p string) bool {
	_, err := os.Lstat(p)
	return err == nil
}

func dirExists(p string) bool {
	return fsutil.DirExists(p)
}

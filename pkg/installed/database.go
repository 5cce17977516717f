// Package installed provides the JSON-backed store of installed package
// versions.
package installed

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/glorpus-work/wpm/pkg/errors"
	"github.com/glorpus-work/wpm/pkg/fsutil"
	"github.com/glorpus-work/wpm/pkg/model"
)

const formatVersion = "1"

// Database is the set of installed package versions. It is safe for
// concurrent use.
type Database struct {
	FormatVersion string                           `json:"format_version"`
	LastUpdate    time.Time                        `json:"last_update"`
	Packages      []*model.InstalledPackageVersion `json:"packages"`

	mu sync.RWMutex
}

// NewDatabase returns an empty database.
func NewDatabase() *Database {
	return &Database{
		FormatVersion: formatVersion,
		LastUpdate:    time.Now(),
	}
}

// LoadDatabase reads the database at path. A missing file yields an empty
// database.
func LoadDatabase(path string) (*Database, error) {
	db := NewDatabase()

	f, err := os.Open(filepath.Clean(path))
	if os.IsNotExist(err) {
		return db, nil
	}
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInstalledDatabase, "opening %s: %v", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := db.read(f); err != nil {
		return nil, err
	}
	return db, nil
}

func (db *Database) read(r io.Reader) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := json.NewDecoder(r).Decode(db); err != nil {
		return fmt.Errorf("%w: decoding: %v", errors.ErrInstalledDatabase, err)
	}
	if db.FormatVersion != formatVersion {
		return fmt.Errorf("%w: unsupported format version %q", errors.ErrInstalledDatabase, db.FormatVersion)
	}
	db.Packages = slices.DeleteFunc(db.Packages, func(ipv *model.InstalledPackageVersion) bool {
		return ipv == nil || ipv.Version == nil
	})
	return nil
}

// SaveDatabase writes the database to path atomically.
func (db *Database) SaveDatabase(path string) error {
	db.mu.RLock()
	data, err := json.MarshalIndent(db, "", "  ")
	db.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("%w: encoding: %v", errors.ErrInstalledDatabase, err)
	}
	return fsutil.WriteFileAtomic(path, data, fsutil.FileModeDefault)
}

// All returns the installed versions sorted by package and version.
func (db *Database) All() []*model.InstalledPackageVersion {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := slices.Clone(db.Packages)
	slices.SortFunc(out, func(a, b *model.InstalledPackageVersion) int {
		if a.Package != b.Package {
			if a.Package < b.Package {
				return -1
			}
			return 1
		}
		return a.Version.Compare(b.Version)
	})
	return out
}

// Find returns the installed version identified by k, or nil.
func (db *Database) Find(k model.VersionKey) *model.InstalledPackageVersion {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, ipv := range db.Packages {
		if ipv.Key() == k {
			return ipv
		}
	}
	return nil
}

// FindByPackage returns every installed version of pkg.
func (db *Database) FindByPackage(pkg string) []*model.InstalledPackageVersion {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var out []*model.InstalledPackageVersion
	for _, ipv := range db.Packages {
		if ipv.Package == pkg {
			out = append(out, ipv)
		}
	}
	return out
}

// FindOwner returns the installed version whose directory contains path. When
// directories are nested the deepest one wins.
func (db *Database) FindOwner(path string) *model.InstalledPackageVersion {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var best *model.InstalledPackageVersion
	for _, ipv := range db.Packages {
		if ipv.Directory == "" || !fsutil.IsWithin(ipv.Directory, path) {
			continue
		}
		if best == nil || len(ipv.Directory) > len(best.Directory) {
			best = ipv
		}
	}
	return best
}

// Add records ipv, replacing an entry with the same key.
func (db *Database) Add(ipv *model.InstalledPackageVersion) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if ipv.InstalledAt.IsZero() {
		ipv.InstalledAt = time.Now()
	}
	k := ipv.Key()
	for i, existing := range db.Packages {
		if existing.Key() == k {
			db.Packages[i] = ipv
			db.LastUpdate = time.Now()
			return
		}
	}
	db.Packages = append(db.Packages, ipv)
	db.LastUpdate = time.Now()
}

// Remove forgets the version identified by k and reports whether it was
// present.
func (db *Database) Remove(k model.VersionKey) bool {
	db.mu.Lock()
	defer db.mu.Unlock()

	n := len(db.Packages)
	db.Packages = slices.DeleteFunc(db.Packages, func(ipv *model.InstalledPackageVersion) bool {
		return ipv.Key() == k
	})
	if len(db.Packages) == n {
		return false
	}
	db.LastUpdate = time.Now()
	return true
}

// Prune drops entries with a directory for which exists returns false and
// returns them.
func (db *Database) Prune(exists func(dir string) bool) []*model.InstalledPackageVersion {
	db.mu.Lock()
	defer db.mu.Unlock()

	var removed []*model.InstalledPackageVersion
	db.Packages = slices.DeleteFunc(db.Packages, func(ipv *model.InstalledPackageVersion) bool {
		if ipv.Directory == "" || exists(ipv.Directory) {
			return false
		}
		removed = append(removed, ipv)
		return true
	})
	if len(removed) > 0 {
		db.LastUpdate = time.Now()
	}
	return removed
}

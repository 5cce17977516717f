// Package model provides the catalog and installation entities shared by the
// planner, the executor and the storage layers.
package model

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/glorpus-work/wpm/pkg/platform"
	"github.com/glorpus-work/wpm/pkg/version"
)

// SelfPackageName is the catalog name under which wpm registers itself.
const SelfPackageName = "io.github.glorpus-work.wpm"

var segmentPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// IsValidName reports whether name is a dotted reversed-domain package name.
func IsValidName(name string) bool {
	if name == "" {
		return false
	}
	for _, seg := range strings.Split(name, ".") {
		if !segmentPattern.MatchString(seg) {
			return false
		}
	}
	return true
}

// Package is a named piece of software. The name is globally unique.
type Package struct {
	Name        string   `json:"name" yaml:"name"`
	Title       string   `json:"title,omitempty" yaml:"title,omitempty"`
	ShortName   string   `json:"short_name,omitempty" yaml:"short_name,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	License     string   `json:"license,omitempty" yaml:"license,omitempty"`
	URL         string   `json:"url,omitempty" yaml:"url,omitempty"`
	Categories  []string `json:"categories,omitempty" yaml:"categories,omitempty"`
}

// GetShortName returns the explicit short name or the last segment of the
// full name.
func (p *Package) GetShortName() string {
	if p.ShortName != "" {
		return p.ShortName
	}
	if i := strings.LastIndexByte(p.Name, '.'); i >= 0 {
		return p.Name[i+1:]
	}
	return p.Name
}

// GetTitle falls back to the name when no title is known.
func (p *Package) GetTitle() string {
	if p.Title != "" {
		return p.Title
	}
	return p.Name
}

// InstallType distinguishes archives from single downloaded files.
type InstallType string

const (
	// InstallTypeArchive artifacts are extracted into the installation directory.
	InstallTypeArchive InstallType = "archive"
	// InstallTypeOneFile artifacts are copied into the installation directory as is.
	InstallTypeOneFile InstallType = "one-file"
)

// Dependency names a package and the acceptable version range.
type Dependency struct {
	Package string        `json:"package" yaml:"package"`
	Range   version.Range `json:"versions" yaml:"versions"`
}

// Test reports whether v satisfies the dependency range.
func (d Dependency) Test(v *version.Version) bool {
	return d.Range.Contains(v)
}

func (d Dependency) String() string {
	return d.Package + " " + d.Range.String()
}

// PackageVersion is one installable version of a package.
type PackageVersion struct {
	Package      string           `json:"package"`
	Version      *version.Version `json:"version"`
	Dependencies []Dependency     `json:"dependencies,omitempty"`
	Type         InstallType      `json:"type,omitempty"`
	URL          string           `json:"url,omitempty"`
	HashType     string           `json:"hash_type,omitempty"`
	Hash         string           `json:"hash,omitempty"`
	OS           string           `json:"os,omitempty"`
	Arch         string           `json:"arch,omitempty"`
}

// Key identifies the version. Versions that compare equal share a key.
func (pv *PackageVersion) Key() VersionKey {
	return NewVersionKey(pv.Package, pv.Version)
}

// MatchPlatform reports whether the version can be installed on p.
func (pv *PackageVersion) MatchPlatform(p platform.Platform) bool {
	return platform.Platform{OS: orAny(pv.OS), Arch: orAny(pv.Arch)}.Matches(p)
}

func (pv *PackageVersion) String() string {
	return fmt.Sprintf("%s %s", pv.Package, pv.Version)
}

func orAny(s string) string {
	if s == "" {
		return platform.Any
	}
	return s
}

// VersionKey is the (package, version) identity of a package version.
type VersionKey struct {
	Package string
	Version string
}

// NewVersionKey builds a key from the normalized version text.
func NewVersionKey(pkg string, v *version.Version) VersionKey {
	return VersionKey{Package: pkg, Version: v.Normalized()}
}

func (k VersionKey) String() string {
	return k.Package + " " + k.Version
}

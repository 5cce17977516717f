package catalog

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/glorpus-work/wpm/pkg/errors"
	"github.com/glorpus-work/wpm/pkg/model"
	"github.com/glorpus-work/wpm/pkg/platform"
	"github.com/glorpus-work/wpm/pkg/version"
)

// Repository is the content of one repository document.
type Repository struct {
	Packages []*model.Package
	Versions []*model.PackageVersion
}

type xmlRepository struct {
	XMLName     xml.Name     `xml:"root"`
	SpecVersion string       `xml:"spec-version"`
	Packages    []xmlPackage `xml:"package"`
	Versions    []xmlVersion `xml:"version"`
}

type xmlPackage struct {
	Name        string   `xml:"name,attr"`
	Title       string   `xml:"title"`
	ShortName   string   `xml:"short-name"`
	Description string   `xml:"description"`
	License     string   `xml:"license"`
	URL         string   `xml:"url"`
	Categories  []string `xml:"category"`
}

type xmlVersion struct {
	Name         string          `xml:"name,attr"`
	Package      string          `xml:"package,attr"`
	Type         string          `xml:"type,attr"`
	URL          string          `xml:"url"`
	SHA1         string          `xml:"sha1"`
	HashSum      *xmlHashSum     `xml:"hash-sum"`
	OS           string          `xml:"os"`
	Arch         string          `xml:"arch"`
	Dependencies []xmlDependency `xml:"dependency"`
}

type xmlHashSum struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

type xmlDependency struct {
	Package  string `xml:"package,attr"`
	Versions string `xml:"versions"`
}

// ParseRepository decodes a repository document:
//
//	<root>
//	  <spec-version>3</spec-version>
//	  <package name="com.example.Editor"><title>Editor</title></package>
//	  <version name="2.0" package="com.example.Editor" type="zip">
//	    <url>https://example.com/editor-2.0.zip</url>
//	    <hash-sum type="SHA-256">...</hash-sum>
//	    <dependency package="com.example.Lib"><versions>[1.0,2.0)</versions></dependency>
//	  </version>
//	</root>
func ParseRepository(r io.Reader) (*Repository, error) {
	var doc xmlRepository
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrRepositoryParse, err)
	}

	repo := &Repository{}
	for _, xp := range doc.Packages {
		if !model.IsValidName(xp.Name) {
			return nil, fmt.Errorf("%w: %w: %q", errors.ErrRepositoryParse, errors.ErrInvalidPackageName, xp.Name)
		}
		repo.Packages = append(repo.Packages, &model.Package{
			Name:        xp.Name,
			Title:       strings.TrimSpace(xp.Title),
			ShortName:   strings.TrimSpace(xp.ShortName),
			Description: strings.TrimSpace(xp.Description),
			License:     strings.TrimSpace(xp.License),
			URL:         strings.TrimSpace(xp.URL),
			Categories:  xp.Categories,
		})
	}

	for _, xv := range doc.Versions {
		pv, err := xv.toModel()
		if err != nil {
			return nil, fmt.Errorf("%w: version %s of %s: %w", errors.ErrRepositoryParse, xv.Name, xv.Package, err)
		}
		repo.Versions = append(repo.Versions, pv)
	}

	return repo, nil
}

func (xv xmlVersion) toModel() (*model.PackageVersion, error) {
	if !model.IsValidName(xv.Package) {
		return nil, errors.ErrInvalidPackageName
	}
	v, err := version.Parse(xv.Name)
	if err != nil {
		return nil, err
	}

	pv := &model.PackageVersion{
		Package: xv.Package,
		Version: v,
		Type:    model.InstallTypeArchive,
		URL:     strings.TrimSpace(xv.URL),
		OS:      xv.OS,
		Arch:    xv.Arch,
	}
	if xv.Type == string(model.InstallTypeOneFile) {
		pv.Type = model.InstallTypeOneFile
	}

	switch {
	case xv.HashSum != nil:
		pv.HashType = strings.ToLower(strings.ReplaceAll(xv.HashSum.Type, "-", ""))
		pv.Hash = strings.ToLower(strings.TrimSpace(xv.HashSum.Value))
	case xv.SHA1 != "":
		pv.HashType = "sha1"
		pv.Hash = strings.ToLower(strings.TrimSpace(xv.SHA1))
	}

	for _, xd := range xv.Dependencies {
		rng, err := version.ParseRange(xd.Versions)
		if err != nil {
			return nil, err
		}
		pv.Dependencies = append(pv.Dependencies, model.Dependency{Package: xd.Package, Range: rng})
	}
	return pv, nil
}

// Import saves the packages of repo and the versions installable on p into
// store. Versions of packages without a package entry get a bare one.
func Import(store Store, repo *Repository, p platform.Platform) (int, error) {
	known := make(map[string]bool, len(repo.Packages))
	for _, pkg := range repo.Packages {
		if err := store.SavePackage(pkg); err != nil {
			return 0, err
		}
		known[pkg.Name] = true
	}

	n := 0
	for _, pv := range repo.Versions {
		if !pv.MatchPlatform(p) {
			continue
		}
		if !known[pv.Package] {
			if err := store.SavePackage(&model.Package{Name: pv.Package}); err != nil {
				return n, err
			}
			known[pv.Package] = true
		}
		if err := store.SavePackageVersion(pv); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

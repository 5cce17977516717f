package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/wpm/pkg/model"
	"github.com/glorpus-work/wpm/pkg/version"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()

	sqlite, err := OpenSQLite(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": sqlite,
	}
}

func pv(pkg, ver string, deps ...model.Dependency) *model.PackageVersion {
	return &model.PackageVersion{
		Package:      pkg,
		Version:      version.MustParse(ver),
		Dependencies: deps,
		Type:         model.InstallTypeArchive,
		URL:          "https://example.com/" + pkg + "-" + ver + ".zip",
	}
}

func TestStore_Packages(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.SavePackage(&model.Package{Name: "com.example.Editor", Title: "Editor", Categories: []string{"Text"}}))
			require.NoError(t, store.SavePackage(&model.Package{Name: "org.other.Editor"}))
			require.NoError(t, store.SavePackage(&model.Package{Name: "com.example.Lib", ShortName: "libex"}))

			p, err := store.FindPackage("com.example.Editor")
			require.NoError(t, err)
			require.NotNil(t, p)
			assert.Equal(t, "Editor", p.Title)
			assert.Equal(t, []string{"Text"}, p.Categories)

			p, err = store.FindPackage("com.example.Missing")
			require.NoError(t, err)
			assert.Nil(t, p)

			byShort, err := store.FindPackagesByShortName("editor")
			require.NoError(t, err)
			require.Len(t, byShort, 2)
			assert.Equal(t, "com.example.Editor", byShort[0].Name)

			byShort, err = store.FindPackagesByShortName("libex")
			require.NoError(t, err)
			require.Len(t, byShort, 1)

			require.NoError(t, store.SavePackage(&model.Package{Name: "com.example.Editor", Title: "Editor Pro"}))
			p, err = store.FindPackage("com.example.Editor")
			require.NoError(t, err)
			assert.Equal(t, "Editor Pro", p.Title)

			all, err := store.Packages()
			require.NoError(t, err)
			assert.Len(t, all, 3)
		})
	}
}

func TestStore_Versions(t *testing.T) {
	dep := model.Dependency{Package: "com.example.Lib", Range: version.MustParseRange("[1.0,2.0)")}

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.SavePackageVersion(pv("com.example.Editor", "1.0")))
			require.NoError(t, store.SavePackageVersion(pv("com.example.Editor", "2.0", dep)))
			require.NoError(t, store.SavePackageVersion(pv("com.example.Editor", "1.5")))

			versions, err := store.PackageVersions("com.example.Editor")
			require.NoError(t, err)
			require.Len(t, versions, 3)
			assert.Equal(t, "2.0", versions[0].Version.String(), "newest first")
			require.Len(t, versions[0].Dependencies, 1)
			assert.Equal(t, "com.example.Lib [1.0,2.0)", versions[0].Dependencies[0].String())

			require.NoError(t, store.SavePackageVersion(pv("com.example.Editor", "2.0.0")))
			versions, err = store.PackageVersions("com.example.Editor")
			require.NoError(t, err)
			assert.Len(t, versions, 3, "equal versions replace each other")

			found, err := store.FindPackageVersion("com.example.Editor", version.MustParse("1.5"))
			require.NoError(t, err)
			require.NotNil(t, found)

			found, err = store.FindPackageVersion("com.example.Editor", version.MustParse("9"))
			require.NoError(t, err)
			assert.Nil(t, found)

			empty, err := store.PackageVersions("com.example.None")
			require.NoError(t, err)
			assert.Empty(t, empty)
		})
	}
}

func TestStore_Clear(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.SavePackage(&model.Package{Name: "a.b"}))
			require.NoError(t, store.SavePackageVersion(pv("a.b", "1")))
			_, err := store.PackageVersions("a.b")
			require.NoError(t, err)

			require.NoError(t, store.Clear())

			all, err := store.Packages()
			require.NoError(t, err)
			assert.Empty(t, all)
			versions, err := store.PackageVersions("a.b")
			require.NoError(t, err)
			assert.Empty(t, versions)
		})
	}
}

func TestSQLite_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.SavePackage(&model.Package{Name: "com.example.Lib"}))
	require.NoError(t, s.SavePackageVersion(pv("com.example.Lib", "1.5")))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	versions, err := s.PackageVersions("com.example.Lib")
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, model.InstallTypeArchive, versions[0].Type)
}

package installed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/wpm/pkg/errors"
	"github.com/glorpus-work/wpm/pkg/model"
	"github.com/glorpus-work/wpm/pkg/version"
)

func ipv(pkg, ver, dir string) *model.InstalledPackageVersion {
	return &model.InstalledPackageVersion{Package: pkg, Version: version.MustParse(ver), Directory: dir}
}

func key(pkg, ver string) model.VersionKey {
	return model.NewVersionKey(pkg, version.MustParse(ver))
}

func TestLoadDatabase_Missing(t *testing.T) {
	db, err := LoadDatabase(filepath.Join(t.TempDir(), "installed.json"))
	require.NoError(t, err)
	assert.Empty(t, db.All())
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "installed.json")

	db := NewDatabase()
	db.Add(ipv("com.example.Lib", "1.5", "/opt/wpm/Lib-1.5"))
	db.Add(ipv("com.example.Editor", "2.0", "/opt/wpm/Editor-2.0"))
	require.NoError(t, db.SaveDatabase(path))

	loaded, err := LoadDatabase(path)
	require.NoError(t, err)
	all := loaded.All()
	require.Len(t, all, 2)
	assert.Equal(t, "com.example.Editor", all[0].Package)
	assert.Equal(t, "1.5", all[1].Version.String())
	assert.False(t, all[1].InstalledAt.IsZero())
}

func TestLoadDatabase_Invalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err := LoadDatabase(bad)
	assert.ErrorIs(t, err, errors.ErrInstalledDatabase)

	future := filepath.Join(dir, "future.json")
	require.NoError(t, os.WriteFile(future, []byte(`{"format_version":"9","packages":[]}`), 0o644))
	_, err = LoadDatabase(future)
	assert.ErrorIs(t, err, errors.ErrInstalledDatabase)
}

func TestAddReplacesSameVersion(t *testing.T) {
	db := NewDatabase()
	db.Add(ipv("Lib", "1.0", "/a"))
	db.Add(ipv("Lib", "1", "/b"))

	all := db.All()
	require.Len(t, all, 1)
	assert.Equal(t, "/b", all[0].Directory)
}

func TestFindAndRemove(t *testing.T) {
	db := NewDatabase()
	db.Add(ipv("Lib", "1", ""))
	db.Add(ipv("Lib", "2", ""))
	db.Add(ipv("App", "1", ""))

	assert.NotNil(t, db.Find(key("Lib", "2.0")))
	assert.Nil(t, db.Find(key("Lib", "3")))
	assert.Len(t, db.FindByPackage("Lib"), 2)

	assert.True(t, db.Remove(key("Lib", "1")))
	assert.False(t, db.Remove(key("Lib", "1")))
	assert.Len(t, db.FindByPackage("Lib"), 1)
}

func TestFindOwner(t *testing.T) {
	root := t.TempDir()
	outer := filepath.Join(root, "Suite-1")
	inner := filepath.Join(outer, "plugins", "Plugin-2")

	db := NewDatabase()
	db.Add(ipv("Suite", "1", outer))
	db.Add(ipv("Plugin", "2", inner))
	db.Add(ipv("Detected", "1", ""))

	owner := db.FindOwner(filepath.Join(inner, "plugin.dll"))
	require.NotNil(t, owner)
	assert.Equal(t, "Plugin", owner.Package)

	owner = db.FindOwner(filepath.Join(outer, "suite.exe"))
	require.NotNil(t, owner)
	assert.Equal(t, "Suite", owner.Package)

	assert.Nil(t, db.FindOwner(filepath.Join(root, "elsewhere")))
}

func TestPrune(t *testing.T) {
	db := NewDatabase()
	db.Add(ipv("Gone", "1", "/gone"))
	db.Add(ipv("Here", "1", "/here"))
	db.Add(ipv("NoDir", "1", ""))

	removed := db.Prune(func(dir string) bool { return !strings.Contains(dir, "gone") })

	require.Len(t, removed, 1)
	assert.Equal(t, "Gone", removed[0].Package)
	assert.Len(t, db.All(), 2)
}

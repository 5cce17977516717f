package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/wpm/pkg/errors"
	"github.com/glorpus-work/wpm/pkg/model"
)

func TestResolvePackage(t *testing.T) {
	src := newFakeSource()
	src.add("com.example.Editor", "1")
	src.add("org.other.Editor", "1")
	src.add("com.example.Lib", "1")
	src.add("standalone", "1")

	p := New(src)

	pkg, err := p.ResolvePackage("com.example.Editor")
	require.NoError(t, err)
	assert.Equal(t, "com.example.Editor", pkg.Name)

	pkg, err = p.ResolvePackage("Lib")
	require.NoError(t, err)
	assert.Equal(t, "com.example.Lib", pkg.Name)

	pkg, err = p.ResolvePackage("standalone")
	require.NoError(t, err)
	assert.Equal(t, "standalone", pkg.Name)

	_, err = p.ResolvePackage("Editor")
	require.ErrorIs(t, err, errors.ErrAmbiguousShortName)
	var le *LookupError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, []string{"com.example.Editor", "org.other.Editor"}, le.Candidates)

	_, err = p.ResolvePackage("com.example.Missing")
	assert.ErrorIs(t, err, errors.ErrPackageNotFound)
	assert.EqualError(t, err, "unknown package: com.example.Missing")

	_, err = p.ResolvePackage("Missing")
	assert.ErrorIs(t, err, errors.ErrPackageNotFound)
}

func TestResolveVersion(t *testing.T) {
	src := newFakeSource()
	src.add("Lib", "1.0")
	src.add("Lib", "2.1")
	src.add("Lib", "1.7")

	p := New(src)

	pv, err := p.ResolveVersion("Lib", "")
	require.NoError(t, err)
	assert.Equal(t, "2.1", pv.Version.String())

	pv, err = p.ResolveVersion("Lib", "1")
	require.NoError(t, err)
	assert.Equal(t, "1.0", pv.Version.String())

	_, err = p.ResolveVersion("Lib", "1.5")
	assert.ErrorIs(t, err, errors.ErrPackageVersionNotFound)

	_, err = p.ResolveVersion("Lib", "one")
	assert.ErrorIs(t, err, errors.ErrParse)

	_, err = p.ResolveVersion("Ghost", "")
	assert.ErrorIs(t, err, errors.ErrPackageVersionNotFound)
}

func TestResolveInstalled(t *testing.T) {
	src := newFakeSource()
	lib1 := src.add("Lib", "1")
	lib2 := src.add("Lib", "2")
	app := src.add("App", "3")
	installed := installedOf(lib1, lib2, app)

	ipv, err := ResolveInstalled("App", "", installed)
	require.NoError(t, err)
	assert.Equal(t, "3", ipv.Version.String())

	ipv, err = ResolveInstalled("Lib", "2.0", installed)
	require.NoError(t, err)
	assert.Equal(t, "2", ipv.Version.String())

	_, err = ResolveInstalled("Lib", "", installed)
	assert.ErrorIs(t, err, errors.ErrMultipleInstalled)

	_, err = ResolveInstalled("Lib", "7", installed)
	assert.ErrorIs(t, err, errors.ErrNotInstalled)

	_, err = ResolveInstalled("Ghost", "", []*model.InstalledPackageVersion{})
	assert.ErrorIs(t, err, errors.ErrNotInstalled)
}

// Package hooks runs the tengo scripts a package may ship in its .wpm
// directory. install.tengo runs after extraction, uninstall.tengo before the
// installation directory is removed.
package hooks

import "path/filepath"

// Event identifies when a hook runs.
type Event string

// Supported hook events.
const (
	Install   Event = "install"
	Uninstall Event = "uninstall"
)

// MetaDir is the per-installation directory holding hooks and markers.
const MetaDir = ".wpm"

// ScriptExtension is the file extension of hook scripts.
const ScriptExtension = ".tengo"

// ScriptPath returns the location of the hook for event inside installDir.
func ScriptPath(installDir string, event Event) string {
	return filepath.Join(installDir, MetaDir, string(event)+ScriptExtension)
}

// Context contains information passed to hooks.
type Context struct {
	PackageName    string
	PackageVersion string
	InstallPath    string
	Vars           map[string]interface{}
}

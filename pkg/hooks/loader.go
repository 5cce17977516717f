package hooks

import (
	"context"
	"fmt"
	"os"

	"github.com/glorpus-work/wpm/pkg/errors"
)

// Runner runs the hook of an installation directory.
type Runner struct {
	enabled bool
}

// NewRunner creates a Runner. A disabled runner never executes scripts.
func NewRunner(enabled bool) *Runner {
	return &Runner{enabled: enabled}
}

// Run executes the script for event found in hctx.InstallPath, if any.
func (r *Runner) Run(ctx context.Context, event Event, hctx Context) error {
	if !r.enabled {
		return nil
	}

	executor := NewTengoExecutor()
	found, err := LoadScript(executor, hctx.InstallPath, event)
	if err != nil || !found {
		return err
	}
	return executor.Execute(ctx, event, hctx)
}

// LoadScript reads the hook for event from installDir into the executor. It
// reports whether a script was found.
func LoadScript(executor *TengoExecutor, installDir string, event Event) (bool, error) {
	path := ScriptPath(installDir, event)
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %s: %w", errors.ErrHookLoad, path, err)
	}
	executor.AddScript(event, string(content))
	return true, nil
}

// Template generates a starting point for a hook script.
func Template(event Event) string {
	switch event {
	case Install:
		return `// Install hook
// Runs after the package files have been placed in installPath.
// Available variables:
// - packageName: string - full name of the package
// - packageVersion: string - version being installed
// - installPath: string - installation directory
// Set err to a non-empty string to abort the installation.

// Example:
/*
os := import("os")
if is_error(os.stat(installPath + "/bin")) {
    err = "bin directory missing"
}
*/`

	case Uninstall:
		return `// Uninstall hook
// Runs before installPath is deleted.
// Available variables: same as the install hook.

// Example:
/*
os := import("os")
os.remove_all(installPath + "/cache")
*/`

	default:
		return "// Unknown hook event: " + string(event)
	}
}

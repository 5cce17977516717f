package hooks_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/wpm/pkg/errors"
	"github.com/glorpus-work/wpm/pkg/hooks"
)

func TestTengoExecutor(t *testing.T) {
	executor := hooks.NewTengoExecutor()
	hctx := hooks.Context{
		PackageName:    "com.example.App",
		PackageVersion: "1.0",
		InstallPath:    "/test/install/path",
		Vars: map[string]interface{}{
			"customVar": "customValue",
		},
	}
	ctx := context.Background()

	t.Run("Execute empty script", func(t *testing.T) {
		executor.AddScript(hooks.Install, `// nothing to do`)
		assert.NoError(t, executor.Execute(ctx, hooks.Install, hctx))
	})

	t.Run("Execute script with runtime error", func(t *testing.T) {
		executor.AddScript(hooks.Uninstall, `non_existent_function()`)
		err := executor.Execute(ctx, hooks.Uninstall, hctx)
		assert.ErrorIs(t, err, errors.ErrHookExecution)
	})

	t.Run("Script reports failure through err", func(t *testing.T) {
		executor.AddScript(hooks.Uninstall, `err = "service still running"`)
		err := executor.Execute(ctx, hooks.Uninstall, hctx)
		require.ErrorIs(t, err, errors.ErrHookScript)
		assert.Contains(t, err.Error(), "service still running")
	})

	t.Run("Execute missing script", func(t *testing.T) {
		assert.NoError(t, executor.Execute(ctx, hooks.Event("other"), hctx))
	})

	t.Run("HasScript check", func(t *testing.T) {
		event := hooks.Event("test")
		assert.False(t, executor.HasScript(event))

		executor.AddScript(event, "// test script")
		assert.True(t, executor.HasScript(event))

		executor.RemoveScript(event)
		assert.False(t, executor.HasScript(event))
	})

	t.Run("Context variables are accessible", func(t *testing.T) {
		executor.AddScript(hooks.Install, `
			if packageName != "com.example.App" || packageVersion != "1.0" {
				err = "bad package"
			}
			if installPath == "" || customVar != "customValue" {
				err = "bad vars"
			}
		`)
		assert.NoError(t, executor.Execute(ctx, hooks.Install, hctx))
	})

	t.Run("Cancelled context stops the script", func(t *testing.T) {
		executor.AddScript(hooks.Install, `for {}`)
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		assert.Error(t, executor.Execute(cctx, hooks.Install, hctx))
	})
}

func TestRunner(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, hooks.MetaDir), 0o755))
	marker := filepath.Join(dir, "done.txt")
	script := `
		os := import("os")
		f := os.create(installPath + "/done.txt")
		f.write_string(packageName)
		f.close()
	`
	require.NoError(t, os.WriteFile(hooks.ScriptPath(dir, hooks.Install), []byte(script), 0o644))

	hctx := hooks.Context{PackageName: "com.example.App", PackageVersion: "1", InstallPath: dir}

	t.Run("disabled runner skips scripts", func(t *testing.T) {
		require.NoError(t, hooks.NewRunner(false).Run(context.Background(), hooks.Install, hctx))
		assert.NoFileExists(t, marker)
	})

	t.Run("enabled runner executes install hook", func(t *testing.T) {
		require.NoError(t, hooks.NewRunner(true).Run(context.Background(), hooks.Install, hctx))
		content, err := os.ReadFile(marker)
		require.NoError(t, err)
		assert.Equal(t, "com.example.App", string(content))
	})

	t.Run("missing uninstall hook is fine", func(t *testing.T) {
		assert.NoError(t, hooks.NewRunner(true).Run(context.Background(), hooks.Uninstall, hctx))
	})
}

func TestTemplate(t *testing.T) {
	assert.Contains(t, hooks.Template(hooks.Install), "Install hook")
	assert.Contains(t, hooks.Template(hooks.Uninstall), "Uninstall hook")
	assert.Contains(t, hooks.Template("x"), "Unknown hook event")
}

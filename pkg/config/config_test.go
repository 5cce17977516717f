package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/wpm/pkg/errors"
	"github.com/glorpus-work/wpm/pkg/fsutil"
	"github.com/glorpus-work/wpm/pkg/platform"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Settings.LogLevel)
	assert.Equal(t, DefaultHTTPTimeout, cfg.Settings.HTTPTimeout)
	assert.Equal(t, DefaultMaxConcurrent, cfg.Settings.MaxConcurrent)
	assert.True(t, cfg.Settings.Hooks)
	assert.NotEmpty(t, cfg.Settings.InstallDir)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	configContent := `repositories:
  - name: main
    url: https://example.com/rep.xml
    priority: 10
  - name: extra
    url: https://example.com/extra.xml
    enabled: false
settings:
  log_level: debug
  hooks: false
  platform:
    os: win64
    arch: x86_64`

	require.NoError(t, os.WriteFile(configPath, []byte(configContent), fsutil.FileModeDefault))

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	require.Len(t, cfg.Repositories, 2)
	assert.Equal(t, "main", cfg.Repositories[0].Name)
	assert.True(t, cfg.Repositories[0].Enabled, "enabled defaults to true")
	assert.False(t, cfg.Repositories[1].Enabled)
	assert.Equal(t, "debug", cfg.Settings.LogLevel)
	assert.False(t, cfg.Settings.Hooks)
	assert.Equal(t, platform.Platform{OS: platform.OSWindows, Arch: platform.ArchAMD64}, cfg.Platform())

	// defaults fill the gaps
	assert.Equal(t, DefaultHTTPTimeout, cfg.Settings.HTTPTimeout)
	assert.NotEmpty(t, cfg.Settings.StateDir)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Settings.OutputFormat, cfg.Settings.OutputFormat)

	_, err = LoadConfig("")
	assert.ErrorIs(t, err, errors.ErrEmptyConfigPath)
}

func TestLoadConfigFromReader_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"broken yaml", "repositories: [", errors.ErrConfigParse},
		{"missing url", "repositories:\n  - name: a\n", errors.ErrConfigValidation},
		{"relative url", "repositories:\n  - name: a\n    url: rep.xml\n", errors.ErrConfigValidation},
		{"duplicate", "repositories:\n  - name: a\n    url: https://x/a\n  - name: a\n    url: https://x/b\n", errors.ErrRepositoryExists},
		{"bad os", "settings:\n  platform:\n    os: plan9\n", errors.ErrConfigValidation},
		{"bad format", "settings:\n  output_format: xml\n", errors.ErrConfigValidation},
		{"bad level", "settings:\n  log_level: chatty\n", errors.ErrConfigValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfigFromReader(strings.NewReader(tt.content))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSaveConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.AddRepository("main", "https://example.com/rep.xml", 5))
	cfg.Settings.LogLevel = "warn"

	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, cfg.SaveConfig(configPath))

	loaded, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, cfg.Repositories, loaded.Repositories)
	assert.Equal(t, "warn", loaded.Settings.LogLevel)
	assert.Equal(t, cfg.Settings.HTTPTimeout, loaded.Settings.HTTPTimeout)
}

func TestRepositoryManagement(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.AddRepository("high", "https://example.com/high.xml", 20))
	require.NoError(t, cfg.AddRepository("low", "https://example.com/low.xml", 1))
	require.NoError(t, cfg.AddRepository("off", "https://example.com/off.xml", 0))
	require.NoError(t, cfg.EnableRepository("off", false))

	assert.ErrorIs(t, cfg.AddRepository("high", "https://example.com/other.xml", 0), errors.ErrRepositoryExists)
	assert.ErrorIs(t, cfg.AddRepository("bad", "not a url", 0), errors.ErrConfigValidation)

	enabled := cfg.EnabledRepositories()
	require.Len(t, enabled, 2)
	assert.Equal(t, "low", enabled[0].Name)
	assert.Equal(t, "high", enabled[1].Name)

	require.NoError(t, cfg.RemoveRepository("low"))
	assert.Nil(t, cfg.GetRepository("low"))
	assert.ErrorIs(t, cfg.RemoveRepository("low"), errors.ErrRepositoryNotFound)
	assert.ErrorIs(t, cfg.EnableRepository("low", true), errors.ErrRepositoryNotFound)
}

func TestSetGetValue(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.SetValue("http_timeout", "30s"))
	assert.Equal(t, 30*time.Second, cfg.Settings.HTTPTimeout)
	v, err := cfg.GetValue("http_timeout")
	require.NoError(t, err)
	assert.Equal(t, "30s", v)

	require.NoError(t, cfg.SetValue("hooks", "false"))
	v, err = cfg.GetValue("hooks")
	require.NoError(t, err)
	assert.Equal(t, "false", v)

	require.NoError(t, cfg.SetValue("platform.os", "linux"))
	v, err = cfg.GetValue("platform.os")
	require.NoError(t, err)
	assert.Equal(t, "linux", v)

	assert.Error(t, cfg.SetValue("hooks", "maybe"))
	assert.Error(t, cfg.SetValue("max_concurrent_downloads", "many"))
	assert.ErrorIs(t, cfg.SetValue("log_level", "loud"), errors.ErrConfigValidation)
	assert.ErrorIs(t, cfg.SetValue("color", "true"), errors.ErrUnknownConfigKey)

	_, err = cfg.GetValue("color")
	assert.ErrorIs(t, err, errors.ErrUnknownConfigKey)
}

func TestPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Settings.StateDir = filepath.Join("var", "wpm")

	assert.Equal(t, filepath.Join("var", "wpm", "installed.json"), cfg.InstalledDatabasePath())
	assert.Equal(t, filepath.Join("var", "wpm", "catalog.db"), cfg.CatalogPath())

	path, err := DefaultConfigPath()
	require.NoError(t, err)
	assert.Equal(t, "config.yaml", filepath.Base(path))
}

// Package config provides configuration management for wpm. It handles
// loading, validating and saving the YAML configuration file that lists the
// package repositories and the directories and limits wpm works with.
package config

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/glorpus-work/wpm/pkg/errors"
	"github.com/glorpus-work/wpm/pkg/fsutil"
	"github.com/glorpus-work/wpm/pkg/platform"
)

// Config represents the application configuration.
type Config struct {
	// Repository configuration
	Repositories []*RepositoryConfig `yaml:"repositories"`

	// General settings
	Settings Settings `yaml:"settings"`
}

// RepositoryConfig represents a single repository document.
type RepositoryConfig struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
	// Priority orders repositories during sync; for versions present in
	// several repositories the one with the highest priority wins.
	Priority uint `yaml:"priority"`
}

// UnmarshalYAML defaults Enabled to true when the key is absent.
func (rc *RepositoryConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain RepositoryConfig
	p := plain{Enabled: true}
	if err := value.Decode(&p); err != nil {
		return err
	}
	*rc = RepositoryConfig(p)
	return nil
}

// GetURL parses and returns the repository URL.
func (rc *RepositoryConfig) GetURL() *url.URL {
	parse, err := url.Parse(rc.URL)
	if err != nil {
		return nil
	}
	return parse
}

// PlatformConfig overrides the platform package versions are selected for.
type PlatformConfig struct {
	OS   string `yaml:"os,omitempty"`
	Arch string `yaml:"arch,omitempty"`
}

// Settings represents general application settings.
type Settings struct {
	// Directories
	InstallDir string `yaml:"install_dir,omitempty"` // packages are installed below this directory
	CacheDir   string `yaml:"cache_dir,omitempty"`
	StateDir   string `yaml:"state_dir,omitempty"` // catalog and installed database

	// Network settings
	HTTPTimeout   time.Duration `yaml:"http_timeout"`
	MaxConcurrent int           `yaml:"max_concurrent_downloads"`

	// Behaviour
	Hooks            bool          `yaml:"hooks"`
	ProgressInterval time.Duration `yaml:"progress_interval"`

	Platform PlatformConfig `yaml:"platform,omitempty"`

	// Output settings
	OutputFormat string `yaml:"output_format"` // text, json
	LogLevel     string `yaml:"log_level"`     // debug, info, warn, error
}

// Default configuration values.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 5 * time.Minute

	// DefaultMaxConcurrent is the default number of parallel downloads.
	DefaultMaxConcurrent = 4

	// DefaultProgressInterval is the minimum delay between progress updates.
	DefaultProgressInterval = 200 * time.Millisecond

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2

	configFileName = "config.yaml"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	dataDir, err := fsutil.DataDir()
	if err != nil {
		dataDir = filepath.Join(os.TempDir(), fsutil.AppName)
	}
	cacheDir, err := fsutil.CacheDir()
	if err != nil {
		cacheDir = filepath.Join(dataDir, "cache")
	}

	current := platform.Current()
	return &Config{
		Repositories: []*RepositoryConfig{},
		Settings: Settings{
			InstallDir:       filepath.Join(dataDir, "apps"),
			CacheDir:         cacheDir,
			StateDir:         filepath.Join(dataDir, "state"),
			HTTPTimeout:      DefaultHTTPTimeout,
			MaxConcurrent:    DefaultMaxConcurrent,
			Hooks:            true,
			ProgressInterval: DefaultProgressInterval,
			Platform:         PlatformConfig{OS: current.OS, Arch: current.Arch},
			OutputFormat:     "text",
			LogLevel:         "info",
		},
	}
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() (string, error) {
	dir, err := fsutil.ConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(dir, configFileName), nil
}

// LoadConfig loads configuration from a file. A missing file yields the
// default configuration.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	// Keys missing from the document keep their default values.
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig writes the configuration atomically.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}

	if err := fsutil.EnsureFileDir(path); err != nil {
		return errors.Wrap(errors.ErrConfigDirectory, err.Error())
	}

	data, err := c.ToYAML()
	if err != nil {
		return err
	}
	if err := fsutil.WriteFileAtomic(path, data, fsutil.FileModeDefault); err != nil {
		return errors.Wrap(errors.ErrConfigFileCreate, err.Error())
	}
	return nil
}

// ToYAML converts the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(YAMLIndent)
	if err := encoder.Encode(c); err != nil {
		return nil, errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	if err := encoder.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	return buf.Bytes(), nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidation
	}
	if err := validateRepositories(c.Repositories); err != nil {
		return err
	}
	if err := validatePlatform(c.Settings.Platform); err != nil {
		return err
	}
	return validateSettings(c.Settings)
}

func validateRepositories(repos []*RepositoryConfig) error {
	names := make(map[string]bool)
	for i, repo := range repos {
		if repo.Name == "" {
			return fmt.Errorf("%w: repository %d has no name", errors.ErrConfigValidation, i)
		}
		if repo.URL == "" {
			return fmt.Errorf("%w: repository %s has no URL", errors.ErrConfigValidation, repo.Name)
		}
		if u := repo.GetURL(); u == nil || u.Scheme == "" {
			return fmt.Errorf("%w: repository %s has an invalid URL %q", errors.ErrConfigValidation, repo.Name, repo.URL)
		}
		if names[repo.Name] {
			return fmt.Errorf("%w: %s", errors.ErrRepositoryExists, repo.Name)
		}
		names[repo.Name] = true
	}
	return nil
}

func validatePlatform(p PlatformConfig) error {
	if goos := platform.NormalizeOS(p.OS); goos != platform.Any && !slices.Contains(platform.ValidOS(), goos) {
		return fmt.Errorf("%w: unsupported os %q", errors.ErrConfigValidation, p.OS)
	}
	if arch := platform.NormalizeArch(p.Arch); arch != platform.Any && !slices.Contains(platform.ValidArch(), arch) {
		return fmt.Errorf("%w: unsupported arch %q", errors.ErrConfigValidation, p.Arch)
	}
	return nil
}

func validateSettings(s Settings) error {
	if s.HTTPTimeout < 0 {
		return fmt.Errorf("%w: http_timeout must not be negative", errors.ErrConfigValidation)
	}
	if s.ProgressInterval < 0 {
		return fmt.Errorf("%w: progress_interval must not be negative", errors.ErrConfigValidation)
	}
	if s.MaxConcurrent < 1 {
		return fmt.Errorf("%w: max_concurrent_downloads must be at least 1", errors.ErrConfigValidation)
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[s.OutputFormat] {
		return fmt.Errorf("%w: invalid output format %q", errors.ErrConfigValidation, s.OutputFormat)
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(s.LogLevel)] {
		return fmt.Errorf("%w: invalid log level %q", errors.ErrConfigValidation, s.LogLevel)
	}
	return nil
}

// AddRepository adds a repository to the configuration.
func (c *Config) AddRepository(name, rawURL string, priority uint) error {
	if c.GetRepository(name) != nil {
		return fmt.Errorf("%w: %s", errors.ErrRepositoryExists, name)
	}
	repo := &RepositoryConfig{Name: name, URL: rawURL, Enabled: true, Priority: priority}
	if err := validateRepositories([]*RepositoryConfig{repo}); err != nil {
		return err
	}
	c.Repositories = append(c.Repositories, repo)
	return nil
}

// RemoveRepository removes a repository from the configuration.
func (c *Config) RemoveRepository(name string) error {
	for i, repo := range c.Repositories {
		if repo.Name == name {
			c.Repositories = slices.Delete(c.Repositories, i, i+1)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", errors.ErrRepositoryNotFound, name)
}

// GetRepository gets a repository configuration by name.
func (c *Config) GetRepository(name string) *RepositoryConfig {
	for _, repo := range c.Repositories {
		if repo.Name == name {
			return repo
		}
	}
	return nil
}

// EnableRepository enables or disables a repository.
func (c *Config) EnableRepository(name string, enabled bool) error {
	repo := c.GetRepository(name)
	if repo == nil {
		return fmt.Errorf("%w: %s", errors.ErrRepositoryNotFound, name)
	}
	repo.Enabled = enabled
	return nil
}

// EnabledRepositories returns the enabled repositories in sync order, lowest
// priority first.
func (c *Config) EnabledRepositories() []*RepositoryConfig {
	var out []*RepositoryConfig
	for _, repo := range c.Repositories {
		if repo.Enabled {
			out = append(out, repo)
		}
	}
	slices.SortStableFunc(out, func(a, b *RepositoryConfig) int {
		return int(a.Priority) - int(b.Priority)
	})
	return out
}

// Platform returns the platform package versions are selected for.
func (c *Config) Platform() platform.Platform {
	return platform.Platform{
		OS:   platform.NormalizeOS(c.Settings.Platform.OS),
		Arch: platform.NormalizeArch(c.Settings.Platform.Arch),
	}
}

// InstalledDatabasePath returns the path of the installed packages database.
func (c *Config) InstalledDatabasePath() string {
	return filepath.Join(c.Settings.StateDir, "installed.json")
}

// CatalogPath returns the path of the SQLite package catalog.
func (c *Config) CatalogPath() string {
	return filepath.Join(c.Settings.StateDir, "catalog.db")
}

// applyDefaults replaces values that were explicitly set to zero.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Repositories == nil {
		c.Repositories = []*RepositoryConfig{}
	}
	if c.Settings.HTTPTimeout == 0 {
		c.Settings.HTTPTimeout = defaults.Settings.HTTPTimeout
	}
	if c.Settings.MaxConcurrent == 0 {
		c.Settings.MaxConcurrent = defaults.Settings.MaxConcurrent
	}
	if c.Settings.ProgressInterval == 0 {
		c.Settings.ProgressInterval = defaults.Settings.ProgressInterval
	}
	if c.Settings.OutputFormat == "" {
		c.Settings.OutputFormat = defaults.Settings.OutputFormat
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaults.Settings.LogLevel
	}
	if c.Settings.CacheDir == "" {
		c.Settings.CacheDir = defaults.Settings.CacheDir
	}
	if c.Settings.StateDir == "" {
		c.Settings.StateDir = defaults.Settings.StateDir
	}
	if c.Settings.InstallDir == "" {
		c.Settings.InstallDir = defaults.Settings.InstallDir
	}
	if c.Settings.Platform.OS == "" {
		c.Settings.Platform.OS = defaults.Settings.Platform.OS
	}
	if c.Settings.Platform.Arch == "" {
		c.Settings.Platform.Arch = defaults.Settings.Platform.Arch
	}
}

package cli

import (
	"fmt"
	"path/filepath"

	"github.com/glorpus-work/wpm/internal/logger"
	"github.com/glorpus-work/wpm/pkg/catalog"
	"github.com/glorpus-work/wpm/pkg/config"
	"github.com/glorpus-work/wpm/pkg/detect"
	"github.com/glorpus-work/wpm/pkg/download"
	"github.com/glorpus-work/wpm/pkg/fsutil"
	"github.com/glorpus-work/wpm/pkg/hooks"
	"github.com/glorpus-work/wpm/pkg/installed"
	"github.com/glorpus-work/wpm/pkg/orchestrator"
	"github.com/glorpus-work/wpm/pkg/repository"
	"github.com/glorpus-work/wpm/pkg/selfupdate"
)

// These variables will be set by the main package
var (
	ConfigPath   *string
	Verbose      *bool
	NoColor      *bool
	OutputFormat *string
)

func getConfigPath() (string, error) {
	if ConfigPath != nil && *ConfigPath != "" {
		return filepath.Abs(*ConfigPath)
	}
	return config.DefaultConfigPath()
}

// loadConfig loads the configuration, applies the global flags and
// initializes logging.
func loadConfig() (*config.Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with CLI flags if provided
	if OutputFormat != nil && *OutputFormat != "" {
		cfg.Settings.OutputFormat = *OutputFormat
	}
	if Verbose != nil && *Verbose {
		cfg.Settings.LogLevel = "debug"
	}
	if NoColor != nil && *NoColor {
		disableColor()
	}

	logger.InitLogger(cfg.Settings.LogLevel, logger.ParseOutputFormat(cfg.Settings.OutputFormat))
	logger.Debug("Loaded configuration", logger.Fields{"path": configPath})
	return cfg, nil
}

func jsonOutput(cfg *config.Config) bool {
	return cfg.Settings.OutputFormat == string(logger.FormatJSON)
}

// session bundles the stores and services one command works with.
type session struct {
	cfg  *config.Config
	repo *repository.Repository
	orch *orchestrator.Orchestrator
}

func openSession(cfg *config.Config) (*session, error) {
	if err := fsutil.EnsureDir(cfg.Settings.StateDir); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	store, err := catalog.OpenSQLite(cfg.CatalogPath())
	if err != nil {
		return nil, err
	}
	db, err := installed.LoadDatabase(cfg.InstalledDatabasePath())
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	repo := repository.New(repository.Options{
		Catalog:       store,
		Installed:     db,
		InstalledPath: cfg.InstalledDatabasePath(),
		InstallDir:    cfg.Settings.InstallDir,
		CacheDir:      cfg.Settings.CacheDir,
		Platform:      cfg.Platform(),
		Downloader:    download.NewManager(cfg.Settings.HTTPTimeout, userAgent()),
		Hooks:         hooks.NewRunner(cfg.Settings.Hooks),
		Concurrency:   cfg.Settings.MaxConcurrent,
	})

	detectors := []orchestrator.Detector{
		detect.NewMarkerDetector(cfg.Settings.InstallDir),
		detect.NewSelfDetector(Version),
	}

	return &session{
		cfg:  cfg,
		repo: repo,
		orch: orchestrator.New(repo, detectors, selfupdate.New()),
	}, nil
}

func (s *session) Close() {
	if err := s.repo.Close(); err != nil {
		logger.Warn("Failed to close the catalog", logger.Fields{"error": err.Error()})
	}
}

// withSession loads the configuration, opens a session and closes it after fn.
func withSession(fn func(s *session) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

func userAgent() string {
	return fmt.Sprintf("wpm/%s", Version)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 3 || len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

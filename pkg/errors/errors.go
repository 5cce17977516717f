package errors

import "fmt"

// Common error types.
var (
	// Planning errors.
	ErrParse                   = fmt.Errorf("invalid version")
	ErrPackageNotFound         = fmt.Errorf("unknown package")
	ErrAmbiguousShortName      = fmt.Errorf("ambiguous package name")
	ErrPackageVersionNotFound  = fmt.Errorf("package version not found")
	ErrUnsatisfiableDependency = fmt.Errorf("unsatisfied dependency")
	ErrNotInstalled            = fmt.Errorf("package is not installed")
	ErrMultipleInstalled       = fmt.Errorf("more than one version of the package is installed")
	ErrUpToDate                = fmt.Errorf("the packages are already up-to-date")
	ErrInvalidPackageName      = fmt.Errorf("invalid package name")

	// Job errors.
	ErrCancelled = fmt.Errorf("cancelled")

	// Config errors.
	ErrEmptyConfigPath    = fmt.Errorf("config file path cannot be empty")
	ErrConfigParse        = fmt.Errorf("failed to parse config")
	ErrConfigValidation   = fmt.Errorf("invalid configuration")
	ErrConfigEncode       = fmt.Errorf("failed to encode config")
	ErrConfigDirectory    = fmt.Errorf("failed to create config directory")
	ErrConfigFileCreate   = fmt.Errorf("failed to create config file")
	ErrConfigFileExists   = fmt.Errorf("configuration file already exists")
	ErrUnknownConfigKey   = fmt.Errorf("unknown configuration key")
	ErrRepositoryExists   = fmt.Errorf("repository already exists")
	ErrRepositoryNotFound = fmt.Errorf("repository not found")

	// Collaborator errors.
	ErrDownloadFailed    = fmt.Errorf("download failed")
	ErrChecksumMismatch  = fmt.Errorf("checksum mismatch")
	ErrExtractionFailed  = fmt.Errorf("extraction failed")
	ErrRepositoryParse   = fmt.Errorf("failed to parse repository")
	ErrCatalog           = fmt.Errorf("catalog error")
	ErrInstalledDatabase = fmt.Errorf("installed database error")
	ErrSelfUpdate        = fmt.Errorf("self-update failed")
	ErrCacheDirectory    = fmt.Errorf("invalid cache directory")

	// Hook errors.
	ErrHookExecution = fmt.Errorf("error executing hook")
	ErrHookScript    = fmt.Errorf("hook script error")
	ErrHookLoad      = fmt.Errorf("failed to load hook")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

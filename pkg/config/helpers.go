package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/glorpus-work/wpm/pkg/errors"
)

// SetValue sets a configuration value by key
// Supported keys:
//   - install_dir, cache_dir, state_dir: string - directories used by wpm
//   - http_timeout, progress_interval: duration - e.g. 30s or 5m
//   - max_concurrent_downloads: int - parallel repository downloads
//   - hooks: bool - whether install and uninstall hooks run
//   - output_format: string - Output format (text, json)
//   - log_level: string - Logging level (debug, info, warn, error)
//   - platform.os, platform.arch: string - target platform override
func (c *Config) SetValue(key, value string) error {
	s := &c.Settings
	switch key {
	case "install_dir":
		s.InstallDir = value
	case "cache_dir":
		s.CacheDir = value
	case "state_dir":
		s.StateDir = value
	case "http_timeout", "progress_interval":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %s", key, value)
		}
		if key == "http_timeout" {
			s.HTTPTimeout = d
		} else {
			s.ProgressInterval = d
		}
	case "max_concurrent_downloads":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %s", key, value)
		}
		s.MaxConcurrent = n
	case "hooks":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value for %s: %s", key, value)
		}
		s.Hooks = boolVal
	case "output_format":
		s.OutputFormat = value
	case "log_level":
		s.LogLevel = value
	case "platform.os":
		s.Platform.OS = value
	case "platform.arch":
		s.Platform.Arch = value
	default:
		return fmt.Errorf("%w: %s", errors.ErrUnknownConfigKey, key)
	}
	return c.Validate()
}

// GetValue returns the value of key as a string.
func (c *Config) GetValue(key string) (string, error) {
	if v, ok := c.ToMap()[key]; ok {
		return v, nil
	}
	return "", fmt.Errorf("%w: %s", errors.ErrUnknownConfigKey, key)
}

// ToMap flattens the settings into key/value pairs keyed by their YAML names.
// This is useful for displaying the configuration.
func (c *Config) ToMap() map[string]string {
	result := make(map[string]string)

	settingsValue := reflect.ValueOf(c.Settings)
	settingsType := settingsValue.Type()

	for i := 0; i < settingsValue.NumField(); i++ {
		field := settingsType.Field(i)
		yamlTag := field.Tag.Get("yaml")
		if yamlTag == "" || yamlTag == "-" {
			continue
		}

		// Handle yaml tags with options (e.g., "cache_dir,omitempty")
		yamlKey := strings.Split(yamlTag, ",")[0]

		fieldValue := settingsValue.Field(i)
		var strValue string

		switch fieldValue.Kind() {
		case reflect.Bool:
			strValue = strconv.FormatBool(fieldValue.Bool())
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if d, ok := fieldValue.Interface().(time.Duration); ok {
				strValue = d.String()
			} else {
				strValue = strconv.FormatInt(fieldValue.Int(), 10)
			}
		case reflect.String:
			strValue = fieldValue.String()
		case reflect.Struct:
			if p, ok := fieldValue.Interface().(PlatformConfig); ok {
				result[yamlKey+".os"] = p.OS
				result[yamlKey+".arch"] = p.Arch
				continue
			}
			strValue = fmt.Sprintf("%+v", fieldValue.Interface())
		default:
			strValue = fmt.Sprintf("%v", fieldValue.Interface())
		}

		result[yamlKey] = strValue
	}

	return result
}

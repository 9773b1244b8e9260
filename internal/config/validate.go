package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSorting(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateSorting() error {
	if c.Sorting.Workers < 1 {
		return fmt.Errorf("sorting.workers must be at least 1, got %d", c.Sorting.Workers)
	}
	if err := validateDirComponent("sorting.no_extension_bucket", c.Sorting.NoExtensionBucket); err != nil {
		return err
	}
	if err := validateDirComponent("sorting.state_dir", c.Sorting.StateDirName); err != nil {
		return err
	}
	marker := c.Sorting.DuplicateMarker
	if strings.ContainsAny(marker, `/\`) {
		return fmt.Errorf("sorting.duplicate_marker must not contain path separators, got %q", marker)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func validateDirComponent(field, value string) error {
	if value != filepath.Base(value) || value == "." || value == ".." {
		return fmt.Errorf("%s must be a single path component, got %q", field, value)
	}
	return nil
}

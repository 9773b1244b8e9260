package config

import (
	"runtime"
	"strings"
)

func (c *Config) normalize() {
	if c.Sorting.Workers <= 0 {
		c.Sorting.Workers = runtime.NumCPU()
	}
	if strings.TrimSpace(c.Sorting.NoExtensionBucket) == "" {
		c.Sorting.NoExtensionBucket = defaultNoExtensionBucket
	}
	if strings.TrimSpace(c.Sorting.DuplicateMarker) == "" {
		c.Sorting.DuplicateMarker = defaultDuplicateMarker
	}
	if strings.TrimSpace(c.Sorting.StateDirName) == "" {
		c.Sorting.StateDirName = defaultStateDirName
	}
	c.normalizeLogging()
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

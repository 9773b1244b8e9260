// Package config loads, normalizes, and validates sortd configuration.
//
// Configuration lives in a TOML file (default ~/.config/sortd/config.toml)
// and covers the sorting engine knobs, logging output, and the optional
// outcome history store. All path fields are expanded (~ resolution,
// absolute cleanup) during Load so downstream code never re-normalizes.
package config

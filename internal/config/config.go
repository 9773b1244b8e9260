package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Sorting contains the classification engine knobs.
type Sorting struct {
	// Workers is the fixed worker count. Zero means host parallelism.
	Workers int `toml:"workers"`
	// NoExtensionBucket is the reserved bucket for extensionless files.
	NoExtensionBucket string `toml:"no_extension_bucket"`
	// DuplicateMarker is inserted between stem and extension when a file's
	// content matches an already-claimed digest.
	DuplicateMarker string `toml:"duplicate_marker"`
	// StateDirName is the directory created under the sort root that holds
	// the recovery ledger, lock file, run logs, and history database.
	StateDirName string `toml:"state_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// History contains configuration for the per-run outcome store.
type History struct {
	Enabled bool `toml:"enabled"`
}

// Config encapsulates all configuration values for sortd.
type Config struct {
	Sorting Sorting `toml:"sorting"`
	Logging Logging `toml:"logging"`
	History History `toml:"history"`
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/sortd/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all fields normalized; a missing file yields defaults.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("sortd.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// StateDir returns the engine state directory for the given sort root.
func (c *Config) StateDir(root string) string {
	return filepath.Join(root, c.Sorting.StateDirName)
}

// LedgerPath returns the recovery ledger location for the given sort root.
func (c *Config) LedgerPath(root string) string {
	return filepath.Join(c.StateDir(root), "ledger.txt")
}

// LockPath returns the single-instance lock file for the given sort root.
func (c *Config) LockPath(root string) string {
	return filepath.Join(c.StateDir(root), "sortd.lock")
}

// HistoryPath returns the outcome database location for the given sort root.
func (c *Config) HistoryPath(root string) string {
	return filepath.Join(c.StateDir(root), "history.db")
}

// LogPath returns the append log location for the given sort root.
func (c *Config) LogPath(root string) string {
	return filepath.Join(c.StateDir(root), "sortd.log")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

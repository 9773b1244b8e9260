package config

import "runtime"

const (
	defaultNoExtensionBucket = "no_extension"
	defaultDuplicateMarker   = "_duplicate"
	defaultStateDirName      = ".sortd"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Sorting: Sorting{
			Workers:           runtime.NumCPU(),
			NoExtensionBucket: defaultNoExtensionBucket,
			DuplicateMarker:   defaultDuplicateMarker,
			StateDirName:      defaultStateDirName,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled: true,
		},
	}
}

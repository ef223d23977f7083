package config

import "runtime"

const (
	defaultConfigPath         = "~/.config/rackscope/config.toml"
	defaultDataDir            = "~/.local/share/rackscope"
	defaultLogDir             = "~/.local/share/rackscope/logs"
	defaultStoreFile          = "analyses.db"
	defaultTimeoutSeconds     = 30
	defaultMaxDecompressedMiB = 512
	maxWorkers                = 64
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Analysis: Analysis{
			TimeoutSeconds:     defaultTimeoutSeconds,
			Workers:            defaultWorkers(),
			MaxDecompressedMiB: defaultMaxDecompressedMiB,
			Normalize:          true,
		},
		Store: Store{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func defaultWorkers() int {
	n := runtime.NumCPU()
	if n > maxWorkers {
		return maxWorkers
	}
	if n < 1 {
		return 1
	}
	return n
}

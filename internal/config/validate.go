package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	if err := ensurePositiveMap(map[string]int{
		"analysis.timeout_seconds":      c.Analysis.TimeoutSeconds,
		"analysis.workers":              c.Analysis.Workers,
		"analysis.max_decompressed_mib": c.Analysis.MaxDecompressedMiB,
	}); err != nil {
		return err
	}
	if c.Analysis.Workers > maxWorkers {
		return fmt.Errorf("analysis.workers must be at most %d", maxWorkers)
	}
	if c.Analysis.MaxDecompressedMiB > 4096 {
		return errors.New("analysis.max_decompressed_mib must be at most 4096")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}

// Package config loads, normalizes, and validates rackscope configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours environment fallbacks such as RACKSCOPE_DATA_DIR and
// RACKSCOPE_LOG_LEVEL. Obtain settings through Load so callers receive
// absolute paths, canonical log formats, and clear validation errors.
package config

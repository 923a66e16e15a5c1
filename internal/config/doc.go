// Package config loads, normalizes, and validates Skymark configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files resolved from an explicit path,
// ~/.config/skymark/config.toml, or ./skymark.toml. A missing file is not an
// error: the defaults are complete enough to run against any directory pair.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical extension lists, and clear validation errors.
package config

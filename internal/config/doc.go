// Package config loads, normalizes, and validates dupescan configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SSDEEP_BINARY. The Config type centralizes every knob the scanner and CLI
// need, so worker counts, digest selection, similarity thresholds and
// categorization rules are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config

// Package config loads, normalizes, and validates subweave configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// HF_TOKEN. Always obtain settings through this package so downstream code
// receives sanitized paths, canonical request values, and clear validation
// errors.
package config

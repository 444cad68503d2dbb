// Package config loads, normalizes, and validates samecast configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the TMDB_API_KEY environment
// fallback. The Config type centralizes every knob the server and CLI need so
// the database location, upstream credentials, and log settings are
// discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config

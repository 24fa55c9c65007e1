// Package config loads, normalizes, and validates centerview configuration.
//
// Configuration lives in a TOML file resolved from an explicit --config flag,
// ~/.config/centerview/config.toml, or a project-local centerview.toml, in
// that order. Missing files fall back to repository defaults so the tool works
// out of the box against any review root passed on the command line.
package config

// Package file provides TOML-based configuration persistence.
//
// Configuration lives at ~/.retrace/config.toml by default. Missing
// files and missing fields fall back to defaults, so a fresh install
// works without any configuration step.
package file

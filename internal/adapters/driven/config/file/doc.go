// Package file provides the TOML-backed ConfigStore with optional hot
// reload via fsnotify.
package file

package config

import (
	"path/filepath"
)

// ProjectConfigPath returns the path to the project-level YAML config file.
// This is always .blurbs.yml relative to the current directory.
func ProjectConfigPath() string {
	return ".blurbs.yml"
}

// ProjectJSONConfigPath returns the path to the project-level JSON config file.
// It is only read when no YAML config exists.
func ProjectJSONConfigPath() string {
	return ".blurbs.json"
}

// isJSON reports whether a config path should be parsed as JSON.
func isJSON(path string) bool {
	return filepath.Ext(path) == ".json"
}

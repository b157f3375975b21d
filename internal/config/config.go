// Package config provides layered configuration for blurbs using koanf.
// Configuration is loaded with priority: environment variables (BLURBS_*) >
// project config (.blurbs.yml, or .blurbs.json when no YAML exists) > defaults.
// Command-line flags are applied on top by the cli package.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix is stripped from environment variables before they become keys.
const envPrefix = "BLURBS_"

// Configuration represents the blurbs tool configuration
type Configuration struct {
	// Version is the label of the release being generated.
	// Can be set via BLURBS_VERSION env var.
	Version string `koanf:"version" yaml:"version"`
	// PreviousVersion is the release the notes are relative to. With the git
	// shortlog it also names the tag history is counted from.
	PreviousVersion string `koanf:"previous_version" yaml:"previous_version"`

	InputDir    string `koanf:"input_dir" yaml:"input_dir"`
	OutputDir   string `koanf:"output_dir" yaml:"output_dir"`
	TemplateDir string `koanf:"template_dir" yaml:"template_dir"` // Empty uses the embedded templates

	// Shortlog selects the contributor summary source: blurbs, git or none.
	Shortlog string `koanf:"shortlog" yaml:"shortlog"`
	RepoDir  string `koanf:"repo_dir" yaml:"repo_dir"`

	LogLevel string `koanf:"log_level" yaml:"log_level"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ConfigPath overrides the project config path (default: .blurbs.yml, then .blurbs.json).
	// An explicit path must exist.
	ConfigPath string
	// WarningWriter receives warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses warnings
	SkipWarnings bool
}

// Load reads the layered configuration. configPath, when non-empty,
// replaces the .blurbs.yml/.blurbs.json lookup and must exist.
func Load(configPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ConfigPath: configPath})
}

// LoadWithOptions reads defaults, the project config and BLURBS_* variables,
// in that order, and validates the merged result.
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}

	path, err := projectConfig(opts)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := loadFile(k, path); err != nil {
			return nil, err
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading %s* environment: %w", envPrefix, err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	source := path
	if source == "" {
		source = "config"
	}
	if err := ValidateConfigValues(&cfg, source); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// projectConfig picks the config file to read, or "" for none. When both
// .blurbs.yml and .blurbs.json exist the YAML file wins with a warning.
func projectConfig(opts LoadOptions) (string, error) {
	if opts.ConfigPath != "" {
		if !fileExists(opts.ConfigPath) {
			return "", fmt.Errorf("config file %s does not exist", opts.ConfigPath)
		}
		return opts.ConfigPath, nil
	}

	yamlPath, jsonPath := ProjectConfigPath(), ProjectJSONConfigPath()
	switch {
	case fileExists(yamlPath):
		if fileExists(jsonPath) && !opts.SkipWarnings {
			w := opts.WarningWriter
			if w == nil {
				w = os.Stderr
			}
			fmt.Fprintf(w, "Warning: both %s and %s found (using %s)\n\n", yamlPath, jsonPath, yamlPath)
		}
		return yamlPath, nil
	case fileExists(jsonPath):
		return jsonPath, nil
	}
	return "", nil
}

// loadFile merges a YAML or JSON config file into k.
func loadFile(k *koanf.Koanf, path string) error {
	parser := koanf.Parser(yaml.Parser())
	if isJSON(path) {
		parser = json.Parser()
	} else if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for config: %w", err)
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return fmt.Errorf("loading config %s: %w", path, err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// envKey maps BLURBS_PREVIOUS_VERSION to previous_version.
func envKey(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, envPrefix))
}

package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// ValidShortlogSources lists accepted values for the shortlog key.
// Kept in step with shortlog.ValidSources.
var ValidShortlogSources = []string{"blurbs", "git", "none"}

// ValidationError is a config problem, located either by line (syntax) or
// by field (values).
type ValidationError struct {
	FilePath string
	Line     int
	Column   int
	Message  string
	Field    string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line, e.Column, e.Message)
	case e.Field != "":
		return fmt.Sprintf("%s: field '%s': %s", e.FilePath, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// ValidateYAMLSyntax checks that the config file at filePath parses as YAML.
// A missing file is not an error.
func ValidateYAMLSyntax(filePath string) error {
	data, err := os.ReadFile(filePath)
	switch {
	case os.IsNotExist(err):
		return nil
	case err != nil:
		return &ValidationError{FilePath: filePath, Message: err.Error()}
	}
	return ValidateYAMLSyntaxFromBytes(data, filePath)
}

// ValidateYAMLSyntaxFromBytes checks that data parses as YAML, reporting the
// line and column of the first syntax error. Empty input is valid.
func ValidateYAMLSyntaxFromBytes(data []byte, filePath string) error {
	if strings.TrimSpace(string(data)) == "" {
		return nil
	}

	var node yaml.Node
	err := yaml.Unmarshal(data, &node)
	if err == nil {
		return nil
	}

	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) {
		return &ValidationError{FilePath: filePath, Message: strings.Join(typeErr.Errors, "; ")}
	}

	line, column, msg := splitYAMLError(err.Error())
	return &ValidationError{FilePath: filePath, Line: line, Column: column, Message: msg}
}

// ValidateConfigValues checks a merged configuration. filePath names the
// layer being validated in error messages.
func ValidateConfigValues(cfg *Configuration, filePath string) error {
	for _, r := range []struct {
		field string
		value string
	}{
		{"version", cfg.Version},
		{"previous_version", cfg.PreviousVersion},
		{"input_dir", cfg.InputDir},
		{"output_dir", cfg.OutputDir},
	} {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{FilePath: filePath, Field: r.field, Message: "is required"}
		}
	}

	if !slices.Contains(ValidShortlogSources, cfg.Shortlog) {
		return &ValidationError{
			FilePath: filePath,
			Field:    "shortlog",
			Message:  fmt.Sprintf("must be one of %s (got %q)", strings.Join(ValidShortlogSources, ", "), cfg.Shortlog),
		}
	}
	if cfg.Shortlog == "git" && strings.TrimSpace(cfg.RepoDir) == "" {
		return &ValidationError{FilePath: filePath, Field: "repo_dir", Message: "is required when shortlog is git"}
	}

	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return &ValidationError{FilePath: filePath, Field: "log_level", Message: fmt.Sprintf("unknown level %q", cfg.LogLevel)}
	}
	return nil
}

// yamlErrPattern matches yaml.v3 syntax errors such as
// "yaml: line 5: could not find expected ':'".
var yamlErrPattern = regexp.MustCompile(`^yaml: line (\d+)(?:: column (\d+))?: (.*)$`)

// splitYAMLError extracts the position and the bare message from a yaml.v3
// error string. Unknown formats are returned unchanged at line 0.
func splitYAMLError(msg string) (line, column int, text string) {
	m := yamlErrPattern.FindStringSubmatch(msg)
	if m == nil {
		return 0, 0, msg
	}
	line, _ = strconv.Atoi(m[1])
	column = 1
	if m[2] != "" {
		column, _ = strconv.Atoi(m[2])
	}
	return line, column, m[3]
}

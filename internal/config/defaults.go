package config

// GetDefaultConfigTemplate returns a fully commented project config template
func GetDefaultConfigTemplate() string {
	return `# blurbs configuration
# Values here are overridden by BLURBS_* environment variables and command-line flags.

version: "` + DefaultVersion + `"                    # Version being released
previous_version: "` + DefaultPreviousVersion + `"           # Version the notes are relative to

input_dir: samples                    # Directory of blurb files (not searched recursively)
output_dir: .                         # Where RELEASE.txt and CHANGES.txt are written
template_dir: ""                      # Directory with RELEASE.txt.tmpl / CHANGES.txt.tmpl overrides

shortlog: blurbs                      # Contributor summary source: blurbs | git | none
repo_dir: .                           # Repository used when shortlog is git

log_level: ""                         # trace | debug | info | warn | error; empty uses LOG_LEVEL, then info
`
}

// Default release labels used when neither config nor flags provide one.
const (
	DefaultVersion         = "1.0.0"
	DefaultPreviousVersion = "0.9.0"
)

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"version":          DefaultVersion,
		"previous_version": DefaultPreviousVersion,
		// input_dir: blurb files live in a flat directory; subdirectories are ignored.
		"input_dir":    "samples",
		"output_dir":   ".",
		"template_dir": "",
		// shortlog: "blurbs" keeps output a pure function of the input directory,
		// which the reproducible build relies on. "git" reads history instead.
		"shortlog": "blurbs",
		"repo_dir": ".",
		// log_level: empty defers to LOG_LEVEL and DEBUG in the logging package.
		"log_level": "",
	}
}

// Package cli implements the blurbs command line: generate (the default
// action), check, watch, config and version.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/ariel-frischer/blurbs/internal/config"
	clierrors "github.com/ariel-frischer/blurbs/internal/errors"
	"github.com/ariel-frischer/blurbs/internal/logging"
	"github.com/ariel-frischer/blurbs/internal/release"
	"github.com/ariel-frischer/blurbs/internal/render"
	"github.com/ariel-frischer/blurbs/internal/shortlog"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Command groups shown in help output.
const (
	GroupRelease  = "release"
	GroupInternal = "internal"
)

var rootCmd = &cobra.Command{
	Use:   "blurbs",
	Short: "Build release notes and a changelog from blurb files",
	Long: `blurbs reads a directory of blurb files (one small YAML note per pull
request) and writes two documents:

  RELEASE.txt  changes grouped by category, every category listed
  CHANGES.txt  changes grouped by contributor, ordered by surname

Any malformed blurb stops the run before either file is written.

Running blurbs without a subcommand is the same as 'blurbs generate'.`,
	Example: `  # Generate from ./samples into the current directory
  blurbs

  # Generate the 2.1.0 notes
  blurbs --release 2.1.0 --previous 2.0.0 --input blurbs/ --output dist/

  # Reproducible output
  SOURCE_DATE_EPOCH=1700000000 blurbs`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd)
	},
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupRelease, Title: "Release Commands:"},
		&cobra.Group{ID: GroupInternal, Title: "Other Commands:"},
	)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default .blurbs.yml, then .blurbs.json)")
	pf.String("log-level", "", "Log level: trace | debug | info | warn | error")
	pf.BoolP("quiet", "q", false, "Only log warnings and errors (shows a spinner on a terminal)")

	addReleaseFlags(rootCmd)

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine(),
			fmt.Sprintf("Run '%s --help' to see valid flags", cmd.CommandPath()))
	})
}

// Execute runs the root command and prints any error in the structured
// CLI error format.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		switch cliErr.Category {
		case clierrors.Argument, clierrors.Configuration:
			return ExitInvalidArguments
		}
	}
	return ExitValidationFailed
}

func printError(w io.Writer, err error) {
	cliErr := clierrors.AsCLIError(err)
	if cliErr == nil {
		cliErr = clierrors.FromBlurbError(err)
	}
	clierrors.FprintError(w, cliErr)
}

// addReleaseFlags registers the flags shared by generate, check and watch.
// Flags left unset fall through to config, env and defaults.
func addReleaseFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("release", "r", "", fmt.Sprintf("Version being released (default %s)", config.DefaultVersion))
	f.StringP("previous", "p", "", fmt.Sprintf("Previous version (default %s)", config.DefaultPreviousVersion))
	f.StringP("input", "i", "", "Directory of blurb files (default samples)")
	f.StringP("output", "o", "", "Directory for RELEASE.txt and CHANGES.txt (default .)")
	f.StringP("templates", "t", "", "Directory with template overrides")
	f.String("shortlog", "", "Contributor summary source: blurbs | git | none")
	f.String("repo", "", "Repository for the git shortlog (default .)")
}

// flagKeys maps release flags to config keys.
var flagKeys = []struct {
	flag  string
	apply func(*config.Configuration, string)
}{
	{"release", func(c *config.Configuration, v string) { c.Version = v }},
	{"previous", func(c *config.Configuration, v string) { c.PreviousVersion = v }},
	{"input", func(c *config.Configuration, v string) { c.InputDir = v }},
	{"output", func(c *config.Configuration, v string) { c.OutputDir = v }},
	{"templates", func(c *config.Configuration, v string) { c.TemplateDir = v }},
	{"shortlog", func(c *config.Configuration, v string) { c.Shortlog = v }},
	{"repo", func(c *config.Configuration, v string) { c.RepoDir = v }},
	{"log-level", func(c *config.Configuration, v string) { c.LogLevel = v }},
}

// loadSettings loads configuration and applies explicitly set flags on top.
func loadSettings(cmd *cobra.Command) (*config.Configuration, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ConfigPath:    configPath,
		WarningWriter: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, clierrors.InvalidConfig(err)
	}

	for _, fk := range flagKeys {
		fl := cmd.Flags().Lookup(fk.flag)
		if fl == nil || !fl.Changed {
			continue
		}
		if fk.flag == "shortlog" && !slices.Contains(shortlog.ValidSources(), fl.Value.String()) {
			return nil, clierrors.InvalidFlagValue(fk.flag, fl.Value.String(), shortlog.ValidSources())
		}
		fk.apply(cfg, fl.Value.String())
	}

	if err := config.ValidateConfigValues(cfg, "flags"); err != nil {
		return nil, clierrors.InvalidConfig(err)
	}
	return cfg, nil
}

// withLogger builds the diagnostic logger for cfg and stores it in the
// command context.
func withLogger(cmd *cobra.Command, cfg *config.Configuration) (context.Context, *zerolog.Logger) {
	level := cfg.LogLevel
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		level = zerolog.WarnLevel.String()
	}
	log := logging.New(logging.Options{Out: cmd.ErrOrStderr(), Level: level})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logging.WithLogger(ctx, &log), &log
}

// releaseOptions builds pipeline options from cfg. The input filesystem is
// rooted at the parent of the input directory so diagnostics name files as
// <input dir>/<file>.
func releaseOptions(cfg *config.Configuration) (release.Options, error) {
	if info, err := os.Stat(cfg.InputDir); err != nil || !info.IsDir() {
		return release.Options{}, clierrors.MissingInputDir(cfg.InputDir)
	}

	inputAbs, err := filepath.Abs(cfg.InputDir)
	if err != nil {
		return release.Options{}, fmt.Errorf("resolving input directory: %w", err)
	}
	outputAbs, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return release.Options{}, fmt.Errorf("resolving output directory: %w", err)
	}

	var renderer render.Renderer = render.NewTemplateRenderer(nil)
	if cfg.TemplateDir != "" {
		if info, err := os.Stat(cfg.TemplateDir); err != nil || !info.IsDir() {
			return release.Options{}, clierrors.NewArgumentError(
				fmt.Sprintf("template directory not found: %s", cfg.TemplateDir),
				"Point --templates at a directory containing RELEASE.txt.tmpl and/or CHANGES.txt.tmpl",
			)
		}
		renderer = render.NewTemplateRenderer(os.DirFS(cfg.TemplateDir))
	}

	return release.Options{
		Input:           osfs.New(filepath.Dir(inputAbs)),
		InputDir:        filepath.Base(inputAbs),
		Output:          osfs.New(outputAbs),
		OutputDir:       ".",
		Renderer:        renderer,
		Version:         cfg.Version,
		PreviousVersion: cfg.PreviousVersion,
		Shortlog:        shortlog.Source(cfg.Shortlog),
		RepoDir:         cfg.RepoDir,
	}, nil
}

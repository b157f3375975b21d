package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/ariel-frischer/blurbs/internal/config"
	clierrors "github.com/ariel-frischer/blurbs/internal/errors"
	"github.com/ariel-frischer/blurbs/internal/progress"
	"github.com/ariel-frischer/blurbs/internal/release"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen"},
	Short:   "Write RELEASE.txt and CHANGES.txt from the blurb directory",
	Long: `Load every blurb file in the input directory, validate it, and write the
release notes (RELEASE.txt) and the contributor changelog (CHANGES.txt).

Both files are rendered completely before either is written. If any blurb is
malformed nothing is written and the command exits with status 1.

The changelog date comes from SOURCE_DATE_EPOCH when set, so two runs over
the same blurbs produce identical files.`,
	Example: `  blurbs generate
  blurbs generate -r 2.1.0 -p 2.0.0 -i blurbs -o dist
  blurbs generate --shortlog git --repo .
  blurbs generate --templates ./my-templates`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd)
	},
}

func init() {
	generateCmd.GroupID = GroupRelease
	rootCmd.AddCommand(generateCmd)
	addReleaseFlags(generateCmd)
}

func runGenerate(cmd *cobra.Command) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	ctx, _ := withLogger(cmd, cfg)

	opts, err := releaseOptions(cfg)
	if err != nil {
		return err
	}

	spin := newSpinner(cmd, "Generating release documents...")
	spin.Start()
	res, err := release.Run(ctx, opts)
	spin.Stop()
	if err != nil {
		return clierrors.FromBlurbError(err)
	}

	printGenerated(cmd.OutOrStdout(), cfg, res)
	return nil
}

// newSpinner returns a spinner that only animates in quiet mode on a
// terminal; otherwise the log stream already shows progress.
func newSpinner(cmd *cobra.Command, message string) *progress.Spinner {
	caps := progress.TerminalCapabilities{}
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		caps = progress.DetectTerminalCapabilities()
	}
	return progress.NewSpinner(cmd.ErrOrStderr(), message, caps)
}

func printGenerated(w io.Writer, cfg *config.Configuration, res *release.Result) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	symbols := progress.SelectSymbols(progress.DetectTerminalCapabilities())

	for _, p := range res.Written {
		fmt.Fprintf(w, "%s Wrote %s\n", green(symbols.Checkmark), cyan(filepath.Join(cfg.OutputDir, p)))
	}
	fmt.Fprintf(w, "  %d changes from %d blurbs by %d contributors (%s since %s)\n",
		res.State.ChangeCount(), res.State.DocumentCount(), len(res.Changelog.Authors),
		cfg.Version, cfg.PreviousVersion)
}

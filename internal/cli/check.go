package cli

import (
	"fmt"
	"io"

	clierrors "github.com/ariel-frischer/blurbs/internal/errors"
	"github.com/ariel-frischer/blurbs/internal/progress"
	"github.com/ariel-frischer/blurbs/internal/release"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the blurb directory without writing anything",
	Long: `Run the full pipeline (load, validate, aggregate, order, render) and report
the result, without writing RELEASE.txt or CHANGES.txt.

Useful as a CI step on pull requests that add blurbs.`,
	Example: `  blurbs check
  blurbs check -i blurbs -q`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd)
	},
}

func init() {
	checkCmd.GroupID = GroupRelease
	rootCmd.AddCommand(checkCmd)
	addReleaseFlags(checkCmd)
}

func runCheck(cmd *cobra.Command) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	ctx, _ := withLogger(cmd, cfg)

	opts, err := releaseOptions(cfg)
	if err != nil {
		return err
	}

	spin := newSpinner(cmd, "Checking blurbs...")
	spin.Start()
	res, err := release.Check(ctx, opts)
	spin.Stop()
	if err != nil {
		return clierrors.FromBlurbError(err)
	}

	printCheckSummary(cmd.OutOrStdout(), res)
	return nil
}

// printCheckSummary lists every category with its change count, then the
// contributors in changelog order.
func printCheckSummary(w io.Writer, res *release.Result) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	symbols := progress.SelectSymbols(progress.DetectTerminalCapabilities())

	fmt.Fprintf(w, "%s %d blurbs valid (%d changes)\n\n", green(symbols.Checkmark),
		res.State.DocumentCount(), res.State.ChangeCount())

	for _, s := range res.Release.Sections {
		line := fmt.Sprintf("  %-20s %3d", s.Label, len(s.Changes))
		if s.Empty() {
			line = dim(line)
		}
		fmt.Fprintln(w, line)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Contributors:")
	for _, a := range res.Changelog.Authors {
		fmt.Fprintf(w, "  %s (%d)\n", a.Author, len(a.Changes()))
	}
}

package cli

import (
	"fmt"
	"runtime"

	"github.com/ariel-frischer/blurbs/internal/build"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var versionPlain bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Long:  "Display version, commit, build date, and Go version information for blurbs",
	Example: `  blurbs version
  blurbs version --plain`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if versionPlain {
			fmt.Fprintf(out, "blurbs %s\n", build.Version)
			fmt.Fprintf(out, "commit: %s\n", build.Commit)
			fmt.Fprintf(out, "built: %s\n", build.BuildDate)
			fmt.Fprintf(out, "go: %s\n", runtime.Version())
			fmt.Fprintf(out, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
			return
		}

		yellow := color.New(color.FgYellow).SprintFunc()
		white := color.New(color.FgWhite, color.Bold).SprintFunc()
		for _, item := range []struct{ label, value string }{
			{"Version", versionLabel()},
			{"Commit", build.ShortCommit()},
			{"Built", build.BuildDate},
			{"Go", runtime.Version()},
			{"Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)},
		} {
			fmt.Fprintf(out, "%s  %s\n", yellow(fmt.Sprintf("%10s", item.label)), white(item.value))
		}
	},
}

func versionLabel() string {
	if build.IsDevBuild() {
		return build.Version + " (development build)"
	}
	return build.Version
}

func init() {
	versionCmd.GroupID = GroupInternal
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&versionPlain, "plain", false, "Plain output without formatting")
}

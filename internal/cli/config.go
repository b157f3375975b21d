package cli

import (
	"fmt"
	"os"

	"github.com/ariel-frischer/blurbs/internal/config"
	clierrors "github.com/ariel-frischer/blurbs/internal/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the blurbs configuration",
	Long: `Commands for working with blurbs configuration.

Configuration precedence (highest to lowest):
  1. Command-line flags
  2. Environment variables (BLURBS_*)
  3. Project config (.blurbs.yml, or .blurbs.json)
  4. Built-in defaults`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented .blurbs.yml in the current directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ProjectConfigPath()
		if _, err := os.Stat(path); err == nil && !configInitForce {
			return clierrors.NewArgumentError(
				fmt.Sprintf("%s already exists", path),
				"Use --force to overwrite it",
			)
		}
		if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		green := color.New(color.FgGreen, color.Bold).SprintFunc()
		fmt.Fprintf(cmd.OutOrStdout(), "%s Created %s\n", green("✓"), path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	configCmd.GroupID = GroupInternal
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd)

	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "Overwrite an existing config file")
	addReleaseFlags(configShowCmd)
}

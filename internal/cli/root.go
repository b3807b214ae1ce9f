package cli

import (
	"fmt"
	"os"
	"reporeview/internal/config"
	"reporeview/internal/flags"
	"reporeview/internal/logger"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var cfg = config.New()

var rootCmd = &cobra.Command{
	Use:   "reporeview",
	Short: "Review repositories against a set of best-practice checks",
	Long: `reporeview runs a set of checks against local or GitHub repositories and
reports which pass, fail or were skipped.

Checks come in families (general, gomod, pyproject, github). A repository can
select or ignore checks in the [tool.repo-review] table of its pyproject.toml
or in a .repo-review.yaml file.

Examples:
	# Review the current directory
	reporeview check .

	# Review a GitHub repository at a branch, in a subdirectory
	reporeview check gh:org/repo@main:python

	# List every check
	reporeview checks list

	# Print the settings schema
	reporeview schema

Output:
	By default, commands write human-readable output to stdout.
	The check command supports structured output (see "reporeview check --help").`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cfg.Output.NoColor {
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.Verbose, flags.FlagVerbose, false, "Enable debug logging (prints every GitHub API call and full error details)")
	rootCmd.PersistentFlags().BoolVar(&cfg.Output.NoColor, flags.FlagNoColor, false, "Disable colored output")
}

func logOptions() logger.Options {
	return logger.Options{Verbose: cfg.Runtime.Verbose, NoColor: cfg.Output.NoColor}
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

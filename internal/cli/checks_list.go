package cli

import (
	"context"
	"fmt"
	"io"
	"reporeview/internal/checks"
	"reporeview/internal/engine"
	"reporeview/internal/logger"
	"reporeview/internal/tree"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var checksListQuiet bool

var checksCmd = &cobra.Command{
	Use:   "checks",
	Short: "List and describe checks",
	Long: `Discover which checks exist and what each one verifies.

Checks are evaluated during a review (see "reporeview check --help").

Examples:
  # List all available checks
  reporeview checks list

  # List the checks a repository would get, with its family descriptions
  reporeview checks list ./my-repo
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var checksListCmd = &cobra.Command{
	Use:   "list [target]",
	Short: "List available checks",
	Long: `List every check registered in this build, grouped by family.

Without a target, checks are collected against an empty repository. Some
providers compute their checks or family descriptions from the repository,
so pass a target to see exactly what a review of it would run.

Examples:
  reporeview checks list
  reporeview checks list -q
  reporeview checks list gh:org/repo
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := ""
		if len(args) == 1 {
			target = args[0]
		}
		col, err := collectFor(cmd.Context(), target)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if checksListQuiet {
			for _, name := range col.Names {
				fmt.Fprintln(w, name)
			}
			return nil
		}
		printChecks(w, col)
		return nil
	},
}

var checksShowCmd = &cobra.Command{
	Use:   "show [check]",
	Short: "Show details of a specific check",
	Long: `Show details of a specific check by its name.

Examples:
  reporeview checks show PP302
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		col, err := collectFor(cmd.Context(), "")
		if err != nil {
			return err
		}
		name := strings.TrimSpace(args[0])
		c, ok := col.Checks[name]
		if !ok {
			return fmt.Errorf("check not found: %s", name)
		}
		printCheck(cmd.OutOrStdout(), name, c, col.Families[c.Family()])
		return nil
	},
}

// collectFor collects checks for target, or for an empty repository when
// target is "".
func collectFor(ctx context.Context, target string) (*engine.Collection, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.New(rootCmd.ErrOrStderr(), logOptions())

	root := tree.Empty
	if target != "" {
		t, err := engine.ParseTarget(target)
		if err != nil {
			return nil, err
		}
		client, err := clientFor(ctx, []string{target}, log)
		if err != nil {
			return nil, err
		}
		if root, err = t.Open(ctx, client); err != nil {
			return nil, err
		}
	}
	return engine.CollectAll(root, root, engine.DefaultManifest(), log)
}

func printChecks(w io.Writer, col *engine.Collection) {
	bold := color.New(color.Bold)
	current := ""
	for i, name := range col.Names {
		c := col.Checks[name]
		if i == 0 || c.Family() != current {
			if i > 0 {
				fmt.Fprintln(w)
			}
			current = c.Family()
			fam := col.Families[current]
			bold.Fprintln(w, fam.DisplayName(current))
			if fam.Description != "" {
				fmt.Fprintln(w, fam.Description)
			}
		}
		fmt.Fprintf(w, "  %-6s %s\n", name, c.Description(name))
	}
}

func printCheck(w io.Writer, name string, c checks.Check, fam checks.Family) {
	bold := color.New(color.Bold)
	fmt.Fprintln(w, "----------------------------------------")
	bold.Fprintf(w, "CHECK: %s\n", name)
	fmt.Fprintln(w, "----------------------------------------")
	fmt.Fprintln(w, c.Description(name))
	fmt.Fprintf(w, "Family:   %s\n", fam.DisplayName(c.Family()))
	if req := checks.RequiresOf(c); len(req) > 0 {
		fmt.Fprintf(w, "Requires: %s\n", strings.Join(req, ", "))
	}
	if url := checks.URLOf(c, name); url != "" {
		fmt.Fprintf(w, "URL:      %s\n", url)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "On failure:")
	for _, line := range strings.Split(strings.TrimSpace(checks.ExplainOf(c, name)), "\n") {
		fmt.Fprintf(w, "  %s\n", line)
	}
}

func init() {
	rootCmd.AddCommand(checksCmd)
	checksCmd.AddCommand(checksListCmd)
	checksListCmd.Flags().BoolVarP(&checksListQuiet, "quiet", "q", false, "Only print check names")
	checksCmd.AddCommand(checksShowCmd)
}

package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reporeview/internal/config"
	"reporeview/internal/engine"
	"reporeview/internal/flags"
	gh "reporeview/internal/github"
	"reporeview/internal/logger"

	"github.com/spf13/cobra"
)

// exit is replaced in tests.
var exit = os.Exit

const checkHelpTemplate = `{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces}}

{{end}}Usage:
  {{.UseLine}}

{{if .HasAvailableLocalFlags}}Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableInheritedFlags}}Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}Environment:
	GitHub targets are read through the GitHub API. Public repositories work
	without a token, subject to a low rate limit.

	Token sources (in order):
	1) GITHUB_TOKEN environment variable
	2) GH_TOKEN environment variable
	3) GitHub CLI (gh) authentication via gh auth token (if gh is installed and logged in)

  Examples:
    # macOS/Linux
    export GITHUB_TOKEN="<your_token>"
    reporeview check gh:org/repo

    # GitHub CLI auth
    gh auth login
    reporeview check gh:org/repo

{{if .HasAvailableSubCommands}}Available Commands:
{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}{{if .HasHelpSubCommands}}Additional help topics:
{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.
{{end}}`

var checkCmd = &cobra.Command{
	Use:   "check [targets...]",
	Short: "Run the checks against one or more repositories",
	Long: `Run every check against each target and report the results.

Targets:
	- a local directory (for example ".")
	- gh:owner/repo[@ref][:path]
	- https://github.com/owner/repo[/tree/ref[/path]]

Selection:
	--select and --ignore replace the lists a repository configures in its
	[tool.repo-review] table; --extend-select and --extend-ignore add to them.
	Names match exactly, or by family prefix once trailing digits are removed
	(PP matches PP302). Every check still runs: selection only decides which
	results are shown, so requirements between checks keep working.

Output:
	Console output is controlled by --format (default: text).
	- --out / --out-format: also write json, ndjson, html or markdown to a file
	- --no-console: suppress console output (use with --out)

	NDJSON mode emits one JSON object per line. Objects are lifecycle Events with a
	"type" field (run.started, target.started, check.result, target.finished,
	target.failed, run.finished).

Exit codes:
	0 = every reported check passed or was skipped
	1 = failing checks
	2 = partial failure (a target errored or no checks were collected)
	3 = fatal error (nothing was reviewed)

Examples:
	reporeview check .
	reporeview check . --select PP --extend-ignore PP302
	reporeview check gh:org/repo@main --format json
	reporeview check ./a ./b --no-console --out review.md
`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 && cmd.Flags().NFlag() == 0 {
			_ = cmd.Help()
			return
		}
		cfg.Targets.Paths = args
		exit(runCheck(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr()))
	},
}

func runCheck(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) int {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 3
	}

	log := logger.New(stderr, logOptions())

	client, err := clientFor(ctx, cfg.Targets.Paths, log)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 3
	}

	eng := engine.NewEngine(client, engine.DefaultManifest(), log)
	eng.Stdout = stdout
	eng.Stderr = stderr
	return eng.Run(ctx, cfg)
}

// clientFor returns a GitHub client when any target is remote, nil otherwise.
// A missing token is not an error: public repositories can be read
// anonymously.
func clientFor(ctx context.Context, targets []string, log *slog.Logger) (*gh.Client, error) {
	remote := false
	for _, raw := range targets {
		if t, err := engine.ParseTarget(raw); err == nil && t.Remote() {
			remote = true
			break
		}
	}
	if !remote {
		return nil, nil
	}

	token, source, err := gh.ResolveAuthToken(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve GitHub auth token: %w", err)
	}
	if token == "" {
		log.Warn("no GitHub token found; reading anonymously (set GITHUB_TOKEN or run 'gh auth login')")
	} else {
		log.Debug("using GitHub token", "source", string(source))
	}

	client, err := gh.NewClient(ctx, token, gh.WithLogger(log), gh.WithRateLimit(gh.NewRateLimit()))
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}
	return client, nil
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.SetHelpTemplate(checkHelpTemplate)

	// Targets
	checkCmd.Flags().StringVar(&cfg.Targets.PackageDir, flags.FlagPackageDir, "", "Package directory inside each target, relative to its root")

	// Checks
	checkCmd.Flags().StringSliceVar(&cfg.Checks.Select, flags.FlagSelect, nil, "Checks or families to show, replacing the repository's select list (comma-separated accepted)")
	checkCmd.Flags().StringSliceVar(&cfg.Checks.Ignore, flags.FlagIgnore, nil, "Checks or families to hide, replacing the repository's ignore list (comma-separated accepted)")
	checkCmd.Flags().StringSliceVar(&cfg.Checks.ExtendSelect, flags.FlagExtendSelect, nil, "Checks or families added to the select list (comma-separated accepted)")
	checkCmd.Flags().StringSliceVar(&cfg.Checks.ExtendIgnore, flags.FlagExtendIgnore, nil, "Checks or families added to the ignore list (comma-separated accepted)")

	// Output
	checkCmd.Flags().StringVar(&cfg.Output.Format, flags.FlagFormat, cfg.Output.Format, "Console output format: text|json|ndjson|html|markdown")
	checkCmd.Flags().StringSliceVar(&cfg.Output.FilterStatus, flags.FlagFilterStatus, nil, "Only show results with these statuses (PASS, FAIL, SKIPPED). Comma-separated.")
	checkCmd.Flags().StringVar(&cfg.Output.Out, flags.FlagOut, "", "Also write the results to this path")
	checkCmd.Flags().StringVar(&cfg.Output.OutFormat, flags.FlagOutFormat, "", "Format for --out: json|ndjson|html|markdown (default: inferred from file extension)")
	checkCmd.Flags().BoolVar(&cfg.Output.NoConsole, flags.FlagNoConsole, false, "Suppress console output (use with --out)")

	// Runtime
	checkCmd.Flags().IntVar(&cfg.Runtime.Concurrency, flags.FlagConcurrency, cfg.Runtime.Concurrency, "Number of GitHub targets opened concurrently")
	checkCmd.Flags().DurationVar(&cfg.Runtime.Timeout, flags.FlagTimeout, cfg.Runtime.Timeout, "Global timeout")
}

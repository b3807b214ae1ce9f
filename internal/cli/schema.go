package cli

import (
	"fmt"
	"reporeview/internal/settings"
	"strings"

	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema for repository settings",
	Long: `Print the JSON schema that the [tool.repo-review] table of pyproject.toml
and .repo-review.yaml files are validated against.

Examples:
  reporeview schema > repo-review.schema.json
`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(settings.SchemaJSON))
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

package flags

// Package flags defines canonical CLI flag names shared across the CLI and
// config validation messages.
// IMPORTANT: These are flag *names* without leading dashes.
// Example usage:
//
//	cmd.Flags().StringSliceVar(&cfg.Checks.Select, flags.FlagSelect, nil, "...")
//	arg := "--" + flags.FlagSelect
const (
	// Targets
	FlagPackageDir = "package-dir"

	// Checks
	FlagSelect       = "select"
	FlagIgnore       = "ignore"
	FlagExtendSelect = "extend-select"
	FlagExtendIgnore = "extend-ignore"

	// Output
	FlagFormat       = "format"
	FlagFilterStatus = "filter-status"
	FlagOut          = "out"
	FlagOutFormat    = "out-format"
	FlagNoConsole    = "no-console"
	FlagNoColor      = "no-color"

	// Runtime
	FlagConcurrency = "concurrency"
	FlagTimeout     = "timeout"
	FlagVerbose     = "verbose"
)

package config

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"
)

type Config struct {
	// MAINTAINER NOTE: flags for these fields are wired in internal/cli/check.go
	// using the names in internal/flags.
	Targets Targets
	Checks  Checks
	Output  Output
	Runtime Runtime
}

type Targets struct {
	// Paths are the repositories to review, in order: local directories,
	// gh:owner/repo[@ref][:path] or GitHub URLs (positional arguments).
	Paths []string

	// PackageDir is the package directory inside each target (see --package-dir).
	// Slash-separated and relative to the target root.
	PackageDir string
}

type Checks struct {
	// Select replaces the repository's select list when non-empty (see --select).
	Select []string

	// Ignore replaces the repository's ignore list when non-empty (see --ignore).
	Ignore []string

	// ExtendSelect is always added to the effective select list (see --extend-select).
	ExtendSelect []string

	// ExtendIgnore is always added to the effective ignore list (see --extend-ignore).
	ExtendIgnore []string
}

type Output struct {
	// Format controls the console output format (see --format).
	// Allowed values: text, json, ndjson, html, markdown.
	Format string

	// FilterStatus limits text console output to these statuses (see --filter-status).
	// Allowed values: PASS, FAIL, SKIPPED.
	FilterStatus []string

	// Out writes the results to this path as well (see --out).
	Out string

	// OutFormat selects the format for --out (see --out-format).
	// Allowed values: json, ndjson, html, markdown. If empty, it is inferred
	// from the --out file extension.
	OutFormat string

	// NoConsole suppresses the console sink (see --no-console).
	NoConsole bool

	// NoColor disables colored text output (see --no-color).
	NoColor bool
}

type Runtime struct {
	// Concurrency bounds how many remote targets are opened at once (see --concurrency).
	// Must be >= 1.
	Concurrency int

	// Timeout is the global timeout for the run (see --timeout).
	// Must be > 0.
	Timeout time.Duration

	// Verbose enables debug logging and full error details.
	Verbose bool
}

var (
	formats    = []string{"text", "json", "ndjson", "html", "markdown"}
	outFormats = []string{"json", "ndjson", "html", "markdown"}
	statuses   = []string{"PASS", "FAIL", "SKIPPED"}
)

func New() *Config {
	return &Config{
		Output: Output{
			Format: "text",
		},
		Runtime: Runtime{
			Concurrency: 4,
			Timeout:     10 * time.Minute,
		},
	}
}

func (c *Config) Validate() error {
	// Normalize comma-delimited list inputs.
	c.Checks.Select = splitCommaList(c.Checks.Select)
	c.Checks.Ignore = splitCommaList(c.Checks.Ignore)
	c.Checks.ExtendSelect = splitCommaList(c.Checks.ExtendSelect)
	c.Checks.ExtendIgnore = splitCommaList(c.Checks.ExtendIgnore)
	c.Output.FilterStatus = splitCommaList(c.Output.FilterStatus)

	// Targets validation
	var paths []string
	for _, p := range c.Targets.Paths {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	c.Targets.Paths = paths
	if len(c.Targets.Paths) == 0 {
		return errors.New("at least one target must be provided")
	}

	if c.Targets.PackageDir != "" {
		dir, err := normalizePackageDir(c.Targets.PackageDir)
		if err != nil {
			return err
		}
		c.Targets.PackageDir = dir
	}

	// Output validation
	c.Output.Format = normalizeEnumValue(c.Output.Format)
	if c.Output.Format == "" {
		return fmt.Errorf("--format must be one of: %s", strings.Join(formats, ", "))
	}
	if !contains(formats, c.Output.Format) {
		return fmt.Errorf("unsupported --format: %s (must be one of: %s)", c.Output.Format, strings.Join(formats, ", "))
	}

	for i, st := range c.Output.FilterStatus {
		st = strings.ToUpper(st)
		if st == "SKIP" {
			st = "SKIPPED"
		}
		if !contains(statuses, st) {
			return fmt.Errorf("unsupported --filter-status value: %s (must be one of: %s)", c.Output.FilterStatus[i], strings.Join(statuses, ", "))
		}
		c.Output.FilterStatus[i] = st
	}

	// Runtime validation
	if c.Runtime.Concurrency <= 0 {
		return errors.New("--concurrency must be >= 1")
	}
	if c.Runtime.Timeout <= 0 {
		return errors.New("--timeout must be > 0")
	}

	if c.Output.Out != "" {
		c.Output.OutFormat = normalizeEnumValue(c.Output.OutFormat)
		if c.Output.OutFormat == "" {
			format, err := InferOutFormat(c.Output.Out)
			if err != nil {
				return err
			}
			c.Output.OutFormat = format
		} else if !contains(outFormats, c.Output.OutFormat) {
			return fmt.Errorf("unsupported output format: %s (must be one of: %s)", c.Output.OutFormat, strings.Join(outFormats, ", "))
		}
	}

	return nil
}

// InferOutFormat picks the --out format from the file extension.
func InferOutFormat(p string) (string, error) {
	ext := strings.ToLower(filepath.Ext(p))
	switch ext {
	case ".json":
		return "json", nil
	case ".ndjson", ".jsonl":
		return "ndjson", nil
	case ".html", ".htm":
		return "html", nil
	case ".md", ".markdown":
		return "markdown", nil
	case "":
		return "", errors.New("cannot infer output format from file extension (missing extension); use --out-format")
	default:
		return "", fmt.Errorf("cannot infer output format from file extension %q; use --out-format", ext)
	}
}

func normalizePackageDir(raw string) (string, error) {
	p := strings.TrimSpace(filepath.ToSlash(raw))
	if strings.HasPrefix(p, "/") {
		return "", fmt.Errorf("invalid --package-dir %q: must be relative to the target", raw)
	}
	p = path.Clean(p)
	if p == ".." || strings.HasPrefix(p, "../") {
		return "", fmt.Errorf("invalid --package-dir %q: must stay inside the target", raw)
	}
	if p == "." {
		return "", nil
	}
	return p, nil
}

func normalizeEnumValue(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func splitCommaList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			p := strings.TrimSpace(part)
			if p == "" {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}

package output

import (
	"fmt"
	"io"
	"reporeview/internal/checks"
	"strings"
)

func statusIcon(s checks.Status) string {
	_, icon, _ := resultPresentation(s)
	return icon
}

// mdCell makes s safe inside a Markdown table cell.
func mdCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(strings.TrimSpace(s), "\n", "<br>")
}

// writeMarkdown renders a report: a summary table over all targets, then one
// section per target with a table per family and the failure details.
func writeMarkdown(w io.Writer, c *collector) error {
	var b strings.Builder
	b.WriteString("# Repo Review Report\n\n")

	totalFail := 0
	b.WriteString("| Target | Passed | Failed | Skipped |\n")
	b.WriteString("| --- | ---: | ---: | ---: |\n")
	for _, r := range c.reports {
		if r.Error != "" {
			fmt.Fprintf(&b, "| %s | - | - | - |\n", mdCell(r.Target))
			continue
		}
		pass, fail, skipped := r.counts()
		totalFail += fail
		fmt.Fprintf(&b, "| %s | %d | %d | %d |\n", mdCell(r.Target), pass, fail, skipped)
	}
	b.WriteString("\n")
	if c.haveExitCode {
		fmt.Fprintf(&b, "Exit code: %d\n\n", c.exitCode)
	}

	for _, r := range c.reports {
		fmt.Fprintf(&b, "## %s\n\n", r.Target)
		if r.Error != "" {
			fmt.Fprintf(&b, "**Error:** %s\n\n", r.Error)
			continue
		}
		if len(r.Results) == 0 {
			b.WriteString("No checks ran.\n\n")
			continue
		}
		for _, warning := range r.Warnings {
			fmt.Fprintf(&b, "> **Warning:** %s\n\n", warning)
		}

		var failures []checks.Result
		for _, g := range r.groups() {
			fmt.Fprintf(&b, "### %s\n\n", g.Name)
			if desc := strings.TrimSpace(r.Families[g.Key].Description); desc != "" {
				b.WriteString(desc + "\n\n")
			}
			b.WriteString("| | Name | Description |\n")
			b.WriteString("| --- | --- | --- |\n")
			for _, res := range g.Results {
				desc := mdCell(res.Description)
				if res.URL != "" {
					desc = fmt.Sprintf("[%s](%s)", desc, res.URL)
				}
				if res.SkipReason != "" {
					desc += fmt.Sprintf(" _(skipped: %s)_", mdCell(res.SkipReason))
				}
				fmt.Fprintf(&b, "| %s | %s | %s |\n", statusIcon(res.Status), res.Name, desc)
				if res.Status == checks.StatusFail {
					failures = append(failures, res)
				}
			}
			b.WriteString("\n")
		}

		if len(failures) > 0 {
			b.WriteString("### Failures\n\n")
			for _, res := range failures {
				fmt.Fprintf(&b, "#### %s: %s\n\n", res.Name, res.Description)
				b.WriteString(strings.TrimSpace(res.Message) + "\n\n")
			}
		}
	}

	if totalFail == 0 && len(c.reports) > 0 {
		b.WriteString("No failing checks.\n")
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}
	return flushIfPossible(w)
}

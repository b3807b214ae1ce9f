package output

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"reporeview/internal/checks"
	"strings"

	"github.com/yuin/goldmark"
)

var markdown = goldmark.New()

// mdAsHTML renders Markdown and strips the paragraph wrapping of a single
// paragraph.
func mdAsHTML(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	out := strings.TrimSpace(buf.String())
	if strings.Count(out, "<p>") == 1 {
		out = strings.TrimSuffix(strings.TrimPrefix(out, "<p>"), "</p>")
	}
	return strings.TrimSpace(out), nil
}

func resultPresentation(s checks.Status) (color, icon, label string) {
	switch s {
	case checks.StatusPass:
		return "green", "✅", "Passed"
	case checks.StatusFail:
		return "red", "❌", "Failed"
	default:
		return "orange", "⚠️", "Skipped"
	}
}

func writeHTMLTarget(b *strings.Builder, r *targetReport) error {
	if r.Error != "" {
		fmt.Fprintf(b, "<span style=\"color: red;\">Error: %s</span>\n", html.EscapeString(r.Error))
		return nil
	}
	for _, g := range r.groups() {
		fmt.Fprintf(b, "<h2>%s</h2>\n", html.EscapeString(g.Name))
		if desc := r.Families[g.Key].Description; desc != "" {
			rendered, err := mdAsHTML(desc)
			if err != nil {
				return err
			}
			fmt.Fprintf(b, "<p>%s</p>\n", rendered)
		}
		b.WriteString("<table>\n")
		b.WriteString("<tr><th>?</th><th>Name</th><th>Description</th></tr>\n")
		for _, res := range g.Results {
			color, icon, label := resultPresentation(res.Status)
			description := html.EscapeString(res.Description)
			if res.URL != "" {
				description = fmt.Sprintf("<a href=\"%s\">%s</a>", html.EscapeString(res.URL), description)
			}
			fmt.Fprintf(b, "<tr style=\"color: %s;\">\n", color)
			fmt.Fprintf(b, "<td><span role=\"img\" aria-label=\"%s\">%s</span></td>\n", label, icon)
			fmt.Fprintf(b, "<td>%s</td>\n", html.EscapeString(res.Name))
			switch {
			case res.Status == checks.StatusFail:
				msg, err := mdAsHTML(res.Message)
				if err != nil {
					return err
				}
				fmt.Fprintf(b, "<td>\n%s\n<br/>\n%s\n</td>\n", description, msg)
			case res.SkipReason != "":
				reason, err := mdAsHTML(res.SkipReason)
				if err != nil {
					return err
				}
				fmt.Fprintf(b, "<td>\n%s\n<br/>\n<em>Skipped: %s</em>\n</td>\n", description, reason)
			default:
				fmt.Fprintf(b, "<td>%s</td>\n", description)
			}
			b.WriteString("</tr>\n")
		}
		b.WriteString("</table>\n")
	}
	if len(r.Results) == 0 {
		b.WriteString("<span style=\"color: red;\">No checks ran.</span>\n")
	}
	return nil
}

// writeHTML renders one table per family. Several targets are each wrapped
// in a <details> block.
func writeHTML(w io.Writer, reports []*targetReport) error {
	var b strings.Builder
	for _, r := range reports {
		if len(reports) > 1 {
			fmt.Fprintf(&b, "<details><summary><h1>%s</h1></summary>\n", html.EscapeString(r.Target))
		}
		if err := writeHTMLTarget(&b, r); err != nil {
			return fmt.Errorf("render %s: %w", r.Target, err)
		}
		if len(reports) > 1 {
			b.WriteString("</details>\n")
		}
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}
	return flushIfPossible(w)
}

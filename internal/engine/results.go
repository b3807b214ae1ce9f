package engine

import (
	"reporeview/internal/checks"
	"strings"
)

// aggregate builds the reported results in collection order, dropping checks
// the selection disallows unless a skip reason keeps them. Messages are
// dedented; a skipped check reports its message as the skip reason.
func aggregate(c *Collection, completed map[string]state, sel Selection) []checks.Result {
	results := make([]checks.Result, 0, len(c.Names))
	for _, name := range c.Names {
		check := c.Checks[name]
		st := completed[name]

		r := checks.Result{
			Family:      check.Family(),
			Name:        name,
			Description: strings.TrimSpace(check.Description(name)),
			Status:      st.status,
			Message:     dedent(st.message),
			URL:         checks.URLOf(check, name),
		}
		if r.Status == checks.StatusSkipped {
			r.SkipReason = strings.TrimSpace(r.Message)
			r.Message = ""
		}
		if !sel.Allowed(name) {
			reason := sel.SkipReason(name)
			if reason == "" {
				continue
			}
			r.Status = checks.StatusSkipped
			r.Message = ""
			r.SkipReason = reason
		}
		results = append(results, r)
	}
	return results
}

// dedent removes the longest whitespace prefix shared by every non-blank line
// of s. Lines holding only whitespace are emptied.
func dedent(s string) string {
	if s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	prefix := ""
	first := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first {
			prefix = indent
			first = false
			continue
		}
		prefix = commonPrefix(prefix, indent)
		if prefix == "" {
			break
		}
	}
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}
		lines[i] = strings.TrimPrefix(line, prefix)
	}
	return strings.Join(lines, "\n")
}

func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}

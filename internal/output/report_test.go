package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestEmitSink_Markdown(t *testing.T) {
	var buf bytes.Buffer
	s, err := NewEmitSink(&buf, "markdown", nil)
	if err != nil {
		t.Fatalf("NewEmitSink failed: %v", err)
	}
	writeRun(t, s, []string{"repo", "gh:acme/gone"}, map[string]string{"gh:acme/gone": "not found"}, 2)
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Repo Review Report\n\n",
		"| repo | 1 | 1 | 1 |\n",
		"| gh:acme/gone | - | - | - |\n",
		"Exit code: 2\n",
		"## repo\n\n### General\n\n",
		"| ✅ | G100 | [Has a README](https://example.com/G100) |\n",
		"### PyProject\n\nChecks on `pyproject.toml`.\n\n",
		"| ⚠️ | PP302 | Sets a minimum pytest version _(skipped: not using pytest)_ |\n",
		"### Failures\n\n#### G101: Has a license\n\nAdd a `LICENSE` file.\nAny OSI license works.\n\n",
		"## gh:acme/gone\n\n**Error:** not found\n\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in markdown:\n%s", want, out)
		}
	}
	if strings.Contains(out, "No failing checks.") {
		t.Fatalf("did not expect the all-clear line")
	}
}

func TestEmitSink_Markdown_NoFailures(t *testing.T) {
	var buf bytes.Buffer
	s, err := NewEmitSink(&buf, "markdown", []string{"PASS"})
	if err != nil {
		t.Fatalf("NewEmitSink failed: %v", err)
	}
	writeRun(t, s, []string{"repo"}, nil, 0)
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	out := buf.String()
	if !strings.HasSuffix(out, "No failing checks.\n") {
		t.Fatalf("expected all-clear line at the end:\n%s", out)
	}
	if strings.Contains(out, "### Failures") {
		t.Fatalf("expected no failures section:\n%s", out)
	}
}

func TestMdCell(t *testing.T) {
	if got := mdCell(" a|b\nc "); got != `a\|b<br>c` {
		t.Fatalf("unexpected cell: %q", got)
	}
}

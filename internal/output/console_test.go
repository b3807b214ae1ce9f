package output

import (
	"bytes"
	"reporeview/internal/checks"
	"strings"
	"testing"
)

func TestConsoleSink_Tree(t *testing.T) {
	var buf bytes.Buffer
	s := NewConsoleSink(&buf, nil, true)
	writeRun(t, s, []string{"repo"}, nil, 1)
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	want := strings.Join([]string{
		"Processing repo",
		"",
		"General:",
		"├── G100 Has a README? ✅",
		"└── G101 Has a license? ❌",
		"      Add a `LICENSE` file.",
		"      Any OSI license works.",
		"",
		"PyProject:",
		"└── PP302 Sets a minimum pytest version [skipped: not using pytest]",
		"",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Fatalf("unexpected console output:\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestConsoleSink_FailedTarget(t *testing.T) {
	var buf bytes.Buffer
	s := NewConsoleSink(&buf, nil, true)
	writeRun(t, s, []string{"good", "gh:acme/missing"}, map[string]string{"gh:acme/missing": "not found"}, 2)

	out := buf.String()
	if !strings.Contains(out, "Processing gh:acme/missing\n\nError: not found") {
		t.Fatalf("expected error block, got:\n%s", out)
	}
	if strings.Index(out, "Processing good") > strings.Index(out, "Processing gh:acme/missing") {
		t.Fatalf("expected targets in run order, got:\n%s", out)
	}
}

func TestConsoleSink_FilterStatus(t *testing.T) {
	var buf bytes.Buffer
	s := NewConsoleSink(&buf, []string{"fail"}, true)
	writeRun(t, s, []string{"repo"}, nil, 1)

	out := buf.String()
	if strings.Contains(out, "G100") || strings.Contains(out, "PP302") {
		t.Fatalf("expected only failing checks, got:\n%s", out)
	}
	if !strings.Contains(out, "└── G101 Has a license? ❌") {
		t.Fatalf("expected G101 as the only General entry, got:\n%s", out)
	}
	if strings.Contains(out, "PyProject:") {
		t.Fatalf("expected families without results to be omitted, got:\n%s", out)
	}
}

func TestConsoleSink_EmptyAndWarnings(t *testing.T) {
	var buf bytes.Buffer
	s := NewConsoleSink(&buf, nil, true)
	events := []any{
		Event{Type: EventTargetStarted, Target: "empty"},
		Event{Type: EventTargetFinished, Target: "empty", Empty: true},
		Event{Type: EventTargetStarted, Target: "mutating"},
		checks.Result{Target: "mutating", Family: "x", Name: "X1", Description: "Plain skip", Status: checks.StatusSkipped},
		Event{Type: EventTargetFinished, Target: "mutating", Warnings: []string{"X1 modified the input fixtures (config)"}},
	}
	for _, ev := range events {
		if err := s.Write(ev); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}

	out := buf.String()
	for _, want := range []string{
		"Processing empty\n\nNo checks ran.",
		"x:\n└── X1 Plain skip [skipped]\n",
		"Warning: X1 modified the input fixtures (config)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

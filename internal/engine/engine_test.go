package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reporeview/internal/checks"
	"reporeview/internal/config"
	"reporeview/internal/fixtures"
	"reporeview/internal/logger"
	"reporeview/internal/output"
	"reporeview/internal/tree"
	"strings"
	"sync/atomic"
	"testing"
)

func TestExitCodeForRun(t *testing.T) {
	tests := []struct {
		name                     string
		fatal, partial, failures bool
		want                     int
	}{
		{"clean", false, false, false, 0},
		{"failures", false, false, true, 1},
		{"partial", false, true, true, 2},
		{"fatal", true, true, true, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCodeForRun(tt.fatal, tt.partial, tt.failures); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

// failingManifest has one check that fails when the root holds no README.md.
func failingManifest() Manifest {
	return Manifest{
		Checks: []checks.Provider{checks.Static("test", map[string]checks.Check{
			"G100": &checks.Func{
				Base: checks.Base{FamilyName: "general", Doc: "Has a README", Failure: "Add a README.md."},
				Fn: func(fx fixtures.Fixtures) (checks.Outcome, error) {
					return checks.Bool(fixtures.RootTree(fx).Join("README.md").IsFile()), nil
				},
			},
		})},
	}
}

func newTestEngine(m Manifest, stdout, stderr *bytes.Buffer) *Engine {
	e := NewEngine(nil, m, logger.Discard())
	e.Stdout = stdout
	e.Stderr = stderr
	return e
}

func newTestConfig(paths ...string) *config.Config {
	cfg := config.New()
	cfg.Targets.Paths = paths
	cfg.Runtime.Concurrency = 2
	return cfg
}

func decodeEvents(t *testing.T, out string) []output.Event {
	t.Helper()
	var events []output.Event
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		var ev output.Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			t.Fatalf("invalid ndjson line %q: %v", line, err)
		}
		events = append(events, ev)
	}
	return events
}

func TestEngine_Run_ExitCodes(t *testing.T) {
	withReadme := t.TempDir()
	writeFile(t, withReadme, "README.md", "# hi\n")
	without := t.TempDir()
	missing := filepath.Join(t.TempDir(), "missing")

	tests := []struct {
		name     string
		manifest Manifest
		paths    []string
		want     int
	}{
		{"passing", failingManifest(), []string{withReadme}, 0},
		{"failing", failingManifest(), []string{withReadme, without}, 1},
		{"one target errored", failingManifest(), []string{withReadme, missing}, 2},
		{"every target errored", failingManifest(), []string{missing}, 3},
		{"no checks collected", Manifest{}, []string{withReadme}, 2},
		{"bad target", failingManifest(), []string{"gh:nope"}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			cfg := newTestConfig(tt.paths...)
			cfg.Output.Format = "ndjson"
			got := newTestEngine(tt.manifest, &stdout, &stderr).Run(context.Background(), cfg)
			if got != tt.want {
				t.Fatalf("expected exit code %d, got %d (stderr: %s)", tt.want, got, stderr.String())
			}
		})
	}
}

func TestEngine_Run_NDJSON(t *testing.T) {
	good := t.TempDir()
	writeFile(t, good, "README.md", "# hi\n")
	bad := t.TempDir()

	var stdout, stderr bytes.Buffer
	cfg := newTestConfig(good, bad)
	cfg.Output.Format = "ndjson"
	code := newTestEngine(failingManifest(), &stdout, &stderr).Run(context.Background(), cfg)
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if stderr.Len() != 0 {
		t.Fatalf("expected no progress output for ndjson, got %q", stderr.String())
	}

	events := decodeEvents(t, stdout.String())
	var types []string
	for _, ev := range events {
		types = append(types, ev.Type)
	}
	want := []string{
		output.EventRunStarted,
		output.EventTargetStarted, output.EventCheckResult, output.EventTargetFinished,
		output.EventTargetStarted, output.EventCheckResult, output.EventTargetFinished,
		output.EventRunFinished,
	}
	if strings.Join(types, ",") != strings.Join(want, ",") {
		t.Fatalf("expected events %v, got %v", want, types)
	}
	if events[0].Targets != 2 {
		t.Fatalf("expected run.started to count 2 targets, got %d", events[0].Targets)
	}
	failed := events[5].Result
	if failed == nil || failed.Status != checks.StatusFail || failed.Message != "Add a README.md." {
		t.Fatalf("unexpected second result: %+v", failed)
	}
	if failed.Target != bad {
		t.Fatalf("expected result target %q, got %q", bad, failed.Target)
	}
	if _, ok := events[3].Families["general"]; !ok {
		t.Fatalf("expected families on target.finished, got %+v", events[3])
	}
	if events[len(events)-1].ExitCode != 1 {
		t.Fatalf("expected exit code on run.finished, got %+v", events[len(events)-1])
	}
}

func TestEngine_Run_TargetFailed(t *testing.T) {
	var stdout, stderr bytes.Buffer
	e := newTestEngine(failingManifest(), &stdout, &stderr)
	e.openTarget = func(ctx context.Context, target Target) (tree.Tree, error) {
		return nil, errors.New("connection reset")
	}

	cfg := newTestConfig("gh:acme/widget")
	cfg.Output.Format = "ndjson"
	if code := e.Run(context.Background(), cfg); code != 3 {
		t.Fatalf("expected exit code 3, got %d", code)
	}
	events := decodeEvents(t, stdout.String())
	if len(events) != 4 || events[2].Type != output.EventTargetFailed {
		t.Fatalf("expected target.failed event, got %+v", events)
	}
	if events[2].Target != "gh:acme/widget" || events[2].Error != "connection reset" {
		t.Fatalf("unexpected failure event: %+v", events[2])
	}
}

func TestEngine_Run_RemoteWithoutClient(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cfg := newTestConfig("gh:acme/widget")
	cfg.Output.Format = "ndjson"
	if code := newTestEngine(failingManifest(), &stdout, &stderr).Run(context.Background(), cfg); code != 3 {
		t.Fatalf("expected exit code 3, got %d", code)
	}
	if !strings.Contains(stdout.String(), "no GitHub client configured") {
		t.Fatalf("expected missing client error, got %s", stdout.String())
	}
}

func TestEngine_Run_Concurrency(t *testing.T) {
	var open, peak atomic.Int32
	var stdout, stderr bytes.Buffer
	e := newTestEngine(failingManifest(), &stdout, &stderr)
	dir := t.TempDir()
	e.openTarget = func(ctx context.Context, target Target) (tree.Tree, error) {
		n := open.Add(1)
		defer open.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		return tree.NewLocal(dir), nil
	}

	cfg := newTestConfig("a", "b", "c", "d", "e")
	cfg.Runtime.Concurrency = 2
	cfg.Output.NoConsole = true
	if code := e.Run(context.Background(), cfg); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if p := peak.Load(); p > 2 {
		t.Fatalf("expected at most 2 targets opened at once, got %d", p)
	}
}

func TestEngine_Run_Text(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	cfg := newTestConfig(dir)
	cfg.Output.NoColor = true

	if code := newTestEngine(failingManifest(), &stdout, &stderr).Run(context.Background(), cfg); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "Opening 1 target(s)...") {
		t.Fatalf("expected progress on stderr, got %q", stderr.String())
	}
	out := stdout.String()
	for _, want := range []string{"Processing " + dir, "general:", "└── G100 Has a README? ❌", "Add a README.md."} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestEngine_Run_NoConsoleWithFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "README.md", "# hi\n")
	outPath := filepath.Join(t.TempDir(), "reports", "review.json")

	var stdout, stderr bytes.Buffer
	cfg := newTestConfig(dir)
	cfg.Output.NoConsole = true
	cfg.Output.Out = outPath
	cfg.Output.OutFormat = "json"

	if code := newTestEngine(failingManifest(), &stdout, &stderr).Run(context.Background(), cfg); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if stdout.Len() != 0 || stderr.Len() != 0 {
		t.Fatalf("expected no console output, got stdout=%q stderr=%q", stdout.String(), stderr.String())
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	var doc struct {
		Families map[string]checks.Family     `json:"families"`
		Checks   map[string]checks.ResultDict `json:"checks"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid json output: %v\n%s", err, data)
	}
	g := doc.Checks["G100"]
	if g.Result == nil || !*g.Result || g.Family != "general" {
		t.Fatalf("unexpected G100 entry: %+v", g)
	}
	if _, ok := doc.Families["general"]; !ok {
		t.Fatalf("expected general family, got %v", doc.Families)
	}
}

func TestEngine_Run_SinkSetupFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	writeFile(t, dir, "file", "x")

	var stdout, stderr bytes.Buffer
	cfg := newTestConfig(dir)
	cfg.Output.Out = filepath.Join(blocker, "out.json")
	cfg.Output.OutFormat = "json"
	if code := newTestEngine(failingManifest(), &stdout, &stderr).Run(context.Background(), cfg); code != 3 {
		t.Fatalf("expected exit code 3, got %d", code)
	}
	if !strings.Contains(stderr.String(), "Error creating output sinks") {
		t.Fatalf("expected sink error, got %q", stderr.String())
	}
}

func TestEngine_Run_SameTargetTwice(t *testing.T) {
	dir := t.TempDir()

	t.Run("markdown", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		cfg := newTestConfig(dir, dir)
		cfg.Output.Format = "markdown"
		if code := newTestEngine(failingManifest(), &stdout, &stderr).Run(context.Background(), cfg); code != 1 {
			t.Fatalf("expected exit code 1, got %d", code)
		}
		out := stdout.String()
		for _, want := range []string{
			"| " + dir + " | 0 | 1 | 0 |\n",
			"| " + dir + " (2) | 0 | 1 | 0 |\n",
			"## " + dir + "\n",
			"## " + dir + " (2)\n",
		} {
			if !strings.Contains(out, want) {
				t.Fatalf("expected %q in output:\n%s", want, out)
			}
		}
		if got := strings.Count(out, "| G100 |"); got != 2 {
			t.Fatalf("expected G100 once per target, got %d rows:\n%s", got, out)
		}
	})

	t.Run("json", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		cfg := newTestConfig(dir, dir)
		cfg.Output.Format = "json"
		newTestEngine(failingManifest(), &stdout, &stderr).Run(context.Background(), cfg)

		var doc map[string]struct {
			Checks map[string]checks.ResultDict `json:"checks"`
		}
		if err := json.Unmarshal(stdout.Bytes(), &doc); err != nil {
			t.Fatalf("invalid json output: %v\n%s", err, stdout.String())
		}
		if len(doc) != 2 || len(doc[dir].Checks) != 1 || len(doc[dir+" (2)"].Checks) != 1 {
			t.Fatalf("expected two independent targets, got %+v", doc)
		}
	})
}

func TestUniqueName(t *testing.T) {
	seen := map[string]bool{}
	got := []string{
		uniqueName("a", seen),
		uniqueName("a (2)", seen),
		uniqueName("a", seen),
		uniqueName("b", seen),
	}
	want := []string{"a", "a (2)", "a (3)", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

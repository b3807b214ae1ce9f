package output

import (
	"reporeview/internal/checks"
	"testing"
)

// sampleResults is one target's results, family-sorted the way the engine
// emits them.
func sampleResults(target string) []checks.Result {
	return []checks.Result{
		{Target: target, Family: "general", Name: "G100", Description: "Has a README", Status: checks.StatusPass, URL: "https://example.com/G100"},
		{Target: target, Family: "general", Name: "G101", Description: "Has a license", Status: checks.StatusFail, Message: "Add a `LICENSE` file.\nAny OSI license works."},
		{Target: target, Family: "pyproject", Name: "PP302", Description: "Sets a minimum pytest version", Status: checks.StatusSkipped, SkipReason: "not using pytest"},
	}
}

func sampleFamilies() map[string]checks.Family {
	return map[string]checks.Family{
		"general":   {Name: "General", Order: -1},
		"pyproject": {Name: "PyProject", Description: "Checks on `pyproject.toml`."},
	}
}

// writeRun feeds a complete run over targets to s. Targets named in failed
// report an error instead of results.
func writeRun(t *testing.T, s Sink, targets []string, failed map[string]string, exitCode int) {
	t.Helper()
	write := func(v any) {
		if err := s.Write(v); err != nil {
			t.Fatalf("Write(%v) failed: %v", v, err)
		}
	}
	write(Event{Type: EventRunStarted, Targets: len(targets)})
	for _, target := range targets {
		write(Event{Type: EventTargetStarted, Target: target})
		if msg, ok := failed[target]; ok {
			write(Event{Type: EventTargetFailed, Target: target, Error: msg})
			continue
		}
		for _, r := range sampleResults(target) {
			write(r)
		}
		write(Event{Type: EventTargetFinished, Target: target, Families: sampleFamilies()})
	}
	write(Event{Type: EventRunFinished, ExitCode: exitCode})
}

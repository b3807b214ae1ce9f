// Package checktest runs registered checks in tests without the scheduler.
package checktest

import (
	"reporeview/internal/checks"
	"reporeview/internal/fixtures"
	"reporeview/internal/tree"
	"testing"
)

// Fixtures evaluates every registered fixture for a repository rooted at
// root, with the package directory at root too.
func Fixtures(t testing.TB, root tree.Tree) *fixtures.Values {
	t.Helper()
	values, err := fixtures.Evaluate(root, root, fixtures.List())
	if err != nil {
		t.Fatalf("evaluate fixtures for %s: %v", root, err)
	}
	return values
}

// Lookup returns the registered check called name, collected against fx.
// Later providers win, as in a real run.
func Lookup(t testing.TB, name string, fx fixtures.Fixtures) checks.Check {
	t.Helper()
	var found checks.Check
	for _, p := range checks.Providers() {
		provided, err := p.Checks(fixtures.All(fx, nil))
		if err != nil {
			t.Fatalf("check provider %s: %v", p.Name(), err)
		}
		if c, ok := provided[name]; ok {
			found = c
		}
	}
	if found == nil {
		t.Fatalf("no registered check named %s", name)
	}
	return found
}

// ComputeCheck runs the registered check name against fx and returns its
// status and message. The checks it requires are not consulted.
func ComputeCheck(t testing.TB, name string, fx fixtures.Fixtures) (checks.Status, string) {
	t.Helper()
	c := Lookup(t, name, fx)

	extras := map[string]any{fixtures.Name: name}
	view := fixtures.All(fx, extras)
	if names, ok := checks.FixturesOf(c); ok {
		view = fixtures.Inject(fx, names, extras)
	}

	out, err := c.Run(view)
	if err != nil {
		t.Fatalf("check %s: %v", name, err)
	}
	return out.Resolve(checks.ExplainOf(c, name))
}

package engine

import (
	"fmt"
	"log/slog"
	"reporeview/internal/checks"
	"reporeview/internal/fixtures"
	"reporeview/internal/graph"
	"sort"
	"strings"
)

// state is a check's outcome once the scheduler has visited it.
type state struct {
	status  checks.Status
	message string
}

func (s state) passed() bool {
	return s.status == checks.StatusPass
}

// Scheduler runs collected checks in dependency order. A check runs only when
// every check it requires passed; otherwise it is skipped without being
// invoked.
type Scheduler struct {
	log *slog.Logger
	// warnings collects every fixture modification seen during Run.
	warnings []string
}

func NewScheduler(log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{log: log}
}

// Warnings returns the warnings raised by the last Run.
func (s *Scheduler) Warnings() []string {
	return append([]string(nil), s.warnings...)
}

// Run evaluates every check in collected once. values is never modified:
// checks read a working copy that is restored whenever a check changes it.
func (s *Scheduler) Run(values *fixtures.Values, collected map[string]checks.Check) (map[string]state, error) {
	s.warnings = nil

	order, err := checkOrder(collected)
	if err != nil {
		return nil, err
	}

	guard := fixtures.NewGuard(values)
	completed := make(map[string]state, len(order))
	for _, name := range order {
		c := collected[name]

		runnable := true
		for _, req := range checks.RequiresOf(c) {
			if !completed[req].passed() {
				runnable = false
				break
			}
		}
		if !runnable {
			s.log.Debug("check skipped, requirement not passed", "check", name)
			completed[name] = state{status: checks.StatusSkipped}
			continue
		}

		out, err := c.Run(checkView(guard.Current(), c, name))
		if err != nil {
			return nil, fmt.Errorf("check %q: %w", name, err)
		}
		status, msg := out.Resolve(checks.ExplainOf(c, name))
		completed[name] = state{status: status, message: msg}
		s.log.Debug("check evaluated", "check", name, "status", status)

		if changed := guard.Verify(); len(changed) > 0 {
			w := fmt.Sprintf("%s modified the input fixtures (%s); restored a fresh copy and continued", name, strings.Join(changed, ", "))
			s.log.Warn("check modified fixtures", "check", name, "fixtures", changed)
			s.warnings = append(s.warnings, w)
		}
	}
	return completed, nil
}

// checkView is what a check body sees: the fixtures it declared, or all of
// them, plus its own name.
func checkView(fx fixtures.Fixtures, c checks.Check, name string) fixtures.Fixtures {
	extras := map[string]any{fixtures.Name: name}
	if names, ok := checks.FixturesOf(c); ok {
		return fixtures.Inject(fx, names, extras)
	}
	return fixtures.All(fx, extras)
}

// checkOrder validates requires lists and sorts checks so that each comes
// after the checks it requires.
func checkOrder(collected map[string]checks.Check) ([]string, error) {
	names := make([]string, 0, len(collected))
	for name := range collected {
		names = append(names, name)
	}
	sort.Strings(names)

	g := graph.New()
	for _, name := range names {
		reqs := checks.RequiresOf(collected[name])
		if err := validateRequires(name, reqs, collected); err != nil {
			return nil, err
		}
		g.Add(name, reqs...)
	}

	order, err := g.Sort()
	if err != nil {
		return nil, fmt.Errorf("cyclic check dependency: %w", err)
	}
	return order, nil
}

func validateRequires(name string, reqs []string, collected map[string]checks.Check) error {
	seen := make(map[string]struct{}, len(reqs))
	for _, req := range reqs {
		if strings.TrimSpace(req) == "" {
			return fmt.Errorf("check %q: empty name in requires: %w", name, checks.ErrInvalidRequires)
		}
		if _, dup := seen[req]; dup {
			return fmt.Errorf("check %q: %q listed twice in requires: %w", name, req, checks.ErrInvalidRequires)
		}
		seen[req] = struct{}{}
		if _, ok := collected[req]; !ok {
			return fmt.Errorf("check %q requires unknown check %q", name, req)
		}
	}
	return nil
}

package engine

import (
	"fmt"
	"log/slog"
	"reporeview/internal/checks"
	"reporeview/internal/fixtures"
	"reporeview/internal/tree"
	"sort"
)

// Manifest is the plugin set a run uses.
type Manifest struct {
	Fixtures []fixtures.Provider
	Checks   []checks.Provider
	Families []checks.FamilyProvider
}

// DefaultManifest returns every plugin registered at init time.
func DefaultManifest() Manifest {
	return Manifest{
		Fixtures: fixtures.List(),
		Checks:   checks.Providers(),
		Families: checks.FamilyProviders(),
	}
}

// Collection is everything known about a repository before checks run.
type Collection struct {
	Fixtures *fixtures.Values
	Checks   map[string]checks.Check
	// Names lists the collected checks sorted by family order, family and
	// name.
	Names    []string
	Families map[string]checks.Family
}

// CollectAll evaluates fixtures for root and pkg, then collects checks and
// families from the manifest. Every family referenced by a check is present
// in Families.
func CollectAll(root, pkg tree.Tree, m Manifest, log *slog.Logger) (*Collection, error) {
	if log == nil {
		log = slog.Default()
	}

	values, err := fixtures.Evaluate(root, pkg, m.Fixtures)
	if err != nil {
		return nil, err
	}
	collected, err := Collect(values, m.Checks, log)
	if err != nil {
		return nil, err
	}
	families, err := CollectFamilies(values, m.Families, log)
	if err != nil {
		return nil, err
	}
	for _, c := range collected {
		if _, ok := families[c.Family()]; !ok {
			families[c.Family()] = checks.Family{}
		}
	}

	names := make([]string, 0, len(collected))
	for name := range collected {
		names = append(names, name)
	}
	sortByFamily(names, collected, families)

	return &Collection{
		Fixtures: values,
		Checks:   collected,
		Names:    names,
		Families: families,
	}, nil
}

// Collect asks each provider for its checks and merges them. A name provided
// twice keeps the later check.
func Collect(fx fixtures.Fixtures, providers []checks.Provider, log *slog.Logger) (map[string]checks.Check, error) {
	out := make(map[string]checks.Check)
	owner := make(map[string]string)
	for _, p := range providers {
		provided, err := p.Checks(fixtures.All(fx, nil))
		if err != nil {
			return nil, fmt.Errorf("check provider %q: %w", p.Name(), err)
		}
		names := make([]string, 0, len(provided))
		for name := range provided {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			c := provided[name]
			if c == nil {
				return nil, fmt.Errorf("check provider %q: check %q is nil", p.Name(), name)
			}
			if prev, dup := owner[name]; dup && log != nil {
				log.Warn("check overridden by later provider", "check", name, "previous", prev, "provider", p.Name())
			}
			out[name] = c
			owner[name] = p.Name()
		}
	}
	return out, nil
}

// CollectFamilies merges family metadata from providers. Later providers win
// on collision.
func CollectFamilies(fx fixtures.Fixtures, providers []checks.FamilyProvider, log *slog.Logger) (map[string]checks.Family, error) {
	out := make(map[string]checks.Family)
	for _, p := range providers {
		provided, err := p.Families(fixtures.All(fx, nil))
		if err != nil {
			return nil, fmt.Errorf("family provider %q: %w", p.Name(), err)
		}
		for key, f := range provided {
			if _, dup := out[key]; dup && log != nil {
				log.Debug("family metadata overridden", "family", key, "provider", p.Name())
			}
			out[key] = f
		}
	}
	return out, nil
}

// sortByFamily orders names by (family order, family key, name).
func sortByFamily(names []string, collected map[string]checks.Check, families map[string]checks.Family) {
	sort.Slice(names, func(i, j int) bool {
		fi, fj := collected[names[i]].Family(), collected[names[j]].Family()
		oi, oj := families[fi].Order, families[fj].Order
		if oi != oj {
			return oi < oj
		}
		if fi != fj {
			return fi < fj
		}
		return names[i] < names[j]
	})
}

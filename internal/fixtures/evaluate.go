package fixtures

import (
	"fmt"
	"reporeview/internal/graph"
	"reporeview/internal/tree"
)

// Evaluate computes every fixture exactly once, each after the fixtures it
// requires. root and pkg seed the Root and Package fixtures. Providers are
// ordered by their dependencies, then by their position in providers.
func Evaluate(root, pkg tree.Tree, providers []Provider) (*Values, error) {
	g := graph.New()
	g.Add(Root)
	g.Add(Package)

	byName := make(map[string]Provider, len(providers))
	for _, p := range providers {
		name := p.Name()
		switch name {
		case "":
			return nil, fmt.Errorf("fixture provider with empty name")
		case Root, Package, Name:
			return nil, fmt.Errorf("fixture name %q is reserved", name)
		}
		if _, dup := byName[name]; dup {
			return nil, fmt.Errorf("fixture %q provided more than once", name)
		}
		byName[name] = p
		g.Add(name, p.Requires()...)
	}

	order, err := g.Sort()
	if err != nil {
		return nil, fmt.Errorf("cyclic fixture dependency: %w", err)
	}

	values := newValues()
	values.set(Root, root)
	values.set(Package, pkg)
	for _, name := range order {
		p, ok := byName[name]
		if !ok {
			continue
		}
		val, err := p.Compute(Inject(values, p.Requires(), nil))
		if err != nil {
			return nil, fmt.Errorf("fixture %q: %w", name, err)
		}
		values.set(name, val)
	}
	return values, nil
}

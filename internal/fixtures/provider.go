package fixtures

import (
	"fmt"
	"sort"
	"sync"
)

// Provider computes one fixture from the fixtures it requires.
type Provider interface {
	Name() string
	// Requires lists the fixtures Compute reads. Unknown names are allowed;
	// they are simply not visible to Compute.
	Requires() []string
	Compute(fx Fixtures) (any, error)
}

type funcProvider struct {
	name     string
	requires []string
	fn       func(fx Fixtures) (any, error)
}

// NewFunc adapts a function into a Provider.
func NewFunc(name string, requires []string, fn func(fx Fixtures) (any, error)) Provider {
	return &funcProvider{name: name, requires: requires, fn: fn}
}

func (p *funcProvider) Name() string                     { return p.name }
func (p *funcProvider) Requires() []string               { return p.requires }
func (p *funcProvider) Compute(fx Fixtures) (any, error) { return p.fn(fx) }

var (
	registry = make(map[string]Provider)
	mu       sync.RWMutex
)

// Register adds a provider to the built-in set. It panics on a nil provider,
// an empty or reserved name, or a duplicate.
func Register(p Provider) {
	if p == nil {
		panic("fixture provider is nil")
	}
	name := p.Name()
	switch name {
	case "":
		panic("fixture provider name is empty")
	case Root, Package, Name:
		panic(fmt.Sprintf("fixture name %s is reserved", name))
	}

	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("fixture %s already registered", name))
	}
	registry[name] = p
}

// List returns the registered providers sorted by name.
func List() []Provider {
	mu.RLock()
	defer mu.RUnlock()
	all := make([]Provider, 0, len(registry))
	for _, p := range registry {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Name() < all[j].Name()
	})
	return all
}

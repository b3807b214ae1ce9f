package checks

import (
	"fmt"
	"reporeview/internal/fixtures"
	"sort"
	"sync"
)

// Provider produces checks by name. It sees every evaluated fixture, so the
// set of checks may depend on the repository.
type Provider interface {
	Name() string
	Checks(fx fixtures.Fixtures) (map[string]Check, error)
}

type providerFunc struct {
	name string
	fn   func(fx fixtures.Fixtures) (map[string]Check, error)
}

func NewProviderFunc(name string, fn func(fx fixtures.Fixtures) (map[string]Check, error)) Provider {
	return &providerFunc{name: name, fn: fn}
}

func (p *providerFunc) Name() string { return p.name }

func (p *providerFunc) Checks(fx fixtures.Fixtures) (map[string]Check, error) {
	return p.fn(fx)
}

// Static returns a provider that always yields checks.
func Static(name string, checks map[string]Check) Provider {
	return NewProviderFunc(name, func(fixtures.Fixtures) (map[string]Check, error) {
		return checks, nil
	})
}

var (
	providers       = make(map[string]Provider)
	familyProviders = make(map[string]FamilyProvider)
	mu              sync.RWMutex
)

func RegisterProvider(p Provider) {
	if p == nil || p.Name() == "" {
		panic("check provider must be non-nil and named")
	}
	mu.Lock()
	defer mu.Unlock()
	if _, exists := providers[p.Name()]; exists {
		panic(fmt.Sprintf("check provider %s already registered", p.Name()))
	}
	providers[p.Name()] = p
}

func RegisterFamilies(p FamilyProvider) {
	if p == nil || p.Name() == "" {
		panic("family provider must be non-nil and named")
	}
	mu.Lock()
	defer mu.Unlock()
	if _, exists := familyProviders[p.Name()]; exists {
		panic(fmt.Sprintf("family provider %s already registered", p.Name()))
	}
	familyProviders[p.Name()] = p
}

// Providers returns the registered check providers sorted by name.
func Providers() []Provider {
	mu.RLock()
	defer mu.RUnlock()
	all := make([]Provider, 0, len(providers))
	for _, p := range providers {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name() < all[j].Name() })
	return all
}

// FamilyProviders returns the registered family providers sorted by name.
func FamilyProviders() []FamilyProvider {
	mu.RLock()
	defer mu.RUnlock()
	all := make([]FamilyProvider, 0, len(familyProviders))
	for _, p := range familyProviders {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name() < all[j].Name() })
	return all
}

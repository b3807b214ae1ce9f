package checks

import "reporeview/internal/fixtures"

// Family is display metadata for a group of checks. A zero Name means the
// family key is shown; Order sorts families ascending.
type Family struct {
	Name        string `json:"name"`
	Order       int    `json:"order"`
	Description string `json:"description,omitempty"`
}

// DisplayName returns f.Name, or key when f has no name.
func (f Family) DisplayName(key string) string {
	if f.Name != "" {
		return f.Name
	}
	return key
}

// FamilyProvider supplies family metadata, possibly computed from fixtures.
type FamilyProvider interface {
	Name() string
	Families(fx fixtures.Fixtures) (map[string]Family, error)
}

type familyFunc struct {
	name string
	fn   func(fx fixtures.Fixtures) (map[string]Family, error)
}

func NewFamilyFunc(name string, fn func(fx fixtures.Fixtures) (map[string]Family, error)) FamilyProvider {
	return &familyFunc{name: name, fn: fn}
}

func (f *familyFunc) Name() string { return f.name }

func (f *familyFunc) Families(fx fixtures.Fixtures) (map[string]Family, error) {
	return f.fn(fx)
}

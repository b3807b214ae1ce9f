// Package fixtures computes the named values checks read from a repository.
package fixtures

import "reporeview/internal/tree"

const (
	// Root is the seeded fixture holding the repository root tree.
	Root = "root"
	// Package is the seeded fixture holding the package directory, which is
	// the root unless a package dir was requested.
	Package = "package"
	// Name is bound to the running check's own name while its body executes.
	Name = "name"
)

// Fixtures provides computed fixture values by name. Implementations are
// read-only.
type Fixtures interface {
	Get(name string) (any, bool)
}

// Values holds evaluated fixtures in evaluation order.
type Values struct {
	order []string
	data  map[string]any
}

func newValues() *Values {
	return &Values{data: make(map[string]any)}
}

func (v *Values) set(name string, value any) {
	if _, ok := v.data[name]; !ok {
		v.order = append(v.order, name)
	}
	v.data[name] = value
}

func (v *Values) Get(name string) (any, bool) {
	if v == nil {
		return nil, false
	}
	val, ok := v.data[name]
	return val, ok
}

// Names lists fixture names in the order they were evaluated.
func (v *Values) Names() []string {
	if v == nil {
		return nil
	}
	return append([]string(nil), v.order...)
}

func (v *Values) Len() int {
	if v == nil {
		return 0
	}
	return len(v.order)
}

// Map is a plain map-backed Fixtures, mostly useful in tests.
type Map map[string]any

func (m Map) Get(name string) (any, bool) {
	val, ok := m[name]
	return val, ok
}

// Lookup returns the fixture called name if it exists and has type T.
func Lookup[T any](fx Fixtures, name string) (T, bool) {
	var zero T
	if fx == nil {
		return zero, false
	}
	raw, ok := fx.Get(name)
	if !ok {
		return zero, false
	}
	val, ok := raw.(T)
	return val, ok
}

// RootTree returns the repository root, or tree.Empty when it is not visible.
func RootTree(fx Fixtures) tree.Tree {
	if t, ok := Lookup[tree.Tree](fx, Root); ok && t != nil {
		return t
	}
	return tree.Empty
}

// PackageTree returns the package directory, or tree.Empty when it is not
// visible.
func PackageTree(fx Fixtures) tree.Tree {
	if t, ok := Lookup[tree.Tree](fx, Package); ok && t != nil {
		return t
	}
	return tree.Empty
}

// CheckName returns the name of the check currently running.
func CheckName(fx Fixtures) string {
	name, _ := Lookup[string](fx, Name)
	return name
}

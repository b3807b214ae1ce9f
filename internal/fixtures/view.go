package fixtures

import "sort"

// View exposes a subset of another Fixtures plus a few extra values. Lookups
// of names outside the subset are recorded so callers can report them.
type View struct {
	inner   Fixtures
	allowed map[string]struct{}
	extras  map[string]any
	misses  map[string]struct{}
}

// Inject returns a view of inner restricted to names. Names inner does not
// provide are simply absent. extras are always visible and shadow inner.
func Inject(inner Fixtures, names []string, extras map[string]any) *View {
	allowed := make(map[string]struct{}, len(names))
	for _, n := range names {
		allowed[n] = struct{}{}
	}
	return &View{
		inner:   inner,
		allowed: allowed,
		extras:  extras,
		misses:  make(map[string]struct{}),
	}
}

// All returns an unrestricted view of inner with extras layered on top.
func All(inner Fixtures, extras map[string]any) *View {
	return &View{
		inner:  inner,
		extras: extras,
		misses: make(map[string]struct{}),
	}
}

func (v *View) Get(name string) (any, bool) {
	if v == nil {
		return nil, false
	}
	if val, ok := v.extras[name]; ok {
		return val, true
	}
	if v.allowed != nil {
		if _, ok := v.allowed[name]; !ok {
			v.misses[name] = struct{}{}
			return nil, false
		}
	}
	if v.inner == nil {
		v.misses[name] = struct{}{}
		return nil, false
	}
	val, ok := v.inner.Get(name)
	if !ok {
		v.misses[name] = struct{}{}
	}
	return val, ok
}

// Misses lists, sorted, every name that was looked up but not found.
func (v *View) Misses() []string {
	if v == nil {
		return nil
	}
	out := make([]string, 0, len(v.misses))
	for k := range v.misses {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

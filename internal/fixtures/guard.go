package fixtures

import (
	"reporeview/internal/tree"
	"sort"

	"github.com/gohugoio/hashstructure"
	"github.com/mitchellh/copystructure"
)

// Guard hands checks a working copy of the evaluated fixtures and detects
// when a check modified it. Values are fingerprinted with hashstructure;
// values that cannot be hashed or deep copied are shared and not tracked.
// Trees are shared, never copied or hashed.
type Guard struct {
	pristine *Values
	hashes   map[string]uint64
	working  *Values
}

func NewGuard(pristine *Values) *Guard {
	g := &Guard{
		pristine: pristine,
		hashes:   make(map[string]uint64),
	}
	for _, name := range pristine.Names() {
		val, _ := pristine.Get(name)
		h, ok := fingerprint(val)
		if !ok {
			continue
		}
		if _, err := copyValue(val); err != nil {
			continue
		}
		g.hashes[name] = h
	}
	g.working = g.fresh()
	return g
}

// Current is the working copy checks should read.
func (g *Guard) Current() Fixtures {
	return g.working
}

// Verify compares the working copy with the pristine fingerprints. It returns
// the sorted names of modified fixtures and, if any, replaces the working
// copy with a fresh one.
func (g *Guard) Verify() []string {
	var changed []string
	for name, want := range g.hashes {
		val, _ := g.working.Get(name)
		got, ok := fingerprint(val)
		if !ok || got != want {
			changed = append(changed, name)
		}
	}
	if len(changed) == 0 {
		return nil
	}
	sort.Strings(changed)
	g.working = g.fresh()
	return changed
}

func (g *Guard) fresh() *Values {
	out := newValues()
	for _, name := range g.pristine.Names() {
		val, _ := g.pristine.Get(name)
		out.set(name, deepCopy(val))
	}
	return out
}

func fingerprint(v any) (uint64, bool) {
	if _, isTree := v.(tree.Tree); isTree {
		return 0, false
	}
	h, err := hashstructure.Hash(v, nil)
	if err != nil {
		return 0, false
	}
	return h, true
}

var copyValue = copystructure.Copy

// deepCopy returns v itself when it cannot be copied.
func deepCopy(v any) any {
	if v == nil {
		return nil
	}
	if _, isTree := v.(tree.Tree); isTree {
		return v
	}
	c, err := copyValue(v)
	if err != nil {
		return v
	}
	return c
}

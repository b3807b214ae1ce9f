package checks

import "strings"

// Set is a set of check names or name prefixes.
type Set map[string]struct{}

func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Union returns a new set holding the members of s and other.
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for k := range s {
		out[k] = struct{}{}
	}
	for k := range other {
		out[k] = struct{}{}
	}
	return out
}

// Matches returns the member of selectors that name matches: name itself if
// present, otherwise name without its trailing ASCII digits if that is
// present, otherwise "".
func Matches(name string, selectors Set) string {
	if selectors.Has(name) {
		return name
	}
	prefix := strings.TrimRight(name, "0123456789")
	if prefix != name && selectors.Has(prefix) {
		return prefix
	}
	return ""
}

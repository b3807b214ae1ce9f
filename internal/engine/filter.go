package engine

import (
	"reporeview/internal/checks"
	"reporeview/internal/settings"
)

// Selection is the effective select/ignore configuration for one run.
type Selection struct {
	Select checks.Set
	Ignore checks.Set
	// Reasons maps ignore keys to the reason shown for the skipped check.
	Reasons map[string]string
}

// NewSelection combines runtime options with repository settings. A runtime
// select or ignore replaces the repository's; the extend lists are always
// added. Skip reasons come only from the repository's ignore table.
func NewSelection(opts Options, s *settings.Settings) Selection {
	if s == nil {
		s = &settings.Settings{}
	}

	sel := opts.Select
	if len(sel) == 0 {
		sel = s.Select
	}
	ign := opts.Ignore
	if len(ign) == 0 {
		ign = s.Ignore
	}

	reasons := make(map[string]string, len(s.Reasons))
	for k, v := range s.Reasons {
		reasons[k] = v
	}

	return Selection{
		Select:  checks.NewSet(sel...).Union(checks.NewSet(opts.ExtendSelect...)),
		Ignore:  checks.NewSet(ign...).Union(checks.NewSet(opts.ExtendIgnore...)),
		Reasons: reasons,
	}
}

// Allowed reports whether name passes the select and ignore sets. An empty
// select, or one holding "*", selects everything.
func Allowed(sel, ignore checks.Set, name string) bool {
	if len(sel) > 0 && checks.Matches(name, sel) == "" && !sel.Has("*") {
		return false
	}
	return checks.Matches(name, ignore) == ""
}

// Allowed reports whether name passes this selection.
func (s Selection) Allowed(name string) bool {
	return Allowed(s.Select, s.Ignore, name)
}

// SkipReason returns the reason a disallowed check is kept as skipped, or ""
// when it should be dropped.
func (s Selection) SkipReason(name string) string {
	keys := make(checks.Set, len(s.Reasons))
	for k := range s.Reasons {
		keys[k] = struct{}{}
	}
	key := checks.Matches(name, keys)
	if key == "" {
		return ""
	}
	return s.Reasons[key]
}

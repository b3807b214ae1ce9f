package output

import (
	"reporeview/internal/checks"
	"strings"
)

// targetReport is everything a sink learned about one target.
type targetReport struct {
	Target   string
	Families map[string]checks.Family
	Results  []checks.Result
	Warnings []string
	Empty    bool
	Error    string
}

// familyName is the display name of a family key.
func (r *targetReport) familyName(key string) string {
	return r.Families[key].DisplayName(key)
}

// familyGroup is a run of consecutive results of one family.
type familyGroup struct {
	Key     string
	Name    string
	Results []checks.Result
}

// groups splits the (already family-sorted) results into family runs.
func (r *targetReport) groups() []familyGroup {
	var out []familyGroup
	for _, res := range r.Results {
		if n := len(out); n > 0 && out[n-1].Key == res.Family {
			out[n-1].Results = append(out[n-1].Results, res)
			continue
		}
		out = append(out, familyGroup{Key: res.Family, Name: r.familyName(res.Family), Results: []checks.Result{res}})
	}
	return out
}

func (r *targetReport) counts() (pass, fail, skipped int) {
	for _, res := range r.Results {
		switch res.Status {
		case checks.StatusPass:
			pass++
		case checks.StatusFail:
			fail++
		case checks.StatusSkipped:
			skipped++
		}
	}
	return pass, fail, skipped
}

// collector rebuilds per-target reports from the event stream, keeping
// targets in the order they started.
type collector struct {
	reports []*targetReport
	byName  map[string]*targetReport
	// filter drops results whose status is not listed; nil keeps all.
	filter map[checks.Status]bool

	exitCode     int
	haveExitCode bool
}

func newCollector(filter map[checks.Status]bool) *collector {
	return &collector{byName: make(map[string]*targetReport), filter: filter}
}

func (c *collector) report(target string) *targetReport {
	if r, ok := c.byName[target]; ok {
		return r
	}
	r := &targetReport{Target: target}
	c.reports = append(c.reports, r)
	c.byName[target] = r
	return r
}

// add records v and returns the report it completed, if any.
func (c *collector) add(v any) *targetReport {
	switch t := v.(type) {
	case checks.Result:
		if c.filter != nil && !c.filter[t.Status] {
			return nil
		}
		r := c.report(t.Target)
		r.Results = append(r.Results, t)
	case Event:
		switch t.Type {
		case EventTargetStarted:
			c.report(t.Target)
		case EventTargetFinished:
			r := c.report(t.Target)
			r.Families = t.Families
			r.Warnings = t.Warnings
			r.Empty = t.Empty
			return r
		case EventTargetFailed:
			r := c.report(t.Target)
			r.Error = t.Error
			return r
		case EventRunFinished:
			c.exitCode = t.ExitCode
			c.haveExitCode = true
		}
	}
	return nil
}

func statusFilter(statuses []string) map[checks.Status]bool {
	if len(statuses) == 0 {
		return nil
	}
	out := make(map[checks.Status]bool, len(statuses))
	for _, s := range statuses {
		out[checks.Status(strings.ToUpper(strings.TrimSpace(s)))] = true
	}
	return out
}

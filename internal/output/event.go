package output

import "reporeview/internal/checks"

// Event types, in the order a run emits them.
const (
	EventRunStarted     = "run.started"
	EventTargetStarted  = "target.started"
	EventCheckResult    = "check.result"
	EventTargetFinished = "target.finished"
	EventTargetFailed   = "target.failed"
	EventRunFinished    = "run.finished"
)

// Event is a lifecycle record of a run. Sinks also receive checks.Result
// values between target.started and target.finished; NDJSON streams wrap them
// in a check.result event.
type Event struct {
	Type   string         `json:"type"`
	Target string         `json:"target,omitempty"`
	Result *checks.Result `json:"result,omitempty"`
	// Targets is the number of targets (run.started).
	Targets int `json:"targets,omitempty"`
	// Families, Warnings and Empty describe a finished target.
	Families map[string]checks.Family `json:"families,omitempty"`
	Warnings []string                 `json:"warnings,omitempty"`
	Empty    bool                     `json:"empty,omitempty"`
	// Error explains a failed target.
	Error    string `json:"error,omitempty"`
	ExitCode int    `json:"exit_code,omitempty"`
}

func eventFromResult(r checks.Result) Event {
	return Event{Type: EventCheckResult, Target: r.Target, Result: &r}
}

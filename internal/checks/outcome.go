package checks

import "fmt"

type outcomeKind int

const (
	outcomePass outcomeKind = iota
	outcomeFail
	outcomeMessage
	outcomeSkip
)

// Outcome is what a check body reports. The zero value is a pass.
type Outcome struct {
	kind outcomeKind
	text string
}

func Pass() Outcome {
	return Outcome{kind: outcomePass}
}

// Fail is a failure explained by the check's Explain text.
func Fail() Outcome {
	return Outcome{kind: outcomeFail}
}

func Bool(ok bool) Outcome {
	if ok {
		return Pass()
	}
	return Fail()
}

// Message fails with msg as the failure text. An empty msg is a pass.
func Message(msg string) Outcome {
	if msg == "" {
		return Pass()
	}
	return Outcome{kind: outcomeMessage, text: msg}
}

func Failf(format string, args ...any) Outcome {
	return Message(fmt.Sprintf(format, args...))
}

// Skip reports that the check does not apply. Checks requiring it are skipped
// too.
func Skip(reason string) Outcome {
	return Outcome{kind: outcomeSkip, text: reason}
}

// Resolve turns the outcome into a status and its message. explain is used
// for a bare failure.
func (o Outcome) Resolve(explain string) (Status, string) {
	switch o.kind {
	case outcomeFail:
		if explain == "" {
			explain = DefaultExplanation
		}
		return StatusFail, explain
	case outcomeMessage:
		return StatusFail, o.text
	case outcomeSkip:
		return StatusSkipped, o.text
	default:
		return StatusPass, ""
	}
}

func (o Outcome) String() string {
	status, msg := o.Resolve("")
	if msg == "" {
		return string(status)
	}
	return fmt.Sprintf("%s: %s", status, msg)
}

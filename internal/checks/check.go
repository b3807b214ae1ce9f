// Package checks defines the check contract plugins implement and the
// results the engine reports for them.
package checks

import (
	"errors"
	"reporeview/internal/fixtures"
	"strings"
)

// ErrInvalidRequires marks a check whose required-check list is not a set of
// non-empty names.
var ErrInvalidRequires = errors.New("requires must be a set of check names")

// Check is a single named verification. The same Check value may be
// registered under several names; every method receiving a name is called
// with the name being reported.
type Check interface {
	Family() string
	Description(name string) string
	// Run evaluates the check. A returned error aborts the whole run; report
	// problems with the repository through the Outcome instead.
	Run(fx fixtures.Fixtures) (Outcome, error)
}

// Requirer is implemented by checks that only run when other checks passed.
type Requirer interface {
	Requires() []string
}

// Linker is implemented by checks with documentation to link to.
type Linker interface {
	URL(name string) string
}

// Explainer is implemented by checks that describe how to fix a bare failure.
type Explainer interface {
	Explain(name string) string
}

// FixtureUser is implemented by checks that declare which fixtures Run reads.
// Run then only sees those fixtures. A nil list means every fixture.
type FixtureUser interface {
	Fixtures() []string
}

// DefaultExplanation is the failure message for a bare failure of a check
// that does not implement Explainer.
const DefaultExplanation = "Check failed"

// Base implements the optional check interfaces from plain fields. In Doc,
// Link and Failure the placeholder {name} expands to the reported name.
type Base struct {
	FamilyName string
	Doc        string
	Link       string
	Failure    string
	Needs      []string
	Uses       []string
}

func (b Base) Family() string { return b.FamilyName }

func (b Base) Description(name string) string { return expand(b.Doc, name) }

func (b Base) URL(name string) string { return expand(b.Link, name) }

func (b Base) Requires() []string { return b.Needs }

func (b Base) Fixtures() []string { return b.Uses }

func (b Base) Explain(name string) string {
	if strings.TrimSpace(b.Failure) == "" {
		return DefaultExplanation
	}
	return expand(b.Failure, name)
}

// Func is a Check whose body is a function.
type Func struct {
	Base
	Fn func(fx fixtures.Fixtures) (Outcome, error)
}

func (f *Func) Run(fx fixtures.Fixtures) (Outcome, error) {
	return f.Fn(fx)
}

func expand(tmpl, name string) string {
	return strings.ReplaceAll(tmpl, "{name}", name)
}

// RequiresOf returns the checks c requires, or nil.
func RequiresOf(c Check) []string {
	if r, ok := c.(Requirer); ok {
		return r.Requires()
	}
	return nil
}

// URLOf returns the documentation URL of c for name, or "".
func URLOf(c Check, name string) string {
	if l, ok := c.(Linker); ok {
		return l.URL(name)
	}
	return ""
}

// ExplainOf returns the bare-failure message of c for name.
func ExplainOf(c Check, name string) string {
	if e, ok := c.(Explainer); ok {
		if msg := e.Explain(name); strings.TrimSpace(msg) != "" {
			return msg
		}
	}
	return DefaultExplanation
}

// FixturesOf returns the fixtures c declared, and whether it declared any.
func FixturesOf(c Check) ([]string, bool) {
	if u, ok := c.(FixtureUser); ok && u.Fixtures() != nil {
		return u.Fixtures(), true
	}
	return nil, false
}

package output

import (
	"fmt"
	"io"
	"os"
	"reporeview/internal/checks"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// ConsoleSink prints each target as a tree of families and checks once the
// target finishes.
type ConsoleSink struct {
	writer    io.Writer
	mu        sync.Mutex
	collected *collector

	bold   *color.Color
	pass   *color.Color
	fail   *color.Color
	skip   *color.Color
	target *color.Color
	// emphasized variants
	failBold *color.Color
	skipBold *color.Color
}

func NewConsoleSink(w io.Writer, filterStatuses []string, noColor bool) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	s := &ConsoleSink{
		writer:    w,
		collected: newCollector(statusFilter(filterStatuses)),
		bold:      color.New(color.Bold),
		pass:      color.New(color.FgGreen),
		fail:      color.New(color.FgRed),
		skip:      color.New(color.FgYellow),
		target:    color.New(color.Bold, color.FgBlue),
		failBold:  color.New(color.Bold, color.FgRed),
		skipBold:  color.New(color.Bold, color.FgYellow),
	}
	if noColor {
		for _, c := range []*color.Color{s.bold, s.pass, s.fail, s.skip, s.target, s.failBold, s.skipBold} {
			c.DisableColor()
		}
	}
	return s
}

func (s *ConsoleSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.collected.add(v)
	if r == nil {
		return nil
	}
	if err := s.printTarget(r); err != nil {
		return err
	}
	return flushIfPossible(s.writer)
}

func (s *ConsoleSink) printTarget(r *targetReport) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n", s.bold.Sprint("Processing"), s.target.Sprint(r.Target))

	if r.Error != "" {
		fmt.Fprintf(&b, "%s %s\n\n", s.failBold.Sprint("Error:"), r.Error)
		_, err := io.WriteString(s.writer, b.String())
		return err
	}

	for _, g := range r.groups() {
		fmt.Fprintf(&b, "%s:\n", s.bold.Sprint(g.Name))
		for i, res := range g.Results {
			last := i == len(g.Results)-1
			branch, cont := "├── ", "│   "
			if last {
				branch, cont = "└── ", "    "
			}
			b.WriteString(branch)
			b.WriteString(s.bold.Sprint(res.Name))
			b.WriteString(" ")
			switch res.Status {
			case checks.StatusPass:
				fmt.Fprintf(&b, "%s ✅\n", s.pass.Sprintf("%s?", res.Description))
			case checks.StatusFail:
				fmt.Fprintf(&b, "%s ❌\n", s.fail.Sprintf("%s?", res.Description))
				for _, line := range strings.Split(strings.Trim(res.Message, "\n"), "\n") {
					b.WriteString(strings.TrimRight(cont+"  "+line, " ") + "\n")
				}
			default:
				b.WriteString(s.skip.Sprint(res.Description))
				if res.SkipReason != "" {
					b.WriteString(s.skipBold.Sprintf(" [skipped: %s]", res.SkipReason))
				} else {
					b.WriteString(s.skipBold.Sprint(" [skipped]"))
				}
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}

	if len(r.Results) == 0 {
		if r.Empty {
			b.WriteString(s.fail.Sprint("No checks ran.") + "\n\n")
		} else {
			b.WriteString("No results to show.\n\n")
		}
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(&b, "%s %s\n", s.skip.Sprint("Warning:"), w)
	}

	_, err := io.WriteString(s.writer, b.String())
	return err
}

func (s *ConsoleSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return flushIfPossible(s.writer)
}

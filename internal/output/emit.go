package output

import (
	"encoding/json"
	"fmt"
	"io"
	"reporeview/internal/checks"
	"sync"
)

// EmitSink writes structured output.
//
// Formats:
//   - json: aggregates every target and writes one document on Close
//   - ndjson: streams Event values (one JSON object per line)
//   - html: aggregates and writes result tables on Close
//   - markdown: aggregates and writes a report on Close
type EmitSink struct {
	writer    io.Writer
	format    string
	mu        sync.Mutex
	collected *collector
	filter    map[checks.Status]bool
}

// EmitFormats lists the formats EmitSink accepts.
var EmitFormats = []string{"json", "ndjson", "html", "markdown"}

func NewEmitSink(w io.Writer, format string, filterStatuses []string) (*EmitSink, error) {
	if w == nil {
		return nil, fmt.Errorf("emit sink writer must not be nil")
	}
	switch format {
	case "json", "ndjson", "html", "markdown":
	default:
		return nil, fmt.Errorf("unsupported emit format: %s", format)
	}
	filter := statusFilter(filterStatuses)
	return &EmitSink{
		writer:    w,
		format:    format,
		collected: newCollector(filter),
		filter:    filter,
	}, nil
}

func (s *EmitSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format != "ndjson" {
		s.collected.add(v)
		return nil
	}

	encoder := json.NewEncoder(s.writer)
	switch t := v.(type) {
	case Event:
		if err := encoder.Encode(t); err != nil {
			return err
		}
		return flushIfPossible(s.writer)
	case checks.Result:
		if s.filter != nil && !s.filter[t.Status] {
			return nil
		}
		if err := encoder.Encode(eventFromResult(t)); err != nil {
			return err
		}
		return flushIfPossible(s.writer)
	default:
		return nil
	}
}

func (s *EmitSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.format {
	case "json":
		return writeJSON(s.writer, s.collected.reports)
	case "html":
		return writeHTML(s.writer, s.collected.reports)
	case "markdown":
		return writeMarkdown(s.writer, s.collected)
	}
	return nil
}

package output

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileSink writes EmitSink output to a file.
type FileSink struct {
	path string
	file *os.File
	*EmitSink
}

func NewFileSink(path string, format string) (*FileSink, error) {
	if path == "" {
		return nil, fmt.Errorf("output path required")
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	emit, err := NewEmitSink(f, format, nil)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, err
	}

	return &FileSink{path: path, file: f, EmitSink: emit}, nil
}

func (s *FileSink) Path() string {
	return s.path
}

func (s *FileSink) Close() error {
	err := s.EmitSink.Close()
	if closeErr := s.file.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

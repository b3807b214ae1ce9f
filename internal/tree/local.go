package tree

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Local is a Tree backed by the filesystem.
type Local struct {
	path string
}

func NewLocal(path string) *Local {
	return &Local{path: filepath.Clean(path)}
}

func (l *Local) Path() string {
	return l.path
}

func (l *Local) Name() string {
	return filepath.Base(l.path)
}

func (l *Local) String() string {
	return l.path
}

func (l *Local) Join(rel string) Tree {
	return &Local{path: filepath.Join(l.path, filepath.FromSlash(rel))}
}

func (l *Local) IsDir() bool {
	fi, err := os.Stat(l.path)
	return err == nil && fi.IsDir()
}

func (l *Local) IsFile() bool {
	fi, err := os.Stat(l.path)
	return err == nil && fi.Mode().IsRegular()
}

func (l *Local) Children() ([]Tree, error) {
	entries, err := os.ReadDir(l.path)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", l.path, err)
	}
	out := make([]Tree, 0, len(entries))
	for _, e := range entries {
		out = append(out, &Local{path: filepath.Join(l.path, e.Name())})
	}
	return out, nil
}

func (l *Local) ReadBytes() ([]byte, error) {
	b, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", l.path, err)
	}
	return b, nil
}

func (l *Local) ReadText() (string, error) {
	b, err := l.ReadBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func notExist(p string) error {
	return fmt.Errorf("%s: %w", p, fs.ErrNotExist)
}

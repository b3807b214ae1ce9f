// Package tree gives checks read-only access to a repository's files,
// whether they live on disk or in a GitHub repository.
package tree

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Tree is a file or directory inside a repository. Values are cheap handles:
// Join never touches the backing store, so a Tree may name a path that does
// not exist (IsDir and IsFile are then both false).
type Tree interface {
	// Name is the last element of the path.
	Name() string
	// String is a human-readable location, used in messages and output.
	String() string
	Join(rel string) Tree
	IsDir() bool
	IsFile() bool
	// Children lists directory entries sorted by name.
	Children() ([]Tree, error)
	ReadBytes() ([]byte, error)
	ReadText() (string, error)
}

// Exists reports whether t names a file or a directory.
func Exists(t Tree) bool {
	return t != nil && (t.IsFile() || t.IsDir())
}

// Glob returns the descendants of t whose slash-separated path relative to t
// matches pattern (doublestar syntax). Directories are walked only as deep as
// the pattern can reach unless it contains "**".
func Glob(t Tree, pattern string) ([]Tree, error) {
	if t == nil || !t.IsDir() {
		return nil, nil
	}
	pattern = strings.Trim(pattern, "/")
	if !doublestar.ValidatePattern(pattern) {
		return nil, doublestar.ErrBadPattern
	}
	depth := -1
	if !strings.Contains(pattern, "**") {
		depth = strings.Count(pattern, "/") + 1
	}

	var out []Tree
	var walk func(dir Tree, rel string, level int) error
	walk = func(dir Tree, rel string, level int) error {
		children, err := dir.Children()
		if err != nil {
			return err
		}
		for _, c := range children {
			p := path.Join(rel, c.Name())
			if ok, _ := doublestar.Match(pattern, p); ok {
				out = append(out, c)
			}
			if c.IsDir() && (depth < 0 || level+1 < depth) {
				if err := walk(c, p, level+1); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := walk(t, "", 0); err != nil {
		return nil, err
	}
	return out, nil
}

type empty struct{}

// Empty is a tree with no files. Collecting checks against it lists every
// check a plugin set can produce.
var Empty Tree = empty{}

func (empty) Name() string               { return "" }
func (empty) String() string             { return "<empty>" }
func (empty) Join(string) Tree           { return Empty }
func (empty) IsDir() bool                { return false }
func (empty) IsFile() bool               { return false }
func (empty) Children() ([]Tree, error)  { return nil, nil }
func (empty) ReadBytes() ([]byte, error) { return nil, notExist("<empty>") }
func (empty) ReadText() (string, error)  { return "", notExist("<empty>") }

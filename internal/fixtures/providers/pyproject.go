package providers

import (
	"fmt"
	"reporeview/internal/fixtures"

	"github.com/BurntSushi/toml"
)

// Pyproject is the decoded pyproject.toml of the package directory, as a
// map[string]any. It is empty when the file does not exist.
const Pyproject = "pyproject"

func computePyproject(fx fixtures.Fixtures) (any, error) {
	file := fixtures.PackageTree(fx).Join("pyproject.toml")
	doc := map[string]any{}
	if !file.IsFile() {
		return doc, nil
	}
	text, err := file.ReadText()
	if err != nil {
		return nil, err
	}
	if _, err := toml.Decode(text, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", file, err)
	}
	return doc, nil
}

// Table returns the nested table at keys, or nil when any level is missing
// or not a table.
func Table(doc map[string]any, keys ...string) map[string]any {
	cur := doc
	for _, k := range keys {
		next, ok := cur[k].(map[string]any)
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

func init() {
	fixtures.Register(fixtures.NewFunc(Pyproject, []string{fixtures.Package}, computePyproject))
}

package providers

import (
	"fmt"
	"reporeview/internal/fixtures"
	"reporeview/internal/tree"

	"gopkg.in/yaml.v3"
)

// Workflows maps the file name of each GitHub Actions workflow in the
// repository root to its decoded YAML document (map[string]any).
const Workflows = "workflows"

const workflowGlob = ".github/workflows/*.{yml,yaml}"

func computeWorkflows(fx fixtures.Fixtures) (any, error) {
	files, err := tree.Glob(fixtures.RootTree(fx), workflowGlob)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(files))
	for _, f := range files {
		if !f.IsFile() {
			continue
		}
		doc, err := readYAML(f)
		if err != nil {
			return nil, err
		}
		out[f.Name()] = doc
	}
	return out, nil
}

// readYAML decodes a YAML file into a map. An empty document yields an empty
// map.
func readYAML(f tree.Tree) (map[string]any, error) {
	data, err := f.ReadBytes()
	if err != nil {
		return nil, err
	}
	doc := map[string]any{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", f, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

func init() {
	fixtures.Register(fixtures.NewFunc(Workflows, []string{fixtures.Root}, computeWorkflows))
}

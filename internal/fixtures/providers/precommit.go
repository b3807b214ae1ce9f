package providers

import "reporeview/internal/fixtures"

// PreCommit is the decoded .pre-commit-config.yaml of the repository root, or
// an empty map.
const PreCommit = "precommit"

const preCommitFile = ".pre-commit-config.yaml"

func computePreCommit(fx fixtures.Fixtures) (any, error) {
	file := fixtures.RootTree(fx).Join(preCommitFile)
	if !file.IsFile() {
		return map[string]any{}, nil
	}
	return readYAML(file)
}

// Hooks returns the ids of every hook configured in a pre-commit document.
func Hooks(doc map[string]any) []string {
	repos, _ := doc["repos"].([]any)
	var out []string
	for _, r := range repos {
		repo, ok := r.(map[string]any)
		if !ok {
			continue
		}
		hooks, _ := repo["hooks"].([]any)
		for _, h := range hooks {
			hook, ok := h.(map[string]any)
			if !ok {
				continue
			}
			if id, ok := hook["id"].(string); ok && id != "" {
				out = append(out, id)
			}
		}
	}
	return out
}

func init() {
	fixtures.Register(fixtures.NewFunc(PreCommit, []string{fixtures.Root}, computePreCommit))
}

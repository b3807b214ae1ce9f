package builtin

import (
	"reporeview/internal/checks"
	"reporeview/internal/fixtures"
	"reporeview/internal/fixtures/providers"
	"sort"
	"strings"
)

const FamilyGitHub = "github"

func workflows(fx fixtures.Fixtures) map[string]any {
	w, _ := fixtures.Lookup[map[string]any](fx, providers.Workflows)
	return w
}

// GH100
type HasWorkflows struct{ checks.Base }

func (HasWorkflows) Run(fx fixtures.Fixtures) (checks.Outcome, error) {
	return checks.Bool(len(workflows(fx)) > 0), nil
}

// GH101
type WorkflowsNamed struct{ checks.Base }

func (WorkflowsNamed) Run(fx fixtures.Fixtures) (checks.Outcome, error) {
	var unnamed []string
	for file, doc := range workflows(fx) {
		w, _ := doc.(map[string]any)
		if name, _ := w["name"].(string); strings.TrimSpace(name) == "" {
			unnamed = append(unnamed, "- `"+file+"`")
		}
	}
	if len(unnamed) == 0 {
		return checks.Pass(), nil
	}
	sort.Strings(unnamed)
	return checks.Failf("All workflows should have a `name:` so they read well in the Actions tab. Missing in:\n\n%s",
		strings.Join(unnamed, "\n")), nil
}

// GH102
type HasDependabot struct{ checks.Base }

func (HasDependabot) Run(fx fixtures.Fixtures) (checks.Outcome, error) {
	dir := fixtures.RootTree(fx).Join(".github")
	return checks.Bool(dir.Join("dependabot.yml").IsFile() || dir.Join("dependabot.yaml").IsFile()), nil
}

// GH200
type HasCodeowners struct{ checks.Base }

// codeownersLocations are the places GitHub reads CODEOWNERS from.
var codeownersLocations = []string{"CODEOWNERS", ".github/CODEOWNERS", "docs/CODEOWNERS"}

func (HasCodeowners) Run(fx fixtures.Fixtures) (checks.Outcome, error) {
	root := fixtures.RootTree(fx)
	for _, loc := range codeownersLocations {
		if root.Join(loc).IsFile() {
			return checks.Pass(), nil
		}
	}
	return checks.Fail(), nil
}

func github(doc, failure string, uses ...string) checks.Base {
	return checks.Base{FamilyName: FamilyGitHub, Doc: doc, Failure: failure, Uses: uses}
}

func gitHubChecks() map[string]checks.Check {
	gh101 := github("GitHub Actions workflows are named", "", providers.Workflows)
	gh101.Needs = []string{"GH100"}
	gh102 := github("Maintained by Dependabot",
		"Add a `.github/dependabot.yml` that at least updates the `github-actions` ecosystem.", fixtures.Root)
	gh102.Link = "https://docs.github.com/en/code-security/dependabot/dependabot-version-updates/configuration-options-for-the-dependabot.yml-file"

	return map[string]checks.Check{
		"GH100": &HasWorkflows{github("Has GitHub Actions config",
			"All projects should have GitHub Actions config for CI. Add workflows under `.github/workflows`.", providers.Workflows)},
		"GH101": &WorkflowsNamed{gh101},
		"GH102": &HasDependabot{gh102},
		"GH200": &HasCodeowners{github("Has a CODEOWNERS file",
			"Add a CODEOWNERS file at the root, in `.github` or in `docs` so reviews are requested automatically.", fixtures.Root)},
	}
}

func init() {
	checks.RegisterProvider(checks.Static(FamilyGitHub, gitHubChecks()))
}

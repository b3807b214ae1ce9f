package builtin

import (
	"reporeview/internal/checks"
	"reporeview/internal/fixtures"
	"reporeview/internal/fixtures/providers"
	"strconv"
	"strings"
)

const FamilyPyproject = "pyproject"

func pyproject(fx fixtures.Fixtures) map[string]any {
	doc, _ := fixtures.Lookup[map[string]any](fx, providers.Pyproject)
	return doc
}

// stringList returns the string members of a TOML array.
func stringList(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// requirementName is the lowercased project name of a PEP 508 requirement.
func requirementName(req string) string {
	req = strings.TrimSpace(req)
	if i := strings.IndexAny(req, "<>=!~;[ @"); i >= 0 {
		req = req[:i]
	}
	return strings.ToLower(req)
}

// PP001
type HasPyproject struct{ checks.Base }

func (HasPyproject) Run(fx fixtures.Fixtures) (checks.Outcome, error) {
	return checks.Bool(fixtures.PackageTree(fx).Join("pyproject.toml").IsFile()), nil
}

// PP002
type BuildSystem struct{ checks.Base }

func (BuildSystem) Run(fx fixtures.Fixtures) (checks.Outcome, error) {
	bs := providers.Table(pyproject(fx), "build-system")
	if bs == nil {
		return checks.Fail(), nil
	}
	_, hasRequires := bs["requires"]
	backend, _ := bs["build-backend"].(string)
	return checks.Bool(hasRequires && backend != ""), nil
}

// PP003
type NoWheelRequirement struct{ checks.Base }

func (NoWheelRequirement) Run(fx fixtures.Fixtures) (checks.Outcome, error) {
	bs := providers.Table(pyproject(fx), "build-system")
	for _, req := range stringList(bs["requires"]) {
		if requirementName(req) == "wheel" {
			return checks.Fail(), nil
		}
	}
	return checks.Pass(), nil
}

// PP301
type PytestConfigured struct{ checks.Base }

func (PytestConfigured) Run(fx fixtures.Fixtures) (checks.Outcome, error) {
	return checks.Bool(providers.Table(pyproject(fx), "tool", "pytest", "ini_options") != nil), nil
}

// PP302
type PytestMinVersion struct{ checks.Base }

func (PytestMinVersion) Run(fx fixtures.Fixtures) (checks.Outcome, error) {
	opts := providers.Table(pyproject(fx), "tool", "pytest", "ini_options")
	raw, ok := opts["minversion"].(string)
	if !ok {
		return checks.Fail(), nil
	}
	major, _, _ := strings.Cut(strings.TrimSpace(raw), ".")
	n, err := strconv.Atoi(major)
	if err != nil || n < 6 {
		return checks.Failf("`minversion` is %q; it must be at least \"6\".", raw), nil
	}
	return checks.Pass(), nil
}

func pyprojectBase(doc, failure string, needs ...string) checks.Base {
	return checks.Base{
		FamilyName: FamilyPyproject,
		Doc:        doc,
		Failure:    failure,
		Needs:      needs,
		Uses:       []string{fixtures.Package, providers.Pyproject},
	}
}

func pyprojectChecks() map[string]checks.Check {
	pp302 := pyprojectBase("Specifies a minimum pytest version",
		"Set `minversion` in `[tool.pytest.ini_options]`, for example `minversion = \"6.0\"`.", "PP301")
	pp302.Link = "https://docs.pytest.org/en/stable/reference/customize.html#pyproject-toml"

	return map[string]checks.Check{
		"PP001": &HasPyproject{pyprojectBase("Has pyproject.toml",
			"All projects should have a `pyproject.toml` file to support a modern build system and configure tools.")},
		"PP002": &BuildSystem{pyprojectBase("Has a proper build-system table",
			`
			Must have a `+"`[build-system]`"+` table with `+"`requires`"+` and `+"`build-backend`"+`:

			`+"```toml"+`
			[build-system]
			requires = ["hatchling"]
			build-backend = "hatchling.build"
			`+"```"+`
			`, "PP001")},
		"PP003": &NoWheelRequirement{pyprojectBase("Does not list wheel as a build-dep",
			"Do not include `\"wheel\"` in `build-system.requires`; setuptools adds it when needed.", "PP001")},
		"PP301": &PytestConfigured{pyprojectBase("Has pytest in pyproject",
			"Configure pytest in `[tool.pytest.ini_options]`.", "PP001")},
		"PP302": &PytestMinVersion{pp302},
	}
}

func init() {
	checks.RegisterProvider(checks.Static(FamilyPyproject, pyprojectChecks()))
}

// Package builtin holds the checks shipped with reporeview. Each family
// registers its checks from init.
package builtin

import (
	"reporeview/internal/checks"
	"reporeview/internal/fixtures"
	"reporeview/internal/tree"
	"strings"
)

const FamilyGeneral = "general"

// hasChild reports whether dir holds an entry accepted by match.
func hasChild(dir tree.Tree, match func(name string) bool) (string, error) {
	children, err := dir.Children()
	if err != nil {
		return "", err
	}
	for _, c := range children {
		if match(c.Name()) {
			return c.Name(), nil
		}
	}
	return "", nil
}

// G001
type HasReadme struct{ checks.Base }

func (HasReadme) Run(fx fixtures.Fixtures) (checks.Outcome, error) {
	found, err := hasChild(fixtures.RootTree(fx), func(name string) bool {
		return strings.EqualFold(name, "README.md") || name == "README.rst"
	})
	if err != nil {
		return checks.Outcome{}, err
	}
	return checks.Bool(found != ""), nil
}

// G002
type HasLicense struct{ checks.Base }

var licenseNames = []string{"LICENSE", "LICENCE", "COPYING"}

func (HasLicense) Run(fx fixtures.Fixtures) (checks.Outcome, error) {
	found, err := hasChild(fixtures.RootTree(fx), func(name string) bool {
		stem := strings.ToUpper(name)
		if i := strings.IndexByte(stem, '.'); i > 0 {
			stem = stem[:i]
		}
		for _, l := range licenseNames {
			if stem == l {
				return true
			}
		}
		return false
	})
	if err != nil {
		return checks.Outcome{}, err
	}
	return checks.Bool(found != ""), nil
}

// G003, G004
type HasDirectory struct {
	checks.Base
	// Dirs are the accepted directory names at the root.
	Dirs []string
}

func (c HasDirectory) Run(fx fixtures.Fixtures) (checks.Outcome, error) {
	root := fixtures.RootTree(fx)
	for _, d := range c.Dirs {
		if root.Join(d).IsDir() {
			return checks.Pass(), nil
		}
	}
	return checks.Fail(), nil
}

// G005
type HasPreCommit struct{ checks.Base }

func (HasPreCommit) Run(fx fixtures.Fixtures) (checks.Outcome, error) {
	return checks.Bool(fixtures.RootTree(fx).Join(".pre-commit-config.yaml").IsFile()), nil
}

func general(doc, failure string) checks.Base {
	return checks.Base{FamilyName: FamilyGeneral, Doc: doc, Failure: failure, Uses: []string{fixtures.Root}}
}

func generalChecks() map[string]checks.Check {
	return map[string]checks.Check{
		"G001": &HasReadme{general("Has a README at the repository root",
			"Add a README.md (or README.rst) at the root describing the project.")},
		"G002": &HasLicense{general("Has a license file",
			"Add a LICENSE file at the repository root. Without one, nobody may legally use the code.")},
		"G003": &HasDirectory{
			Base: general("Has a docs folder", "Add user documentation in a `docs` folder."),
			Dirs: []string{"docs", "doc"},
		},
		"G004": &HasDirectory{
			Base: general("Has a tests folder", "Add tests in a `tests` (or `test`) folder."),
			Dirs: []string{"tests", "test"},
		},
		"G005": &HasPreCommit{general("Has a pre-commit config",
			"Add a `.pre-commit-config.yaml` so style checks run before every commit.")},
	}
}

func init() {
	checks.RegisterProvider(checks.NewProviderFunc(FamilyGeneral, func(fixtures.Fixtures) (map[string]checks.Check, error) {
		return generalChecks(), nil
	}))
}

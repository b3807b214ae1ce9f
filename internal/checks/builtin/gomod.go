package builtin

import (
	"fmt"
	"reporeview/internal/checks"
	"reporeview/internal/fixtures"
	"reporeview/internal/fixtures/providers"
	"strings"

	"golang.org/x/mod/modfile"
)

const FamilyGoMod = "gomod"

func goMod(fx fixtures.Fixtures) *modfile.File {
	f, _ := fixtures.Lookup[*modfile.File](fx, providers.GoMod)
	return f
}

// GM100
type HasGoMod struct{ checks.Base }

func (HasGoMod) Run(fx fixtures.Fixtures) (checks.Outcome, error) {
	return checks.Bool(goMod(fx) != nil), nil
}

// GM101
type ModulePath struct{ checks.Base }

func (ModulePath) Run(fx fixtures.Fixtures) (checks.Outcome, error) {
	f := goMod(fx)
	return checks.Bool(f != nil && f.Module != nil && f.Module.Mod.Path != ""), nil
}

// GM102
type GoDirective struct{ checks.Base }

func (GoDirective) Run(fx fixtures.Fixtures) (checks.Outcome, error) {
	f := goMod(fx)
	return checks.Bool(f != nil && f.Go != nil && f.Go.Version != ""), nil
}

// GM103
type NoLocalReplace struct{ checks.Base }

func (NoLocalReplace) Run(fx fixtures.Fixtures) (checks.Outcome, error) {
	f := goMod(fx)
	if f == nil {
		return checks.Pass(), nil
	}
	var local []string
	for _, r := range f.Replace {
		// a replacement without a version is a filesystem path
		if r.New.Version == "" {
			local = append(local, fmt.Sprintf("- `%s => %s`", r.Old.Path, r.New.Path))
		}
	}
	if len(local) == 0 {
		return checks.Pass(), nil
	}
	return checks.Failf(`
		go.mod replaces modules with local directories, so the module cannot be
		built from a clean checkout:

		%s
		`, strings.Join(local, "\n\t\t")), nil
}

func gomod(doc string, needs ...string) checks.Base {
	return checks.Base{
		FamilyName: FamilyGoMod,
		Doc:        doc,
		Needs:      needs,
		Uses:       []string{providers.GoMod},
	}
}

func goModChecks() map[string]checks.Check {
	gm101 := gomod("Declares a module path", "GM100")
	gm101.Failure = "Add a `module` line naming the module path to go.mod."
	gm102 := gomod("Declares the Go version", "GM100")
	gm102.Failure = "Add a `go` directive (for example `go 1.22`) to go.mod."
	gm103 := gomod("Has no local replace directives", "GM100")
	gm103.Link = "https://go.dev/ref/mod#go-mod-file-replace"

	gm100 := gomod("Has go.mod")
	gm100.Failure = "Run `go mod init` in the package directory."

	return map[string]checks.Check{
		"GM100": &HasGoMod{gm100},
		"GM101": &ModulePath{gm101},
		"GM102": &GoDirective{gm102},
		"GM103": &NoLocalReplace{gm103},
	}
}

func init() {
	checks.RegisterProvider(checks.Static(FamilyGoMod, goModChecks()))
}

package builtin

import (
	"fmt"
	"reporeview/internal/checks"
	"reporeview/internal/fixtures"
	"reporeview/internal/fixtures/providers"
)

func families(fx fixtures.Fixtures) (map[string]checks.Family, error) {
	py := checks.Family{Name: "PyProject", Order: -1}
	if backend, ok := providers.Table(pyproject(fx), "build-system")["build-backend"].(string); ok && backend != "" {
		py.Description = fmt.Sprintf("Build backend: `%s`", backend)
	}
	return map[string]checks.Family{
		FamilyGeneral:   {Name: "General", Order: -3},
		FamilyGoMod:     {Name: "Go module", Order: -2},
		FamilyPyproject: py,
		FamilyGitHub:    {Name: "GitHub"},
	}, nil
}

func init() {
	checks.RegisterFamilies(checks.NewFamilyFunc("builtin", families))
}

package providers

import (
	"fmt"
	"reporeview/internal/fixtures"

	"golang.org/x/mod/modfile"
)

// GoMod is the parsed go.mod of the package directory as a *modfile.File, or
// nil when there is none.
const GoMod = "gomod"

func computeGoMod(fx fixtures.Fixtures) (any, error) {
	file := fixtures.PackageTree(fx).Join("go.mod")
	if !file.IsFile() {
		return (*modfile.File)(nil), nil
	}
	data, err := file.ReadBytes()
	if err != nil {
		return nil, err
	}
	f, err := modfile.Parse(file.String(), data, nil)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", file, err)
	}
	return f, nil
}

func init() {
	fixtures.Register(fixtures.NewFunc(GoMod, []string{fixtures.Package}, computeGoMod))
}

// Package settings reads a repository's own repo-review configuration.
package settings

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"reporeview/internal/tree"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-viper/mapstructure/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

const (
	PyprojectFile = "pyproject.toml"
	YAMLFile      = ".repo-review.yaml"
	// ToolSection is the pyproject.toml table holding the settings.
	ToolSection = "repo-review"
)

// SchemaJSON is the JSON Schema settings are validated against.
//
//go:embed repo-review.schema.json
var SchemaJSON string

var (
	schema  = mustCompileSchema(SchemaJSON, "repo-review.schema.json")
	printer = message.NewPrinter(language.English)
)

// Settings is the repository-level selection configuration.
type Settings struct {
	// Source is where the settings were read from; empty when the repository
	// has none.
	Source string
	Select []string
	// Ignore holds every ignored selector, including the keys of Reasons.
	Ignore []string
	// Reasons maps ignored selectors to the reason they were ignored. Only
	// the table form of ignore sets it.
	Reasons map[string]string
}

type rawSettings struct {
	Select []string `mapstructure:"select"`
	Ignore any      `mapstructure:"ignore"`
}

// Load reads settings from the package directory: the [tool.repo-review]
// table of pyproject.toml when present, else .repo-review.yaml. A repository
// with neither has empty settings.
func Load(pkg tree.Tree) (*Settings, error) {
	doc, source, err := find(pkg)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return &Settings{}, nil
	}
	return Parse(doc, source)
}

func find(pkg tree.Tree) (map[string]any, string, error) {
	pyproject := pkg.Join(PyprojectFile)
	if pyproject.IsFile() {
		text, err := pyproject.ReadText()
		if err != nil {
			return nil, "", err
		}
		var doc map[string]any
		if _, err := toml.Decode(text, &doc); err != nil {
			return nil, "", fmt.Errorf("parse %s: %w", pyproject, err)
		}
		if tool, ok := doc["tool"].(map[string]any); ok {
			if section, ok := tool[ToolSection]; ok {
				table, ok := section.(map[string]any)
				if !ok {
					return nil, "", fmt.Errorf("%s: [tool.%s] must be a table", pyproject, ToolSection)
				}
				return table, pyproject.String(), nil
			}
		}
	}

	file := pkg.Join(YAMLFile)
	b, err := file.ReadBytes()
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	var doc map[string]any
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, "", fmt.Errorf("parse %s: %w", file, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, file.String(), nil
}

// Parse validates a decoded settings table and normalizes it.
func Parse(doc map[string]any, source string) (*Settings, error) {
	if problems := Validate(doc); len(problems) > 0 {
		where := source
		if where == "" {
			where = "settings"
		}
		return nil, fmt.Errorf("invalid repo-review settings in %s:\n  %s", where, strings.Join(problems, "\n  "))
	}

	var raw rawSettings
	if err := mapstructure.Decode(doc, &raw); err != nil {
		return nil, fmt.Errorf("decode repo-review settings: %w", err)
	}

	s := &Settings{Source: source, Select: raw.Select}
	switch ignore := raw.Ignore.(type) {
	case nil:
	case []any:
		for _, v := range ignore {
			s.Ignore = append(s.Ignore, fmt.Sprint(v))
		}
	case map[string]any:
		s.Reasons = make(map[string]string, len(ignore))
		for k, v := range ignore {
			s.Ignore = append(s.Ignore, k)
			s.Reasons[k] = fmt.Sprint(v)
		}
		sort.Strings(s.Ignore)
	default:
		return nil, fmt.Errorf("decode repo-review settings: unexpected ignore type %T", raw.Ignore)
	}
	return s, nil
}

// Validate checks doc against the settings schema and returns one line per
// problem.
func Validate(doc any) []string {
	// Round-trip through JSON so values decoded from TOML or YAML (int64,
	// time.Time, ...) reach the validator as plain JSON types.
	b, err := json.Marshal(doc)
	if err != nil {
		return []string{fmt.Sprintf("settings are not JSON-compatible: %v", err)}
	}
	instance, err := jsonschema.UnmarshalJSON(strings.NewReader(string(b)))
	if err != nil {
		return []string{fmt.Sprintf("settings are not JSON-compatible: %v", err)}
	}

	err = schema.Validate(instance)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []string{fmt.Sprintf("schema: %v", err)}
	}
	var problems []string
	collectSchemaErrors(ve, &problems)
	return problems
}

func collectSchemaErrors(ve *jsonschema.ValidationError, out *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/" + strings.Join(ve.InstanceLocation, "/")
		*out = append(*out, fmt.Sprintf("%s: %s", loc, ve.ErrorKind.LocalizedString(printer)))
		return
	}
	for _, c := range ve.Causes {
		collectSchemaErrors(c, out)
	}
}

func mustCompileSchema(raw string, name string) *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", name, err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, doc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}
	sch, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}

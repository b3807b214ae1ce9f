package settings

import (
	"os"
	"path/filepath"
	"reflect"
	"reporeview/internal/tree"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		files       map[string]string
		wantSelect  []string
		wantIgnore  []string
		wantReasons map[string]string
		wantSource  string
	}{
		{
			name:       "no configuration",
			files:      map[string]string{},
			wantSource: "",
		},
		{
			name: "pyproject without section",
			files: map[string]string{
				PyprojectFile: "[project]\nname = \"x\"\n",
			},
			wantSource: "",
		},
		{
			name: "pyproject list form",
			files: map[string]string{
				PyprojectFile: "[tool.repo-review]\nselect = [\"PY\", \"PP302\"]\nignore = [\"PP3\"]\n",
			},
			wantSelect: []string{"PY", "PP302"},
			wantIgnore: []string{"PP3"},
			wantSource: PyprojectFile,
		},
		{
			name: "pyproject reason table",
			files: map[string]string{
				PyprojectFile: "[tool.repo-review.ignore]\nPP302 = \"pytest is not used\"\nGH = \"\"\n",
			},
			wantIgnore:  []string{"GH", "PP302"},
			wantReasons: map[string]string{"PP302": "pytest is not used", "GH": ""},
			wantSource:  PyprojectFile,
		},
		{
			name: "yaml fallback",
			files: map[string]string{
				YAMLFile: "select: [\"*\"]\nignore:\n  G003: docs live elsewhere\n",
			},
			wantSelect:  []string{"*"},
			wantIgnore:  []string{"G003"},
			wantReasons: map[string]string{"G003": "docs live elsewhere"},
			wantSource:  YAMLFile,
		},
		{
			name: "pyproject section wins over yaml",
			files: map[string]string{
				PyprojectFile: "[tool.repo-review]\nselect = [\"A\"]\n",
				YAMLFile:      "select: [\"B\"]\n",
			},
			wantSelect: []string{"A"},
			wantSource: PyprojectFile,
		},
		{
			name: "empty yaml",
			files: map[string]string{
				YAMLFile: "",
			},
			wantSource: YAMLFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, content := range tt.files {
				writeFile(t, dir, name, content)
			}

			s, err := Load(tree.NewLocal(dir))
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if !reflect.DeepEqual(s.Select, tt.wantSelect) {
				t.Fatalf("expected select %v, got %v", tt.wantSelect, s.Select)
			}
			if !reflect.DeepEqual(s.Ignore, tt.wantIgnore) {
				t.Fatalf("expected ignore %v, got %v", tt.wantIgnore, s.Ignore)
			}
			if !reflect.DeepEqual(s.Reasons, tt.wantReasons) {
				t.Fatalf("expected reasons %v, got %v", tt.wantReasons, s.Reasons)
			}
			wantSource := tt.wantSource
			if wantSource != "" {
				wantSource = filepath.Join(dir, wantSource)
			}
			if s.Source != wantSource {
				t.Fatalf("expected source %q, got %q", wantSource, s.Source)
			}
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{
			name:    "select must be a list",
			file:    PyprojectFile,
			content: "[tool.repo-review]\nselect = \"PY\"\n",
			wantErr: "/select",
		},
		{
			name:    "unknown key",
			file:    PyprojectFile,
			content: "[tool.repo-review]\nchecks = [\"PY\"]\n",
			wantErr: "invalid repo-review settings",
		},
		{
			name:    "reasons must be strings",
			file:    YAMLFile,
			content: "ignore:\n  PY001: 3\n",
			wantErr: "/ignore",
		},
		{
			name:    "empty selector",
			file:    YAMLFile,
			content: "select: [\"\"]\n",
			wantErr: "/select/0",
		},
		{
			name:    "section is not a table",
			file:    PyprojectFile,
			content: "[tool]\nrepo-review = 1\n",
			wantErr: "must be a table",
		},
		{
			name:    "broken toml",
			file:    PyprojectFile,
			content: "[tool.repo-review\n",
			wantErr: "parse",
		},
		{
			name:    "broken yaml",
			file:    YAMLFile,
			content: "select: [\n",
			wantErr: "parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, tt.file, tt.content)

			_, err := Load(tree.NewLocal(dir))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoad_EmptyTree(t *testing.T) {
	s, err := Load(tree.Empty)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Source != "" || len(s.Select) != 0 || len(s.Ignore) != 0 {
		t.Fatalf("expected empty settings, got %+v", s)
	}
}

func TestSchemaJSON(t *testing.T) {
	if !strings.Contains(SchemaJSON, `"ignore"`) {
		t.Fatalf("expected embedded schema to describe ignore")
	}
	if problems := Validate(map[string]any{"select": []string{"A"}}); len(problems) != 0 {
		t.Fatalf("expected valid settings, got %v", problems)
	}
}

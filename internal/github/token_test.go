package github

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func writeGHStub(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test uses a shell script gh stub")
	}
	tmp := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmp, "gh"), []byte(script), 0o755); err != nil {
		t.Fatalf("WriteFile gh stub failed: %v", err)
	}
	return tmp
}

func TestResolveAuthToken(t *testing.T) {
	tests := []struct {
		name        string
		provided    string
		githubToken string
		ghToken     string
		ghScript    string
		wantToken   string
		wantSource  AuthTokenSource
	}{
		{
			name:        "explicit token wins",
			provided:    " explicit ",
			githubToken: "env-token",
			wantToken:   "explicit",
			wantSource:  AuthTokenSourceExplicit,
		},
		{
			name:        "GITHUB_TOKEN before GH_TOKEN",
			githubToken: "env-token",
			ghToken:     "gh-env-token",
			wantToken:   "env-token",
			wantSource:  AuthTokenSourceEnv,
		},
		{
			name:       "GH_TOKEN used when GITHUB_TOKEN empty",
			ghToken:    "gh-env-token",
			wantToken:  "gh-env-token",
			wantSource: AuthTokenSourceGHEnv,
		},
		{
			name:       "gh CLI used when env empty",
			ghScript:   "#!/bin/sh\necho gh-token\n",
			wantToken:  "gh-token",
			wantSource: AuthTokenSourceGitHubCL,
		},
		{
			name:       "gh CLI not logged in",
			ghScript:   "#!/bin/sh\necho 'not logged in' >&2\nexit 1\n",
			wantToken:  "",
			wantSource: AuthTokenSourceNone,
		},
		{
			name:       "anonymous when nothing configured",
			wantToken:  "",
			wantSource: AuthTokenSourceNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GITHUB_TOKEN", tt.githubToken)
			t.Setenv("GH_TOKEN", tt.ghToken)
			if tt.ghScript != "" {
				t.Setenv("PATH", writeGHStub(t, tt.ghScript))
			} else {
				t.Setenv("PATH", t.TempDir())
			}

			tok, src, err := ResolveAuthToken(context.Background(), tt.provided)
			if err != nil {
				t.Fatalf("ResolveAuthToken error: %v", err)
			}
			if tok != tt.wantToken {
				t.Fatalf("expected token %q, got %q", tt.wantToken, tok)
			}
			if src != tt.wantSource {
				t.Fatalf("expected source %q, got %q", tt.wantSource, src)
			}
		})
	}
}

func TestResolveAuthToken_GHInvalidOutput(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GH_TOKEN", "")
	t.Setenv("PATH", writeGHStub(t, "#!/bin/sh\nprintf 'line1\\nline2\\n'\n"))

	if _, _, err := ResolveAuthToken(context.Background(), ""); err == nil {
		t.Fatalf("expected error")
	}
}

func TestResolveAuthToken_ContextCanceled(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GH_TOKEN", "")
	t.Setenv("PATH", writeGHStub(t, "#!/bin/sh\necho gh-token\n"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := ResolveAuthToken(ctx, "")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

package github

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"
)

type AuthTokenSource string

const (
	AuthTokenSourceNone     AuthTokenSource = ""
	AuthTokenSourceExplicit AuthTokenSource = "explicit"
	AuthTokenSourceEnv      AuthTokenSource = "env:GITHUB_TOKEN"
	AuthTokenSourceGHEnv    AuthTokenSource = "env:GH_TOKEN"
	AuthTokenSourceGitHubCL AuthTokenSource = "gh"
)

// ghTimeout bounds `gh auth token` when the caller set no deadline.
const ghTimeout = 5 * time.Second

// ResolveAuthToken finds a token for reading remote repositories.
//
// Precedence:
//  1. provided (if non-empty)
//  2. GITHUB_TOKEN, then GH_TOKEN
//  3. `gh auth token -h github.com`
//
// Public repositories can be read anonymously, so finding nothing is not an
// error: the token is empty and the source is AuthTokenSourceNone.
func ResolveAuthToken(ctx context.Context, provided string) (string, AuthTokenSource, error) {
	if tok := strings.TrimSpace(provided); tok != "" {
		return tok, AuthTokenSourceExplicit, nil
	}

	for _, env := range []struct {
		name   string
		source AuthTokenSource
	}{
		{name: "GITHUB_TOKEN", source: AuthTokenSourceEnv},
		{name: "GH_TOKEN", source: AuthTokenSourceGHEnv},
	} {
		if tok := strings.TrimSpace(os.Getenv(env.name)); tok != "" {
			return tok, env.source, nil
		}
	}

	tok, err := tokenFromGitHubCLI(ctx)
	if err != nil {
		return "", AuthTokenSourceNone, err
	}
	if tok != "" {
		return tok, AuthTokenSourceGitHubCL, nil
	}
	return "", AuthTokenSourceNone, nil
}

func tokenFromGitHubCLI(ctx context.Context) (string, error) {
	if _, err := exec.LookPath("gh"); err != nil {
		return "", nil
	}

	cmdCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		cmdCtx, cancel = context.WithTimeout(ctx, ghTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(cmdCtx, "gh", "auth", "token", "-h", "github.com")
	env := make([]string, 0, len(os.Environ())+1)
	for _, entry := range os.Environ() {
		if !strings.HasPrefix(entry, "GH_PAGER=") {
			env = append(env, entry)
		}
	}
	cmd.Env = append(env, "GH_PAGER=cat")

	out, err := cmd.Output()
	if err != nil {
		if cmdCtx.Err() != nil {
			return "", cmdCtx.Err()
		}
		// Not logged in. The output is dropped so nothing sensitive leaks.
		return "", nil
	}

	tok := strings.TrimSpace(string(out))
	if strings.ContainsAny(tok, " \t\n\r") {
		return "", errors.New("invalid token returned by gh: contains whitespace")
	}
	return tok, nil
}

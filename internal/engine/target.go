package engine

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	gh "reporeview/internal/github"
	"reporeview/internal/tree"
	"strings"
)

// Target is a repository named on the command line: a local directory or a
// GitHub repository snapshot.
type Target struct {
	// Raw is the argument as given.
	Raw string
	// Path is the local directory; empty for GitHub targets.
	Path   string
	GitHub tree.GitHubRef
	// Subdir is the directory inside a GitHub repository used as the root.
	Subdir string
}

func (t Target) Remote() bool {
	return t.Path == ""
}

func (t Target) String() string {
	return t.Raw
}

// ParseTarget accepts a local path, gh:owner/repo[@ref][:path], or a GitHub
// URL (https://github.com/owner/repo[/tree/ref[/path]] or
// git@github.com:owner/repo.git).
func ParseTarget(raw string) (Target, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Target{}, fmt.Errorf("empty target")
	}

	switch {
	case strings.HasPrefix(raw, "gh:"):
		return parseGHTarget(raw)
	case strings.HasPrefix(raw, "github.com/"), strings.HasPrefix(raw, "www.github.com/"):
		return parseGitHubURL(raw, "https://"+raw)
	case strings.HasPrefix(raw, "https://"), strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "git://"):
		return parseGitHubURL(raw, raw)
	case strings.HasPrefix(raw, "git@github.com:"):
		rest := strings.Trim(strings.TrimPrefix(raw, "git@github.com:"), "/")
		owner, name, err := splitOwnerRepo(strings.TrimSuffix(rest, ".git"))
		if err != nil {
			return Target{}, err
		}
		return Target{Raw: raw, GitHub: tree.GitHubRef{Owner: owner, Name: name}}, nil
	}
	return Target{Raw: raw, Path: raw}, nil
}

func parseGHTarget(raw string) (Target, error) {
	rest := strings.TrimPrefix(raw, "gh:")
	repoRef, subdir, _ := strings.Cut(rest, ":")
	repo, ref, _ := strings.Cut(repoRef, "@")
	owner, name, err := splitOwnerRepo(repo)
	if err != nil {
		return Target{}, fmt.Errorf("invalid target %q; expected gh:owner/repo[@ref][:path]", raw)
	}
	return Target{
		Raw:    raw,
		GitHub: tree.GitHubRef{Owner: owner, Name: name, Ref: ref},
		Subdir: cleanSubdir(subdir),
	}, nil
}

func parseGitHubURL(raw, u string) (Target, error) {
	parsed, err := url.Parse(u)
	if err != nil {
		return Target{}, fmt.Errorf("invalid target %q: %w", raw, err)
	}
	host := strings.ToLower(parsed.Hostname())
	if host == "www.github.com" {
		host = "github.com"
	}
	if host != "github.com" {
		return Target{}, fmt.Errorf("invalid target %q; only github.com URLs are supported", raw)
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) < 2 {
		return Target{}, fmt.Errorf("invalid target %q; expected owner/name", raw)
	}
	owner, name, err := splitOwnerRepo(parts[0] + "/" + strings.TrimSuffix(parts[1], ".git"))
	if err != nil {
		return Target{}, err
	}
	t := Target{Raw: raw, GitHub: tree.GitHubRef{Owner: owner, Name: name}}
	// .../tree/<ref>/<path>; refs containing slashes are not supported here.
	if len(parts) >= 4 && parts[2] == "tree" {
		t.GitHub.Ref = parts[3]
		t.Subdir = cleanSubdir(strings.Join(parts[4:], "/"))
	}
	return t, nil
}

func splitOwnerRepo(sel string) (owner string, name string, err error) {
	parts := strings.Split(sel, "/")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid repo selector %q; expected owner/name", sel)
	}
	if parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo selector %q; expected owner/name", sel)
	}
	return parts[0], parts[1], nil
}

func cleanSubdir(p string) string {
	p = path.Clean("/" + strings.TrimSpace(p))
	return strings.TrimPrefix(p, "/")
}

// Open returns the root tree of t. client is only used for GitHub targets.
func (t Target) Open(ctx context.Context, client *gh.Client) (tree.Tree, error) {
	if !t.Remote() {
		info, err := os.Stat(t.Path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", t.Path, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("open %s: not a directory", t.Path)
		}
		return tree.NewLocal(t.Path), nil
	}

	root, err := tree.OpenGitHub(ctx, client, t.GitHub)
	if err != nil {
		return nil, err
	}
	if t.Subdir == "" {
		return root, nil
	}
	sub := root.Join(t.Subdir)
	if !sub.IsDir() {
		return nil, fmt.Errorf("open %s: %s is not a directory", root, t.Subdir)
	}
	return sub, nil
}

package tree

import (
	"context"
	"fmt"
	"path"
	gh "reporeview/internal/github"
	"sort"
	"strings"

	"github.com/google/go-github/v68/github"
)

// GitHubRef identifies a repository snapshot on GitHub. An empty Ref means the
// default branch.
type GitHubRef struct {
	Owner string
	Name  string
	Ref   string
}

func (r GitHubRef) String() string {
	return fmt.Sprintf("gh:%s/%s@%s", r.Owner, r.Name, r.Ref)
}

// githubRepo is the state shared by every GitHub handle of one snapshot.
type githubRepo struct {
	// ctx bounds every blob read made through the tree.
	ctx      context.Context
	client   *github.Client
	ref      GitHubRef
	entries  map[string]*github.TreeEntry
	children map[string][]string
	blobs    blobCache
}

// GitHub is a Tree backed by the GitHub git trees API. The full listing is
// fetched once by OpenGitHub; file contents are fetched lazily and cached.
type GitHub struct {
	repo *githubRepo
	path string
}

// OpenGitHub lists the repository tree at ref and returns its root.
func OpenGitHub(ctx context.Context, client *gh.Client, ref GitHubRef) (*GitHub, error) {
	if ctx == nil {
		return nil, fmt.Errorf("OpenGitHub: nil context")
	}
	if client == nil || client.Client == nil {
		return nil, fmt.Errorf("OpenGitHub: nil GitHub client")
	}
	if ref.Owner == "" || ref.Name == "" {
		return nil, fmt.Errorf("OpenGitHub: repo owner/name is required")
	}

	api := client.Client
	if ref.Ref == "" {
		r, _, err := api.Repositories.Get(ctx, ref.Owner, ref.Name)
		if err != nil {
			return nil, fmt.Errorf("resolve default branch of %s/%s: %w", ref.Owner, ref.Name, err)
		}
		ref.Ref = r.GetDefaultBranch()
		if ref.Ref == "" {
			return nil, fmt.Errorf("resolve default branch of %s/%s: empty default branch", ref.Owner, ref.Name)
		}
	}

	listing, _, err := api.Git.GetTree(ctx, ref.Owner, ref.Name, ref.Ref, true)
	if err != nil {
		return nil, fmt.Errorf("list tree of %s: %w", ref, err)
	}
	if listing.GetTruncated() {
		return nil, fmt.Errorf("list tree of %s: listing truncated by GitHub", ref)
	}

	repo := &githubRepo{
		ctx:      ctx,
		client:   api,
		ref:      ref,
		entries:  make(map[string]*github.TreeEntry),
		children: map[string][]string{"": nil},
	}
	for _, e := range listing.Entries {
		p := strings.Trim(e.GetPath(), "/")
		if p == "" {
			continue
		}
		switch e.GetType() {
		case "blob", "tree":
		default:
			// submodules
			continue
		}
		repo.entries[p] = e
		dir := path.Dir(p)
		if dir == "." {
			dir = ""
		}
		repo.children[dir] = append(repo.children[dir], p)
	}
	for dir := range repo.children {
		sort.Strings(repo.children[dir])
	}

	return &GitHub{repo: repo}, nil
}

func (g *GitHub) Ref() GitHubRef {
	return g.repo.ref
}

func (g *GitHub) Name() string {
	if g.path == "" {
		return g.repo.ref.Name
	}
	return path.Base(g.path)
}

func (g *GitHub) String() string {
	if g.path == "" {
		return g.repo.ref.String()
	}
	return g.repo.ref.String() + ":" + g.path
}

func (g *GitHub) Join(rel string) Tree {
	p := path.Join(g.path, rel)
	if p == "." {
		p = ""
	}
	return &GitHub{repo: g.repo, path: p}
}

func (g *GitHub) IsDir() bool {
	if g.path == "" {
		return true
	}
	e, ok := g.repo.entries[g.path]
	return ok && e.GetType() == "tree"
}

func (g *GitHub) IsFile() bool {
	e, ok := g.repo.entries[g.path]
	return ok && e.GetType() == "blob"
}

func (g *GitHub) Children() ([]Tree, error) {
	if !g.IsDir() {
		return nil, fmt.Errorf("list %s: not a directory", g)
	}
	names := g.repo.children[g.path]
	out := make([]Tree, 0, len(names))
	for _, p := range names {
		out = append(out, &GitHub{repo: g.repo, path: p})
	}
	return out, nil
}

func (g *GitHub) ReadBytes() ([]byte, error) {
	e, ok := g.repo.entries[g.path]
	if !ok || e.GetType() != "blob" {
		return nil, notExist(g.String())
	}
	r := g.repo
	return r.blobs.load(e.GetSHA(), func() ([]byte, error) {
		b, _, err := r.client.Git.GetBlobRaw(r.ctx, r.ref.Owner, r.ref.Name, e.GetSHA())
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", g, err)
		}
		return b, nil
	})
}

func (g *GitHub) ReadText() (string, error) {
	b, err := g.ReadBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

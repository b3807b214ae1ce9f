package tree

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	gh "reporeview/internal/github"
	"sync/atomic"
	"testing"
)

func newTestGitHubClient(t *testing.T, serverURL string) *gh.Client {
	t.Helper()
	client, err := gh.NewClient(context.Background(), "dummy")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	base, err := url.Parse(serverURL + "/")
	if err != nil {
		t.Fatalf("url.Parse failed: %v", err)
	}
	client.Client.BaseURL = base
	client.Client.UploadURL = base
	return client
}

func TestOpenGitHub(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	client := newTestGitHubClient(t, server.URL)

	mux.HandleFunc("/repos/acme/widget", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name":"widget","default_branch":"main","owner":{"login":"acme"}}`)
	})
	mux.HandleFunc("/repos/acme/widget/git/trees/main", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("recursive") == "" {
			t.Errorf("expected recursive listing")
		}
		fmt.Fprint(w, `{"sha":"root","truncated":false,"tree":[
			{"path":"README.md","type":"blob","sha":"readme"},
			{"path":"docs","type":"tree","sha":"docs"},
			{"path":"docs/index.md","type":"blob","sha":"index"},
			{"path":"vendor/lib","type":"commit","sha":"sub"}
		]}`)
	})
	var blobReads atomic.Int32
	mux.HandleFunc("/repos/acme/widget/git/blobs/readme", func(w http.ResponseWriter, r *http.Request) {
		blobReads.Add(1)
		fmt.Fprint(w, "# widget\n")
	})

	root, err := OpenGitHub(context.Background(), client, GitHubRef{Owner: "acme", Name: "widget"})
	if err != nil {
		t.Fatalf("OpenGitHub failed: %v", err)
	}
	if root.Ref().Ref != "main" {
		t.Fatalf("expected default branch main, got %q", root.Ref().Ref)
	}
	if got := root.String(); got != "gh:acme/widget@main" {
		t.Fatalf("unexpected String(): %q", got)
	}

	children, err := root.Children()
	if err != nil {
		t.Fatalf("Children failed: %v", err)
	}
	if got := names(children); len(got) != 2 || got[0] != "README.md" || got[1] != "docs" {
		t.Fatalf("expected [README.md docs], got %v", got)
	}
	if !root.Join("docs").IsDir() || !root.Join("docs/index.md").IsFile() {
		t.Fatalf("expected docs directory with index.md")
	}
	if Exists(root.Join("vendor/lib")) {
		t.Fatalf("expected submodule entry to be skipped")
	}

	for i := 0; i < 2; i++ {
		text, err := root.Join("README.md").ReadText()
		if err != nil {
			t.Fatalf("ReadText failed: %v", err)
		}
		if text != "# widget\n" {
			t.Fatalf("unexpected README contents: %q", text)
		}
	}
	if n := blobReads.Load(); n != 1 {
		t.Fatalf("expected a single blob request, got %d", n)
	}

	if _, err := root.Join("missing.txt").ReadBytes(); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}

	yml, err := Glob(root, "docs/*.md")
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	if len(yml) != 1 || yml[0].String() != "gh:acme/widget@main:docs/index.md" {
		t.Fatalf("unexpected glob result: %v", yml)
	}
}

func TestOpenGitHub_Truncated(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	client := newTestGitHubClient(t, server.URL)

	mux.HandleFunc("/repos/acme/huge/git/trees/dev", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"sha":"root","truncated":true,"tree":[]}`)
	})

	_, err := OpenGitHub(context.Background(), client, GitHubRef{Owner: "acme", Name: "huge", Ref: "dev"})
	if err == nil {
		t.Fatalf("expected error for truncated listing")
	}
}

func TestOpenGitHub_Validation(t *testing.T) {
	if _, err := OpenGitHub(context.Background(), nil, GitHubRef{Owner: "a", Name: "b"}); err == nil {
		t.Fatalf("expected error for nil client")
	}
	client, _ := gh.NewClient(context.Background(), "")
	if _, err := OpenGitHub(context.Background(), client, GitHubRef{Owner: "a"}); err == nil {
		t.Fatalf("expected error for missing repo name")
	}
}

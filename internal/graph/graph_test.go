package graph

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestSort(t *testing.T) {
	tests := []struct {
		name  string
		build func(g *Graph)
		want  []string
	}{
		{
			name:  "empty graph",
			build: func(g *Graph) {},
			want:  []string{},
		},
		{
			name: "independent nodes keep insertion order",
			build: func(g *Graph) {
				g.Add("c")
				g.Add("a")
				g.Add("b")
			},
			want: []string{"c", "a", "b"},
		},
		{
			name: "dependencies come first",
			build: func(g *Graph) {
				g.Add("app", "config", "db")
				g.Add("db", "config")
				g.Add("config")
			},
			want: []string{"config", "db", "app"},
		},
		{
			name: "unknown dependencies are ignored",
			build: func(g *Graph) {
				g.Add("a", "missing")
				g.Add("b", "a")
			},
			want: []string{"a", "b"},
		},
		{
			name: "released nodes queue behind ready nodes",
			build: func(g *Graph) {
				g.Add("root")
				g.Add("z", "root")
				g.Add("y", "root")
				g.Add("x")
			},
			want: []string{"root", "x", "z", "y"},
		},
		{
			name: "released nodes keep insertion order among themselves",
			build: func(g *Graph) {
				g.Add("c", "a", "b")
				g.Add("b", "a")
				g.Add("d", "a")
				g.Add("a")
			},
			want: []string{"a", "b", "d", "c"},
		},
		{
			name: "duplicate dependencies count once",
			build: func(g *Graph) {
				g.Add("b", "a", "a")
				g.Add("a")
			},
			want: []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			tt.build(g)
			got, err := g.Sort()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSort_Cycle(t *testing.T) {
	g := New()
	g.Add("ok")
	g.Add("a", "b")
	g.Add("b", "c")
	g.Add("c", "a")

	_, err := g.Sort()
	if err == nil {
		t.Fatal("expected cycle error")
	}
	if !errors.Is(err, ErrCycle) {
		t.Fatalf("expected ErrCycle, got %v", err)
	}
	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CycleError, got %T", err)
	}
	if got := strings.Join(ce.Path, " -> "); got != "a -> b -> c -> a" {
		t.Fatalf("expected cycle a -> b -> c -> a, got %s", got)
	}
}

func TestSort_SelfLoop(t *testing.T) {
	g := New()
	g.Add("a", "a")

	_, err := g.Sort()
	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CycleError, got %v", err)
	}
	if !reflect.DeepEqual(ce.Path, []string{"a", "a"}) {
		t.Fatalf("expected [a a], got %v", ce.Path)
	}
}

func TestDependencies(t *testing.T) {
	g := New()
	g.Add("a")
	g.Add("b", "a", "nope", "a")

	if got := g.Dependencies("b"); !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("expected [a], got %v", got)
	}
	if !g.Has("a") || g.Has("nope") {
		t.Fatal("unexpected Has result")
	}
	if g.Len() != 2 {
		t.Fatalf("expected 2 nodes, got %d", g.Len())
	}
}

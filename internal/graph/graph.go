// Package graph orders named nodes by their declared dependencies.
package graph

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCycle is wrapped by every error Sort returns for a cyclic graph.
var ErrCycle = errors.New("dependency cycle detected")

// CycleError reports one cycle found while sorting. Path starts and ends with
// the same node.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCycle, strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error {
	return ErrCycle
}

// Graph is a dependency graph whose nodes remember the order they were added
// in. Sort is deterministic in that order.
type Graph struct {
	order []string
	index map[string]int
	deps  map[string][]string
}

func New() *Graph {
	return &Graph{
		index: make(map[string]int),
		deps:  make(map[string][]string),
	}
}

// Add registers node with the given dependencies. Adding a node twice merges
// its dependencies and keeps its first position.
func (g *Graph) Add(node string, deps ...string) {
	if _, ok := g.index[node]; !ok {
		g.index[node] = len(g.order)
		g.order = append(g.order, node)
	}
	g.deps[node] = append(g.deps[node], deps...)
}

func (g *Graph) Has(node string) bool {
	_, ok := g.index[node]
	return ok
}

func (g *Graph) Len() int {
	return len(g.order)
}

// Dependencies returns the known dependencies of node, in declaration order
// and without duplicates. Names that were never added are dropped.
func (g *Graph) Dependencies(node string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, d := range g.deps[node] {
		if _, ok := g.index[d]; !ok {
			continue
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}

// Sort returns every node so that each one follows all of its dependencies.
// Dependencies on nodes that were never added are ignored.
func (g *Graph) Sort() ([]string, error) {
	pending := make([]int, len(g.order))
	dependents := make([][]int, len(g.order))
	for i, node := range g.order {
		for _, d := range g.Dependencies(node) {
			j := g.index[d]
			pending[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	// ready is a FIFO queue seeded in insertion order; released nodes queue
	// behind the nodes that were already ready.
	ready := make([]int, 0, len(g.order))
	for i := range g.order {
		if pending[i] == 0 {
			ready = append(ready, i)
		}
	}

	sorted := make([]string, 0, len(g.order))
	for head := 0; head < len(ready); head++ {
		next := ready[head]
		sorted = append(sorted, g.order[next])
		for _, dep := range dependents[next] {
			pending[dep]--
			if pending[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}

	if len(sorted) != len(g.order) {
		return nil, &CycleError{Path: g.findCycle(pending)}
	}
	return sorted, nil
}

// findCycle walks the nodes Sort could not place and returns one cycle.
func (g *Graph) findCycle(pending []int) []string {
	const (
		unvisited = iota
		onStack
		done
	)
	state := make([]int, len(g.order))
	var stack []string

	var visit func(i int) []string
	visit = func(i int) []string {
		state[i] = onStack
		stack = append(stack, g.order[i])
		for _, d := range g.Dependencies(g.order[i]) {
			j := g.index[d]
			switch state[j] {
			case onStack:
				for k, name := range stack {
					if name == d {
						cycle := append([]string{}, stack[k:]...)
						return append(cycle, d)
					}
				}
			case unvisited:
				if c := visit(j); c != nil {
					return c
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[i] = done
		return nil
	}

	for i := range g.order {
		if pending[i] == 0 || state[i] != unvisited {
			continue
		}
		if c := visit(i); c != nil {
			return c
		}
	}
	return nil
}

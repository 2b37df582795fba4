// SPDX-License-Identifier: MPL-2.0

// Package dag holds a small directed graph over string keys with topological
// ordering, reachability and cycle detection. fmkit builds one graph per
// model: requires edges for the cycle check and tree edges for reachability.
package dag

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrCycle is the sentinel error wrapped by CycleError.
var ErrCycle = errors.New("cycle detected")

type (
	// CycleError reports the nodes that lie on at least one cycle, in the
	// order they were added to the graph. Nodes that only hang off a cycle
	// are not listed.
	CycleError struct {
		Cycle []string
	}

	// Graph is a directed graph. An edge from A to B reads "A depends on B"
	// for requires graphs and "A is the parent of B" for tree graphs.
	Graph struct {
		// adjacency maps each node to its outgoing neighbors.
		adjacency map[string][]string
		// nodes keeps insertion order for deterministic output.
		nodes   []string
		nodeSet map[string]bool
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// Unwrap returns ErrCycle for errors.Is() compatibility.
func (e *CycleError) Unwrap() error { return ErrCycle }

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		adjacency: make(map[string][]string),
		nodeSet:   make(map[string]bool),
	}
}

// AddNode adds a node. Adding an existing node is a no-op.
func (g *Graph) AddNode(name string) {
	if g.nodeSet[name] {
		return
	}
	g.nodeSet[name] = true
	g.nodes = append(g.nodes, name)
}

// AddEdge adds the edge from -> to, adding both nodes if needed.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	g.adjacency[from] = append(g.adjacency[from], to)
}

// HasNode reports whether name was added.
func (g *Graph) HasNode(name string) bool { return g.nodeSet[name] }

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []string { return slices.Clone(g.nodes) }

// TopologicalSort orders the nodes so that every edge points forward, using
// Kahn's algorithm. Nodes at the same level keep insertion order. A graph with
// a cycle yields a *CycleError.
func (g *Graph) TopologicalSort() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	inDegree := make(map[string]int, len(g.nodes))
	for _, node := range g.nodes {
		inDegree[node] = 0
	}
	for _, neighbors := range g.adjacency {
		for _, neighbor := range neighbors {
			inDegree[neighbor]++
		}
	}

	queue := make([]string, 0)
	for _, node := range g.nodes {
		if inDegree[node] == 0 {
			queue = append(queue, node)
		}
	}

	var result []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, neighbor := range g.adjacency[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
			}
		}
	}

	if len(result) != len(g.nodes) {
		// Nodes left with in-degree > 0 are on a cycle or downstream of one.
		var cycle []string
		for _, node := range g.nodes {
			if inDegree[node] > 0 && g.reaches(node, node) {
				cycle = append(cycle, node)
			}
		}
		return nil, &CycleError{Cycle: cycle}
	}

	return result, nil
}

// Reachable returns every node reachable from start, start included, in
// breadth-first order. An unknown start yields nil.
func (g *Graph) Reachable(start string) []string {
	if !g.nodeSet[start] {
		return nil
	}

	seen := map[string]bool{start: true}
	order := []string{start}
	for i := 0; i < len(order); i++ {
		for _, next := range g.adjacency[order[i]] {
			if !seen[next] {
				seen[next] = true
				order = append(order, next)
			}
		}
	}
	return order
}

// reaches reports whether target is reachable from start through at least
// one edge.
func (g *Graph) reaches(start, target string) bool {
	seen := make(map[string]bool)
	stack := slices.Clone(g.adjacency[start])
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == target {
			return true
		}
		if seen[node] {
			continue
		}
		seen[node] = true
		stack = append(stack, g.adjacency[node]...)
	}
	return false
}

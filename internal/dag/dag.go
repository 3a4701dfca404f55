// Package dag provides dependency graph operations over project config objects.
// It supports cycle detection, topological sorting, and execution levels.
// All listings follow node insertion order, which for project graphs is
// enumeration order.
package dag

import (
	"fmt"
	"slices"

	"github.com/leapstack-labs/projgraph/pkg/core"
)

// Node represents a node in the graph.
type Node struct {
	// ID is the unique identifier (object name, or type/name when names collide)
	ID string
	// Object is the config object, nil for bare nodes
	Object *core.ConfigObject
}

// Graph is a directed dependency graph.
type Graph struct {
	nodes   map[string]*Node
	order   []string
	edges   map[string][]string // dependency -> dependents
	parents map[string][]string // dependent -> dependencies
	ids     map[*core.ConfigObject]string
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:   make(map[string]*Node),
		edges:   make(map[string][]string),
		parents: make(map[string][]string),
		ids:     make(map[*core.ConfigObject]string),
	}
}

// FromProject builds the dependency graph of a resolved project.
func FromProject(pc *core.ProjectConfig) *Graph {
	g := NewGraph()
	objects := pc.Children()

	for _, obj := range objects {
		g.AddNode(pc.Key(obj), obj)
	}
	for _, obj := range objects {
		for _, dep := range obj.DirectDependencies() {
			depID, ok := g.ids[dep]
			if !ok {
				continue
			}
			_ = g.AddEdge(depID, g.ids[obj])
		}
	}
	return g
}

// AddNode adds a node to the graph, or replaces the object of an existing node.
func (g *Graph) AddNode(id string, obj *core.ConfigObject) {
	if n, exists := g.nodes[id]; exists {
		if n.Object != nil {
			delete(g.ids, n.Object)
		}
		n.Object = obj
	} else {
		g.nodes[id] = &Node{ID: id, Object: obj}
		g.order = append(g.order, id)
	}
	if obj != nil {
		g.ids[obj] = id
	}
}

// AddEdge records that dependentID depends on dependencyID.
func (g *Graph) AddEdge(dependencyID, dependentID string) error {
	if _, exists := g.nodes[dependencyID]; !exists {
		return fmt.Errorf("dependency node %q does not exist", dependencyID)
	}
	if _, exists := g.nodes[dependentID]; !exists {
		return fmt.Errorf("dependent node %q does not exist", dependentID)
	}
	if dependencyID == dependentID {
		return fmt.Errorf("self-loop detected: %s", dependencyID)
	}

	if !slices.Contains(g.edges[dependencyID], dependentID) {
		g.edges[dependencyID] = append(g.edges[dependencyID], dependentID)
	}
	if !slices.Contains(g.parents[dependentID], dependencyID) {
		g.parents[dependentID] = append(g.parents[dependentID], dependencyID)
	}
	return nil
}

// Node returns a node by ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// ID returns the node ID assigned to obj.
func (g *Graph) ID(obj *core.ConfigObject) (string, bool) {
	id, ok := g.ids[obj]
	return id, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, dependents := range g.edges {
		count += len(dependents)
	}
	return count
}

// Dependencies returns the direct dependencies of a node.
func (g *Graph) Dependencies(id string) []string {
	return slices.Clone(g.parents[id])
}

// Dependents returns the direct dependents of a node.
func (g *Graph) Dependents(id string) []string {
	return slices.Clone(g.edges[id])
}

// HasCycle returns true if the graph contains a cycle, along with the cycle path.
// The path starts and ends with the same node.
func (g *Graph) HasCycle() (bool, []string) {
	const (
		unvisited = iota
		inProgress
		done
	)
	state := make(map[string]int, len(g.nodes))
	var stack []string
	var cyclePath []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		state[id] = inProgress
		stack = append(stack, id)

		for _, next := range g.edges[id] {
			switch state[next] {
			case unvisited:
				if dfs(next) {
					return true
				}
			case inProgress:
				start := slices.Index(stack, next)
				cyclePath = append(slices.Clone(stack[start:]), next)
				return true
			}
		}

		stack = stack[:len(stack)-1]
		state[id] = done
		return false
	}

	for _, id := range g.order {
		if state[id] == unvisited && dfs(id) {
			return true, cyclePath
		}
	}
	return false, nil
}

// TopologicalSort returns nodes with dependencies before dependents.
// Independent nodes keep insertion order.
func (g *Graph) TopologicalSort() ([]*Node, error) {
	if hasCycle, path := g.HasCycle(); hasCycle {
		return nil, &core.CycleError{Path: path}
	}

	visited := make(map[string]bool, len(g.nodes))
	result := make([]*Node, 0, len(g.nodes))

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, dep := range g.parents[id] {
			visit(dep)
		}
		result = append(result, g.nodes[id])
	}

	for _, id := range g.order {
		visit(id)
	}
	return result, nil
}

// Levels returns node IDs grouped by execution level.
// Level 0 holds nodes with no dependencies; a node at level N depends on at
// least one node at level N-1. Each level is in insertion order.
func (g *Graph) Levels() ([][]string, error) {
	sorted, err := g.TopologicalSort()
	if err != nil {
		return nil, err
	}

	level := make(map[string]int, len(sorted))
	maxLevel := -1
	for _, n := range sorted {
		l := 0
		for _, dep := range g.parents[n.ID] {
			l = max(l, level[dep]+1)
		}
		level[n.ID] = l
		maxLevel = max(maxLevel, l)
	}

	levels := make([][]string, maxLevel+1)
	for _, id := range g.order {
		levels[level[id]] = append(levels[level[id]], id)
	}
	return levels, nil
}

// Roots returns nodes with no dependencies.
func (g *Graph) Roots() []string {
	var out []string
	for _, id := range g.order {
		if len(g.parents[id]) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// TopLevel returns nodes nothing depends on.
func (g *Graph) TopLevel() []string {
	var out []string
	for _, id := range g.order {
		if len(g.edges[id]) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// Upstream returns every transitive dependency of id, in insertion order.
func (g *Graph) Upstream(id string) []string {
	return g.reach(id, g.parents)
}

// Downstream returns every transitive dependent of id, in insertion order.
func (g *Graph) Downstream(id string) []string {
	return g.reach(id, g.edges)
}

func (g *Graph) reach(id string, adj map[string][]string) []string {
	seen := make(map[string]bool)
	var mark func(string)
	mark = func(cur string) {
		for _, next := range adj[cur] {
			if !seen[next] {
				seen[next] = true
				mark(next)
			}
		}
	}
	mark(id)
	delete(seen, id)

	out := make([]string, 0, len(seen))
	for _, nid := range g.order {
		if seen[nid] {
			out = append(out, nid)
		}
	}
	return out
}

// Subgraph returns a new graph containing only the given nodes and the edges between them.
func (g *Graph) Subgraph(ids []string) *Graph {
	sub := NewGraph()
	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		keep[id] = true
	}
	for _, id := range g.order {
		if keep[id] {
			sub.AddNode(id, g.nodes[id].Object)
		}
	}
	for _, id := range sub.order {
		for _, dependent := range g.edges[id] {
			if keep[dependent] {
				_ = sub.AddEdge(id, dependent)
			}
		}
	}
	return sub
}

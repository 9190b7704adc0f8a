package workflow

import (
	"errors"
	"fmt"
)

// ErrGraph marks a task graph rejected at construction: duplicate ids,
// unknown dependencies, or cycles. Raised before any task executes.
var ErrGraph = errors.New("invalid task graph")

// Graph is an immutable, validated arena of TaskSpecs keyed by id.
type Graph struct {
	order []string
	nodes map[string]*TaskSpec
}

// NewGraph validates the specs and builds the graph. Validation covers
// duplicate task ids, dependencies on unknown ids, self-dependencies, and
// cycles; any violation returns an error wrapping ErrGraph.
func NewGraph(specs []TaskSpec) (*Graph, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: no tasks", ErrGraph)
	}

	g := &Graph{nodes: make(map[string]*TaskSpec, len(specs))}
	for i := range specs {
		spec := specs[i]
		if spec.ID == "" {
			return nil, fmt.Errorf("%w: task with empty id", ErrGraph)
		}
		if _, exists := g.nodes[spec.ID]; exists {
			return nil, fmt.Errorf("%w: duplicate task id %q", ErrGraph, spec.ID)
		}
		g.nodes[spec.ID] = &spec
		g.order = append(g.order, spec.ID)
	}

	for _, id := range g.order {
		for _, dep := range g.nodes[id].DependsOn {
			if dep == id {
				return nil, fmt.Errorf("%w: task %q depends on itself", ErrGraph, id)
			}
			if _, ok := g.nodes[dep]; !ok {
				return nil, fmt.Errorf("%w: task %q depends on unknown task %q", ErrGraph, id, dep)
			}
		}
	}

	if cycle := g.findCycle(); cycle != "" {
		return nil, fmt.Errorf("%w: cycle through task %q", ErrGraph, cycle)
	}
	return g, nil
}

// findCycle runs DFS with a recursion stack and returns a task id on any
// detected cycle, or "" when the graph is acyclic.
func (g *Graph) findCycle() string {
	visited := make(map[string]bool, len(g.nodes))
	onStack := make(map[string]bool, len(g.nodes))

	var visit func(id string) string
	visit = func(id string) string {
		visited[id] = true
		onStack[id] = true
		for _, dep := range g.nodes[id].DependsOn {
			if !visited[dep] {
				if hit := visit(dep); hit != "" {
					return hit
				}
			} else if onStack[dep] {
				return dep
			}
		}
		onStack[id] = false
		return ""
	}

	for _, id := range g.order {
		if !visited[id] {
			if hit := visit(id); hit != "" {
				return hit
			}
		}
	}
	return ""
}

// Task returns the spec for id.
func (g *Graph) Task(id string) (*TaskSpec, bool) {
	t, ok := g.nodes[id]
	return t, ok
}

// Tasks returns all specs in declaration order.
func (g *Graph) Tasks() []*TaskSpec {
	out := make([]*TaskSpec, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Len returns the node count.
func (g *Graph) Len() int { return len(g.order) }

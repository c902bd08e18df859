package skillgraph

import (
	"fmt"
	"slices"
	"sort"
)

// Graph is an immutable skill tree template with precomputed indices.
// Per-learner state never lives here: callers get cloned node lists and
// carry their own status overlay.
type Graph struct {
	id         string
	title      string
	nodes      []Node
	byID       map[string]int
	byDomain   map[Domain][]string
	roots      []string
	dependents map[string][]string
	topoOrder  []string
}

// NewGraph validates the node set and builds a Graph from it.
// Nodes without an explicit status start UNLOCKED when they have no
// dependencies and LOCKED otherwise.
func NewGraph(id, title string, nodes []Node) (*Graph, error) {
	if err := validateNodes(nodes); err != nil {
		return nil, fmt.Errorf("skill tree %q: %w", id, err)
	}

	gr := &Graph{
		id:         id,
		title:      title,
		nodes:      CloneNodes(nodes),
		byID:       make(map[string]int, len(nodes)),
		byDomain:   make(map[Domain][]string),
		dependents: make(map[string][]string),
	}

	for i := range gr.nodes {
		n := &gr.nodes[i]
		if n.Status == "" {
			if len(n.Dependencies) == 0 {
				n.Status = StatusUnlocked
			} else {
				n.Status = StatusLocked
			}
		}
		gr.byID[n.ID] = i
		gr.byDomain[n.Domain] = append(gr.byDomain[n.Domain], n.ID)
		if len(n.Dependencies) == 0 {
			gr.roots = append(gr.roots, n.ID)
		}
	}

	// Build reverse edges (dependents)
	for _, n := range gr.nodes {
		for _, depID := range n.Dependencies {
			gr.dependents[depID] = append(gr.dependents[depID], n.ID)
		}
	}

	gr.topoOrder = topoSort(gr.nodes, gr.dependents)
	return gr, nil
}

// topoSort orders node ids with Kahn's algorithm. Ties are broken by id so
// the order is deterministic. Assumes the node set is acyclic.
func topoSort(nodes []Node, dependents map[string][]string) []string {
	inDegree := make(map[string]int, len(nodes))
	for _, n := range nodes {
		inDegree[n.ID] = len(n.Dependencies)
	}

	var queue []string
	for id, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	order := make([]string, 0, len(nodes))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)

		deps := slices.Clone(dependents[id])
		sort.Strings(deps)
		for _, depID := range deps {
			inDegree[depID]--
			if inDegree[depID] == 0 {
				queue = append(queue, depID)
			}
		}
	}
	return order
}

// ID returns the skill tree identifier.
func (g *Graph) ID() string { return g.id }

// Title returns the skill tree display title.
func (g *Graph) Title() string { return g.title }

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Nodes returns a deep copy of the template nodes in definition order.
func (g *Graph) Nodes() []Node {
	return CloneNodes(g.nodes)
}

// Node returns a copy of the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.byID[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i].clone(), true
}

// Has reports whether the graph defines a node with the given id.
func (g *Graph) Has(id string) bool {
	_, ok := g.byID[id]
	return ok
}

// ByDomain returns the ids of nodes tagged with the given domain.
func (g *Graph) ByDomain(d Domain) []string {
	return slices.Clone(g.byDomain[d])
}

// Roots returns the ids of nodes without dependencies.
func (g *Graph) Roots() []string {
	return slices.Clone(g.roots)
}

// Dependents returns the ids of nodes that directly depend on id.
func (g *Graph) Dependents(id string) []string {
	return slices.Clone(g.dependents[id])
}

// TopologicalOrder returns all node ids in a valid dependency order.
func (g *Graph) TopologicalOrder() []string {
	return slices.Clone(g.topoOrder)
}

// WithStatuses returns the template nodes with the given overlay applied.
// Ids missing from the overlay keep their template status; overlay entries
// for unknown ids are ignored.
func (g *Graph) WithStatuses(overlay map[string]Status) []Node {
	nodes := g.Nodes()
	for i := range nodes {
		if st, ok := overlay[nodes[i].ID]; ok && st.Valid() {
			nodes[i].Status = st
		}
	}
	return nodes
}

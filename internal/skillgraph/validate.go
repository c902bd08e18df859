package skillgraph

import (
	"fmt"
	"strings"
)

// validateNodes performs all structural checks on the given node set.
// Returns a combined error describing all problems found, or nil if valid.
func validateNodes(nodes []Node) error {
	var errs []string

	if len(nodes) == 0 {
		return fmt.Errorf("skill graph validation failed:\n  graph has no nodes")
	}

	idSet := make(map[string]bool, len(nodes))

	// Check for empty and duplicate IDs
	for _, n := range nodes {
		if n.ID == "" {
			errs = append(errs, "node with empty ID")
			continue
		}
		if idSet[n.ID] {
			errs = append(errs, fmt.Sprintf("duplicate node ID: %q", n.ID))
		}
		idSet[n.ID] = true
	}

	// Check dependencies: no self-edges, no dangling references
	for _, n := range nodes {
		for _, depID := range n.Dependencies {
			if depID == n.ID {
				errs = append(errs, fmt.Sprintf("node %q depends on itself", n.ID))
				continue
			}
			if !idSet[depID] {
				errs = append(errs, fmt.Sprintf("node %q references nonexistent dependency %q", n.ID, depID))
			}
		}
	}

	// Check tags
	for _, n := range nodes {
		if n.Status != "" && !n.Status.Valid() {
			errs = append(errs, fmt.Sprintf("node %q has unknown status %q", n.ID, n.Status))
		}
		if !n.Difficulty.Valid() {
			errs = append(errs, fmt.Sprintf("node %q has unknown difficulty %q", n.ID, n.Difficulty))
		}
	}

	// Check for cycles using Kahn's algorithm
	inDegree := make(map[string]int, len(nodes))
	adjList := make(map[string][]string)
	for _, n := range nodes {
		for _, depID := range n.Dependencies {
			if depID == n.ID || !idSet[depID] {
				continue
			}
			inDegree[n.ID]++
			adjList[depID] = append(adjList[depID], n.ID)
		}
	}

	var queue []string
	for _, n := range nodes {
		if inDegree[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}

	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		for _, depID := range adjList[id] {
			inDegree[depID]--
			if inDegree[depID] == 0 {
				queue = append(queue, depID)
			}
		}
	}

	if visited < len(idSet) {
		var cycleNodes []string
		seen := make(map[string]bool)
		for _, n := range nodes {
			if inDegree[n.ID] > 0 && !seen[n.ID] {
				seen[n.ID] = true
				cycleNodes = append(cycleNodes, n.ID)
			}
		}
		errs = append(errs, fmt.Sprintf("cycle detected involving nodes: %s", strings.Join(cycleNodes, ", ")))
	}

	// Check at least one root
	hasRoot := false
	for _, n := range nodes {
		if len(n.Dependencies) == 0 {
			hasRoot = true
			break
		}
	}
	if !hasRoot {
		errs = append(errs, "no root nodes found (at least one node must have no dependencies)")
	}

	if len(errs) > 0 {
		return fmt.Errorf("skill graph validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

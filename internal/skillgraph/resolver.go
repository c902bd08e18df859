package skillgraph

// CompleteUseCase marks the required nodes COMPLETED and re-evaluates which
// LOCKED nodes may now unlock. The input is not modified.
//
// The completion pass runs first and covers every required node, HIDDEN
// ones included; re-running ComputeNodeStatuses afterwards re-hides
// cross-domain nodes. The unlock pass then looks at the post-completion set
// exactly once, so dependencies satisfied by this call count but unlocks do
// not cascade further within the same call.
func CompleteUseCase(nodes []Node, requiredSkillIDs []string) []Node {
	required := make(map[string]bool, len(requiredSkillIDs))
	for _, id := range requiredSkillIDs {
		required[id] = true
	}

	completed := CloneNodes(nodes)
	for i := range completed {
		if required[completed[i].ID] {
			completed[i].Status = StatusCompleted
		}
	}

	done := make(map[string]bool, len(completed))
	for _, n := range completed {
		if n.Status == StatusCompleted {
			done[n.ID] = true
		}
	}

	out := CloneNodes(completed)
	for i := range out {
		if out[i].Status == StatusLocked && dependenciesMet(out[i], done) {
			out[i].Status = StatusUnlocked
		}
	}
	return out
}

// dependenciesMet reports whether every dependency of n is in done.
func dependenciesMet(n Node, done map[string]bool) bool {
	for _, depID := range n.Dependencies {
		if !done[depID] {
			return false
		}
	}
	return true
}

// NewlyUnlocked returns the ids of nodes that are UNLOCKED in after but were
// not UNLOCKED in before, in after's order.
func NewlyUnlocked(before, after []Node) []string {
	prev := StatusMap(before)
	var ids []string
	for _, n := range after {
		if n.Status == StatusUnlocked && prev[n.ID] != StatusUnlocked {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

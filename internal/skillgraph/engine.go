package skillgraph

// Mastery thresholds for the gated branches.
const (
	// AdvancedMasteryThreshold is the mastery score at which hidden advanced
	// nodes become visible (LOCKED, still dependency-gated).
	AdvancedMasteryThreshold = 85

	// RemedialMasteryThreshold is the score below which hidden remedial
	// nodes open directly (UNLOCKED, dependency gate bypassed).
	RemedialMasteryThreshold = 40
)

// ComputeNodeStatuses applies the visibility rules to every node and
// returns the resulting node list. The input is not modified.
//
// Rules, first match wins:
//  1. Node domain set, not shared, and not the active domain: HIDDEN.
//  2. mastery >= 85, advanced, currently HIDDEN: LOCKED.
//  3. mastery < 40, remedial, currently HIDDEN: UNLOCKED.
//  4. Otherwise unchanged.
//
// The function is pure and idempotent: its output is a fixed point for the
// same mastery and domain.
func ComputeNodeStatuses(nodes []Node, masteryScore int, activeDomain Domain) []Node {
	out := CloneNodes(nodes)
	for i := range out {
		out[i].Status = nextStatus(out[i], masteryScore, activeDomain)
	}
	return out
}

// UnlockAll returns nodes with every node that is not COMPLETED set to
// UNLOCKED, regardless of domain, mastery or dependencies. It is the
// operator's view of a tree.
func UnlockAll(nodes []Node) []Node {
	out := CloneNodes(nodes)
	for i := range out {
		if out[i].Status != StatusCompleted {
			out[i].Status = StatusUnlocked
		}
	}
	return out
}

func nextStatus(n Node, masteryScore int, activeDomain Domain) Status {
	switch {
	case !InDomain(n.Domain, activeDomain):
		return StatusHidden
	case masteryScore >= AdvancedMasteryThreshold &&
		n.Difficulty == DifficultyAdvanced && n.Status == StatusHidden:
		return StatusLocked
	case masteryScore < RemedialMasteryThreshold &&
		n.Remedial && n.Status == StatusHidden:
		return StatusUnlocked
	default:
		return n.Status
	}
}

// InDomain reports whether content tagged d is visible to a learner in the
// active domain. Untagged and shared content always is.
func InDomain(d, active Domain) bool {
	return d == "" || d == DomainShared || d == active
}

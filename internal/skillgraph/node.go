package skillgraph

// Status is a node's visibility/lock state for one learner.
type Status string

const (
	StatusHidden     Status = "HIDDEN"      // Not shown (other domain, or gated branch not yet triggered)
	StatusLocked     Status = "LOCKED"      // Visible, one or more dependencies not completed
	StatusUnlocked   Status = "UNLOCKED"    // All dependencies completed; actionable
	StatusInProgress Status = "IN_PROGRESS" // Learner has started the node
	StatusCompleted  Status = "COMPLETED"   // Verified by a completed use case
)

// Valid reports whether s is one of the defined statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusHidden, StatusLocked, StatusUnlocked, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Icon returns the display icon for a status.
func (s Status) Icon() string {
	switch s {
	case StatusHidden:
		return "·"
	case StatusLocked:
		return "🔒"
	case StatusUnlocked:
		return "🔓"
	case StatusInProgress:
		return "📖"
	case StatusCompleted:
		return "✅"
	default:
		return "?"
	}
}

// Domain tags a node for persona-based filtering.
type Domain string

const (
	DomainOps       Domain = "ops"
	DomainMarketing Domain = "marketing"
	DomainShared    Domain = "shared"
)

// DomainDisplayName returns a human-readable name for a domain.
func DomainDisplayName(d Domain) string {
	switch d {
	case DomainOps:
		return "Operations & Supply Chain"
	case DomainMarketing:
		return "Marketing & Sales"
	case DomainShared:
		return "Shared"
	default:
		return string(d)
	}
}

// Difficulty is an ordinal tag used for mastery-gated branches.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// Node is a unit of learning content in the dependency graph.
type Node struct {
	ID           string     `yaml:"id" json:"id"`
	Label        string     `yaml:"label" json:"label"`
	Description  string     `yaml:"description" json:"description"`
	Category     string     `yaml:"category" json:"category,omitempty"`
	Status       Status     `yaml:"status" json:"status"`
	Dependencies []string   `yaml:"dependencies" json:"dependencies"`
	Domain       Domain     `yaml:"domain" json:"domain,omitempty"`
	Difficulty   Difficulty `yaml:"difficulty" json:"difficulty"`
	Remedial     bool       `yaml:"remedial" json:"remedial,omitempty"`
}

// clone returns a copy of n that shares no slices with it.
func (n Node) clone() Node {
	c := n
	if n.Dependencies != nil {
		c.Dependencies = append([]string(nil), n.Dependencies...)
	}
	return c
}

// CloneNodes deep-copies a node list.
func CloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i := range nodes {
		out[i] = nodes[i].clone()
	}
	return out
}

// StatusMap returns the id → status overlay for a node list.
func StatusMap(nodes []Node) map[string]Status {
	m := make(map[string]Status, len(nodes))
	for _, n := range nodes {
		m[n.ID] = n.Status
	}
	return m
}

// Visible returns the nodes whose status is not HIDDEN, in input order.
func Visible(nodes []Node) []Node {
	var out []Node
	for _, n := range nodes {
		if n.Status != StatusHidden {
			out = append(out, n.clone())
		}
	}
	return out
}

package skillgraph

import (
	"reflect"
	"testing"
)

func TestComputeNodeStatuses_Rules(t *testing.T) {
	tests := []struct {
		name    string
		node    Node
		mastery int
		domain  Domain
		want    Status
	}{
		{
			name:    "other domain is hidden",
			node:    Node{ID: "n", Domain: DomainMarketing, Status: StatusUnlocked},
			mastery: 70, domain: DomainOps,
			want: StatusHidden,
		},
		{
			name:    "other domain overrides completion",
			node:    Node{ID: "n", Domain: DomainMarketing, Status: StatusCompleted},
			mastery: 95, domain: DomainOps,
			want: StatusHidden,
		},
		{
			name:    "other domain overrides advanced promotion",
			node:    Node{ID: "n", Domain: DomainOps, Difficulty: DifficultyAdvanced, Status: StatusHidden},
			mastery: 95, domain: DomainMarketing,
			want: StatusHidden,
		},
		{
			name:    "shared stays visible",
			node:    Node{ID: "n", Domain: DomainShared, Status: StatusLocked},
			mastery: 70, domain: DomainOps,
			want: StatusLocked,
		},
		{
			name:    "untagged stays visible",
			node:    Node{ID: "n", Status: StatusUnlocked},
			mastery: 70, domain: DomainMarketing,
			want: StatusUnlocked,
		},
		{
			name:    "advanced hidden at 85 becomes locked",
			node:    Node{ID: "n", Domain: DomainOps, Difficulty: DifficultyAdvanced, Status: StatusHidden},
			mastery: 85, domain: DomainOps,
			want: StatusLocked,
		},
		{
			name:    "advanced hidden at 84 stays hidden",
			node:    Node{ID: "n", Domain: DomainOps, Difficulty: DifficultyAdvanced, Status: StatusHidden},
			mastery: 84, domain: DomainOps,
			want: StatusHidden,
		},
		{
			name:    "advanced already unlocked is untouched",
			node:    Node{ID: "n", Domain: DomainOps, Difficulty: DifficultyAdvanced, Status: StatusUnlocked},
			mastery: 99, domain: DomainOps,
			want: StatusUnlocked,
		},
		{
			name:    "remedial opens below 40",
			node:    Node{ID: "n", Domain: DomainShared, Remedial: true, Status: StatusHidden, Dependencies: []string{"x"}},
			mastery: 39, domain: DomainOps,
			want: StatusUnlocked,
		},
		{
			name:    "remedial stays hidden at 40",
			node:    Node{ID: "n", Domain: DomainShared, Remedial: true, Status: StatusHidden},
			mastery: 40, domain: DomainOps,
			want: StatusHidden,
		},
		{
			name:    "non-remedial hidden stays hidden at low mastery",
			node:    Node{ID: "n", Domain: DomainShared, Status: StatusHidden},
			mastery: 10, domain: DomainOps,
			want: StatusHidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeNodeStatuses([]Node{tt.node}, tt.mastery, tt.domain)
			if got[0].Status != tt.want {
				t.Errorf("got %s, want %s", got[0].Status, tt.want)
			}
		})
	}
}

func TestComputeNodeStatuses_DoesNotMutateInput(t *testing.T) {
	nodes := twoNodeGraph(DomainOps)
	nodes[0].Status = StatusUnlocked
	ComputeNodeStatuses(nodes, 70, DomainMarketing)
	if nodes[0].Status != StatusUnlocked {
		t.Errorf("input mutated: got %s", nodes[0].Status)
	}
}

func TestComputeNodeStatuses_FixedPoint(t *testing.T) {
	g := mustGraph(t, pilotNodes())
	for _, mastery := range []int{0, 39, 40, 70, 84, 85, 100} {
		for _, domain := range []Domain{DomainOps, DomainMarketing} {
			once := ComputeNodeStatuses(g.Nodes(), mastery, domain)
			again := ComputeNodeStatuses(g.Nodes(), mastery, domain)
			twice := ComputeNodeStatuses(once, mastery, domain)
			if !reflect.DeepEqual(once, again) {
				t.Errorf("mastery=%d domain=%s: not deterministic", mastery, domain)
			}
			if !reflect.DeepEqual(once, twice) {
				t.Errorf("mastery=%d domain=%s: output is not a fixed point", mastery, domain)
			}
		}
	}
}

func TestComputeNodeStatuses_DomainExclusivity(t *testing.T) {
	g := mustGraph(t, pilotNodes())
	for mastery := 0; mastery <= 100; mastery += 5 {
		nodes := ComputeNodeStatuses(g.Nodes(), mastery, DomainOps)
		nodes = CompleteUseCase(nodes, g.TopologicalOrder())
		nodes = ComputeNodeStatuses(nodes, mastery, DomainOps)
		for _, n := range nodes {
			if n.Domain == DomainMarketing && n.Status != StatusHidden {
				t.Errorf("mastery=%d: marketing node %q is %s", mastery, n.ID, n.Status)
			}
		}
	}
}

func TestUnlockAll(t *testing.T) {
	g := mustGraph(t, pilotNodes())
	nodes := ComputeNodeStatuses(g.Nodes(), 70, DomainOps)
	nodes = CompleteUseCase(nodes, []string{"data-hygiene"})

	all := UnlockAll(nodes)
	for _, n := range all {
		want := StatusUnlocked
		if n.ID == "data-hygiene" {
			want = StatusCompleted
		}
		if n.Status != want {
			t.Errorf("%s = %s, want %s", n.ID, n.Status, want)
		}
	}
	if st := StatusMap(nodes)["mkt-classification"]; st != StatusHidden {
		t.Errorf("input mutated: mkt-classification = %s", st)
	}
}

func TestAdvancedNodeRevealedAfterMasteryGain(t *testing.T) {
	nodes := []Node{
		{ID: "A", Domain: DomainOps, Difficulty: DifficultyBeginner, Status: StatusUnlocked},
		{ID: "B", Domain: DomainOps, Difficulty: DifficultyBeginner, Status: StatusUnlocked},
		{ID: "ADV", Domain: DomainOps, Difficulty: DifficultyAdvanced, Status: StatusHidden, Dependencies: []string{"A"}},
	}

	mastery := 50
	nodes = ComputeNodeStatuses(nodes, mastery, DomainOps)

	nodes = CompleteUseCase(nodes, []string{"A"})
	mastery += 20
	nodes = ComputeNodeStatuses(nodes, mastery, DomainOps)
	if st := StatusMap(nodes)["ADV"]; st != StatusHidden {
		t.Fatalf("at mastery %d: ADV = %s, want HIDDEN", mastery, st)
	}

	nodes = CompleteUseCase(nodes, []string{"B"})
	mastery += 20
	nodes = ComputeNodeStatuses(nodes, mastery, DomainOps)
	if st := StatusMap(nodes)["ADV"]; st != StatusLocked {
		t.Fatalf("at mastery %d: ADV = %s, want LOCKED", mastery, st)
	}

	// Revealed nodes still go through the normal unlock path.
	nodes = CompleteUseCase(nodes, []string{"B"})
	if st := StatusMap(nodes)["ADV"]; st != StatusUnlocked {
		t.Errorf("after next completion: ADV = %s, want UNLOCKED", st)
	}
}

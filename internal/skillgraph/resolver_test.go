package skillgraph

import (
	"slices"
	"testing"
)

func TestCompleteUseCase_UnlocksDirectDependent(t *testing.T) {
	g := mustGraph(t, twoNodeGraph(DomainOps))
	nodes := ComputeNodeStatuses(g.Nodes(), 70, DomainOps)

	st := StatusMap(nodes)
	if st["A"] != StatusUnlocked || st["B"] != StatusLocked {
		t.Fatalf("initial statuses: A=%s B=%s", st["A"], st["B"])
	}

	nodes = CompleteUseCase(nodes, []string{"A"})
	st = StatusMap(nodes)
	if st["A"] != StatusCompleted {
		t.Errorf("A = %s, want COMPLETED", st["A"])
	}
	if st["B"] != StatusUnlocked {
		t.Errorf("B = %s, want UNLOCKED", st["B"])
	}
}

func TestCompleteUseCase_OtherDomainStaysHidden(t *testing.T) {
	g := mustGraph(t, twoNodeGraph(DomainOps))
	for _, mastery := range []int{0, 50, 100} {
		nodes := ComputeNodeStatuses(g.Nodes(), mastery, DomainMarketing)
		nodes = CompleteUseCase(nodes, []string{"A"})
		nodes = CompleteUseCase(nodes, []string{"A", "B"})
		nodes = ComputeNodeStatuses(nodes, mastery, DomainMarketing)
		for _, n := range nodes {
			if n.Status != StatusHidden {
				t.Errorf("mastery=%d: %s = %s, want HIDDEN", mastery, n.ID, n.Status)
			}
		}
	}
}

func TestCompleteUseCase_CompletesGatedNodes(t *testing.T) {
	g := mustGraph(t, pilotNodes())
	nodes := ComputeNodeStatuses(g.Nodes(), 70, DomainOps)
	if st := StatusMap(nodes)["ops-advanced-sensing"]; st != StatusHidden {
		t.Fatalf("ops-advanced-sensing = %s before completion, want HIDDEN", st)
	}

	nodes = CompleteUseCase(nodes, []string{"ops-advanced-sensing", "mkt-classification"})
	for _, mastery := range []int{0, 70, 100} {
		st := StatusMap(ComputeNodeStatuses(nodes, mastery, DomainOps))
		if st["ops-advanced-sensing"] != StatusCompleted {
			t.Errorf("mastery=%d: ops-advanced-sensing = %s, want COMPLETED", mastery, st["ops-advanced-sensing"])
		}
		if st["mkt-classification"] != StatusHidden {
			t.Errorf("mastery=%d: mkt-classification = %s, want HIDDEN after recompute", mastery, st["mkt-classification"])
		}
	}
}

func TestInDomain(t *testing.T) {
	tests := []struct {
		d, active Domain
		want      bool
	}{
		{"", DomainOps, true},
		{DomainShared, DomainMarketing, true},
		{DomainOps, DomainOps, true},
		{DomainMarketing, DomainOps, false},
	}
	for _, tt := range tests {
		if got := InDomain(tt.d, tt.active); got != tt.want {
			t.Errorf("InDomain(%q, %q) = %v, want %v", tt.d, tt.active, got, tt.want)
		}
	}
}

func TestCompleteUseCase_NoCascade(t *testing.T) {
	nodes := []Node{
		{ID: "A", Status: StatusUnlocked, Difficulty: DifficultyBeginner},
		{ID: "B", Status: StatusLocked, Difficulty: DifficultyBeginner, Dependencies: []string{"A"}},
		{ID: "C", Status: StatusLocked, Difficulty: DifficultyBeginner, Dependencies: []string{"B"}},
	}

	nodes = CompleteUseCase(nodes, []string{"A"})
	st := StatusMap(nodes)
	if st["B"] != StatusUnlocked {
		t.Errorf("B = %s, want UNLOCKED", st["B"])
	}
	if st["C"] != StatusLocked {
		t.Errorf("C = %s, want LOCKED (two hops away)", st["C"])
	}

	nodes = CompleteUseCase(nodes, []string{"B"})
	if st := StatusMap(nodes)["C"]; st != StatusUnlocked {
		t.Errorf("after B: C = %s, want UNLOCKED", st)
	}
}

func TestCompleteUseCase_RequiresAllDependencies(t *testing.T) {
	nodes := []Node{
		{ID: "A", Status: StatusUnlocked},
		{ID: "B", Status: StatusUnlocked},
		{ID: "AB", Status: StatusLocked, Dependencies: []string{"A", "B"}},
	}

	nodes = CompleteUseCase(nodes, []string{"A"})
	if st := StatusMap(nodes)["AB"]; st != StatusLocked {
		t.Fatalf("AB = %s with one dependency done, want LOCKED", st)
	}
	nodes = CompleteUseCase(nodes, []string{"B"})
	if st := StatusMap(nodes)["AB"]; st != StatusUnlocked {
		t.Errorf("AB = %s with both dependencies done, want UNLOCKED", st)
	}
}

func TestCompleteUseCase_Idempotent(t *testing.T) {
	g := mustGraph(t, twoNodeGraph(DomainOps))
	once := CompleteUseCase(g.Nodes(), []string{"A"})
	twice := CompleteUseCase(once, []string{"A"})
	if !slices.EqualFunc(once, twice, func(a, b Node) bool { return a.ID == b.ID && a.Status == b.Status }) {
		t.Errorf("repeat completion changed statuses: %v vs %v", StatusMap(once), StatusMap(twice))
	}
}

func TestCompleteUseCase_UnknownIDsIgnored(t *testing.T) {
	g := mustGraph(t, twoNodeGraph(DomainOps))
	before := g.Nodes()
	after := CompleteUseCase(before, []string{"missing"})
	for id, st := range StatusMap(after) {
		if StatusMap(before)[id] != st {
			t.Errorf("%s changed from %s to %s", id, StatusMap(before)[id], st)
		}
	}
}

func TestCompleteUseCase_DoesNotMutateInput(t *testing.T) {
	g := mustGraph(t, twoNodeGraph(DomainOps))
	nodes := g.Nodes()
	CompleteUseCase(nodes, []string{"A"})
	if nodes[0].Status != StatusUnlocked || nodes[1].Status != StatusLocked {
		t.Errorf("input mutated: %v", StatusMap(nodes))
	}
}

func TestCompleteUseCase_MonotonicAndSound(t *testing.T) {
	g := mustGraph(t, pilotNodes())
	nodes := ComputeNodeStatuses(g.Nodes(), 90, DomainOps)

	sequence := [][]string{
		{"data-hygiene"},
		{"ops-forecasting"},
		{"data-hygiene"},
		{"ops-optimization", "mkt-classification"},
		{"ops-advanced-sensing"},
		{"deployment-final"},
	}
	for step, required := range sequence {
		before := StatusMap(nodes)
		nodes = CompleteUseCase(nodes, required)
		after := StatusMap(nodes)

		for id, prev := range before {
			if (prev == StatusUnlocked || prev == StatusCompleted) &&
				(after[id] == StatusLocked || after[id] == StatusHidden) {
				t.Errorf("step %d: %s reverted from %s to %s", step, id, prev, after[id])
			}
		}
		for _, id := range NewlyUnlocked(g.Nodes(), nodes) {
			n, _ := g.Node(id)
			if before[id] == StatusUnlocked {
				continue
			}
			for _, dep := range n.Dependencies {
				if after[dep] != StatusCompleted {
					t.Errorf("step %d: %s unlocked while dependency %s is %s", step, id, dep, after[dep])
				}
			}
		}
	}
}

func TestNewlyUnlocked(t *testing.T) {
	g := mustGraph(t, twoNodeGraph(DomainOps))
	before := g.Nodes()
	after := CompleteUseCase(before, []string{"A"})
	got := NewlyUnlocked(before, after)
	if !slices.Equal(got, []string{"B"}) {
		t.Errorf("NewlyUnlocked = %v, want [B]", got)
	}
}

package persona

import "github.com/abhisek/skillpilot/internal/skillgraph"

// Key selects a variant.
type Key struct {
	Domain  skillgraph.Domain
	Persona Persona
}

// Variant names the skill tree and program that govern a learner.
type Variant struct {
	SkillTreeID string `json:"skillTreeId"`
	ProgramID   string `json:"programId"`
}

// Table maps classification outcomes to content identifiers.
type Table struct {
	Variants         map[Key]Variant
	StartingUseCases map[skillgraph.Domain][]string
	Fallback         Variant
}

// DefaultTable returns the built-in variant lookup table.
func DefaultTable() Table {
	return Table{
		Variants: map[Key]Variant{
			{skillgraph.DomainOps, DemandForecaster}:        {SkillTreeID: "pilot-analytics", ProgramID: "ops-9w"},
			{skillgraph.DomainOps, InventoryPlanner}:        {SkillTreeID: "pilot-core", ProgramID: "ops-9w"},
			{skillgraph.DomainMarketing, GrowthMarketer}:    {SkillTreeID: "pilot-analytics", ProgramID: "mkt-9w"},
			{skillgraph.DomainMarketing, RetentionMarketer}: {SkillTreeID: "pilot-core", ProgramID: "mkt-9w"},
		},
		StartingUseCases: map[skillgraph.Domain][]string{
			skillgraph.DomainOps:       {"uc-ops-1", "uc-ops-2", "uc-ops-3"},
			skillgraph.DomainMarketing: {"uc-mkt-1", "uc-mkt-2", "uc-mkt-3"},
		},
		Fallback: Variant{SkillTreeID: "pilot-core", ProgramID: "mkt-9w"},
	}
}

// Lookup returns the variant for a domain and persona, or the fallback.
func (t Table) Lookup(d skillgraph.Domain, p Persona) Variant {
	if v, ok := t.Variants[Key{d, p}]; ok {
		return v
	}
	return t.Fallback
}

// StartingUseCase returns the first starting use case for a domain, or ""
// when none is configured.
func (t Table) StartingUseCase(d skillgraph.Domain) string {
	if ids := t.StartingUseCases[d]; len(ids) > 0 {
		return ids[0]
	}
	return ""
}

// Entries lists every (key, variant) pair in a stable order.
func (t Table) Entries() []Entry {
	var out []Entry
	for _, d := range []skillgraph.Domain{skillgraph.DomainOps, skillgraph.DomainMarketing} {
		for _, c := range Candidates(d) {
			k := Key{d, c.Persona}
			if v, ok := t.Variants[k]; ok {
				out = append(out, Entry{Key: k, Variant: v})
			}
		}
	}
	return out
}

// Entry is one row of the variant table.
type Entry struct {
	Key
	Variant
}

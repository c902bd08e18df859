package persona

import "github.com/abhisek/skillpilot/internal/skillgraph"

// Track is the coarse learning track derived from tool familiarity.
type Track string

const (
	TrackAnalyst Track = "ANALYST" // Codes or queries data (python, sql)
	TrackManager Track = "MANAGER" // Works through tools and teams
)

// Persona is a fine-grained learner archetype within a domain.
type Persona string

const (
	DemandForecaster  Persona = "demand_forecaster"
	InventoryPlanner  Persona = "inventory_planner"
	GrowthMarketer    Persona = "growth_marketer"
	RetentionMarketer Persona = "retention_marketer"
)

// DisplayName returns a human-readable persona name.
func (p Persona) DisplayName() string {
	switch p {
	case DemandForecaster:
		return "Demand Forecaster"
	case InventoryPlanner:
		return "Inventory Planner"
	case GrowthMarketer:
		return "Growth Marketer"
	case RetentionMarketer:
		return "Retention Marketer"
	default:
		return string(p)
	}
}

// Intake holds the onboarding answers used for classification.
type Intake struct {
	Role            string   `json:"role"`
	Industry        string   `json:"industry"`
	Tools           []string `json:"tools"`
	Goal            string   `json:"goal"`
	HoursPerWeek    int      `json:"hoursPerWeek"`
	Decisions       []string `json:"decisions"`
	KPIs            []string `json:"kpis"`
	DiagnosticScore int      `json:"diagnosticScore"`
}

// Result is the full classification outcome. It is always complete.
type Result struct {
	Track             Track             `json:"track"`
	Domain            skillgraph.Domain `json:"domainPreference"`
	PrimaryPersona    Persona           `json:"primaryPersona"`
	SecondaryPersona  Persona           `json:"secondaryPersona"`
	PrimaryScore      int               `json:"primaryScore"`
	SecondaryScore    int               `json:"secondaryScore"`
	SkillTreeID       string            `json:"activeSkillTreeId"`
	ProgramID         string            `json:"activeProgramId"`
	StartingUseCaseID string            `json:"startingUseCaseId"`
}

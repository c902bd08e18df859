package persona

import (
	"strings"

	"github.com/abhisek/skillpilot/internal/skillgraph"
)

// Signal weights for persona scoring.
const (
	DecisionWeight   = 45
	KPIWeight        = 30
	RoleWeight       = 15
	DiagnosticWeight = 10

	// DiagnosticThreshold is the minimum self-assessment score that earns
	// DiagnosticWeight for personas that reward it.
	DiagnosticThreshold = 60
)

// Signals lists the intake values that count toward one persona.
type Signals struct {
	Persona           Persona
	Decisions         []string
	KPIs              []string
	RoleKeywords      []string
	RewardsDiagnostic bool
}

// candidates holds the two personas per domain. Order matters: on a tie the
// first entry wins.
var candidates = map[skillgraph.Domain][2]Signals{
	skillgraph.DomainOps: {
		{
			Persona:           DemandForecaster,
			Decisions:         []string{"demand_forecasting", "sales_planning", "promotion_planning"},
			KPIs:              []string{"forecast_accuracy", "mape", "forecast_bias"},
			RoleKeywords:      []string{"forecast", "demand", "planning"},
			RewardsDiagnostic: true,
		},
		{
			Persona:      InventoryPlanner,
			Decisions:    []string{"inventory_replenishment", "warehouse_rebalancing", "route_planning"},
			KPIs:         []string{"inventory_turns", "stockout_rate", "fill_rate"},
			RoleKeywords: []string{"inventory", "warehouse", "logistics"},
		},
	},
	skillgraph.DomainMarketing: {
		{
			Persona:           GrowthMarketer,
			Decisions:         []string{"lead_scoring", "campaign_targeting", "budget_allocation"},
			KPIs:              []string{"cac", "conversion_rate", "roas"},
			RoleKeywords:      []string{"growth", "performance", "acquisition"},
			RewardsDiagnostic: true,
		},
		{
			Persona:      RetentionMarketer,
			Decisions:    []string{"churn_prevention", "customer_segmentation", "loyalty_offers"},
			KPIs:         []string{"retention_rate", "ltv", "repeat_purchase_rate"},
			RoleKeywords: []string{"crm", "retention", "loyalty", "lifecycle"},
		},
	},
}

// Candidates returns the ordered persona candidates for a domain. Unknown
// domains fall back to marketing.
func Candidates(d skillgraph.Domain) [2]Signals {
	if c, ok := candidates[d]; ok {
		return c
	}
	return candidates[skillgraph.DomainMarketing]
}

// Score computes the weighted persona score for one candidate. Each signal
// counts at most once. lowerRole is the lowercased role text.
func (s Signals) Score(in Intake, lowerRole string) int {
	score := 0
	if anyIn(in.Decisions, s.Decisions) {
		score += DecisionWeight
	}
	if anyIn(in.KPIs, s.KPIs) {
		score += KPIWeight
	}
	for _, kw := range s.RoleKeywords {
		if strings.Contains(lowerRole, kw) {
			score += RoleWeight
			break
		}
	}
	if s.RewardsDiagnostic && in.DiagnosticScore >= DiagnosticThreshold {
		score += DiagnosticWeight
	}
	return score
}

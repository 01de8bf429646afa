package models

import "encoding/json"

// ScenarioName identifies a named stress scenario
type ScenarioName string

const (
	ScenarioBase      ScenarioName = "base"
	ScenarioMild      ScenarioName = "mild"
	ScenarioSevere    ScenarioName = "severe"
	ScenarioCostShock ScenarioName = "costShock"
	ScenarioRateHike  ScenarioName = "rateHike"
	ScenarioCustom    ScenarioName = "custom"
)

// ShockDeltas describes additive shocks applied to a base parameter set.
// Growth is unbounded; cost, capex and rate shocks are clamped into
// [0,1] after application; WACC is floored at 1% and terminal growth
// clamped into [-0.2, 0.2].
type ShockDeltas struct {
	GrowthDelta    float64 `json:"growth_delta"`
	COGSDelta      float64 `json:"cogs_delta"`
	OpexDelta      float64 `json:"opex_delta"`
	CapexDelta     float64 `json:"capex_delta"`
	RateDelta      float64 `json:"rate_delta"`
	WACCDelta      float64 `json:"wacc_delta"`
	TermGrowthDelta float64 `json:"term_growth_delta"`
}

// IsZero reports whether the shock leaves the base case unchanged
func (d ShockDeltas) IsZero() bool {
	return d == ShockDeltas{}
}

// CreditStats aggregates per-year credit ratios across a projection
// horizon. Min/max fold only over finite values.
type CreditStats struct {
	MinDSCR        float64 `json:"min_dscr"`
	AvgDSCR        float64 `json:"avg_dscr"`
	MinICR         float64 `json:"min_icr"`
	MaxLeverage    float64 `json:"max_leverage"`
	DSCRBreaches   int     `json:"dscr_breaches"`
	ICRBreaches    int     `json:"icr_breaches"`
	LeverageBreaches int   `json:"leverage_breaches"`
	TotalBreaches  int     `json:"total_breaches"`
	CashFlowVolatility float64 `json:"cash_flow_volatility"`
}

// MarshalJSON serializes the coverage minimums as null when no year had
// a finite ratio, keeping the stats representable as JSON.
func (s CreditStats) MarshalJSON() ([]byte, error) {
	type plain CreditStats
	return json.Marshal(struct {
		plain
		MinDSCR *float64 `json:"min_dscr"`
		MinICR  *float64 `json:"min_icr"`
	}{
		plain:   plain(s),
		MinDSCR: finiteOrNil(s.MinDSCR),
		MinICR:  finiteOrNil(s.MinICR),
	})
}

// ScenarioResult bundles everything computed for one scenario. Scenarios
// are independent pure functions of (base parameters, shock deltas) and
// share no mutable state.
type ScenarioResult struct {
	Name            ScenarioName        `json:"name"`
	Description     string              `json:"description"`
	Deltas          ShockDeltas         `json:"deltas"`
	Rows            []ProjectionYearRow `json:"rows"`
	Stats           CreditStats         `json:"stats"`
	Breaches        []CovenantBreach    `json:"breaches"`
	EnterpriseValue float64             `json:"enterprise_value"`
	EquityValue     float64             `json:"equity_value"`
	IRR             float64             `json:"irr"`
	MOIC            float64             `json:"moic"`
	ResilienceScore float64             `json:"resilience_score"`
	ValuationError  string              `json:"valuation_error,omitempty"`
}

// Valued reports whether the scenario carries a usable valuation
func (r *ScenarioResult) Valued() bool {
	return r.ValuationError == ""
}

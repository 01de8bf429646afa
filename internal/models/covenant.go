package models

// CovenantThresholds holds the covenant package for a model run.
// DSCR and ICR breach when the value falls strictly below the
// threshold; leverage breaches when it rises strictly above. Boundary
// values are compliant.
type CovenantThresholds struct {
	MinDSCR     float64 `json:"min_dscr"`
	TargetICR   float64 `json:"target_icr"`
	MaxLeverage float64 `json:"max_leverage"`
}

// BreachType identifies which covenant a year breached
type BreachType string

const (
	BreachDSCR     BreachType = "dscr"
	BreachICR      BreachType = "icr"
	BreachLeverage BreachType = "leverage"
)

// CovenantBreach records one covenant violation in one projection year
type CovenantBreach struct {
	Year      int        `json:"year"`
	Type      BreachType `json:"type"`
	Value     float64    `json:"value"`
	Threshold float64    `json:"threshold"`
}

// YearHeadroom holds per-year distance to each covenant threshold.
// Positive headroom means compliant; DSCR/ICR headroom is value minus
// threshold, leverage headroom is threshold minus value.
type YearHeadroom struct {
	Year             int     `json:"year"`
	DSCRHeadroom     float64 `json:"dscr_headroom"`
	ICRHeadroom      float64 `json:"icr_headroom"`
	LeverageHeadroom float64 `json:"leverage_headroom"`
	DSCRInfinite     bool    `json:"dscr_infinite"`
	ICRInfinite      bool    `json:"icr_infinite"`
}

// HeadroomAnalysis aggregates covenant headroom across the horizon
type HeadroomAnalysis struct {
	Years             []YearHeadroom `json:"years"`
	DSCRBreachYears   []int          `json:"dscr_breach_years"`
	ICRBreachYears    []int          `json:"icr_breach_years"`
	LeverageBreachYears []int        `json:"leverage_breach_years"`
	MinDSCRHeadroom   float64        `json:"min_dscr_headroom"`
	MinICRHeadroom    float64        `json:"min_icr_headroom"`
	MinLeverageHeadroom float64      `json:"min_leverage_headroom"`
}

package models

// RestructuringLever identifies the remediation mechanism of an option
type RestructuringLever string

const (
	LeverPrincipalReduction RestructuringLever = "principal_reduction"
	LeverTenorExtension     RestructuringLever = "tenor_extension"
	LeverRateReduction      RestructuringLever = "rate_reduction"
	LeverEquityInjection    RestructuringLever = "equity_injection"
	LeverCombination        RestructuringLever = "combination"
)

// AcceptanceLikelihood bands how likely a lender is to accept an option
type AcceptanceLikelihood string

const (
	AcceptanceHigh     AcceptanceLikelihood = "high"
	AcceptanceModerate AcceptanceLikelihood = "moderate"
	AcceptanceLow      AcceptanceLikelihood = "low"
)

// YearStatus classifies a single year's covenant position
type YearStatus string

const (
	YearStatusPass   YearStatus = "pass"
	YearStatusTight  YearStatus = "tight"
	YearStatusBreach YearStatus = "breach"
)

// YearDiagnosis holds per-year pass/tight/breach classification.
// Tight means within 5% of the threshold on the compliant side.
type YearDiagnosis struct {
	Year     int        `json:"year"`
	DSCR     YearStatus `json:"dscr"`
	ICR      YearStatus `json:"icr"`
	Leverage YearStatus `json:"leverage"`
}

// DealDiagnosis summarizes why a deal is failing its covenants
type DealDiagnosis struct {
	Years              []YearDiagnosis `json:"years"`
	BreachYearCount    int             `json:"breach_year_count"`
	DecliningRevenue   bool            `json:"declining_revenue"`
	HighInterestBurden bool            `json:"high_interest_burden"`
	StructuralWeakness bool            `json:"structural_weakness"`
	MinEBITDA          float64         `json:"min_ebitda"`
	MinEBITDAYear      int             `json:"min_ebitda_year"`
}

// RestructuringOption is a candidate remediation. Options are generated
// deterministically and never mutated afterwards, only compared.
type RestructuringOption struct {
	Label              string               `json:"label"`
	Lever              RestructuringLever   `json:"lever"`
	NewPrincipal       float64              `json:"new_principal"`
	NewRate            float64              `json:"new_rate"`
	NewTenorYears      int                  `json:"new_tenor_years"`
	EquityInjection    float64              `json:"equity_injection"`
	AnnualDebtService  float64              `json:"annual_debt_service"`
	MinDSCR            float64              `json:"min_dscr"`
	BreachYears        int                  `json:"breach_years"`
	TotalInterest      float64              `json:"total_interest"`
	LenderNPVImpact    float64              `json:"lender_npv_impact"`
	Acceptance         AcceptanceLikelihood `json:"acceptance"`
	DebtServiceDelta   float64              `json:"debt_service_delta"`
	Year3DSCRDelta     float64              `json:"year3_dscr_delta"`
	Year5DSCRDelta     float64              `json:"year5_dscr_delta"`
	BreachYearsDelta   int                  `json:"breach_years_delta"`
	TotalInterestDelta float64              `json:"total_interest_delta"`
}

// RestructuringPlan is the advisor output: diagnosis, candidate options
// and a recommendation with closing conditions
type RestructuringPlan struct {
	Diagnosis          DealDiagnosis         `json:"diagnosis"`
	Options            []RestructuringOption `json:"options"`
	Recommended        *RestructuringOption  `json:"recommended"`
	ConditionsPrecedent []string             `json:"conditions_precedent"`
	Monitoring         []string              `json:"monitoring"`
}

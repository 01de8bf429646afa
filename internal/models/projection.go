package models

import (
	"encoding/json"
	"math"
)

// ProjectionYearRow represents one fiscal year of projected results.
// Rows are computed wholesale from a parameter set and never mutated;
// any parameter or shock change triggers a full re-projection.
type ProjectionYearRow struct {
	Year             int     `json:"year"`
	Revenue          float64 `json:"revenue"`
	COGS             float64 `json:"cogs"`
	Opex             float64 `json:"opex"`
	EBITDA           float64 `json:"ebitda"`
	Depreciation     float64 `json:"depreciation"`
	EBIT             float64 `json:"ebit"`
	InterestExpense  float64 `json:"interest_expense"`
	Tax              float64 `json:"tax"`
	NetIncome        float64 `json:"net_income"`
	Capex            float64 `json:"capex"`
	WorkingCapital   float64 `json:"working_capital"`
	FreeCashFlow     float64 `json:"free_cash_flow"`
	OpeningDebt      float64 `json:"opening_debt"`
	EndingDebt       float64 `json:"ending_debt"`
	PrincipalPayment float64 `json:"principal_payment"`
	DebtService      float64 `json:"debt_service"`
	CashBalance      float64 `json:"cash_balance"`
	DSCR             float64 `json:"dscr"`
	ICR              float64 `json:"icr"`
	NetDebtToEBITDA  float64 `json:"net_debt_to_ebitda"`
}

// NetDebt returns gross ending debt less cash for the year.
func (r *ProjectionYearRow) NetDebt() float64 {
	return r.EndingDebt - r.CashBalance
}

// HasFiniteDSCR reports whether the year carries a meaningful coverage
// ratio. Years with zero debt service produce an infinite DSCR and are
// excluded from min-aggregation: absence of debt cannot breach a
// coverage covenant.
func (r *ProjectionYearRow) HasFiniteDSCR() bool {
	return !math.IsInf(r.DSCR, 0) && !math.IsNaN(r.DSCR)
}

// MarshalJSON serializes non-finite ratios as null. Years past the last
// maturity carry infinite DSCR and ICR, which neither encoding/json nor
// Postgres JSONB can represent.
func (r ProjectionYearRow) MarshalJSON() ([]byte, error) {
	type plain ProjectionYearRow
	return json.Marshal(struct {
		plain
		DSCR            *float64 `json:"dscr"`
		ICR             *float64 `json:"icr"`
		NetDebtToEBITDA *float64 `json:"net_debt_to_ebitda"`
	}{
		plain:           plain(r),
		DSCR:            finiteOrNil(r.DSCR),
		ICR:             finiteOrNil(r.ICR),
		NetDebtToEBITDA: finiteOrNil(r.NetDebtToEBITDA),
	})
}

func finiteOrNil(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// HistoricalYear represents one fiscal year of reported financial results.
// Income-statement, balance-sheet and cash-flow items are stored in the
// reporting currency. Missing optional items are zero.
type HistoricalYear struct {
	ID              uuid.UUID `json:"id"`
	CompanyID       uuid.UUID `json:"company_id"`
	FiscalYear      int       `json:"fiscal_year"`
	Revenue         float64   `json:"revenue"`
	COGS            float64   `json:"cogs"`
	Opex            float64   `json:"opex"`
	Depreciation    float64   `json:"depreciation"`
	InterestExpense float64   `json:"interest_expense"`
	Tax             float64   `json:"tax"`
	NetIncome       float64   `json:"net_income"`
	Capex           float64   `json:"capex"`
	PPE             float64   `json:"ppe"`
	Cash            float64   `json:"cash"`
	TotalDebt       float64   `json:"total_debt"`
	Receivables     float64   `json:"receivables"`
	Inventory       float64   `json:"inventory"`
	Payables        float64   `json:"payables"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// EBITDA derives EBITDA from the reported income statement.
func (h *HistoricalYear) EBITDA() float64 {
	return h.Revenue - h.COGS - h.Opex
}

// EBIT derives EBIT from EBITDA and depreciation.
func (h *HistoricalYear) EBIT() float64 {
	return h.EBITDA() - h.Depreciation
}

// WorkingCapital returns net working capital from balance-sheet items.
func (h *HistoricalYear) WorkingCapital() float64 {
	return h.Receivables + h.Inventory - h.Payables
}

// DerivedAssumptions holds projection assumptions derived from historical
// statements. All percentages are fractions of revenue unless noted.
type DerivedAssumptions struct {
	BaseRevenue       float64 `json:"base_revenue"`
	RevenueGrowth     float64 `json:"revenue_growth"`
	EBITDAMargin      float64 `json:"ebitda_margin"`
	NetMargin         float64 `json:"net_margin"`
	COGSPct           float64 `json:"cogs_pct"`
	OpexPct           float64 `json:"opex_pct"`
	CapexPct          float64 `json:"capex_pct"`
	WorkingCapitalPct float64 `json:"working_capital_pct"`
	YearsUsed         int     `json:"years_used"`
}

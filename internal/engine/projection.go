package engine

import (
	"fmt"
	"math"

	"github.com/yourusername/creditdesk/internal/models"
)

// Project computes the full projection row sequence for a parameter set.
// Rows are derived wholesale from the parameters; callers re-project
// rather than mutate when anything changes.
func Project(params ModelParameters) ([]models.ProjectionYearRow, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	debtService, err := AggregateDebtService(params.Tranches, params.HorizonYears)
	if err != nil {
		return nil, err
	}

	rows := make([]models.ProjectionYearRow, params.HorizonYears)
	prevRevenue := params.BaseRevenue
	prevWorkingCapital := params.BaseRevenue * params.WorkingCapitalPct
	cash := params.OpeningCash
	openingDebt := params.TotalPrincipal()

	for i := 0; i < params.HorizonYears; i++ {
		revenue := prevRevenue * (1 + params.RevenueGrowth)
		cogs := revenue * params.COGSPct
		opex := revenue * params.OpexPct
		ebitda := revenue - cogs - opex
		depreciation := revenue * params.DepreciationPct
		ebit := ebitda - depreciation
		interest := debtService[i].Interest
		principal := debtService[i].Principal

		pretax := ebit - interest
		tax := 0.0
		if pretax > 0 {
			tax = pretax * params.TaxRate
		}
		netIncome := pretax - tax

		capex := revenue * params.CapexPct
		workingCapital := revenue * params.WorkingCapitalPct
		wcChange := workingCapital - prevWorkingCapital

		// Unlevered free cash flow, used for DCF discounting
		fcf := ebit*(1-params.TaxRate) + depreciation - capex - wcChange

		cash += netIncome + depreciation - capex - wcChange - principal
		endingDebt := openingDebt - principal
		if endingDebt < 0 {
			endingDebt = 0
		}

		row := models.ProjectionYearRow{
			Year:             i + 1,
			Revenue:          revenue,
			COGS:             cogs,
			Opex:             opex,
			EBITDA:           ebitda,
			Depreciation:     depreciation,
			EBIT:             ebit,
			InterestExpense:  interest,
			Tax:              tax,
			NetIncome:        netIncome,
			Capex:            capex,
			WorkingCapital:   workingCapital,
			FreeCashFlow:     fcf,
			OpeningDebt:      openingDebt,
			EndingDebt:       endingDebt,
			PrincipalPayment: principal,
			DebtService:      debtService[i].Total,
			CashBalance:      cash,
		}
		row.DSCR = coverageRatio(ebitda, row.DebtService)
		row.ICR = coverageRatio(ebit, interest)
		row.NetDebtToEBITDA = leverageRatio(endingDebt-cash, ebitda)

		rows[i] = row
		prevRevenue = revenue
		prevWorkingCapital = workingCapital
		openingDebt = endingDebt
	}

	return rows, nil
}

// coverageRatio treats a zero denominator as unconstrained coverage
// rather than an error: absence of debt service cannot breach a
// coverage covenant.
func coverageRatio(numerator, denominator float64) float64 {
	if denominator == 0 {
		return math.Inf(1)
	}
	return numerator / denominator
}

func leverageRatio(netDebt, ebitda float64) float64 {
	if ebitda == 0 {
		if netDebt <= 0 {
			return 0
		}
		return math.Inf(1)
	}
	return netDebt / ebitda
}

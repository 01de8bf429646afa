package engine

import (
	"sort"

	"github.com/yourusername/creditdesk/internal/models"
)

// Opex-to-revenue assumption used to back COGS out of the EBITDA margin
// when COGS is not modeled separately.
const assumedOpexPct = 0.20

// Fallback capex ratio when the historicals carry no capex signal at all
const defaultCapexPct = 0.04

// DeriveAssumptions seeds projection assumptions from historical
// statements. Requires at least two years with positive revenue;
// returns ErrInsufficientData otherwise rather than guessing.
func DeriveAssumptions(years []models.HistoricalYear) (*models.DerivedAssumptions, error) {
	valid := make([]models.HistoricalYear, 0, len(years))
	for _, y := range years {
		if y.Revenue > 0 {
			valid = append(valid, y)
		}
	}
	if len(valid) < 2 {
		return nil, models.ErrInsufficientData
	}
	sort.Slice(valid, func(i, j int) bool { return valid[i].FiscalYear < valid[j].FiscalYear })

	assumptions := &models.DerivedAssumptions{
		YearsUsed: len(valid),
		// Seed from the latest run-rate, not the average
		BaseRevenue: valid[len(valid)-1].Revenue,
	}

	var growthSum float64
	for i := 1; i < len(valid); i++ {
		growthSum += (valid[i].Revenue - valid[i-1].Revenue) / valid[i-1].Revenue
	}
	assumptions.RevenueGrowth = growthSum / float64(len(valid)-1)

	var ebitdaMarginSum, netMarginSum, wcSum float64
	for _, y := range valid {
		ebitdaMarginSum += y.EBITDA() / y.Revenue
		netMarginSum += y.NetIncome / y.Revenue
		wcSum += y.WorkingCapital() / y.Revenue
	}
	n := float64(len(valid))
	assumptions.EBITDAMargin = ebitdaMarginSum / n
	assumptions.NetMargin = netMarginSum / n
	assumptions.WorkingCapitalPct = wcSum / n

	assumptions.CapexPct = deriveCapexPct(valid)
	assumptions.OpexPct = assumedOpexPct
	assumptions.COGSPct = clamp(1-assumptions.EBITDAMargin-assumedOpexPct, 0, 0.95)

	return assumptions, nil
}

// deriveCapexPct prefers reported capex over revenue; falls back to the
// PP&E roll-forward estimate (delta PP&E plus depreciation, with
// depreciation itself estimated at 10% of PP&E when unreported); and
// defaults when the historicals carry neither.
func deriveCapexPct(valid []models.HistoricalYear) float64 {
	var ratioSum float64
	var ratioCount int
	for _, y := range valid {
		if y.Capex > 0 {
			ratioSum += y.Capex / y.Revenue
			ratioCount++
		}
	}
	if ratioCount > 0 {
		return ratioSum / float64(ratioCount)
	}

	for i := 1; i < len(valid); i++ {
		prev, cur := valid[i-1], valid[i]
		if cur.PPE <= 0 || prev.PPE <= 0 {
			continue
		}
		depreciation := cur.Depreciation
		if depreciation == 0 {
			depreciation = cur.PPE * 0.10
		}
		estimated := (cur.PPE - prev.PPE) + depreciation
		if estimated > 0 {
			ratioSum += estimated / cur.Revenue
			ratioCount++
		}
	}
	if ratioCount > 0 {
		return ratioSum / float64(ratioCount)
	}

	return defaultCapexPct
}

// ApplyAssumptions carries derived assumptions onto a parameter record,
// leaving fields the assumptions do not cover untouched.
func ApplyAssumptions(params ModelParameters, a *models.DerivedAssumptions) ModelParameters {
	out := params
	out.BaseRevenue = a.BaseRevenue
	out.RevenueGrowth = a.RevenueGrowth
	out.COGSPct = a.COGSPct
	out.OpexPct = a.OpexPct
	out.CapexPct = clamp(a.CapexPct, 0, 1)
	out.WorkingCapitalPct = clamp(a.WorkingCapitalPct, 0, 1)
	return out
}

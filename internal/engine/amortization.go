package engine

import (
	"fmt"
	"math"

	"github.com/yourusername/creditdesk/internal/models"
)

// DebtServiceEntry is the principal/interest split for one period of one tranche
type DebtServiceEntry struct {
	Period    int     `json:"period"`
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Total     float64 `json:"total"`
	Balance   float64 `json:"balance"`
}

// PaymentFactor returns the level-payment annuity factor r*(1+r)^n / ((1+r)^n - 1).
// The degenerate zero-rate case collapses to straight-line 1/n.
func PaymentFactor(rate float64, periods int) float64 {
	if periods <= 0 {
		return 0
	}
	if rate == 0 {
		return 1.0 / float64(periods)
	}
	pow := math.Pow(1+rate, float64(periods))
	return rate * pow / (pow - 1)
}

// Schedule computes the full per-period debt service schedule for a
// tranche. Bullet tranches pay interest on the full principal each
// period and repay principal at maturity. Any configured interest-only
// sub-period forces the principal component to zero and spreads
// amortization of the non-balloon principal over the remaining periods.
func Schedule(t models.DebtTranche) ([]DebtServiceEntry, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	entries := make([]DebtServiceEntry, t.TenorYears)
	balloon := t.BalloonAmount()

	switch t.Amortization {
	case models.AmortizationBullet:
		for i := range entries {
			interest := t.Principal * t.AnnualRate
			entry := DebtServiceEntry{Period: i + 1, Interest: interest, Balance: t.Principal}
			if i == t.TenorYears-1 {
				entry.Principal = t.Principal
				entry.Balance = 0
			}
			entry.Total = entry.Principal + entry.Interest
			entries[i] = entry
		}
		return entries, nil

	case models.AmortizationAmortizing, models.AmortizationInterestOnly:
		io := t.InterestOnlyYears
		if t.Amortization == models.AmortizationInterestOnly && io == 0 {
			// Declared interest-only without an explicit sub-period:
			// interest-only until a single amortizing final stretch
			io = t.TenorYears - 1
		}
		// The balloon stub pays interest each period and principal at
		// maturity; the rest amortizes level-payment over the periods
		// remaining after the interest-only window.
		amortYears := t.TenorYears - io
		amortBalance := t.Principal - balloon
		payment := amortBalance * PaymentFactor(t.AnnualRate, amortYears)

		for i := range entries {
			entry := DebtServiceEntry{Period: i + 1}
			entry.Interest = (amortBalance + balloon) * t.AnnualRate
			if i >= io {
				entry.Principal = payment - amortBalance*t.AnnualRate
				if entry.Principal > amortBalance {
					entry.Principal = amortBalance
				}
				amortBalance -= entry.Principal
			}
			if i == t.TenorYears-1 {
				// Final period clears the balloon and any residual
				entry.Principal += balloon + amortBalance
				amortBalance = 0
				balloon = 0
			}
			entry.Balance = amortBalance + balloon
			entry.Total = entry.Principal + entry.Interest
			entries[i] = entry
		}
		return entries, nil
	}

	return nil, fmt.Errorf("%w: unknown amortization type %q", models.ErrInvalidTranche, t.Amortization)
}

// ComputeDebtService returns the principal/interest split for a single
// one-based period of a tranche.
func ComputeDebtService(t models.DebtTranche, period int) (DebtServiceEntry, error) {
	schedule, err := Schedule(t)
	if err != nil {
		return DebtServiceEntry{}, err
	}
	if period < 1 || period > len(schedule) {
		// Periods past maturity carry no debt service
		return DebtServiceEntry{Period: period}, nil
	}
	return schedule[period-1], nil
}

// AggregateDebtService sums each tranche's independently computed debt
// service per year across the horizon. Years beyond a tranche's tenor
// contribute nothing.
func AggregateDebtService(tranches []models.DebtTranche, horizonYears int) ([]DebtServiceEntry, error) {
	totals := make([]DebtServiceEntry, horizonYears)
	for i := range totals {
		totals[i].Period = i + 1
	}
	for _, t := range tranches {
		schedule, err := Schedule(t)
		if err != nil {
			return nil, fmt.Errorf("tranche %s: %w", t.Name, err)
		}
		for i := 0; i < horizonYears && i < len(schedule); i++ {
			totals[i].Principal += schedule[i].Principal
			totals[i].Interest += schedule[i].Interest
			totals[i].Total += schedule[i].Total
			totals[i].Balance += schedule[i].Balance
		}
	}
	return totals, nil
}

// BalloonAnalysis describes refinancing exposure at a tranche's maturity
type BalloonAnalysis struct {
	TrancheName    string                 `json:"tranche_name"`
	BalloonAmount  float64                `json:"balloon_amount"`
	MaturityYear   int                    `json:"maturity_year"`
	CashAtMaturity float64                `json:"cash_at_maturity"`
	Coverage       float64                `json:"coverage"`
	Risk           models.RefinancingRisk `json:"risk"`
}

// AnalyzeBalloon computes balloon coverage from projected cash at the
// tranche's maturity year and bands the refinancing risk.
func AnalyzeBalloon(t models.DebtTranche, rows []models.ProjectionYearRow) *BalloonAnalysis {
	balloon := t.BalloonAmount()
	if balloon <= 0 {
		return nil
	}
	var cash float64
	if t.TenorYears >= 1 && t.TenorYears <= len(rows) {
		cash = rows[t.TenorYears-1].CashBalance
	}
	coverage := 0.0
	if balloon > 0 {
		coverage = cash / balloon
	}
	return &BalloonAnalysis{
		TrancheName:    t.Name,
		BalloonAmount:  balloon,
		MaturityYear:   t.TenorYears,
		CashAtMaturity: cash,
		Coverage:       coverage,
		Risk:           classifyRefinancingRisk(coverage),
	}
}

func classifyRefinancingRisk(coverage float64) models.RefinancingRisk {
	switch {
	case coverage < 0.8:
		return models.RefinancingRiskCritical
	case coverage < 1.0:
		return models.RefinancingRiskHigh
	case coverage < 1.5:
		return models.RefinancingRiskMedium
	default:
		return models.RefinancingRiskLow
	}
}

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AmortizationType identifies how a tranche repays principal
type AmortizationType string

const (
	AmortizationAmortizing   AmortizationType = "amortizing"
	AmortizationBullet       AmortizationType = "bullet"
	AmortizationInterestOnly AmortizationType = "interest-only"
)

// Valid reports whether the amortization type is one of the supported shapes
func (a AmortizationType) Valid() bool {
	switch a {
	case AmortizationAmortizing, AmortizationBullet, AmortizationInterestOnly:
		return true
	default:
		return false
	}
}

// DebtTranche represents one slice of financing. Tranches aggregate
// additively: each tranche's debt service is computed independently and
// summed, and the blended rate is the principal-weighted average.
type DebtTranche struct {
	ID                uuid.UUID        `json:"id"`
	Name              string           `json:"name"`
	Principal         float64          `json:"principal"`
	AnnualRate        float64          `json:"annual_rate"`
	TenorYears        int              `json:"tenor_years"`
	Amortization      AmortizationType `json:"amortization"`
	InterestOnlyYears int              `json:"interest_only_years"`
	BalloonPct        float64          `json:"balloon_pct"`
	Maturity          time.Time        `json:"maturity"`
	Seniority         string           `json:"seniority"`
}

// Validate rejects tranches with malformed terms before any arithmetic runs
func (t *DebtTranche) Validate() error {
	if t.Principal <= 0 {
		return fmt.Errorf("%w: principal must be positive, got %.2f", ErrInvalidTranche, t.Principal)
	}
	if t.AnnualRate <= 0 {
		return fmt.Errorf("%w: annual rate must be positive, got %.4f", ErrInvalidTranche, t.AnnualRate)
	}
	if t.TenorYears <= 0 {
		return fmt.Errorf("%w: tenor must be positive, got %d", ErrInvalidTranche, t.TenorYears)
	}
	if t.InterestOnlyYears < 0 || t.InterestOnlyYears >= t.TenorYears {
		return fmt.Errorf("%w: interest-only period %d must be shorter than tenor %d",
			ErrInvalidTranche, t.InterestOnlyYears, t.TenorYears)
	}
	if !t.Amortization.Valid() {
		return fmt.Errorf("%w: unknown amortization type %q", ErrInvalidTranche, t.Amortization)
	}
	if t.BalloonPct < 0 || t.BalloonPct > 1 {
		return fmt.Errorf("%w: balloon percentage %.4f out of [0,1]", ErrInvalidTranche, t.BalloonPct)
	}
	return nil
}

// BalloonAmount returns the principal due as a balloon in the final period
func (t *DebtTranche) BalloonAmount() float64 {
	return t.Principal * t.BalloonPct
}

// RefinancingRisk bands balloon refinancing exposure by coverage
type RefinancingRisk string

const (
	RefinancingRiskCritical RefinancingRisk = "critical"
	RefinancingRiskHigh     RefinancingRisk = "high"
	RefinancingRiskMedium   RefinancingRisk = "medium"
	RefinancingRiskLow      RefinancingRisk = "low"
)

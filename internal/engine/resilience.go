package engine

import (
	"math"

	"github.com/yourusername/creditdesk/internal/models"
)

// Resilience component weights (points out of 100)
const (
	dscrWeight       = 35
	leverageWeight   = 25
	breachWeight     = 20
	volatilityWeight = 10
	icrWeight        = 10
)

// ResilienceScore computes the composite 0-100 resilience score from
// aggregate credit statistics. Each component is assigned from a fixed
// band table and the weighted total is clamped into [0,100].
func ResilienceScore(stats models.CreditStats) float64 {
	score := dscrBand(stats.MinDSCR) +
		leverageBand(stats.MaxLeverage) +
		breachBand(stats.TotalBreaches) +
		volatilityBand(stats.CashFlowVolatility) +
		icrBand(stats.MinICR)
	return math.Max(0, math.Min(100, score))
}

func dscrBand(minDSCR float64) float64 {
	switch {
	case minDSCR >= 2.0:
		return dscrWeight
	case minDSCR >= 1.5:
		return 28
	case minDSCR >= 1.2:
		return 20
	case minDSCR >= 1.0:
		return 12
	default:
		return 5
	}
}

func leverageBand(maxLeverage float64) float64 {
	switch {
	case maxLeverage <= 2.0:
		return leverageWeight
	case maxLeverage <= 3.0:
		return 20
	case maxLeverage <= 4.0:
		return 14
	case maxLeverage <= 5.0:
		return 8
	default:
		return 3
	}
}

func breachBand(total int) float64 {
	switch {
	case total == 0:
		return breachWeight
	case total == 1:
		return 14
	case total <= 3:
		return 8
	case total <= 5:
		return 4
	default:
		return 0
	}
}

func volatilityBand(cov float64) float64 {
	switch {
	case cov <= 0.10:
		return volatilityWeight
	case cov <= 0.20:
		return 8
	case cov <= 0.35:
		return 5
	case cov <= 0.50:
		return 3
	default:
		return 1
	}
}

func icrBand(minICR float64) float64 {
	switch {
	case minICR >= 4.0:
		return icrWeight
	case minICR >= 3.0:
		return 8
	case minICR >= 2.0:
		return 5
	case minICR >= 1.5:
		return 3
	default:
		return 1
	}
}

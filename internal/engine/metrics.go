package engine

import (
	"math"

	"github.com/yourusername/creditdesk/internal/models"
)

// AnalyzeCredit derives aggregate credit statistics and covenant
// breaches from a projection row sequence. Min/max aggregates fold only
// over finite ratio values; a single year may contribute to multiple
// breach counters.
func AnalyzeCredit(rows []models.ProjectionYearRow, thresholds models.CovenantThresholds) (models.CreditStats, []models.CovenantBreach) {
	stats := models.CreditStats{
		MinDSCR:     math.Inf(1),
		MinICR:      math.Inf(1),
		MaxLeverage: math.Inf(-1),
	}
	var breaches []models.CovenantBreach

	var dscrSum float64
	var dscrCount int
	fcfs := make([]float64, 0, len(rows))

	for i := range rows {
		row := &rows[i]
		fcfs = append(fcfs, row.FreeCashFlow)

		if isFinite(row.DSCR) {
			dscrSum += row.DSCR
			dscrCount++
			if row.DSCR < stats.MinDSCR {
				stats.MinDSCR = row.DSCR
			}
			if row.DSCR < thresholds.MinDSCR {
				stats.DSCRBreaches++
				breaches = append(breaches, models.CovenantBreach{
					Year: row.Year, Type: models.BreachDSCR,
					Value: row.DSCR, Threshold: thresholds.MinDSCR,
				})
			}
		}
		if isFinite(row.ICR) {
			if row.ICR < stats.MinICR {
				stats.MinICR = row.ICR
			}
			if row.ICR < thresholds.TargetICR {
				stats.ICRBreaches++
				breaches = append(breaches, models.CovenantBreach{
					Year: row.Year, Type: models.BreachICR,
					Value: row.ICR, Threshold: thresholds.TargetICR,
				})
			}
		}
		if isFinite(row.NetDebtToEBITDA) {
			if row.NetDebtToEBITDA > stats.MaxLeverage {
				stats.MaxLeverage = row.NetDebtToEBITDA
			}
			if row.NetDebtToEBITDA > thresholds.MaxLeverage {
				stats.LeverageBreaches++
				breaches = append(breaches, models.CovenantBreach{
					Year: row.Year, Type: models.BreachLeverage,
					Value: row.NetDebtToEBITDA, Threshold: thresholds.MaxLeverage,
				})
			}
		}
	}

	if dscrCount > 0 {
		stats.AvgDSCR = dscrSum / float64(dscrCount)
	}
	if math.IsInf(stats.MinDSCR, 1) && dscrCount == 0 {
		stats.MinDSCR = math.Inf(1)
	}
	if math.IsInf(stats.MaxLeverage, -1) {
		stats.MaxLeverage = 0
	}
	stats.TotalBreaches = stats.DSCRBreaches + stats.ICRBreaches + stats.LeverageBreaches
	stats.CashFlowVolatility = CashFlowVolatility(fcfs)

	return stats, breaches
}

// CashFlowVolatility is the coefficient of variation of the annual free
// cash flow series: population standard deviation over |mean|. Returns 0
// for fewer than two data points or a zero mean.
func CashFlowVolatility(fcfs []float64) float64 {
	if len(fcfs) < 2 {
		return 0
	}
	var sum float64
	for _, v := range fcfs {
		sum += v
	}
	mean := sum / float64(len(fcfs))
	if mean == 0 {
		return 0
	}
	var variance float64
	for _, v := range fcfs {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(fcfs))
	return math.Sqrt(variance) / math.Abs(mean)
}

func isFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

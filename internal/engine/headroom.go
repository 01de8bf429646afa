package engine

import (
	"math"

	"github.com/yourusername/creditdesk/internal/models"
)

// AnalyzeHeadroom computes per-year distance to each covenant threshold
// and enumerates breach years. Years with no debt service carry infinite
// coverage headroom and are marked rather than folded into minimums.
func AnalyzeHeadroom(rows []models.ProjectionYearRow, thresholds models.CovenantThresholds) models.HeadroomAnalysis {
	analysis := models.HeadroomAnalysis{
		Years:               make([]models.YearHeadroom, 0, len(rows)),
		MinDSCRHeadroom:     math.Inf(1),
		MinICRHeadroom:      math.Inf(1),
		MinLeverageHeadroom: math.Inf(1),
	}

	for i := range rows {
		row := &rows[i]
		yh := models.YearHeadroom{Year: row.Year}

		if isFinite(row.DSCR) {
			yh.DSCRHeadroom = row.DSCR - thresholds.MinDSCR
			if yh.DSCRHeadroom < analysis.MinDSCRHeadroom {
				analysis.MinDSCRHeadroom = yh.DSCRHeadroom
			}
			if row.DSCR < thresholds.MinDSCR {
				analysis.DSCRBreachYears = append(analysis.DSCRBreachYears, row.Year)
			}
		} else {
			yh.DSCRInfinite = true
		}

		if isFinite(row.ICR) {
			yh.ICRHeadroom = row.ICR - thresholds.TargetICR
			if yh.ICRHeadroom < analysis.MinICRHeadroom {
				analysis.MinICRHeadroom = yh.ICRHeadroom
			}
			if row.ICR < thresholds.TargetICR {
				analysis.ICRBreachYears = append(analysis.ICRBreachYears, row.Year)
			}
		} else {
			yh.ICRInfinite = true
		}

		if isFinite(row.NetDebtToEBITDA) {
			yh.LeverageHeadroom = thresholds.MaxLeverage - row.NetDebtToEBITDA
			if yh.LeverageHeadroom < analysis.MinLeverageHeadroom {
				analysis.MinLeverageHeadroom = yh.LeverageHeadroom
			}
			if row.NetDebtToEBITDA > thresholds.MaxLeverage {
				analysis.LeverageBreachYears = append(analysis.LeverageBreachYears, row.Year)
			}
		}

		analysis.Years = append(analysis.Years, yh)
	}

	return analysis
}

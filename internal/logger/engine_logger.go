// Package logger provides engine-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// EngineLogger provides dedicated logging for analysis engine operations.
type EngineLogger struct {
	*logrus.Entry
}

// NewEngineLogger creates a new engine logger.
func NewEngineLogger(baseLogger *logrus.Logger) *EngineLogger {
	return &EngineLogger{
		Entry: baseLogger.WithField("component", "engine"),
	}
}

// LogProjection logs a completed projection.
func (el *EngineLogger) LogProjection(companyID string, horizonYears, trancheCount int, durationMs float64) {
	el.WithFields(logrus.Fields{
		"company_id":    companyID,
		"horizon_years": horizonYears,
		"tranche_count": trancheCount,
		"duration_ms":   durationMs,
	}).Info("Projection completed")
}

// LogScenarioRun logs the result of one stress scenario.
func (el *EngineLogger) LogScenarioRun(companyID, scenario string, resilienceScore, minDSCR float64, breaches int) {
	el.WithFields(logrus.Fields{
		"company_id":       companyID,
		"scenario":         scenario,
		"resilience_score": resilienceScore,
		"min_dscr":         minDSCR,
		"breaches":         breaches,
	}).Info("Scenario run completed")
}

// LogValuation logs a completed valuation.
func (el *EngineLogger) LogValuation(companyID string, wacc, enterpriseValue, equityValue float64) {
	el.WithFields(logrus.Fields{
		"company_id":       companyID,
		"wacc":             wacc,
		"enterprise_value": enterpriseValue,
		"equity_value":     equityValue,
	}).Info("Valuation completed")
}

// LogAssumptionDerivation logs historical-to-assumption derivation.
func (el *EngineLogger) LogAssumptionDerivation(companyID string, yearsUsed int, revenueGrowth, ebitdaMargin float64) {
	el.WithFields(logrus.Fields{
		"company_id":     companyID,
		"years_used":     yearsUsed,
		"revenue_growth": revenueGrowth,
		"ebitda_margin":  ebitdaMargin,
	}).Info("Assumptions derived from historical statements")
}

// LogRefinancingRisk logs a flagged balloon maturity.
func (el *EngineLogger) LogRefinancingRisk(companyID, tranche, risk string, coverage float64, maturityYear int) {
	el.WithFields(logrus.Fields{
		"company_id":    companyID,
		"tranche":       tranche,
		"risk":          risk,
		"coverage":      coverage,
		"maturity_year": maturityYear,
	}).Warn("Balloon refinancing risk flagged")
}

// Package logger provides datasource-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// DatasourceLogger provides dedicated logging for market reference data operations.
type DatasourceLogger struct {
	*logrus.Entry
}

// NewDatasourceLogger creates a new datasource logger.
func NewDatasourceLogger(baseLogger *logrus.Logger) *DatasourceLogger {
	return &DatasourceLogger{
		Entry: baseLogger.WithField("component", "datasource"),
	}
}

// LogReferenceFetch logs a market reference data fetch.
func (dl *DatasourceLogger) LogReferenceFetch(provider, sector string, cacheHit bool, latencyMs float64) {
	dl.WithFields(logrus.Fields{
		"provider":   provider,
		"sector":     sector,
		"cache_hit":  cacheHit,
		"latency_ms": latencyMs,
	}).Info("Market reference fetch completed")
}

// LogFallback logs use of static fallback rates.
func (dl *DatasourceLogger) LogFallback(provider, reason string, riskFreeRate, equityRiskPremium float64) {
	dl.WithFields(logrus.Fields{
		"provider":            provider,
		"reason":              reason,
		"risk_free_rate":      riskFreeRate,
		"equity_risk_premium": equityRiskPremium,
	}).Warn("Falling back to static market reference rates")
}

// LogRateLimited logs a rate-limited request.
func (dl *DatasourceLogger) LogRateLimited(provider string, waitMs float64) {
	dl.WithFields(logrus.Fields{
		"provider": provider,
		"wait_ms":  waitMs,
	}).Debug("Request throttled by rate limiter")
}

// LogFetchError logs a reference data fetch failure.
func (dl *DatasourceLogger) LogFetchError(provider, errorReason string) {
	dl.WithFields(logrus.Fields{
		"provider":     provider,
		"error_reason": errorReason,
	}).Error("Market reference fetch failed")
}

// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogAnalysisRun logs a completed analysis run.
func (al *AuditLogger) LogAnalysisRun(runID, companyID, parameterHash string, resilienceScore float64, totalBreaches int, timestamp time.Time) {
	al.WithFields(logrus.Fields{
		"run_id":           runID,
		"company_id":       companyID,
		"parameter_hash":   parameterHash,
		"resilience_score": resilienceScore,
		"total_breaches":   totalBreaches,
		"timestamp":        timestamp.Unix(),
	}).Info("Analysis run recorded")
}

// LogParameterChange logs a change to stored model parameters.
func (al *AuditLogger) LogParameterChange(companyID, parameterName string, oldValue, newValue interface{}, changedBy string) {
	al.WithFields(logrus.Fields{
		"company_id":     companyID,
		"parameter_name": parameterName,
		"old_value":      oldValue,
		"new_value":      newValue,
		"changed_by":     changedBy,
	}).Info("Model parameter changed")
}

// LogCovenantBreach logs a detected covenant breach.
func (al *AuditLogger) LogCovenantBreach(runID, companyID, covenant string, year int, value, threshold float64) {
	al.WithFields(logrus.Fields{
		"run_id":     runID,
		"company_id": companyID,
		"covenant":   covenant,
		"year":       year,
		"value":      value,
		"threshold":  threshold,
	}).Warn("Covenant breach recorded")
}

// LogRestructuringPlan logs issuance of a restructuring plan.
func (al *AuditLogger) LogRestructuringPlan(companyID, recommendedOption string, optionCount int, targetDSCR float64) {
	al.WithFields(logrus.Fields{
		"company_id":         companyID,
		"recommended_option": recommendedOption,
		"option_count":       optionCount,
		"target_dscr":        targetDSCR,
	}).Info("Restructuring plan issued")
}

// LogStatementIngestion logs ingestion of historical financial statements.
func (al *AuditLogger) LogStatementIngestion(companyID string, yearsIngested, yearsRejected int, source string) {
	al.WithFields(logrus.Fields{
		"company_id":     companyID,
		"years_ingested": yearsIngested,
		"years_rejected": yearsRejected,
		"source":         source,
	}).Info("Financial statements ingested")
}

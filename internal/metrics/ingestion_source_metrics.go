// Package metrics defines ingestion-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Ingestion counter vectors
var (
	StatementsIngestedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "creditdesk",
		Name:      "statements_ingested_total",
		Help:      "Total number of fiscal years ingested by source and status",
	}, []string{"source", "status"})

	IngestionValidationFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "creditdesk",
		Name:      "ingestion_validation_failures_total",
		Help:      "Total number of statement validation failures by source",
	}, []string{"source"})
)

// RecordStatementIngested records a fiscal year ingestion event.
// status should be one of: "success", "duplicate", "rejected"
func RecordStatementIngested(source, status string) {
	StatementsIngestedTotal.WithLabelValues(source, status).Inc()
}

// RecordValidationFailure records a statement validation failure.
func RecordValidationFailure(source string) {
	IngestionValidationFailures.WithLabelValues(source).Inc()
}

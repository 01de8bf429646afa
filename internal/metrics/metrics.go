// Package metrics provides centralized Prometheus metrics registry for the analysis engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	AnalysisRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "creditdesk",
		Name:      "analysis_runs_total",
		Help:      "Total number of analysis runs executed",
	})
	CovenantBreachesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "creditdesk",
		Name:      "covenant_breaches_total",
		Help:      "Total number of covenant breaches detected",
	})
	ValuationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "creditdesk",
		Name:      "valuations_total",
		Help:      "Total number of DCF valuations computed",
	})
	RestructuringPlansTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "creditdesk",
		Name:      "restructuring_plans_total",
		Help:      "Total number of restructuring plans generated",
	})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "creditdesk",
		Name:      "analysis_cache_hits_total",
		Help:      "Total number of analysis cache hits",
	})
)

// Gauge metrics
var (
	ActiveCompanies = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "creditdesk",
		Name:      "active_companies",
		Help:      "Number of active companies under coverage",
	})
	CompanyResilienceScore = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "creditdesk",
		Name:      "company_resilience_score",
		Help:      "Latest resilience score for each company",
	}, []string{"company_id", "company_name"})
	CompanyTotalBreaches = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "creditdesk",
		Name:      "company_total_breaches",
		Help:      "Covenant breach count from the latest run for each company",
	}, []string{"company_id", "company_name"})
)

// Histogram metrics
var (
	AnalysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "creditdesk",
		Name:      "analysis_duration_seconds",
		Help:      "Duration of full analysis runs in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	ResilienceScoreDistribution = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "creditdesk",
		Name:      "resilience_score_distribution",
		Help:      "Distribution of resilience scores across runs",
		Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
	})
	IngestionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "creditdesk",
		Name:      "ingestion_duration_seconds",
		Help:      "Duration of statement ingestion runs in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(AnalysisRunsTotal)
		registry.MustRegister(CovenantBreachesTotal)
		registry.MustRegister(ValuationsTotal)
		registry.MustRegister(RestructuringPlansTotal)
		registry.MustRegister(CacheHitsTotal)

		// Register gauge metrics
		registry.MustRegister(ActiveCompanies)
		registry.MustRegister(CompanyResilienceScore)
		registry.MustRegister(CompanyTotalBreaches)

		// Register histogram metrics
		registry.MustRegister(AnalysisDuration)
		registry.MustRegister(ResilienceScoreDistribution)
		registry.MustRegister(IngestionDuration)

		// Register scenario metrics
		registry.MustRegister(ScenarioRunsTotal)
		registry.MustRegister(ScenarioMinDSCR)
		registry.MustRegister(ScenarioBreachYears)

		// Register ingestion metrics
		registry.MustRegister(StatementsIngestedTotal)
		registry.MustRegister(IngestionValidationFailures)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordAnalysisRun records a completed analysis run.
func RecordAnalysisRun(durationSeconds float64) {
	AnalysisRunsTotal.Inc()
	AnalysisDuration.Observe(durationSeconds)
}

// RecordCovenantBreaches records detected covenant breaches.
func RecordCovenantBreaches(count int) {
	CovenantBreachesTotal.Add(float64(count))
}

// RecordValuation records a DCF valuation event.
func RecordValuation() {
	ValuationsTotal.Inc()
}

// RecordRestructuringPlan records a restructuring plan event.
func RecordRestructuringPlan() {
	RestructuringPlansTotal.Inc()
}

// RecordCacheHit records an analysis cache hit.
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordResilienceScore records a resilience score observation.
func RecordResilienceScore(score float64) {
	ResilienceScoreDistribution.Observe(score)
}

// UpdateActiveCompanies updates the active companies gauge.
func UpdateActiveCompanies(count float64) {
	ActiveCompanies.Set(count)
}

// UpdateCompanyScores updates per-company gauges from the latest run.
func UpdateCompanyScores(companyID, companyName string, resilience float64, breaches int) {
	CompanyResilienceScore.WithLabelValues(companyID, companyName).Set(resilience)
	CompanyTotalBreaches.WithLabelValues(companyID, companyName).Set(float64(breaches))
}

// RecordIngestionDuration records statement ingestion duration.
func RecordIngestionDuration(durationSeconds float64) {
	IngestionDuration.Observe(durationSeconds)
}

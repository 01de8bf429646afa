// Package metrics defines scenario-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Scenario-specific counter vectors
var (
	ScenarioRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "creditdesk",
		Name:      "scenario_runs_total",
		Help:      "Total number of stress scenario runs by scenario and status",
	}, []string{"scenario", "status"})
)

// Scenario-specific histogram vectors
var (
	ScenarioMinDSCR = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "creditdesk",
		Name:      "scenario_min_dscr",
		Help:      "Minimum DSCR observed under each stress scenario",
		Buckets:   []float64{0.25, 0.5, 0.75, 1.0, 1.25, 1.5, 2.0, 3.0, 5.0},
	}, []string{"scenario"})
)

// Scenario-specific gauge vectors
var (
	ScenarioBreachYears = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "creditdesk",
		Name:      "scenario_breach_years",
		Help:      "Number of breach years from the latest run of each scenario",
	}, []string{"scenario"})
)

// RecordScenarioRun records a scenario run event.
// status should be one of: "success", "unvalued", "failure"
func RecordScenarioRun(scenario, status string) {
	ScenarioRunsTotal.WithLabelValues(scenario, status).Inc()
}

// RecordScenarioMinDSCR records the minimum DSCR from a scenario run.
func RecordScenarioMinDSCR(scenario string, minDSCR float64) {
	ScenarioMinDSCR.WithLabelValues(scenario).Observe(minDSCR)
}

// UpdateScenarioBreachYears updates the breach years gauge for a scenario.
func UpdateScenarioBreachYears(scenario string, count float64) {
	ScenarioBreachYears.WithLabelValues(scenario).Set(count)
}

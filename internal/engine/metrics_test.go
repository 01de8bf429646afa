package engine

import (
	"math"
	"testing"

	"github.com/yourusername/creditdesk/internal/models"
)

func testThresholds() models.CovenantThresholds {
	return models.CovenantThresholds{MinDSCR: 1.25, TargetICR: 2.0, MaxLeverage: 4.0}
}

// TestAnalyzeCreditBoundaryValues tests that values exactly at a threshold comply
func TestAnalyzeCreditBoundaryValues(t *testing.T) {
	rows := []models.ProjectionYearRow{
		{Year: 1, DSCR: 1.25, ICR: 2.0, NetDebtToEBITDA: 4.0, FreeCashFlow: 100},
		{Year: 2, DSCR: 1.25, ICR: 2.0, NetDebtToEBITDA: 4.0, FreeCashFlow: 100},
	}

	stats, breaches := AnalyzeCredit(rows, testThresholds())
	if len(breaches) != 0 {
		t.Errorf("expected no breaches at exact thresholds, got %d", len(breaches))
	}
	if stats.TotalBreaches != 0 {
		t.Errorf("total breaches = %d, want 0", stats.TotalBreaches)
	}
	if !almostEqual(stats.MinDSCR, 1.25, tolerance) {
		t.Errorf("min DSCR = %v, want 1.25", stats.MinDSCR)
	}
	if !almostEqual(stats.MaxLeverage, 4.0, tolerance) {
		t.Errorf("max leverage = %v, want 4.0", stats.MaxLeverage)
	}
}

// TestAnalyzeCreditMultipleBreachesPerYear tests one year tripping all three covenants
func TestAnalyzeCreditMultipleBreachesPerYear(t *testing.T) {
	rows := []models.ProjectionYearRow{
		{Year: 1, DSCR: 1.50, ICR: 3.0, NetDebtToEBITDA: 2.0, FreeCashFlow: 100},
		{Year: 2, DSCR: 1.00, ICR: 1.5, NetDebtToEBITDA: 5.0, FreeCashFlow: 100},
	}

	stats, breaches := AnalyzeCredit(rows, testThresholds())
	if len(breaches) != 3 {
		t.Fatalf("expected 3 breaches from the stressed year, got %d", len(breaches))
	}
	if stats.DSCRBreaches != 1 || stats.ICRBreaches != 1 || stats.LeverageBreaches != 1 {
		t.Errorf("breach counts = %d/%d/%d, want 1/1/1",
			stats.DSCRBreaches, stats.ICRBreaches, stats.LeverageBreaches)
	}
	if stats.TotalBreaches != 3 {
		t.Errorf("total breaches = %d, want 3", stats.TotalBreaches)
	}
	for _, b := range breaches {
		if b.Year != 2 {
			t.Errorf("breach %v recorded in year %d, want 2", b.Type, b.Year)
		}
	}
	if !almostEqual(stats.AvgDSCR, 1.25, tolerance) {
		t.Errorf("avg DSCR = %v, want 1.25", stats.AvgDSCR)
	}
	if !almostEqual(stats.MinICR, 1.5, tolerance) {
		t.Errorf("min ICR = %v, want 1.5", stats.MinICR)
	}
}

// TestAnalyzeCreditIgnoresInfiniteRatios tests that unconstrained years stay out of the aggregates
func TestAnalyzeCreditIgnoresInfiniteRatios(t *testing.T) {
	rows := []models.ProjectionYearRow{
		{Year: 1, DSCR: 1.40, ICR: 2.5, NetDebtToEBITDA: 3.0, FreeCashFlow: 100},
		{Year: 2, DSCR: math.Inf(1), ICR: math.Inf(1), NetDebtToEBITDA: -0.5, FreeCashFlow: 100},
	}

	stats, breaches := AnalyzeCredit(rows, testThresholds())
	if len(breaches) != 0 {
		t.Errorf("expected no breaches, got %d", len(breaches))
	}
	if !almostEqual(stats.MinDSCR, 1.40, tolerance) {
		t.Errorf("min DSCR = %v, want 1.40 excluding the infinite year", stats.MinDSCR)
	}
	if !almostEqual(stats.AvgDSCR, 1.40, tolerance) {
		t.Errorf("avg DSCR = %v, want 1.40 over one finite year", stats.AvgDSCR)
	}
	if !almostEqual(stats.MaxLeverage, 3.0, tolerance) {
		t.Errorf("max leverage = %v, want 3.0", stats.MaxLeverage)
	}
}

// TestAnalyzeCreditEmptyRows tests the degenerate empty projection
func TestAnalyzeCreditEmptyRows(t *testing.T) {
	stats, breaches := AnalyzeCredit(nil, testThresholds())
	if len(breaches) != 0 || stats.TotalBreaches != 0 {
		t.Errorf("expected clean stats for empty rows, got %+v", stats)
	}
	if stats.MaxLeverage != 0 {
		t.Errorf("max leverage = %v, want 0 with no rows", stats.MaxLeverage)
	}
}

// TestCashFlowVolatility tests the coefficient of variation
func TestCashFlowVolatility(t *testing.T) {
	tests := []struct {
		name     string
		fcfs     []float64
		expected float64
	}{
		{"empty series", nil, 0},
		{"single point", []float64{100}, 0},
		{"flat series", []float64{100, 100, 100}, 0},
		{"symmetric spread", []float64{80, 120}, 0.2},
		{"zero mean", []float64{-50, 50}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CashFlowVolatility(tt.fcfs)
			if !almostEqual(got, tt.expected, tolerance) {
				t.Errorf("CashFlowVolatility(%v) = %v, want %v", tt.fcfs, got, tt.expected)
			}
		})
	}
}

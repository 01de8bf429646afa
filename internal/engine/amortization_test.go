package engine

import (
	"math"
	"testing"

	"github.com/yourusername/creditdesk/internal/models"
)

const tolerance = 1e-6

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// TestPaymentFactor tests the annuity factor against known values
func TestPaymentFactor(t *testing.T) {
	tests := []struct {
		name     string
		rate     float64
		periods  int
		expected float64
	}{
		{"ten percent over five years", 0.10, 5, 0.263797},
		{"five percent over ten years", 0.05, 10, 0.129505},
		{"zero rate is straight line", 0.0, 4, 0.25},
		{"single period", 0.08, 1, 1.08},
		{"zero periods", 0.10, 0, 0},
		{"negative periods", 0.10, -3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PaymentFactor(tt.rate, tt.periods)
			if !almostEqual(got, tt.expected, 1e-5) {
				t.Errorf("PaymentFactor(%v, %d) = %v, want %v", tt.rate, tt.periods, got, tt.expected)
			}
		})
	}
}

// TestScheduleBullet tests the bullet repayment shape
func TestScheduleBullet(t *testing.T) {
	tranche := models.DebtTranche{
		Name:         "senior",
		Principal:    500,
		AnnualRate:   0.08,
		TenorYears:   5,
		Amortization: models.AmortizationBullet,
	}

	entries, err := Schedule(tranche)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(entries))
	}

	for i, e := range entries[:4] {
		if e.Principal != 0 {
			t.Errorf("year %d: expected zero principal, got %v", i+1, e.Principal)
		}
		if !almostEqual(e.Interest, 40, tolerance) {
			t.Errorf("year %d: expected interest 40, got %v", i+1, e.Interest)
		}
		if !almostEqual(e.Balance, 500, tolerance) {
			t.Errorf("year %d: expected balance 500, got %v", i+1, e.Balance)
		}
	}

	final := entries[4]
	if !almostEqual(final.Principal, 500, tolerance) {
		t.Errorf("final principal = %v, want 500", final.Principal)
	}
	if !almostEqual(final.Total, 540, tolerance) {
		t.Errorf("final total = %v, want 540", final.Total)
	}
	if final.Balance != 0 {
		t.Errorf("final balance = %v, want 0", final.Balance)
	}
}

// TestScheduleAmortizing tests that level payments repay the full principal
func TestScheduleAmortizing(t *testing.T) {
	tranche := models.DebtTranche{
		Name:         "term-loan",
		Principal:    1000,
		AnnualRate:   0.10,
		TenorYears:   5,
		Amortization: models.AmortizationAmortizing,
	}

	entries, err := Schedule(tranche)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var principalSum float64
	prevBalance := tranche.Principal
	for _, e := range entries {
		principalSum += e.Principal
		if e.Balance >= prevBalance {
			t.Errorf("period %d: balance %v did not decrease from %v", e.Period, e.Balance, prevBalance)
		}
		if !almostEqual(e.Total, e.Principal+e.Interest, tolerance) {
			t.Errorf("period %d: total %v != principal+interest %v", e.Period, e.Total, e.Principal+e.Interest)
		}
		prevBalance = e.Balance
	}

	if !almostEqual(principalSum, 1000, 1e-6) {
		t.Errorf("principal payments sum to %v, want 1000", principalSum)
	}
	if !almostEqual(entries[0].Interest, 100, tolerance) {
		t.Errorf("first year interest = %v, want 100", entries[0].Interest)
	}
	if !almostEqual(entries[0].Principal, 163.797481, 1e-4) {
		t.Errorf("first year principal = %v, want ~163.80", entries[0].Principal)
	}
	if !almostEqual(entries[len(entries)-1].Balance, 0, tolerance) {
		t.Errorf("ending balance = %v, want 0", entries[len(entries)-1].Balance)
	}
}

// TestScheduleInterestOnlyWindow tests that principal is deferred during the interest-only years
func TestScheduleInterestOnlyWindow(t *testing.T) {
	tranche := models.DebtTranche{
		Name:              "mezz",
		Principal:         600,
		AnnualRate:        0.09,
		TenorYears:        5,
		InterestOnlyYears: 2,
		Amortization:      models.AmortizationAmortizing,
	}

	entries, err := Schedule(tranche)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	for i := 0; i < 2; i++ {
		if entries[i].Principal != 0 {
			t.Errorf("interest-only year %d carried principal %v", i+1, entries[i].Principal)
		}
		if !almostEqual(entries[i].Interest, 54, tolerance) {
			t.Errorf("interest-only year %d interest = %v, want 54", i+1, entries[i].Interest)
		}
	}

	var principalSum float64
	for _, e := range entries {
		principalSum += e.Principal
	}
	if !almostEqual(principalSum, 600, 1e-6) {
		t.Errorf("principal payments sum to %v, want 600", principalSum)
	}
}

// TestScheduleBalloon tests that the balloon stub is repaid at maturity
func TestScheduleBalloon(t *testing.T) {
	tranche := models.DebtTranche{
		Name:         "balloon-loan",
		Principal:    1000,
		AnnualRate:   0.10,
		TenorYears:   5,
		BalloonPct:   0.30,
		Amortization: models.AmortizationAmortizing,
	}

	entries, err := Schedule(tranche)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var principalSum float64
	for _, e := range entries {
		principalSum += e.Principal
	}
	if !almostEqual(principalSum, 1000, 1e-6) {
		t.Errorf("principal payments sum to %v, want 1000", principalSum)
	}

	final := entries[len(entries)-1]
	if final.Principal < 300 {
		t.Errorf("final principal %v should include the 300 balloon", final.Principal)
	}
	if final.Balance != 0 {
		t.Errorf("final balance = %v, want 0", final.Balance)
	}
}

// TestScheduleInvalidTranche tests that malformed terms are rejected
func TestScheduleInvalidTranche(t *testing.T) {
	tests := []struct {
		name    string
		tranche models.DebtTranche
	}{
		{"zero principal", models.DebtTranche{AnnualRate: 0.05, TenorYears: 5, Amortization: models.AmortizationBullet}},
		{"zero rate", models.DebtTranche{Principal: 100, TenorYears: 5, Amortization: models.AmortizationBullet}},
		{"zero tenor", models.DebtTranche{Principal: 100, AnnualRate: 0.05, Amortization: models.AmortizationBullet}},
		{"io period covers tenor", models.DebtTranche{Principal: 100, AnnualRate: 0.05, TenorYears: 5, InterestOnlyYears: 5, Amortization: models.AmortizationAmortizing}},
		{"unknown amortization", models.DebtTranche{Principal: 100, AnnualRate: 0.05, TenorYears: 5, Amortization: "revolver"}},
		{"balloon over 100pct", models.DebtTranche{Principal: 100, AnnualRate: 0.05, TenorYears: 5, BalloonPct: 1.5, Amortization: models.AmortizationAmortizing}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Schedule(tt.tranche); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

// TestAggregateDebtService tests summing across tranches of mixed tenor
func TestAggregateDebtService(t *testing.T) {
	tranches := []models.DebtTranche{
		{Name: "senior", Principal: 500, AnnualRate: 0.08, TenorYears: 5, Amortization: models.AmortizationBullet},
		{Name: "term", Principal: 1000, AnnualRate: 0.10, TenorYears: 3, Amortization: models.AmortizationAmortizing},
	}

	totals, err := AggregateDebtService(tranches, 5)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(totals) != 5 {
		t.Fatalf("expected 5 annual totals, got %d", len(totals))
	}

	// Year 1 carries both facilities
	if !almostEqual(totals[0].Interest, 140, tolerance) {
		t.Errorf("year 1 interest = %v, want 140", totals[0].Interest)
	}
	// Years past the term loan's maturity carry only the bullet
	if !almostEqual(totals[3].Interest, 40, tolerance) {
		t.Errorf("year 4 interest = %v, want 40", totals[3].Interest)
	}
	if totals[3].Principal != 0 {
		t.Errorf("year 4 principal = %v, want 0", totals[3].Principal)
	}

	var principalSum float64
	for _, e := range totals {
		principalSum += e.Principal
	}
	if !almostEqual(principalSum, 1500, 1e-6) {
		t.Errorf("aggregate principal = %v, want 1500", principalSum)
	}
}

// TestComputeDebtService tests the single-period lookup
func TestComputeDebtService(t *testing.T) {
	tranche := models.DebtTranche{
		Name:         "senior",
		Principal:    500,
		AnnualRate:   0.08,
		TenorYears:   5,
		Amortization: models.AmortizationBullet,
	}

	entry, err := ComputeDebtService(tranche, 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !almostEqual(entry.Interest, 40, tolerance) || entry.Principal != 0 {
		t.Errorf("period 2 entry = %+v, want interest 40 and zero principal", entry)
	}

	past, err := ComputeDebtService(tranche, 10)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if past.Total != 0 || past.Period != 10 {
		t.Errorf("period past maturity = %+v, want empty entry for period 10", past)
	}
}

// TestAnalyzeBalloon tests refinancing risk banding by cash coverage
func TestAnalyzeBalloon(t *testing.T) {
	tranche := models.DebtTranche{
		Name:         "balloon-loan",
		Principal:    1000,
		AnnualRate:   0.10,
		TenorYears:   3,
		BalloonPct:   0.20,
		Amortization: models.AmortizationAmortizing,
	}

	tests := []struct {
		name           string
		cashAtMaturity float64
		expectedRisk   models.RefinancingRisk
	}{
		{"critical below 80pct", 100, models.RefinancingRiskCritical},
		{"high below full coverage", 180, models.RefinancingRiskHigh},
		{"medium below 150pct", 250, models.RefinancingRiskMedium},
		{"low above 150pct", 400, models.RefinancingRiskLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := []models.ProjectionYearRow{
				{Year: 1, CashBalance: 50},
				{Year: 2, CashBalance: 80},
				{Year: 3, CashBalance: tt.cashAtMaturity},
			}
			analysis := AnalyzeBalloon(tranche, rows)
			if analysis == nil {
				t.Fatal("expected balloon analysis, got nil")
			}
			if !almostEqual(analysis.BalloonAmount, 200, tolerance) {
				t.Errorf("balloon amount = %v, want 200", analysis.BalloonAmount)
			}
			if analysis.Risk != tt.expectedRisk {
				t.Errorf("risk = %v, want %v (coverage %v)", analysis.Risk, tt.expectedRisk, analysis.Coverage)
			}
		})
	}
}

// TestAnalyzeBalloonNoBalloon tests that fully amortizing tranches report no exposure
func TestAnalyzeBalloonNoBalloon(t *testing.T) {
	tranche := models.DebtTranche{
		Name:         "term",
		Principal:    1000,
		AnnualRate:   0.10,
		TenorYears:   3,
		Amortization: models.AmortizationAmortizing,
	}
	if analysis := AnalyzeBalloon(tranche, nil); analysis != nil {
		t.Errorf("expected nil analysis without a balloon, got %+v", analysis)
	}
}

package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/yourusername/creditdesk/internal/models"
)

// TestCalculateWACC tests the CAPM cost of equity and capital weighting
func TestCalculateWACC(t *testing.T) {
	result, err := CalculateWACC(WACCInput{
		RiskFreeRate:      0.04,
		Beta:              1.2,
		MarketRiskPremium: 0.05,
		PreTaxCostOfDebt:  0.08,
		TaxRate:           0.25,
		EquityValue:       600,
		DebtValue:         400,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !almostEqual(result.CostOfEquity, 0.10, tolerance) {
		t.Errorf("cost of equity = %v, want 0.10", result.CostOfEquity)
	}
	if !almostEqual(result.AfterTaxCostDebt, 0.06, tolerance) {
		t.Errorf("after-tax cost of debt = %v, want 0.06", result.AfterTaxCostDebt)
	}
	if !almostEqual(result.EquityWeight, 0.6, tolerance) || !almostEqual(result.DebtWeight, 0.4, tolerance) {
		t.Errorf("weights = %v/%v, want 0.6/0.4", result.EquityWeight, result.DebtWeight)
	}
	if !almostEqual(result.WACC, 0.084, tolerance) {
		t.Errorf("wacc = %v, want 0.084", result.WACC)
	}
}

// TestCalculateWACCZeroCapitalBase tests the zero-capital degenerate case
func TestCalculateWACCZeroCapitalBase(t *testing.T) {
	result, err := CalculateWACC(WACCInput{RiskFreeRate: 0.04, Beta: 1.0, MarketRiskPremium: 0.05})
	if !errors.Is(err, models.ErrZeroCapitalBase) {
		t.Fatalf("expected ErrZeroCapitalBase, got %v", err)
	}
	if result.WACC != 0 {
		t.Errorf("wacc = %v, want 0 on zero capital base", result.WACC)
	}
	if !almostEqual(result.CostOfEquity, 0.09, tolerance) {
		t.Errorf("cost of equity = %v, want 0.09 even without weights", result.CostOfEquity)
	}
}

// TestCalculateDCFGordonGrowth tests a single-flow DCF against hand math
func TestCalculateDCFGordonGrowth(t *testing.T) {
	result, err := CalculateDCF(DCFInput{
		ProjectedFCFs:  []float64{100},
		WACC:           0.10,
		TerminalGrowth: 0.02,
		NetDebt:        200,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !almostEqual(result.PVOfProjectedFCFs, 100.0/1.1, 1e-6) {
		t.Errorf("pv of fcfs = %v, want %v", result.PVOfProjectedFCFs, 100.0/1.1)
	}
	// TV = 100 * 1.02 / (0.10 - 0.02) = 1275
	if !almostEqual(result.TerminalValue, 1275, 1e-6) {
		t.Errorf("terminal value = %v, want 1275", result.TerminalValue)
	}
	if !almostEqual(result.PVOfTerminalValue, 1275.0/1.1, 1e-6) {
		t.Errorf("pv of terminal = %v, want %v", result.PVOfTerminalValue, 1275.0/1.1)
	}
	if !almostEqual(result.EnterpriseValue, 1250, 1e-6) {
		t.Errorf("enterprise value = %v, want 1250", result.EnterpriseValue)
	}
	if !almostEqual(result.EquityValue, 1050, 1e-6) {
		t.Errorf("equity value = %v, want 1050", result.EquityValue)
	}
	if len(result.BreakdownByYear) != 1 {
		t.Errorf("breakdown length = %d, want 1", len(result.BreakdownByYear))
	}
}

// TestCalculateDCFExitMultiple tests the exit-multiple terminal value path
func TestCalculateDCFExitMultiple(t *testing.T) {
	result, err := CalculateDCF(DCFInput{
		ProjectedFCFs:   []float64{100},
		WACC:            0.10,
		UseExitMultiple: true,
		ExitMultiple:    8,
		FinalYearEBITDA: 300,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !almostEqual(result.TerminalValue, 2400, tolerance) {
		t.Errorf("terminal value = %v, want 2400", result.TerminalValue)
	}
	if !almostEqual(result.EnterpriseValue, 100.0/1.1+2400.0/1.1, 1e-6) {
		t.Errorf("enterprise value = %v, want %v", result.EnterpriseValue, 2500.0/1.1)
	}
}

// TestCalculateDCFEquityBridge tests associates and minority interest in the bridge
func TestCalculateDCFEquityBridge(t *testing.T) {
	result, err := CalculateDCF(DCFInput{
		ProjectedFCFs:    []float64{100},
		WACC:             0.10,
		TerminalGrowth:   0.02,
		NetDebt:          300,
		AssociatesValue:  50,
		MinorityInterest: 25,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	expected := result.EnterpriseValue - 300 + 50 - 25
	if !almostEqual(result.EquityValue, expected, tolerance) {
		t.Errorf("equity value = %v, want %v", result.EquityValue, expected)
	}
}

// TestCalculateDCFRejections tests the guarded failure modes
func TestCalculateDCFRejections(t *testing.T) {
	tests := []struct {
		name  string
		input DCFInput
		target error
	}{
		{"no cash flows", DCFInput{WACC: 0.10}, nil},
		{"zero wacc", DCFInput{ProjectedFCFs: []float64{100}}, nil},
		{"wacc below growth", DCFInput{ProjectedFCFs: []float64{100}, WACC: 0.05, TerminalGrowth: 0.06}, models.ErrWACCBelowGrowth},
		{"wacc equals growth", DCFInput{ProjectedFCFs: []float64{100}, WACC: 0.05, TerminalGrowth: 0.05}, models.ErrWACCBelowGrowth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CalculateDCF(tt.input)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("expected %v, got %v", tt.target, err)
			}
		})
	}
}

// TestSensitivityMatrix tests that undefined cells come back nil
func TestSensitivityMatrix(t *testing.T) {
	input := DCFInput{ProjectedFCFs: []float64{100, 110}, WACC: 0.10, TerminalGrowth: 0.02}
	waccRange := []float64{0.08, 0.12}
	growthRange := []float64{0.02, 0.09}

	matrix := SensitivityMatrix(input, waccRange, growthRange)
	if len(matrix) != 2 || len(matrix[0]) != 2 {
		t.Fatalf("matrix dimensions = %dx%d, want 2x2", len(matrix), len(matrix[0]))
	}

	// wacc 0.08 vs growth 0.09 is undefined
	if matrix[0][1] != nil {
		t.Errorf("expected nil cell where wacc <= growth, got %v", *matrix[0][1])
	}
	for _, coord := range [][2]int{{0, 0}, {1, 0}, {1, 1}} {
		if matrix[coord[0]][coord[1]] == nil {
			t.Errorf("cell (%d,%d) unexpectedly nil", coord[0], coord[1])
		}
	}

	// Lower discount rate values the same flows higher
	if *matrix[0][0] <= *matrix[1][0] {
		t.Errorf("equity at wacc 0.08 (%v) should exceed equity at 0.12 (%v)",
			*matrix[0][0], *matrix[1][0])
	}
}

// TestIRR tests the bisection solver on known flows
func TestIRR(t *testing.T) {
	tests := []struct {
		name     string
		flows    []float64
		expected float64
	}{
		{"ten percent return", []float64{-100, 110}, 0.10},
		{"two period", []float64{-100, 0, 121}, 0.10},
		{"loss-making", []float64{-100, 50}, -0.50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IRR(tt.flows)
			if !almostEqual(got, tt.expected, 1e-4) {
				t.Errorf("IRR(%v) = %v, want %v", tt.flows, got, tt.expected)
			}
		})
	}

	if got := IRR([]float64{100, 110}); got != 0 {
		t.Errorf("IRR with no sign change = %v, want 0", got)
	}
}

// TestMOIC tests the distributions-over-invested multiple
func TestMOIC(t *testing.T) {
	if got := MOIC(100, []float64{50, 100}); !almostEqual(got, 1.5, tolerance) {
		t.Errorf("MOIC = %v, want 1.5", got)
	}
	if got := MOIC(0, []float64{50}); got != 0 {
		t.Errorf("MOIC with zero invested = %v, want 0", got)
	}
}

// TestValueScenario tests the end-to-end valuation from a projection
func TestValueScenario(t *testing.T) {
	params := testParams()
	rows, err := Project(params)
	if err != nil {
		t.Fatalf("projection failed: %v", err)
	}

	valuation, err := ValueScenario(params, rows)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// CAPM equity 0.095 weighted 1000/1500, after-tax debt 0.06 weighted 500/1500
	if !almostEqual(valuation.WACC, 0.095*(1000.0/1500.0)+0.06*(500.0/1500.0), 1e-6) {
		t.Errorf("wacc = %v, want blended CAPM rate", valuation.WACC)
	}
	if valuation.EnterpriseValue <= 0 {
		t.Errorf("enterprise value = %v, want positive", valuation.EnterpriseValue)
	}
	// The bullet is fully repaid by exit, so the bridge adds net cash
	if valuation.EquityValue <= valuation.EnterpriseValue {
		t.Errorf("equity %v should exceed enterprise value %v in a net cash position",
			valuation.EquityValue, valuation.EnterpriseValue)
	}
	if math.IsNaN(valuation.IRR) || math.IsInf(valuation.IRR, 0) {
		t.Errorf("IRR = %v, want finite", valuation.IRR)
	}
	if valuation.MOIC <= 0 {
		t.Errorf("MOIC = %v, want positive", valuation.MOIC)
	}
}

// TestValueScenarioWACCOverride tests that an explicit WACC bypasses CAPM
func TestValueScenarioWACCOverride(t *testing.T) {
	params := testParams()
	params.Valuation.WACCOverride = 0.11

	rows, err := Project(params)
	if err != nil {
		t.Fatalf("projection failed: %v", err)
	}
	valuation, err := ValueScenario(params, rows)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if valuation.WACC != 0.11 {
		t.Errorf("wacc = %v, want the 0.11 override", valuation.WACC)
	}
}

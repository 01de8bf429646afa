package engine

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

// TestNewEngineRejectsInvalidParameters tests parameter validation at construction
func TestNewEngineRejectsInvalidParameters(t *testing.T) {
	if _, err := NewEngine(DefaultParameters(), nil, quietLogger()); err == nil {
		t.Error("expected error constructing engine without revenue and tranches")
	}
}

// TestEngineAnalyzeOffline tests the full base-case analysis without a database
func TestEngineAnalyzeOffline(t *testing.T) {
	eng, err := NewEngine(testParams(), nil, quietLogger())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if eng.Repositories() != nil {
		t.Error("expected nil repositories in offline mode")
	}

	result, err := eng.Analyze(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(result.Projection) != 5 {
		t.Errorf("projection rows = %d, want 5", len(result.Projection))
	}
	if result.Resilience < 0 || result.Resilience > 100 {
		t.Errorf("resilience = %v, want within [0,100]", result.Resilience)
	}
	if result.Valuation == nil {
		t.Error("expected a valuation for the base case")
	}
	if len(result.Headroom.Years) != 5 {
		t.Errorf("headroom years = %d, want 5", len(result.Headroom.Years))
	}
	if result.GeneratedAt.IsZero() {
		t.Error("expected a generation timestamp")
	}
}

// TestEngineRunOffline tests the complete run including the scenario grid
func TestEngineRunOffline(t *testing.T) {
	eng, err := NewEngine(testParams(), nil, quietLogger())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	companyID := uuid.New()
	result, err := eng.Run(context.Background(), companyID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.CompanyID != companyID {
		t.Errorf("company ID = %v, want %v", result.CompanyID, companyID)
	}
	if result.RunID == uuid.Nil {
		t.Error("expected a run ID to be assigned")
	}
	if len(result.Scenarios) != len(NamedScenarios()) {
		t.Errorf("scenario count = %d, want %d", len(result.Scenarios), len(NamedScenarios()))
	}
	// Grid comes back sorted worst-first
	for i := 1; i < len(result.Scenarios); i++ {
		if result.Scenarios[i-1].ResilienceScore > result.Scenarios[i].ResilienceScore {
			t.Errorf("scenario %d score %v sorted after %v",
				i, result.Scenarios[i].ResilienceScore, result.Scenarios[i-1].ResilienceScore)
		}
	}
}

// TestEngineRunMarshalsUnconstrainedCoverage tests serialization of a run
// whose horizon outlives every tranche, leaving post-maturity years with
// infinite coverage ratios
func TestEngineRunMarshalsUnconstrainedCoverage(t *testing.T) {
	params := testParams()
	params.HorizonYears = 7

	eng, err := NewEngine(params, nil, quietLogger())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	result, err := eng.Run(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	scenariosJSON, err := json.Marshal(result.Scenarios)
	if err != nil {
		t.Fatalf("scenario serialization failed: %v", err)
	}
	if _, err := json.Marshal(result); err != nil {
		t.Fatalf("result serialization failed: %v", err)
	}

	var decoded []struct {
		Rows []map[string]any `json:"rows"`
	}
	if err := json.Unmarshal(scenariosJSON, &decoded); err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if len(decoded) == 0 || len(decoded[0].Rows) != 7 {
		t.Fatalf("expected 7 rows per scenario, got %+v", decoded)
	}

	// The bullet matures in year 5, so years 6 and 7 carry no debt
	// service and their coverage ratios serialize as null
	last := decoded[0].Rows[6]
	if last["dscr"] != nil {
		t.Errorf("post-maturity dscr = %v, want null", last["dscr"])
	}
	if last["icr"] != nil {
		t.Errorf("post-maturity icr = %v, want null", last["icr"])
	}
	if last["revenue"] == nil {
		t.Error("finite fields must survive serialization")
	}

	first := decoded[0].Rows[0]
	if first["dscr"] == nil {
		t.Error("in-tenor dscr should stay numeric")
	}
}

// TestEngineRunCancelledContext tests early exit on cancellation
func TestEngineRunCancelledContext(t *testing.T) {
	eng, err := NewEngine(testParams(), nil, quietLogger())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := eng.Analyze(ctx); err == nil {
		t.Error("expected context error from Analyze")
	}
	if _, err := eng.RunScenarioGrid(ctx); err == nil {
		t.Error("expected context error from RunScenarioGrid")
	}
	if _, err := eng.Restructure(ctx, RestructuringRequest{TargetMinDSCR: 1.25}); err == nil {
		t.Error("expected context error from Restructure")
	}
}

// TestEngineRestructure tests the advisor through the engine facade
func TestEngineRestructure(t *testing.T) {
	eng, err := NewEngine(stressedParams(), nil, quietLogger())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	plan, err := eng.Restructure(context.Background(), RestructuringRequest{TargetMinDSCR: 1.25})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if plan.Recommended == nil {
		t.Error("expected a recommended option")
	}
}

// TestEngineCloseOffline tests that closing without a database is a no-op
func TestEngineCloseOffline(t *testing.T) {
	eng, err := NewEngine(testParams(), nil, quietLogger())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := eng.Close(context.Background()); err != nil {
		t.Errorf("expected no error closing offline engine, got %v", err)
	}
}

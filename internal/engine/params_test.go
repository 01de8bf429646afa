package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yourusername/creditdesk/internal/config"
	"github.com/yourusername/creditdesk/internal/models"
)

// TestDefaultParameters tests the standard modeling conventions
func TestDefaultParameters(t *testing.T) {
	p := DefaultParameters()
	if p.Version != ParametersVersion {
		t.Errorf("version = %d, want %d", p.Version, ParametersVersion)
	}
	if p.HorizonYears != 5 {
		t.Errorf("horizon = %d, want 5", p.HorizonYears)
	}
	// Defaults alone are not runnable: revenue and tranches come from the caller
	if err := p.Validate(); err == nil {
		t.Error("expected defaults to fail validation without revenue and tranches")
	}
}

// TestValidateWACCBelowGrowth tests the override guard against Gordon growth
func TestValidateWACCBelowGrowth(t *testing.T) {
	p := testParams()
	p.Valuation.WACCOverride = 0.015
	p.Valuation.TerminalGrowth = 0.02

	if err := p.Validate(); !errors.Is(err, models.ErrWACCBelowGrowth) {
		t.Errorf("expected ErrWACCBelowGrowth, got %v", err)
	}
}

// TestTotalPrincipalAndBlendedRate tests the tranche aggregates
func TestTotalPrincipalAndBlendedRate(t *testing.T) {
	p := testParams()
	p.Tranches = []models.DebtTranche{
		{Name: "a", Principal: 600, AnnualRate: 0.06, TenorYears: 5, Amortization: models.AmortizationBullet},
		{Name: "b", Principal: 400, AnnualRate: 0.10, TenorYears: 5, Amortization: models.AmortizationBullet},
	}

	if got := p.TotalPrincipal(); !almostEqual(got, 1000, tolerance) {
		t.Errorf("total principal = %v, want 1000", got)
	}
	// 0.06*0.6 + 0.10*0.4
	if got := p.BlendedRate(); !almostEqual(got, 0.076, tolerance) {
		t.Errorf("blended rate = %v, want 0.076", got)
	}

	p.Tranches = nil
	if got := p.BlendedRate(); got != 0 {
		t.Errorf("blended rate with no tranches = %v, want 0", got)
	}
}

// TestFromConfig tests carrying engine config onto the defaults
func TestFromConfig(t *testing.T) {
	cfg := &config.EngineConfig{
		HorizonYears:      7,
		TaxRate:           0.21,
		MinDSCR:           1.35,
		TargetICR:         2.5,
		MaxLeverage:       3.5,
		RiskFreeRate:      0.045,
		MarketRiskPremium: 0.06,
		TerminalGrowth:    0.015,
	}

	p, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if p.HorizonYears != 7 || p.TaxRate != 0.21 {
		t.Errorf("horizon/tax = %d/%v, want 7/0.21", p.HorizonYears, p.TaxRate)
	}
	if p.Covenants.MinDSCR != 1.35 || p.Covenants.TargetICR != 2.5 || p.Covenants.MaxLeverage != 3.5 {
		t.Errorf("covenants = %+v, want config values", p.Covenants)
	}
	if p.Valuation.RiskFreeRate != 0.045 || p.Valuation.TerminalGrowth != 0.015 {
		t.Errorf("valuation = %+v, want config values", p.Valuation)
	}

	if _, err := FromConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
}

// TestLoadParametersFile tests reading a parameter file over the defaults
func TestLoadParametersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.json")
	content := `{
		"base_revenue": 2000,
		"revenue_growth": 0.05,
		"version": 99,
		"tranches": [
			{
				"name": "senior",
				"principal": 800,
				"annual_rate": 0.07,
				"tenor_years": 6,
				"amortization": "amortizing"
			}
		]
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	p, err := LoadParametersFile(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if p.BaseRevenue != 2000 || p.RevenueGrowth != 0.05 {
		t.Errorf("file values not applied: revenue %v growth %v", p.BaseRevenue, p.RevenueGrowth)
	}
	// Unspecified fields keep the defaults
	if p.COGSPct != 0.55 || p.HorizonYears != 5 {
		t.Errorf("defaults not preserved: cogs %v horizon %d", p.COGSPct, p.HorizonYears)
	}
	// The file cannot pin a foreign layout version
	if p.Version != ParametersVersion {
		t.Errorf("version = %d, want forced to %d", p.Version, ParametersVersion)
	}
	if len(p.Tranches) != 1 || p.Tranches[0].TenorYears != 6 {
		t.Errorf("tranches = %+v, want the single file tranche", p.Tranches)
	}
}

// TestLoadParametersFileErrors tests the failure modes
func TestLoadParametersFileErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadParametersFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	badJSON := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(badJSON, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	if _, err := LoadParametersFile(badJSON); err == nil {
		t.Error("expected error for malformed JSON")
	}

	// Parses but fails validation: no tranches
	invalid := filepath.Join(dir, "invalid.json")
	if err := os.WriteFile(invalid, []byte(`{"base_revenue": 1000}`), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	if _, err := LoadParametersFile(invalid); err == nil {
		t.Error("expected validation error for parameters without tranches")
	}
}

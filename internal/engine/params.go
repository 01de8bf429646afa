package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/yourusername/creditdesk/internal/config"
	"github.com/yourusername/creditdesk/internal/models"
)

// ParametersVersion identifies the parameter record layout. Bumped when
// fields are added so persisted runs stay interpretable.
const ParametersVersion = 1

// ValuationParameters holds the WACC and DCF inputs for a model run
type ValuationParameters struct {
	RiskFreeRate      float64 `json:"risk_free_rate"`
	Beta              float64 `json:"beta"`
	MarketRiskPremium float64 `json:"market_risk_premium"`
	EquityValue       float64 `json:"equity_value"`
	DebtValue         float64 `json:"debt_value"`
	WACCOverride      float64 `json:"wacc_override"`
	TerminalGrowth    float64 `json:"terminal_growth"`
	ExitMultiple      float64 `json:"exit_multiple"`
	UseExitMultiple   bool    `json:"use_exit_multiple"`
	AssociatesValue   float64 `json:"associates_value"`
	MinorityInterest  float64 `json:"minority_interest"`
	EquityInvestment  float64 `json:"equity_investment"`
}

// ModelParameters is the single versioned parameter record for a model
// run. Every field is declared and defaulted here and validated at the
// boundary; calculation functions take this record explicitly and never
// read shared state.
type ModelParameters struct {
	Version           int                       `json:"version"`
	HorizonYears      int                       `json:"horizon_years"`
	BaseRevenue       float64                   `json:"base_revenue"`
	RevenueGrowth     float64                   `json:"revenue_growth"`
	COGSPct           float64                   `json:"cogs_pct"`
	OpexPct           float64                   `json:"opex_pct"`
	DepreciationPct   float64                   `json:"depreciation_pct"`
	CapexPct          float64                   `json:"capex_pct"`
	WorkingCapitalPct float64                   `json:"working_capital_pct"`
	TaxRate           float64                   `json:"tax_rate"`
	OpeningCash       float64                   `json:"opening_cash"`
	Tranches          []models.DebtTranche      `json:"tranches"`
	Covenants         models.CovenantThresholds `json:"covenants"`
	Valuation         ValuationParameters       `json:"valuation"`
}

// DefaultParameters returns a parameter record with the firm's standard
// modeling conventions applied.
func DefaultParameters() ModelParameters {
	return ModelParameters{
		Version:           ParametersVersion,
		HorizonYears:      5,
		RevenueGrowth:     0.03,
		COGSPct:           0.55,
		OpexPct:           0.20,
		DepreciationPct:   0.04,
		CapexPct:          0.04,
		WorkingCapitalPct: 0.10,
		TaxRate:           0.25,
		Covenants: models.CovenantThresholds{
			MinDSCR:     1.25,
			TargetICR:   2.0,
			MaxLeverage: 4.0,
		},
		Valuation: ValuationParameters{
			RiskFreeRate:      0.04,
			Beta:              1.0,
			MarketRiskPremium: 0.055,
			TerminalGrowth:    0.02,
		},
	}
}

// FromConfig builds model parameters from app config defaults
func FromConfig(cfg *config.EngineConfig) (ModelParameters, error) {
	if cfg == nil {
		return ModelParameters{}, fmt.Errorf("engine config is required")
	}
	p := DefaultParameters()
	if cfg.HorizonYears > 0 {
		p.HorizonYears = cfg.HorizonYears
	}
	if cfg.TaxRate > 0 {
		p.TaxRate = cfg.TaxRate
	}
	if cfg.MinDSCR > 0 {
		p.Covenants.MinDSCR = cfg.MinDSCR
	}
	if cfg.TargetICR > 0 {
		p.Covenants.TargetICR = cfg.TargetICR
	}
	if cfg.MaxLeverage > 0 {
		p.Covenants.MaxLeverage = cfg.MaxLeverage
	}
	if cfg.RiskFreeRate > 0 {
		p.Valuation.RiskFreeRate = cfg.RiskFreeRate
	}
	if cfg.MarketRiskPremium > 0 {
		p.Valuation.MarketRiskPremium = cfg.MarketRiskPremium
	}
	if cfg.TerminalGrowth != 0 {
		p.Valuation.TerminalGrowth = cfg.TerminalGrowth
	}
	return p, nil
}

// LoadParametersFile reads a JSON parameter file over the standard
// defaults and validates the result
func LoadParametersFile(path string) (ModelParameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ModelParameters{}, fmt.Errorf("failed to read parameters file: %w", err)
	}

	p := DefaultParameters()
	if err := json.Unmarshal(data, &p); err != nil {
		return ModelParameters{}, fmt.Errorf("failed to parse parameters file: %w", err)
	}
	p.Version = ParametersVersion

	if err := p.Validate(); err != nil {
		return ModelParameters{}, fmt.Errorf("invalid parameters: %w", err)
	}
	return p, nil
}

// TotalPrincipal sums principal across all tranches
func (p ModelParameters) TotalPrincipal() float64 {
	var total float64
	for i := range p.Tranches {
		total += p.Tranches[i].Principal
	}
	return total
}

// BlendedRate returns the principal-weighted average tranche rate
func (p ModelParameters) BlendedRate() float64 {
	total := p.TotalPrincipal()
	if total == 0 {
		return 0
	}
	var weighted float64
	for i := range p.Tranches {
		weighted += p.Tranches[i].AnnualRate * p.Tranches[i].Principal
	}
	return weighted / total
}

// Validate rejects malformed parameter sets before any projection runs
func (p ModelParameters) Validate() error {
	if p.HorizonYears <= 0 {
		return fmt.Errorf("horizon must be positive, got %d", p.HorizonYears)
	}
	if p.BaseRevenue <= 0 {
		return fmt.Errorf("base revenue must be positive, got %.2f", p.BaseRevenue)
	}
	for _, pct := range []struct {
		name  string
		value float64
	}{
		{"cogs_pct", p.COGSPct},
		{"opex_pct", p.OpexPct},
		{"depreciation_pct", p.DepreciationPct},
		{"capex_pct", p.CapexPct},
		{"working_capital_pct", p.WorkingCapitalPct},
		{"tax_rate", p.TaxRate},
	} {
		if pct.value < 0 || pct.value > 1 {
			return fmt.Errorf("%s %.4f out of [0,1]", pct.name, pct.value)
		}
	}
	if len(p.Tranches) == 0 {
		return fmt.Errorf("at least one debt tranche is required")
	}
	for i := range p.Tranches {
		if err := p.Tranches[i].Validate(); err != nil {
			return fmt.Errorf("tranche %d (%s): %w", i, p.Tranches[i].Name, err)
		}
	}
	if p.Covenants.MinDSCR <= 0 || p.Covenants.TargetICR <= 0 || p.Covenants.MaxLeverage <= 0 {
		return fmt.Errorf("covenant thresholds must be positive")
	}
	wacc := p.Valuation.WACCOverride
	if wacc > 0 && wacc <= p.Valuation.TerminalGrowth {
		return fmt.Errorf("%w: wacc %.4f vs growth %.4f",
			models.ErrWACCBelowGrowth, wacc, p.Valuation.TerminalGrowth)
	}
	if math.Abs(p.Valuation.TerminalGrowth) > 0.2 {
		return fmt.Errorf("terminal growth %.4f out of [-0.2,0.2]", p.Valuation.TerminalGrowth)
	}
	return nil
}

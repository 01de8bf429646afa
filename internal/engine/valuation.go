package engine

import (
	"fmt"
	"math"

	"github.com/yourusername/creditdesk/internal/models"
)

// WACCInput holds the components of the weighted average cost of capital
type WACCInput struct {
	RiskFreeRate      float64 `json:"risk_free_rate"`
	Beta              float64 `json:"beta"`
	MarketRiskPremium float64 `json:"market_risk_premium"`
	PreTaxCostOfDebt  float64 `json:"pre_tax_cost_of_debt"`
	TaxRate           float64 `json:"tax_rate"`
	EquityValue       float64 `json:"equity_value"`
	DebtValue         float64 `json:"debt_value"`
}

// WACCResult holds the calculated rates and weights
type WACCResult struct {
	CostOfEquity     float64 `json:"cost_of_equity"`
	AfterTaxCostDebt float64 `json:"after_tax_cost_of_debt"`
	WACC             float64 `json:"wacc"`
	EquityWeight     float64 `json:"equity_weight"`
	DebtWeight       float64 `json:"debt_weight"`
}

// CalculateWACC computes cost of equity via CAPM, after-tax cost of
// debt, and the capital-weighted average. A zero capital base yields
// ErrZeroCapitalBase with a zero WACC; the caller decides whether to
// warn and proceed.
func CalculateWACC(input WACCInput) (WACCResult, error) {
	ke := input.RiskFreeRate + input.Beta*input.MarketRiskPremium
	kd := input.PreTaxCostOfDebt * (1 - input.TaxRate)

	total := input.EquityValue + input.DebtValue
	if total == 0 {
		return WACCResult{CostOfEquity: ke, AfterTaxCostDebt: kd}, models.ErrZeroCapitalBase
	}

	we := input.EquityValue / total
	wd := input.DebtValue / total

	return WACCResult{
		CostOfEquity:     ke,
		AfterTaxCostDebt: kd,
		WACC:             ke*we + kd*wd,
		EquityWeight:     we,
		DebtWeight:       wd,
	}, nil
}

// DCFInput encapsulates the inputs for a discounted cash flow valuation
type DCFInput struct {
	ProjectedFCFs    []float64 `json:"projected_fcfs"`
	WACC             float64   `json:"wacc"`
	TerminalGrowth   float64   `json:"terminal_growth"`
	FinalYearEBITDA  float64   `json:"final_year_ebitda"`
	UseExitMultiple  bool      `json:"use_exit_multiple"`
	ExitMultiple     float64   `json:"exit_multiple"`
	NetDebt          float64   `json:"net_debt"`
	AssociatesValue  float64   `json:"associates_value"`
	MinorityInterest float64   `json:"minority_interest"`
}

// YearPV is one discounted cash flow in the DCF breakdown
type YearPV struct {
	Year           int     `json:"year"`
	FCF            float64 `json:"fcf"`
	DiscountFactor float64 `json:"discount_factor"`
	PresentValue   float64 `json:"present_value"`
}

// DCFResult holds the valuation outputs
type DCFResult struct {
	EnterpriseValue   float64  `json:"enterprise_value"`
	EquityValue       float64  `json:"equity_value"`
	TerminalValue     float64  `json:"terminal_value"`
	PVOfProjectedFCFs float64  `json:"pv_of_projected_fcfs"`
	PVOfTerminalValue float64  `json:"pv_of_terminal_value"`
	BreakdownByYear   []YearPV `json:"breakdown_by_year"`
}

// CalculateDCF discounts the projected FCFF series and a terminal value
// to enterprise value, then bridges to equity value. Net debt is already
// debt less cash; cash must not be added back a second time in the
// bridge. Gordon growth rejects WACC <= terminal growth, and any
// non-finite intermediate is fatal for the computation.
func CalculateDCF(input DCFInput) (DCFResult, error) {
	if len(input.ProjectedFCFs) == 0 {
		return DCFResult{}, fmt.Errorf("no projected cash flows")
	}
	if input.WACC <= 0 {
		return DCFResult{}, fmt.Errorf("wacc must be positive, got %.4f", input.WACC)
	}

	result := DCFResult{BreakdownByYear: make([]YearPV, 0, len(input.ProjectedFCFs))}

	for i, fcf := range input.ProjectedFCFs {
		factor := 1 / math.Pow(1+input.WACC, float64(i+1))
		pv := fcf * factor
		result.PVOfProjectedFCFs += pv
		result.BreakdownByYear = append(result.BreakdownByYear, YearPV{
			Year: i + 1, FCF: fcf, DiscountFactor: factor, PresentValue: pv,
		})
	}

	terminal, err := terminalValue(input)
	if err != nil {
		return DCFResult{}, err
	}
	result.TerminalValue = terminal

	finalFactor := 1 / math.Pow(1+input.WACC, float64(len(input.ProjectedFCFs)))
	result.PVOfTerminalValue = terminal * finalFactor
	result.EnterpriseValue = result.PVOfProjectedFCFs + result.PVOfTerminalValue
	result.EquityValue = result.EnterpriseValue - input.NetDebt + input.AssociatesValue - input.MinorityInterest

	for _, v := range []float64{
		result.EnterpriseValue, result.EquityValue, result.TerminalValue,
		result.PVOfProjectedFCFs, result.PVOfTerminalValue,
	} {
		if !isFinite(v) {
			return DCFResult{}, fmt.Errorf("%w: ev=%.2f tv=%.2f", models.ErrNonFiniteResult,
				result.EnterpriseValue, result.TerminalValue)
		}
	}

	return result, nil
}

func terminalValue(input DCFInput) (float64, error) {
	if input.UseExitMultiple {
		return input.FinalYearEBITDA * input.ExitMultiple, nil
	}
	if input.WACC <= input.TerminalGrowth {
		return 0, fmt.Errorf("%w: wacc %.4f vs growth %.4f",
			models.ErrWACCBelowGrowth, input.WACC, input.TerminalGrowth)
	}
	finalFCF := input.ProjectedFCFs[len(input.ProjectedFCFs)-1]
	return finalFCF * (1 + input.TerminalGrowth) / (input.WACC - input.TerminalGrowth), nil
}

// SensitivityMatrix recomputes equity value for each (WACC, growth)
// pair. Cells where WACC <= growth are undefined and reported as nil
// rather than computed.
func SensitivityMatrix(input DCFInput, waccRange, growthRange []float64) [][]*float64 {
	matrix := make([][]*float64, len(waccRange))
	for i, wacc := range waccRange {
		matrix[i] = make([]*float64, len(growthRange))
		for j, growth := range growthRange {
			if wacc <= growth {
				continue
			}
			cell := input
			cell.WACC = wacc
			cell.TerminalGrowth = growth
			cell.UseExitMultiple = false
			result, err := CalculateDCF(cell)
			if err != nil {
				continue
			}
			value := result.EquityValue
			matrix[i][j] = &value
		}
	}
	return matrix
}

// IRR solves the internal rate of return of a cash flow series by
// bisection. cashFlows[0] is the time-zero flow (negative for an
// investment). Returns 0 when no sign change exists in [-0.99, 10].
func IRR(cashFlows []float64) float64 {
	npvAt := func(rate float64) float64 {
		var npv float64
		for i, cf := range cashFlows {
			npv += cf / math.Pow(1+rate, float64(i))
		}
		return npv
	}

	lo, hi := -0.99, 10.0
	fLo, fHi := npvAt(lo), npvAt(hi)
	if fLo*fHi > 0 {
		return 0
	}
	for i := 0; i < 200; i++ {
		mid := (lo + hi) / 2
		fMid := npvAt(mid)
		if math.Abs(fMid) < 1e-9 {
			return mid
		}
		if fLo*fMid < 0 {
			hi = mid
		} else {
			lo = mid
			fLo = fMid
		}
	}
	return (lo + hi) / 2
}

// MOIC is total distributions over invested capital; 0 when nothing
// was invested.
func MOIC(invested float64, distributions []float64) float64 {
	if invested <= 0 {
		return 0
	}
	var total float64
	for _, d := range distributions {
		total += d
	}
	return total / invested
}

// ScenarioValuation bundles valuation outputs for one scenario
type ScenarioValuation struct {
	WACC            float64   `json:"wacc"`
	EnterpriseValue float64   `json:"enterprise_value"`
	EquityValue     float64   `json:"equity_value"`
	TerminalValue   float64   `json:"terminal_value"`
	IRR             float64   `json:"irr"`
	MOIC            float64   `json:"moic"`
}

// ValueScenario runs the DCF for a shocked parameter set and its
// projection, deriving WACC from CAPM inputs unless overridden, and
// computes sponsor IRR/MOIC from levered cash flows.
func ValueScenario(params ModelParameters, rows []models.ProjectionYearRow) (*ScenarioValuation, error) {
	wacc, err := resolveWACC(params)
	if err != nil {
		return nil, err
	}

	fcfs := make([]float64, len(rows))
	for i := range rows {
		fcfs[i] = rows[i].FreeCashFlow
	}

	last := rows[len(rows)-1]
	netDebt := last.EndingDebt - last.CashBalance

	dcf, err := CalculateDCF(DCFInput{
		ProjectedFCFs:    fcfs,
		WACC:             wacc,
		TerminalGrowth:   params.Valuation.TerminalGrowth,
		FinalYearEBITDA:  last.EBITDA,
		UseExitMultiple:  params.Valuation.UseExitMultiple,
		ExitMultiple:     params.Valuation.ExitMultiple,
		NetDebt:          netDebt,
		AssociatesValue:  params.Valuation.AssociatesValue,
		MinorityInterest: params.Valuation.MinorityInterest,
	})
	if err != nil {
		return nil, err
	}

	invested := params.Valuation.EquityInvestment
	if invested <= 0 {
		invested = math.Max(params.BaseRevenue*0.1, params.TotalPrincipal()*0.25)
	}
	equityCFs := make([]float64, len(rows)+1)
	equityCFs[0] = -invested
	distributions := make([]float64, 0, len(rows)+1)
	for i := range rows {
		levered := rows[i].FreeCashFlow - rows[i].DebtService
		equityCFs[i+1] = levered
		if levered > 0 {
			distributions = append(distributions, levered)
		}
	}
	equityCFs[len(rows)] += dcf.EquityValue
	distributions = append(distributions, dcf.EquityValue)

	return &ScenarioValuation{
		WACC:            wacc,
		EnterpriseValue: dcf.EnterpriseValue,
		EquityValue:     dcf.EquityValue,
		TerminalValue:   dcf.TerminalValue,
		IRR:             IRR(equityCFs),
		MOIC:            MOIC(invested, distributions),
	}, nil
}

func resolveWACC(params ModelParameters) (float64, error) {
	if params.Valuation.WACCOverride > 0 {
		return params.Valuation.WACCOverride, nil
	}
	result, err := CalculateWACC(WACCInput{
		RiskFreeRate:      params.Valuation.RiskFreeRate,
		Beta:              params.Valuation.Beta,
		MarketRiskPremium: params.Valuation.MarketRiskPremium,
		PreTaxCostOfDebt:  params.BlendedRate(),
		TaxRate:           params.TaxRate,
		EquityValue:       valuationEquity(params),
		DebtValue:         params.TotalPrincipal(),
	})
	if err != nil {
		return 0, err
	}
	return result.WACC, nil
}

func valuationEquity(params ModelParameters) float64 {
	if params.Valuation.EquityValue > 0 {
		return params.Valuation.EquityValue
	}
	// Fall back to an asset-based proxy when no market value is supplied
	return params.BaseRevenue
}

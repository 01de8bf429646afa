package engine

import (
	"fmt"
	"sort"
	"sync"

	"github.com/yourusername/creditdesk/internal/models"
)

// ScenarioPreset is a named shock bundle with a human-readable description
type ScenarioPreset struct {
	Name        models.ScenarioName
	Description string
	Deltas      models.ShockDeltas
}

// NamedScenarios returns the firm's standard stress presets in
// evaluation order.
func NamedScenarios() []ScenarioPreset {
	return []ScenarioPreset{
		{
			Name:        models.ScenarioBase,
			Description: "Management case with no shocks applied",
		},
		{
			Name:        models.ScenarioMild,
			Description: "Mild downturn: growth -2pp, COGS +2pp",
			Deltas:      models.ShockDeltas{GrowthDelta: -0.02, COGSDelta: 0.02},
		},
		{
			Name:        models.ScenarioSevere,
			Description: "Severe recession: growth -5pp, COGS +5pp, opex +2pp, rates +200bp",
			Deltas: models.ShockDeltas{
				GrowthDelta: -0.05, COGSDelta: 0.05, OpexDelta: 0.02, RateDelta: 0.02,
			},
		},
		{
			Name:        models.ScenarioCostShock,
			Description: "Input cost shock: COGS +8pp with flat demand",
			Deltas:      models.ShockDeltas{COGSDelta: 0.08},
		},
		{
			Name:        models.ScenarioRateHike,
			Description: "Rate hike: funding +300bp, discount rate +200bp",
			Deltas:      models.ShockDeltas{RateDelta: 0.03, WACCDelta: 0.02},
		},
	}
}

// ApplyShocks produces a shocked copy of the base parameters. The base
// record is never mutated; applying the same deltas twice to the same
// base yields identical results.
func ApplyShocks(base ModelParameters, deltas models.ShockDeltas) ModelParameters {
	shocked := base
	shocked.RevenueGrowth = base.RevenueGrowth + deltas.GrowthDelta
	shocked.COGSPct = clamp(base.COGSPct+deltas.COGSDelta, 0, 1)
	shocked.OpexPct = clamp(base.OpexPct+deltas.OpexDelta, 0, 1)
	shocked.CapexPct = clamp(base.CapexPct+deltas.CapexDelta, 0, 1)

	shocked.Tranches = make([]models.DebtTranche, len(base.Tranches))
	copy(shocked.Tranches, base.Tranches)
	for i := range shocked.Tranches {
		shocked.Tranches[i].AnnualRate = clamp(shocked.Tranches[i].AnnualRate+deltas.RateDelta, 0, 1)
	}

	if shocked.Valuation.WACCOverride > 0 {
		// Floor prevents a non-positive discount rate, which would break
		// terminal-value math downstream
		shocked.Valuation.WACCOverride = clamp(base.Valuation.WACCOverride+deltas.WACCDelta, 0.01, 1)
	}
	shocked.Valuation.RiskFreeRate = clamp(base.Valuation.RiskFreeRate+deltas.WACCDelta, 0, 1)
	shocked.Valuation.TerminalGrowth = clamp(base.Valuation.TerminalGrowth+deltas.TermGrowthDelta, -0.2, 0.2)

	return shocked
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RunScenario evaluates one scenario end to end: shock, re-project,
// credit metrics, valuation and resilience score. Pure with respect to
// the base parameters. A valuation failure does not fail the scenario;
// the result keeps its credit metrics and records the failure in
// ValuationError.
func RunScenario(base ModelParameters, preset ScenarioPreset) (*models.ScenarioResult, error) {
	shocked := ApplyShocks(base, preset.Deltas)

	rows, err := Project(shocked)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", preset.Name, err)
	}

	stats, breaches := AnalyzeCredit(rows, shocked.Covenants)

	result := &models.ScenarioResult{
		Name:            preset.Name,
		Description:     preset.Description,
		Deltas:          preset.Deltas,
		Rows:            rows,
		Stats:           stats,
		Breaches:        breaches,
		ResilienceScore: ResilienceScore(stats),
	}

	valuation, err := ValueScenario(shocked, rows)
	if err != nil {
		// Severe rate shocks can push the discount rate below terminal
		// growth, which has no Gordon-growth value
		result.ValuationError = err.Error()
		return result, nil
	}
	result.EnterpriseValue = valuation.EnterpriseValue
	result.EquityValue = valuation.EquityValue
	result.IRR = valuation.IRR
	result.MOIC = valuation.MOIC

	return result, nil
}

// RunScenarios evaluates the given presets concurrently. Scenarios are
// independent pure functions of the base parameters, so no ordering
// guarantee is needed between them; results come back sorted by preset
// order for stable output.
func RunScenarios(base ModelParameters, presets []ScenarioPreset) ([]*models.ScenarioResult, error) {
	results := make([]*models.ScenarioResult, len(presets))
	errs := make([]error, len(presets))

	var wg sync.WaitGroup
	for i, preset := range presets {
		wg.Add(1)
		go func(i int, preset ScenarioPreset) {
			defer wg.Done()
			results[i], errs[i] = RunScenario(base, preset)
		}(i, preset)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// CustomScenario wraps arbitrary user-supplied deltas as a preset
func CustomScenario(deltas models.ShockDeltas) ScenarioPreset {
	return ScenarioPreset{
		Name:        models.ScenarioCustom,
		Description: "User-supplied shock bundle",
		Deltas:      deltas,
	}
}

// SortByResilience orders scenario results worst-first for reporting
func SortByResilience(results []*models.ScenarioResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ResilienceScore < results[j].ResilienceScore
	})
}

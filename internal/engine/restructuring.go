package engine

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/creditdesk/internal/models"
)

// Solver caps and conventions
const (
	maxPrincipalHaircut = 0.35 // cap on option A principal reduction
	maxEquityInjection  = 0.25 // cap on option D injection
	tightBandPct        = 0.05 // within 5% of threshold counts as tight
	rateStepBps         = 0.005
	combinationTenorAdd = 2
	combinationTenorCap = 8
	combinationRateMult = 0.875
	combinationRateFloor = 0.09
	combinationEquityPct = 0.08
)

// RestructuringRequest configures the deal restructuring solver
type RestructuringRequest struct {
	TargetMinDSCR     float64 `json:"target_min_dscr"`
	IncludeEquity     bool    `json:"include_equity"`
	MaxTenorYears     int     `json:"max_tenor_years"`
	MinAcceptableRate float64 `json:"min_acceptable_rate"`
}

// Validate applies solver defaults and rejects unusable targets
func (r *RestructuringRequest) Validate() error {
	if r.TargetMinDSCR <= 0 {
		return fmt.Errorf("target DSCR must be positive, got %.2f", r.TargetMinDSCR)
	}
	if r.MaxTenorYears <= 0 {
		r.MaxTenorYears = 10
	}
	if r.MinAcceptableRate <= 0 {
		r.MinAcceptableRate = 0.05
	}
	return nil
}

// currentTerms summarizes the existing deal the solver works against.
// Restructuring treats the aggregate debt stack as a single facility at
// the blended rate.
type currentTerms struct {
	principal   float64
	rate        float64
	tenor       int
	debtService float64
	totalInterest float64
	minDSCR     float64
	breachYears int
	year3DSCR   float64
	year5DSCR   float64
}

// RestructureDeal diagnoses covenant failures and searches principal,
// tenor, rate, equity and combination levers for terms that restore the
// target DSCR. Options are anchored on the minimum-EBITDA year across
// the horizon, the conservative sizing base. Options that fail the
// strict-improvement invariants indicate a solver defect and are
// discarded with a warning rather than surfaced.
func RestructureDeal(req RestructuringRequest, params ModelParameters, rows []models.ProjectionYearRow, logger *logrus.Logger) (*models.RestructuringPlan, error) {
	if logger == nil {
		logger = logrus.New()
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no projection rows to restructure against")
	}

	diagnosis := Diagnose(rows, params.Covenants)
	if diagnosis.MinEBITDA <= 0 {
		return nil, fmt.Errorf("%w: min EBITDA %.2f in year %d",
			models.ErrNonPositiveEBITDA, diagnosis.MinEBITDA, diagnosis.MinEBITDAYear)
	}

	current := summarizeCurrentTerms(params, rows)
	targetDebtService := diagnosis.MinEBITDA / req.TargetMinDSCR

	ebitdas := make([]float64, len(rows))
	for i := range rows {
		ebitdas[i] = rows[i].EBITDA
	}

	plan := &models.RestructuringPlan{Diagnosis: diagnosis}

	if opt := optionPrincipalReduction(current, targetDebtService, ebitdas, params.Covenants, logger); opt != nil {
		plan.Options = append(plan.Options, *opt)
	}
	if opt := optionTenorExtension(current, req, ebitdas, params.Covenants); opt != nil {
		plan.Options = append(plan.Options, *opt)
	}
	if opt := optionRateReduction(current, req, ebitdas, params.Covenants, logger); opt != nil {
		plan.Options = append(plan.Options, *opt)
	}
	if req.IncludeEquity {
		if opt := optionEquityInjection(current, targetDebtService, ebitdas, params.Covenants, logger); opt != nil {
			plan.Options = append(plan.Options, *opt)
		}
	}
	combo := optionCombination(current, req, ebitdas, params.Covenants)
	plan.Options = append(plan.Options, combo)

	// The balanced combination is the house default; fall back to the
	// last generated option if it were ever excluded.
	plan.Recommended = &plan.Options[len(plan.Options)-1]
	plan.ConditionsPrecedent = []string{
		"Executed amendment and restatement of the facility agreement",
		"Updated security confirmations from all guarantors",
		"Evidence of equity funding where the option requires injection",
		"No events of default other than the covenant breaches being cured",
	}
	plan.Monitoring = []string{
		"Monthly management accounts within 30 days of month end",
		"Quarterly covenant compliance certificates",
		"13-week rolling cash flow forecast until DSCR exceeds target for two consecutive quarters",
	}

	return plan, nil
}

// Diagnose classifies each year pass/tight/breach per covenant and
// applies root-cause heuristics over the projection.
func Diagnose(rows []models.ProjectionYearRow, thresholds models.CovenantThresholds) models.DealDiagnosis {
	d := models.DealDiagnosis{
		MinEBITDA: math.Inf(1),
		Years:     make([]models.YearDiagnosis, 0, len(rows)),
	}

	breachYears := 0
	var totalInterest, totalEBITDA float64

	for i := range rows {
		row := &rows[i]
		yd := models.YearDiagnosis{
			Year:     row.Year,
			DSCR:     classifyFloor(row.DSCR, thresholds.MinDSCR),
			ICR:      classifyFloor(row.ICR, thresholds.TargetICR),
			Leverage: classifyCeiling(row.NetDebtToEBITDA, thresholds.MaxLeverage),
		}
		d.Years = append(d.Years, yd)

		if yd.DSCR == models.YearStatusBreach || yd.ICR == models.YearStatusBreach || yd.Leverage == models.YearStatusBreach {
			breachYears++
		}
		if row.EBITDA < d.MinEBITDA {
			d.MinEBITDA = row.EBITDA
			d.MinEBITDAYear = row.Year
		}
		totalInterest += row.InterestExpense
		totalEBITDA += row.EBITDA
	}

	d.BreachYearCount = breachYears
	d.DecliningRevenue = len(rows) >= 2 && rows[len(rows)-1].Revenue < rows[0].Revenue
	d.HighInterestBurden = totalEBITDA > 0 && totalInterest/totalEBITDA > 0.40
	d.StructuralWeakness = len(rows) > 0 && float64(breachYears)/float64(len(rows)) > 0.5

	return d
}

func classifyFloor(value, threshold float64) models.YearStatus {
	if !isFinite(value) {
		return models.YearStatusPass
	}
	if value < threshold {
		return models.YearStatusBreach
	}
	if value < threshold*(1+tightBandPct) {
		return models.YearStatusTight
	}
	return models.YearStatusPass
}

func classifyCeiling(value, threshold float64) models.YearStatus {
	if !isFinite(value) {
		return models.YearStatusPass
	}
	if value > threshold {
		return models.YearStatusBreach
	}
	if value > threshold*(1-tightBandPct) {
		return models.YearStatusTight
	}
	return models.YearStatusPass
}

func summarizeCurrentTerms(params ModelParameters, rows []models.ProjectionYearRow) currentTerms {
	terms := currentTerms{
		principal: params.TotalPrincipal(),
		rate:      params.BlendedRate(),
	}
	for i := range params.Tranches {
		if params.Tranches[i].TenorYears > terms.tenor {
			terms.tenor = params.Tranches[i].TenorYears
		}
	}
	terms.debtService = terms.principal * PaymentFactor(terms.rate, terms.tenor)
	terms.totalInterest = totalInterestFor(terms.principal, terms.rate, terms.tenor)

	ebitdas := make([]float64, len(rows))
	for i := range rows {
		ebitdas[i] = rows[i].EBITDA
	}
	series := dscrSeries(terms.principal, terms.rate, terms.tenor, ebitdas)
	terms.minDSCR, terms.breachYears = seriesStats(series, params.Covenants.MinDSCR)
	terms.year3DSCR = seriesAt(series, 3)
	terms.year5DSCR = seriesAt(series, 5)
	return terms
}

// dscrSeries recomputes the annual DSCR profile for a level-payment
// facility against a fixed EBITDA path.
func dscrSeries(principal, rate float64, tenor int, ebitdas []float64) []float64 {
	payment := principal * PaymentFactor(rate, tenor)
	series := make([]float64, len(ebitdas))
	for i := range ebitdas {
		if i >= tenor || payment == 0 {
			series[i] = math.Inf(1)
			continue
		}
		series[i] = ebitdas[i] / payment
	}
	return series
}

func seriesStats(series []float64, minThreshold float64) (minDSCR float64, breaches int) {
	minDSCR = math.Inf(1)
	for _, v := range series {
		if !isFinite(v) {
			continue
		}
		if v < minDSCR {
			minDSCR = v
		}
		if v < minThreshold {
			breaches++
		}
	}
	return minDSCR, breaches
}

func seriesAt(series []float64, year int) float64 {
	if year < 1 || year > len(series) {
		return math.Inf(1)
	}
	return series[year-1]
}

func totalInterestFor(principal, rate float64, tenor int) float64 {
	payment := principal * PaymentFactor(rate, tenor)
	return payment*float64(tenor) - principal
}

// lenderNPVImpact approximates the lender's economics: present value of
// the restructured payment stream at the original rate, less current
// principal outstanding. Haircuts and rate cuts come out negative.
func lenderNPVImpact(current currentTerms, newPrincipal, newRate float64, newTenor int, equityIn float64) float64 {
	payment := newPrincipal * PaymentFactor(newRate, newTenor)
	var pv float64
	for i := 1; i <= newTenor; i++ {
		pv += payment / math.Pow(1+current.rate, float64(i))
	}
	return pv + equityIn - current.principal
}

func buildOption(label string, lever models.RestructuringLever, current currentTerms,
	newPrincipal, newRate float64, newTenor int, equityIn float64,
	ebitdas []float64, thresholds models.CovenantThresholds,
	acceptance models.AcceptanceLikelihood) models.RestructuringOption {

	series := dscrSeries(newPrincipal, newRate, newTenor, ebitdas)
	minDSCR, breaches := seriesStats(series, thresholds.MinDSCR)
	debtService := newPrincipal * PaymentFactor(newRate, newTenor)
	totalInterest := totalInterestFor(newPrincipal, newRate, newTenor)

	return models.RestructuringOption{
		Label:              label,
		Lever:              lever,
		NewPrincipal:       newPrincipal,
		NewRate:            newRate,
		NewTenorYears:      newTenor,
		EquityInjection:    equityIn,
		AnnualDebtService:  debtService,
		MinDSCR:            minDSCR,
		BreachYears:        breaches,
		TotalInterest:      totalInterest,
		LenderNPVImpact:    lenderNPVImpact(current, newPrincipal, newRate, newTenor, equityIn),
		Acceptance:         acceptance,
		DebtServiceDelta:   debtService - current.debtService,
		Year3DSCRDelta:     deltaAt(series, current.year3DSCR, 3),
		Year5DSCRDelta:     deltaAt(series, current.year5DSCR, 5),
		BreachYearsDelta:   breaches - current.breachYears,
		TotalInterestDelta: totalInterest - current.totalInterest,
	}
}

func deltaAt(series []float64, currentValue float64, year int) float64 {
	v := seriesAt(series, year)
	if !isFinite(v) || !isFinite(currentValue) {
		return 0
	}
	return v - currentValue
}

// optionPrincipalReduction sizes the haircut that brings debt service to
// target, capped at 35% of current principal. Discarded if it would not
// strictly reduce principal.
func optionPrincipalReduction(current currentTerms, targetDebtService float64,
	ebitdas []float64, thresholds models.CovenantThresholds, logger *logrus.Logger) *models.RestructuringOption {

	factor := PaymentFactor(current.rate, current.tenor)
	if factor == 0 {
		return nil
	}
	newPrincipal := targetDebtService / factor
	floorPrincipal := current.principal * (1 - maxPrincipalHaircut)
	if newPrincipal < floorPrincipal {
		newPrincipal = floorPrincipal
	}
	if newPrincipal >= current.principal {
		logger.WithFields(logrus.Fields{
			"new_principal":     newPrincipal,
			"current_principal": current.principal,
		}).Warn("Principal reduction option failed strict-decrease invariant, discarding")
		return nil
	}

	opt := buildOption("A: Principal reduction", models.LeverPrincipalReduction,
		current, newPrincipal, current.rate, current.tenor, 0, ebitdas, thresholds,
		models.AcceptanceLow)
	return &opt
}

// optionTenorExtension searches tenor upward one year at a time,
// stopping at the first tenor with zero breach years and DSCR at or
// above target.
func optionTenorExtension(current currentTerms, req RestructuringRequest,
	ebitdas []float64, thresholds models.CovenantThresholds) *models.RestructuringOption {

	for tenor := current.tenor + 1; tenor <= req.MaxTenorYears; tenor++ {
		series := dscrSeries(current.principal, current.rate, tenor, ebitdas)
		minDSCR, breaches := seriesStats(series, thresholds.MinDSCR)
		if breaches == 0 && minDSCR >= req.TargetMinDSCR {
			opt := buildOption("B: Tenor extension", models.LeverTenorExtension,
				current, current.principal, current.rate, tenor, 0, ebitdas, thresholds,
				models.AcceptanceHigh)
			return &opt
		}
	}
	return nil
}

// optionRateReduction steps the rate down 50bp at a time, floored at the
// minimum acceptable rate. Discarded if the cut would not strictly
// reduce annual debt service.
func optionRateReduction(current currentTerms, req RestructuringRequest,
	ebitdas []float64, thresholds models.CovenantThresholds, logger *logrus.Logger) *models.RestructuringOption {

	var chosen float64
	found := false
	for rate := current.rate - rateStepBps; rate >= req.MinAcceptableRate-1e-12; rate -= rateStepBps {
		series := dscrSeries(current.principal, rate, current.tenor, ebitdas)
		minDSCR, breaches := seriesStats(series, thresholds.MinDSCR)
		chosen = rate
		found = true
		if breaches == 0 && minDSCR >= req.TargetMinDSCR {
			break
		}
	}
	if !found {
		return nil
	}

	newDebtService := current.principal * PaymentFactor(chosen, current.tenor)
	if newDebtService >= current.debtService {
		logger.WithFields(logrus.Fields{
			"new_debt_service":     newDebtService,
			"current_debt_service": current.debtService,
		}).Warn("Rate reduction option failed strict-decrease invariant, discarding")
		return nil
	}

	opt := buildOption("C: Rate reduction", models.LeverRateReduction,
		current, current.principal, chosen, current.tenor, 0, ebitdas, thresholds,
		models.AcceptanceModerate)
	return &opt
}

// optionEquityInjection pays down principal with sponsor equity, capped
// at 25% of current principal. Discarded if it would not strictly
// reduce principal.
func optionEquityInjection(current currentTerms, targetDebtService float64,
	ebitdas []float64, thresholds models.CovenantThresholds, logger *logrus.Logger) *models.RestructuringOption {

	factor := PaymentFactor(current.rate, current.tenor)
	if factor == 0 {
		return nil
	}
	required := current.principal - targetDebtService/factor
	injection := math.Min(math.Max(required, 0), current.principal*maxEquityInjection)
	newPrincipal := current.principal - injection
	if newPrincipal >= current.principal {
		logger.WithFields(logrus.Fields{
			"injection": injection,
		}).Warn("Equity injection option failed strict-decrease invariant, discarding")
		return nil
	}

	opt := buildOption("D: Equity injection", models.LeverEquityInjection,
		current, newPrincipal, current.rate, current.tenor, injection, ebitdas, thresholds,
		models.AcceptanceHigh)
	return &opt
}

// optionCombination applies the fixed balanced bundle: two extra years
// of tenor capped at eight, a 12.5% rate cut floored at 9%, and an 8%
// equity paydown.
func optionCombination(current currentTerms, req RestructuringRequest,
	ebitdas []float64, thresholds models.CovenantThresholds) models.RestructuringOption {

	tenor := current.tenor + combinationTenorAdd
	if tenor > combinationTenorCap {
		tenor = combinationTenorCap
	}
	if tenor < current.tenor {
		tenor = current.tenor
	}
	rate := current.rate * combinationRateMult
	if rate < combinationRateFloor {
		rate = combinationRateFloor
	}
	injection := current.principal * combinationEquityPct
	newPrincipal := current.principal - injection

	return buildOption("E: Balanced combination", models.LeverCombination,
		current, newPrincipal, rate, tenor, injection, ebitdas, thresholds,
		models.AcceptanceModerate)
}

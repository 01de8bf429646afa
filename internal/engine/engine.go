package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/creditdesk/internal/database"
	"github.com/yourusername/creditdesk/internal/metrics"
	"github.com/yourusername/creditdesk/internal/models"
	"github.com/yourusername/creditdesk/internal/repository"
)

// Engine orchestrates credit analysis runs
type Engine struct {
	params       ModelParameters
	db           *database.DB
	repositories *repository.Repositories
	logger       *logrus.Logger
}

// Result aggregates a full analysis: the base projection, credit
// statistics, scenario grid, valuation and structural diagnostics.
type Result struct {
	RunID       uuid.UUID                  `json:"run_id"`
	CompanyID   uuid.UUID                  `json:"company_id"`
	Parameters  ModelParameters            `json:"parameters"`
	Projection  []models.ProjectionYearRow `json:"projection"`
	Stats       models.CreditStats         `json:"stats"`
	Breaches    []models.CovenantBreach    `json:"breaches"`
	Resilience  float64                    `json:"resilience"`
	Headroom    models.HeadroomAnalysis    `json:"headroom"`
	Balloons    []BalloonAnalysis          `json:"balloons"`
	Valuation   *ScenarioValuation         `json:"valuation,omitempty"`
	Scenarios   []*models.ScenarioResult   `json:"scenarios,omitempty"`
	GeneratedAt time.Time                  `json:"generated_at"`
}

// NewEngine creates an analysis engine. A nil database is allowed and
// disables persistence, which the offline CLI relies on.
func NewEngine(params ModelParameters, db *database.DB, logger *logrus.Logger) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model parameters: %w", err)
	}
	if logger == nil {
		logger = logrus.New()
	}

	e := &Engine{
		params: params,
		db:     db,
		logger: logger,
	}
	if db != nil {
		repos, err := repository.NewRepositories(db)
		if err != nil {
			return nil, err
		}
		e.repositories = repos
	}
	return e, nil
}

// Parameters returns the model parameters the engine runs with
func (e *Engine) Parameters() ModelParameters {
	return e.params
}

// Logger returns the engine logger
func (e *Engine) Logger() *logrus.Logger {
	return e.logger
}

// Repositories returns the repository container, nil in offline mode
func (e *Engine) Repositories() *repository.Repositories {
	return e.repositories
}

// Close releases engine resources
func (e *Engine) Close(ctx context.Context) error {
	if e.db == nil {
		return nil
	}
	return e.db.Close(ctx)
}

// Run executes the base-case analysis plus the full scenario grid and
// persists a run record when a database is attached.
func (e *Engine) Run(ctx context.Context, companyID uuid.UUID) (*Result, error) {
	start := time.Now()
	e.logger.WithFields(logrus.Fields{
		"company_id": companyID,
		"horizon":    e.params.HorizonYears,
		"tranches":   len(e.params.Tranches),
	}).Info("Starting analysis run")

	result, err := e.Analyze(ctx)
	if err != nil {
		return nil, err
	}
	result.RunID = uuid.New()
	result.CompanyID = companyID

	scenarios, err := e.RunScenarioGrid(ctx)
	if err != nil {
		return nil, err
	}
	result.Scenarios = scenarios

	if e.repositories != nil {
		if err := e.persistRun(ctx, result); err != nil {
			return nil, fmt.Errorf("failed to persist analysis run: %w", err)
		}
	}

	metrics.RecordAnalysisRun(time.Since(start).Seconds())
	metrics.RecordCovenantBreaches(len(result.Breaches))
	metrics.RecordResilienceScore(result.Resilience)

	e.logger.WithFields(logrus.Fields{
		"run_id":     result.RunID,
		"resilience": result.Resilience,
		"breaches":   len(result.Breaches),
		"duration":   time.Since(start),
	}).Info("Analysis run complete")

	return result, nil
}

// Analyze computes the base-case projection, credit metrics, headroom,
// balloon diagnostics and valuation without touching storage.
func (e *Engine) Analyze(ctx context.Context) (*Result, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	rows, err := Project(e.params)
	if err != nil {
		return nil, fmt.Errorf("projection failed: %w", err)
	}

	stats, breaches := AnalyzeCredit(rows, e.params.Covenants)
	score := ResilienceScore(stats)
	headroom := AnalyzeHeadroom(rows, e.params.Covenants)

	balloons := make([]BalloonAnalysis, 0, len(e.params.Tranches))
	for _, t := range e.params.Tranches {
		if ba := AnalyzeBalloon(t, rows); ba != nil {
			balloons = append(balloons, *ba)
		}
	}

	valuation, err := ValueScenario(e.params, rows)
	if err != nil {
		e.logger.WithError(err).Warn("Valuation unavailable for base case")
		valuation = nil
	} else {
		metrics.RecordValuation()
	}

	return &Result{
		Parameters:  e.params,
		Projection:  rows,
		Stats:       stats,
		Breaches:    breaches,
		Resilience:  score,
		Headroom:    headroom,
		Balloons:    balloons,
		Valuation:   valuation,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// RunScenarioGrid evaluates every named scenario against the engine
// parameters and returns results sorted worst resilience first.
func (e *Engine) RunScenarioGrid(ctx context.Context) ([]*models.ScenarioResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	results, err := RunScenarios(e.params, NamedScenarios())
	if err != nil {
		return nil, fmt.Errorf("scenario grid failed: %w", err)
	}
	SortByResilience(results)

	for _, res := range results {
		status := "success"
		if !res.Valued() {
			status = "unvalued"
			e.logger.WithFields(logrus.Fields{
				"scenario": res.Name,
				"error":    res.ValuationError,
			}).Warn("Valuation unavailable for scenario")
		}
		metrics.RecordScenarioRun(string(res.Name), status)
		metrics.RecordScenarioMinDSCR(string(res.Name), res.Stats.MinDSCR)
		metrics.UpdateScenarioBreachYears(string(res.Name), float64(len(res.Breaches)))
	}

	return results, nil
}

// Restructure runs the advisor against the engine's base projection
func (e *Engine) Restructure(ctx context.Context, req RestructuringRequest) (*models.RestructuringPlan, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	rows, err := Project(e.params)
	if err != nil {
		return nil, fmt.Errorf("projection failed: %w", err)
	}

	plan, err := RestructureDeal(req, e.params, rows, e.logger)
	if err != nil {
		return nil, err
	}
	metrics.RecordRestructuringPlan()
	return plan, nil
}

func (e *Engine) persistRun(ctx context.Context, result *Result) error {
	hash, err := models.HashParameters(e.params)
	if err != nil {
		return fmt.Errorf("failed to hash parameters: %w", err)
	}
	paramsJSON, err := json.Marshal(e.params)
	if err != nil {
		return fmt.Errorf("failed to marshal parameters: %w", err)
	}
	scenariosJSON, err := json.Marshal(result.Scenarios)
	if err != nil {
		return fmt.Errorf("failed to marshal scenarios: %w", err)
	}

	run := &models.AnalysisRun{
		ID:              result.RunID,
		CompanyID:       result.CompanyID,
		ParameterHash:   hash,
		Parameters:      paramsJSON,
		ResilienceScore: result.Resilience,
		MinDSCR:         result.Stats.MinDSCR,
		MaxLeverage:     result.Stats.MaxLeverage,
		TotalBreaches:   result.Stats.TotalBreaches,
		Scenarios:       scenariosJSON,
		CreatedAt:       result.GeneratedAt,
	}
	if result.Valuation != nil {
		run.EnterpriseValue = result.Valuation.EnterpriseValue
		run.EquityValue = result.Valuation.EquityValue
	}

	return e.repositories.AnalysisRun.Create(ctx, run)
}

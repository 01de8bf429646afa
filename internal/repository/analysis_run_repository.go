package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/creditdesk/internal/database"
	"github.com/yourusername/creditdesk/internal/models"
)

const errScanAnalysisRun = "failed to scan analysis run: %w"

const analysisRunColumns = `
	id, company_id, parameter_hash, parameters, resilience_score,
	min_dscr, max_leverage, total_breaches, enterprise_value,
	equity_value, scenarios, created_at`

// PostgresAnalysisRunRepository implements AnalysisRunRepository for PostgreSQL
type PostgresAnalysisRunRepository struct {
	db *database.DB
}

// NewPostgresAnalysisRunRepository creates a new analysis run repository
func NewPostgresAnalysisRunRepository(db *database.DB) AnalysisRunRepository {
	return &PostgresAnalysisRunRepository{db: db}
}

// Create inserts a new analysis run record
func (r *PostgresAnalysisRunRepository) Create(ctx context.Context, run *models.AnalysisRun) error {
	query := `
		INSERT INTO analysis_runs (
			id, company_id, parameter_hash, parameters, resilience_score,
			min_dscr, max_leverage, total_breaches, enterprise_value,
			equity_value, scenarios
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		run.ID, run.CompanyID, run.ParameterHash, run.Parameters,
		run.ResilienceScore, run.MinDSCR, run.MaxLeverage, run.TotalBreaches,
		run.EnterpriseValue, run.EquityValue, run.Scenarios,
	)
	if err != nil {
		return fmt.Errorf("failed to create analysis run: %w", err)
	}

	return nil
}

// GetByID retrieves an analysis run by ID
func (r *PostgresAnalysisRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AnalysisRun, error) {
	query := fmt.Sprintf("SELECT %s FROM analysis_runs WHERE id = $1", analysisRunColumns)

	run := &models.AnalysisRun{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&run.ID, &run.CompanyID, &run.ParameterHash, &run.Parameters,
		&run.ResilienceScore, &run.MinDSCR, &run.MaxLeverage, &run.TotalBreaches,
		&run.EnterpriseValue, &run.EquityValue, &run.Scenarios, &run.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis run: %w", err)
	}

	return run, nil
}

// GetByCompanyID retrieves recent runs for a company, newest first
func (r *PostgresAnalysisRunRepository) GetByCompanyID(ctx context.Context, companyID uuid.UUID, limit int) ([]*models.AnalysisRun, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM analysis_runs
		WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, analysisRunColumns)

	return r.queryRuns(ctx, query, companyID, limit)
}

// GetByParameterHash retrieves the most recent run for a company with a
// matching parameter fingerprint, used for run deduplication.
func (r *PostgresAnalysisRunRepository) GetByParameterHash(ctx context.Context, companyID uuid.UUID, hash string) (*models.AnalysisRun, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM analysis_runs
		WHERE company_id = $1 AND parameter_hash = $2
		ORDER BY created_at DESC
		LIMIT 1
	`, analysisRunColumns)

	run := &models.AnalysisRun{}
	err := r.db.GetPool().QueryRow(ctx, query, companyID, hash).Scan(
		&run.ID, &run.CompanyID, &run.ParameterHash, &run.Parameters,
		&run.ResilienceScore, &run.MinDSCR, &run.MaxLeverage, &run.TotalBreaches,
		&run.EnterpriseValue, &run.EquityValue, &run.Scenarios, &run.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis run by hash: %w", err)
	}

	return run, nil
}

// GetLatest retrieves the newest runs across all companies
func (r *PostgresAnalysisRunRepository) GetLatest(ctx context.Context, limit int) ([]*models.AnalysisRun, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM analysis_runs
		ORDER BY created_at DESC
		LIMIT $1
	`, analysisRunColumns)

	return r.queryRuns(ctx, query, limit)
}

// DeleteOlderThanDays removes runs older than the retention window
func (r *PostgresAnalysisRunRepository) DeleteOlderThanDays(ctx context.Context, days int) (int64, error) {
	query := "DELETE FROM analysis_runs WHERE created_at < NOW() - ($1 || ' days')::interval"

	commandTag, err := r.db.GetPool().Exec(ctx, query, days)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale analysis runs: %w", err)
	}

	return commandTag.RowsAffected(), nil
}

func (r *PostgresAnalysisRunRepository) queryRuns(ctx context.Context, query string, args ...interface{}) ([]*models.AnalysisRun, error) {
	rows, err := r.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.AnalysisRun
	for rows.Next() {
		run := &models.AnalysisRun{}
		err := rows.Scan(
			&run.ID, &run.CompanyID, &run.ParameterHash, &run.Parameters,
			&run.ResilienceScore, &run.MinDSCR, &run.MaxLeverage, &run.TotalBreaches,
			&run.EnterpriseValue, &run.EquityValue, &run.Scenarios, &run.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanAnalysisRun, err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

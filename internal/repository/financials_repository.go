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

const errScanHistoricalYear = "failed to scan historical year: %w"

const historicalYearColumns = `
	id, company_id, fiscal_year, revenue, cogs, opex, depreciation,
	interest_expense, tax, net_income, capex, ppe, cash, total_debt,
	receivables, inventory, payables, created_at, updated_at`

// PostgresFinancialsRepository implements FinancialsRepository for PostgreSQL
type PostgresFinancialsRepository struct {
	db *database.DB
}

// NewPostgresFinancialsRepository creates a new financials repository
func NewPostgresFinancialsRepository(db *database.DB) FinancialsRepository {
	return &PostgresFinancialsRepository{db: db}
}

// Insert inserts one fiscal year of reported results. A second insert
// for the same company and fiscal year updates the stored statement.
func (r *PostgresFinancialsRepository) Insert(ctx context.Context, year *models.HistoricalYear) error {
	query := `
		INSERT INTO historical_financials (
			id, company_id, fiscal_year, revenue, cogs, opex, depreciation,
			interest_expense, tax, net_income, capex, ppe, cash, total_debt,
			receivables, inventory, payables
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (company_id, fiscal_year) DO UPDATE SET
			revenue = EXCLUDED.revenue,
			cogs = EXCLUDED.cogs,
			opex = EXCLUDED.opex,
			depreciation = EXCLUDED.depreciation,
			interest_expense = EXCLUDED.interest_expense,
			tax = EXCLUDED.tax,
			net_income = EXCLUDED.net_income,
			capex = EXCLUDED.capex,
			ppe = EXCLUDED.ppe,
			cash = EXCLUDED.cash,
			total_debt = EXCLUDED.total_debt,
			receivables = EXCLUDED.receivables,
			inventory = EXCLUDED.inventory,
			payables = EXCLUDED.payables,
			updated_at = NOW()
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		year.ID, year.CompanyID, year.FiscalYear, year.Revenue, year.COGS,
		year.Opex, year.Depreciation, year.InterestExpense, year.Tax,
		year.NetIncome, year.Capex, year.PPE, year.Cash, year.TotalDebt,
		year.Receivables, year.Inventory, year.Payables,
	)
	if err != nil {
		return fmt.Errorf("failed to insert historical year: %w", err)
	}

	return nil
}

// InsertBatch inserts multiple fiscal years within one transaction
func (r *PostgresFinancialsRepository) InsertBatch(ctx context.Context, years []*models.HistoricalYear) error {
	if len(years) == 0 {
		return nil
	}

	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO historical_financials (
				id, company_id, fiscal_year, revenue, cogs, opex, depreciation,
				interest_expense, tax, net_income, capex, ppe, cash, total_debt,
				receivables, inventory, payables
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
			ON CONFLICT (company_id, fiscal_year) DO NOTHING
		`
		for _, year := range years {
			_, err := tx.Exec(ctx, query,
				year.ID, year.CompanyID, year.FiscalYear, year.Revenue, year.COGS,
				year.Opex, year.Depreciation, year.InterestExpense, year.Tax,
				year.NetIncome, year.Capex, year.PPE, year.Cash, year.TotalDebt,
				year.Receivables, year.Inventory, year.Payables,
			)
			if err != nil {
				return fmt.Errorf("failed to insert fiscal year %d: %w", year.FiscalYear, err)
			}
		}
		return nil
	})
}

// GetByCompanyID retrieves all fiscal years for a company, oldest first
func (r *PostgresFinancialsRepository) GetByCompanyID(ctx context.Context, companyID uuid.UUID) ([]*models.HistoricalYear, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM historical_financials
		WHERE company_id = $1
		ORDER BY fiscal_year ASC
	`, historicalYearColumns)

	rows, err := r.db.GetPool().Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query historical financials: %w", err)
	}
	defer rows.Close()

	var years []*models.HistoricalYear
	for rows.Next() {
		year := &models.HistoricalYear{}
		err := rows.Scan(
			&year.ID, &year.CompanyID, &year.FiscalYear, &year.Revenue, &year.COGS,
			&year.Opex, &year.Depreciation, &year.InterestExpense, &year.Tax,
			&year.NetIncome, &year.Capex, &year.PPE, &year.Cash, &year.TotalDebt,
			&year.Receivables, &year.Inventory, &year.Payables,
			&year.CreatedAt, &year.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanHistoricalYear, err)
		}
		years = append(years, year)
	}

	return years, rows.Err()
}

// GetByFiscalYear retrieves one fiscal year for a company
func (r *PostgresFinancialsRepository) GetByFiscalYear(ctx context.Context, companyID uuid.UUID, fiscalYear int) (*models.HistoricalYear, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM historical_financials
		WHERE company_id = $1 AND fiscal_year = $2
	`, historicalYearColumns)

	year := &models.HistoricalYear{}
	err := r.db.GetPool().QueryRow(ctx, query, companyID, fiscalYear).Scan(
		&year.ID, &year.CompanyID, &year.FiscalYear, &year.Revenue, &year.COGS,
		&year.Opex, &year.Depreciation, &year.InterestExpense, &year.Tax,
		&year.NetIncome, &year.Capex, &year.PPE, &year.Cash, &year.TotalDebt,
		&year.Receivables, &year.Inventory, &year.Payables,
		&year.CreatedAt, &year.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fiscal year: %w", err)
	}

	return year, nil
}

// DeleteByCompanyID removes all stored statements for a company
func (r *PostgresFinancialsRepository) DeleteByCompanyID(ctx context.Context, companyID uuid.UUID) error {
	query := "DELETE FROM historical_financials WHERE company_id = $1"

	_, err := r.db.GetPool().Exec(ctx, query, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete historical financials: %w", err)
	}

	return nil
}

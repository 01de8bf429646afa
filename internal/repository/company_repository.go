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

const errScanCompany = "failed to scan company: %w"

// PostgresCompanyRepository implements CompanyRepository for PostgreSQL
type PostgresCompanyRepository struct {
	db *database.DB
}

// NewPostgresCompanyRepository creates a new company repository
func NewPostgresCompanyRepository(db *database.DB) CompanyRepository {
	return &PostgresCompanyRepository{db: db}
}

// Create inserts a new company
func (r *PostgresCompanyRepository) Create(ctx context.Context, company *models.Company) error {
	if err := company.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO companies (id, name, sector, currency, active)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		company.ID, company.Name, company.Sector, company.Currency, company.Active,
	)
	if err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}

	return nil
}

// GetByID retrieves a company by ID
func (r *PostgresCompanyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	query := `
		SELECT id, name, sector, currency, active, created_at, updated_at
		FROM companies WHERE id = $1
	`

	company := &models.Company{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&company.ID, &company.Name, &company.Sector, &company.Currency,
		&company.Active, &company.CreatedAt, &company.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	return company, nil
}

// GetByName retrieves a company by exact name
func (r *PostgresCompanyRepository) GetByName(ctx context.Context, name string) (*models.Company, error) {
	query := `
		SELECT id, name, sector, currency, active, created_at, updated_at
		FROM companies WHERE name = $1
	`

	company := &models.Company{}
	err := r.db.GetPool().QueryRow(ctx, query, name).Scan(
		&company.ID, &company.Name, &company.Sector, &company.Currency,
		&company.Active, &company.CreatedAt, &company.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company by name: %w", err)
	}

	return company, nil
}

// GetActive retrieves all active companies ordered by name
func (r *PostgresCompanyRepository) GetActive(ctx context.Context) ([]*models.Company, error) {
	query := `
		SELECT id, name, sector, currency, active, created_at, updated_at
		FROM companies
		WHERE active = TRUE
		ORDER BY name ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active companies: %w", err)
	}
	defer rows.Close()

	var companies []*models.Company
	for rows.Next() {
		company := &models.Company{}
		err := rows.Scan(
			&company.ID, &company.Name, &company.Sector, &company.Currency,
			&company.Active, &company.CreatedAt, &company.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanCompany, err)
		}
		companies = append(companies, company)
	}

	return companies, rows.Err()
}

// Update updates an existing company
func (r *PostgresCompanyRepository) Update(ctx context.Context, company *models.Company) error {
	query := `
		UPDATE companies SET
			name = $2, sector = $3, currency = $4, active = $5, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query,
		company.ID, company.Name, company.Sector, company.Currency, company.Active,
	)
	if err != nil {
		return fmt.Errorf("failed to update company: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// Delete deletes a company
func (r *PostgresCompanyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := "DELETE FROM companies WHERE id = $1"

	commandTag, err := r.db.GetPool().Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

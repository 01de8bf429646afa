package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/yourusername/creditdesk/internal/models"
)

// CompanyRepository defines the interface for company data access
type CompanyRepository interface {
	Create(ctx context.Context, company *models.Company) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	GetByName(ctx context.Context, name string) (*models.Company, error)
	GetActive(ctx context.Context) ([]*models.Company, error)
	Update(ctx context.Context, company *models.Company) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// FinancialsRepository defines the interface for historical statement data access
type FinancialsRepository interface {
	Insert(ctx context.Context, year *models.HistoricalYear) error
	InsertBatch(ctx context.Context, years []*models.HistoricalYear) error
	GetByCompanyID(ctx context.Context, companyID uuid.UUID) ([]*models.HistoricalYear, error)
	GetByFiscalYear(ctx context.Context, companyID uuid.UUID, fiscalYear int) (*models.HistoricalYear, error)
	DeleteByCompanyID(ctx context.Context, companyID uuid.UUID) error
}

// AnalysisRunRepository defines the interface for analysis run persistence
type AnalysisRunRepository interface {
	Create(ctx context.Context, run *models.AnalysisRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.AnalysisRun, error)
	GetByCompanyID(ctx context.Context, companyID uuid.UUID, limit int) ([]*models.AnalysisRun, error)
	GetByParameterHash(ctx context.Context, companyID uuid.UUID, hash string) (*models.AnalysisRun, error)
	GetLatest(ctx context.Context, limit int) ([]*models.AnalysisRun, error)
	DeleteOlderThanDays(ctx context.Context, days int) (int64, error)
}

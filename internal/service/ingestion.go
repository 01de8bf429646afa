package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/creditdesk/internal/datasource"
	"github.com/yourusername/creditdesk/internal/logger"
	"github.com/yourusername/creditdesk/internal/metrics"
	"github.com/yourusername/creditdesk/internal/models"
	"github.com/yourusername/creditdesk/internal/repository"
)

// IngestionService handles the statement ingestion workflow
type IngestionService struct {
	source         datasource.StatementSource
	companyRepo    repository.CompanyRepository
	financialsRepo repository.FinancialsRepository
	validator      *StatementValidator
	normalizer     *StatementNormalizer
	metrics        *IngestionMetrics
	audit          *logger.AuditLogger
	logger         *log.Logger
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(
	source datasource.StatementSource,
	companyRepo repository.CompanyRepository,
	financialsRepo repository.FinancialsRepository,
	validator *StatementValidator,
	normalizer *StatementNormalizer,
	audit *logger.AuditLogger,
	logger *log.Logger,
) *IngestionService {
	return &IngestionService{
		source:         source,
		companyRepo:    companyRepo,
		financialsRepo: financialsRepo,
		validator:      validator,
		normalizer:     normalizer,
		metrics:        NewIngestionMetrics(),
		audit:          audit,
		logger:         logger,
	}
}

// IngestCompany fetches, normalizes, validates, and persists all
// statements for one company. An empty companyName ingests every
// company found in the source.
func (s *IngestionService) IngestCompany(ctx context.Context, companyName string) (*IngestionMetrics, error) {
	s.metrics.Reset()
	startTime := time.Now()

	s.logger.Printf("Starting statement ingestion from %s for %q", s.source.Name(), companyName)

	statements, err := s.source.FetchStatements(ctx, companyName)
	if err != nil {
		s.metrics.RecordError()
		return s.metrics, fmt.Errorf("failed to fetch statements: %w", err)
	}

	s.logger.Printf("Fetched %d statements from %s", len(statements), s.source.Name())
	s.metrics.TotalStatements = len(statements)

	// Group by company so each series is validated and persisted as a unit
	byCompany := make(map[string][]*datasource.StatementData)
	var order []string
	for i := range statements {
		stmt := &statements[i]
		key := sanitizeCompanyName(stmt.CompanyName)
		if _, seen := byCompany[key]; !seen {
			order = append(order, key)
		}
		byCompany[key] = append(byCompany[key], stmt)
	}

	for _, name := range order {
		if err := s.processCompany(ctx, name, byCompany[name]); err != nil {
			s.metrics.RecordError()
			s.logger.Printf("Error ingesting company %q: %v", name, err)
			// Continue with remaining companies
		}
	}

	s.metrics.Duration = time.Since(startTime)
	metrics.RecordIngestionDuration(s.metrics.Duration.Seconds())
	s.logger.Printf("Ingestion complete: %s", s.metrics)

	return s.metrics, nil
}

// processCompany resolves the company record, then normalizes,
// validates, and persists its fiscal years
func (s *IngestionService) processCompany(ctx context.Context, name string, statements []*datasource.StatementData) error {
	if len(statements) == 0 {
		return nil
	}

	company, created, err := s.resolveCompany(ctx, statements[0])
	if err != nil {
		return fmt.Errorf("failed to resolve company %q: %w", name, err)
	}
	if created {
		s.metrics.RecordCompany()
		s.logger.Printf("Created company %s (%s)", company.Name, company.ID)
	}

	var years []*models.HistoricalYear
	rejected := 0
	for _, stmt := range statements {
		year, err := s.normalizer.NormalizeStatement(stmt, company.ID)
		if err != nil {
			s.metrics.RecordValidationError()
			s.logger.Printf("Failed to normalize fiscal year %d for %s: %v", stmt.FiscalYear, company.Name, err)
			rejected++
			continue
		}

		if validationErrors := s.validator.ValidateYear(year); len(validationErrors) > 0 {
			s.metrics.RecordValidationError()
			metrics.RecordValidationFailure(s.source.Name())
			s.logger.Printf("Fiscal year %d for %s failed validation: %v", year.FiscalYear, company.Name, validationErrors)
			rejected++
			continue
		}

		// Skip years already on record
		existing, err := s.financialsRepo.GetByFiscalYear(ctx, company.ID, year.FiscalYear)
		if err == nil && existing != nil {
			s.metrics.RecordDuplicate()
			metrics.RecordStatementIngested(s.source.Name(), "duplicate")
			rejected++
			continue
		}
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("failed to check existing fiscal year %d: %w", year.FiscalYear, err)
		}

		years = append(years, year)
	}

	if len(years) == 0 {
		s.logger.Printf("No new fiscal years to persist for %s", company.Name)
		return nil
	}

	if seriesErrors := s.validator.ValidateSeries(years); len(seriesErrors) > 0 {
		s.logger.Printf("Series warnings for %s: %v", company.Name, seriesErrors)
	}

	if err := s.financialsRepo.InsertBatch(ctx, years); err != nil {
		return fmt.Errorf("failed to persist %d fiscal years: %w", len(years), err)
	}

	for range years {
		s.metrics.RecordYear()
		metrics.RecordStatementIngested(s.source.Name(), "success")
	}

	if s.audit != nil {
		s.audit.LogStatementIngestion(company.ID.String(), len(years), rejected, s.source.Name())
	}

	return nil
}

// resolveCompany finds an existing company by name or creates one from
// statement metadata. Returns whether a new record was created.
func (s *IngestionService) resolveCompany(ctx context.Context, stmt *datasource.StatementData) (*models.Company, bool, error) {
	name := sanitizeCompanyName(stmt.CompanyName)

	company, err := s.companyRepo.GetByName(ctx, name)
	if err == nil {
		return company, false, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, false, err
	}

	company, err = s.normalizer.NormalizeCompany(stmt)
	if err != nil {
		return nil, false, err
	}

	if validationErrors := s.validator.ValidateCompany(company); len(validationErrors) > 0 {
		return nil, false, fmt.Errorf("company validation failed: %v", validationErrors)
	}

	if err := s.companyRepo.Create(ctx, company); err != nil {
		return nil, false, err
	}

	return company, true, nil
}

// GetMetrics returns current ingestion metrics
func (s *IngestionService) GetMetrics() *IngestionMetrics {
	return s.metrics
}

// ResetMetrics resets ingestion metrics
func (s *IngestionService) ResetMetrics() {
	s.metrics.Reset()
}

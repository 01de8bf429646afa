package service

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/google/uuid"
	"github.com/yourusername/creditdesk/internal/datasource"
	"github.com/yourusername/creditdesk/internal/models"
)

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type stubStatementSource struct {
	statements []datasource.StatementData
	err        error
}

func (s *stubStatementSource) FetchStatements(ctx context.Context, companyName string) ([]datasource.StatementData, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.statements, nil
}

func (s *stubStatementSource) Name() string { return "stub" }

type memoryCompanyRepo struct {
	byName map[string]*models.Company
}

func newMemoryCompanyRepo() *memoryCompanyRepo {
	return &memoryCompanyRepo{byName: make(map[string]*models.Company)}
}

func (r *memoryCompanyRepo) Create(ctx context.Context, company *models.Company) error {
	r.byName[company.Name] = company
	return nil
}

func (r *memoryCompanyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	for _, c := range r.byName {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *memoryCompanyRepo) GetByName(ctx context.Context, name string) (*models.Company, error) {
	if c, ok := r.byName[name]; ok {
		return c, nil
	}
	return nil, models.ErrNotFound
}

func (r *memoryCompanyRepo) GetActive(ctx context.Context) ([]*models.Company, error) {
	var out []*models.Company
	for _, c := range r.byName {
		if c.Active {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memoryCompanyRepo) Update(ctx context.Context, company *models.Company) error { return nil }
func (r *memoryCompanyRepo) Delete(ctx context.Context, id uuid.UUID) error           { return nil }

type memoryFinancialsRepo struct {
	years []*models.HistoricalYear
}

func (r *memoryFinancialsRepo) Insert(ctx context.Context, year *models.HistoricalYear) error {
	r.years = append(r.years, year)
	return nil
}

func (r *memoryFinancialsRepo) InsertBatch(ctx context.Context, years []*models.HistoricalYear) error {
	r.years = append(r.years, years...)
	return nil
}

func (r *memoryFinancialsRepo) GetByCompanyID(ctx context.Context, companyID uuid.UUID) ([]*models.HistoricalYear, error) {
	var out []*models.HistoricalYear
	for _, y := range r.years {
		if y.CompanyID == companyID {
			out = append(out, y)
		}
	}
	return out, nil
}

func (r *memoryFinancialsRepo) GetByFiscalYear(ctx context.Context, companyID uuid.UUID, fiscalYear int) (*models.HistoricalYear, error) {
	for _, y := range r.years {
		if y.CompanyID == companyID && y.FiscalYear == fiscalYear {
			return y, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *memoryFinancialsRepo) DeleteByCompanyID(ctx context.Context, companyID uuid.UUID) error {
	return nil
}

func testStatement(company string, fiscalYear int, revenue string) datasource.StatementData {
	return datasource.StatementData{
		CompanyName:     company,
		Sector:          "Industrials",
		Currency:        "USD",
		FiscalYear:      fiscalYear,
		Revenue:         revenue,
		COGS:            "480,000",
		Opex:            "360,000",
		Depreciation:    "60,000",
		InterestExpense: "24,000",
		Tax:             "55,000",
		NetIncome:       "221,000",
		Capex:           "90,000",
		PPE:             "500,000",
		Cash:            "120,000",
		TotalDebt:       "400,000",
		Receivables:     "150,000",
		Inventory:       "80,000",
		Payables:        "95,000",
	}
}

func newTestIngestionService(source datasource.StatementSource, companies *memoryCompanyRepo, financials *memoryFinancialsRepo) *IngestionService {
	return NewIngestionService(
		source,
		companies,
		financials,
		NewStatementValidator(discardLogger()),
		NewStatementNormalizer(discardLogger()),
		nil,
		discardLogger(),
	)
}

// TestIngestCompany tests the full fetch-normalize-validate-persist flow
func TestIngestCompany(t *testing.T) {
	source := &stubStatementSource{statements: []datasource.StatementData{
		testStatement("Acme Industrial", 2021, "1,100,000"),
		testStatement("Acme Industrial", 2022, "1,200,000"),
		testStatement("Acme Industrial", 2023, "1,300,000"),
	}}
	companies := newMemoryCompanyRepo()
	financials := &memoryFinancialsRepo{}

	svc := newTestIngestionService(source, companies, financials)

	metrics, err := svc.IngestCompany(context.Background(), "Acme Industrial")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if metrics.SuccessfulYears != 3 {
		t.Errorf("Expected 3 years ingested, got %d", metrics.SuccessfulYears)
	}
	if metrics.CompaniesCreated != 1 {
		t.Errorf("Expected 1 company created, got %d", metrics.CompaniesCreated)
	}
	if len(financials.years) != 3 {
		t.Errorf("Expected 3 persisted years, got %d", len(financials.years))
	}

	company, err := companies.GetByName(context.Background(), "Acme Industrial")
	if err != nil {
		t.Fatalf("Expected company to exist: %v", err)
	}
	if company.Sector != "industrials" {
		t.Errorf("Expected normalized sector, got %q", company.Sector)
	}
}

// TestIngestCompanySkipsDuplicates tests that existing fiscal years are not re-inserted
func TestIngestCompanySkipsDuplicates(t *testing.T) {
	source := &stubStatementSource{statements: []datasource.StatementData{
		testStatement("Acme Industrial", 2022, "1,200,000"),
		testStatement("Acme Industrial", 2023, "1,300,000"),
	}}
	companies := newMemoryCompanyRepo()
	financials := &memoryFinancialsRepo{}

	svc := newTestIngestionService(source, companies, financials)

	if _, err := svc.IngestCompany(context.Background(), "Acme Industrial"); err != nil {
		t.Fatalf("First ingestion failed: %v", err)
	}

	metrics, err := svc.IngestCompany(context.Background(), "Acme Industrial")
	if err != nil {
		t.Fatalf("Second ingestion failed: %v", err)
	}

	if metrics.Duplicates != 2 {
		t.Errorf("Expected 2 duplicates, got %d", metrics.Duplicates)
	}
	if metrics.SuccessfulYears != 0 {
		t.Errorf("Expected 0 new years, got %d", metrics.SuccessfulYears)
	}
	if len(financials.years) != 2 {
		t.Errorf("Expected 2 persisted years after both runs, got %d", len(financials.years))
	}
}

// TestIngestCompanyRejectsInvalidYears tests that broken statements are counted, not persisted
func TestIngestCompanyRejectsInvalidYears(t *testing.T) {
	bad := testStatement("Acme Industrial", 2021, "not-a-number")
	source := &stubStatementSource{statements: []datasource.StatementData{
		bad,
		testStatement("Acme Industrial", 2022, "1,200,000"),
	}}
	companies := newMemoryCompanyRepo()
	financials := &memoryFinancialsRepo{}

	svc := newTestIngestionService(source, companies, financials)

	metrics, err := svc.IngestCompany(context.Background(), "Acme Industrial")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if metrics.ValidationErrors != 1 {
		t.Errorf("Expected 1 validation error, got %d", metrics.ValidationErrors)
	}
	if metrics.SuccessfulYears != 1 {
		t.Errorf("Expected 1 year ingested, got %d", metrics.SuccessfulYears)
	}
}

// TestIngestCompanyGroupsByCompany tests multi-company ingestion in one pass
func TestIngestCompanyGroupsByCompany(t *testing.T) {
	source := &stubStatementSource{statements: []datasource.StatementData{
		testStatement("Acme Industrial", 2022, "1,200,000"),
		testStatement("Borealis Retail", 2022, "900,000"),
		testStatement("Acme Industrial", 2023, "1,300,000"),
	}}
	companies := newMemoryCompanyRepo()
	financials := &memoryFinancialsRepo{}

	svc := newTestIngestionService(source, companies, financials)

	metrics, err := svc.IngestCompany(context.Background(), "")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if metrics.CompaniesCreated != 2 {
		t.Errorf("Expected 2 companies created, got %d", metrics.CompaniesCreated)
	}
	if metrics.SuccessfulYears != 3 {
		t.Errorf("Expected 3 years ingested, got %d", metrics.SuccessfulYears)
	}
}

package repository

import (
	"testing"
)

const skipIntegrationMsg = "Integration test - requires database setup"

// TestCompanyRepositoryCreate tests company creation
func TestCompanyRepositoryCreate(t *testing.T) {
	// db := database.SetupTestDB(t)
	// defer database.TeardownTestDB(t, db)

	// repos, err := NewRepositories(db)
	// if err != nil {
	// 	t.Fatalf("failed to create repositories: %v", err)
	// }

	// company := &models.Company{
	// 	ID:       uuid.New(),
	// 	Name:     "Meridian Logistics",
	// 	Sector:   "industrials",
	// 	Currency: "EUR",
	// 	Active:   true,
	// }

	// ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	// defer cancel()

	// err = repos.Company.Create(ctx, company)
	// if err != nil {
	// 	t.Fatalf("failed to create company: %v", err)
	// }

	// retrieved, err := repos.Company.GetByID(ctx, company.ID)
	// if err != nil {
	// 	t.Fatalf("failed to retrieve company: %v", err)
	// }

	// if retrieved.ID != company.ID {
	// 	t.Errorf("expected company ID %v, got %v", company.ID, retrieved.ID)
	// }
	t.Skip(skipIntegrationMsg)
}

// TestFinancialsRepositoryBatch tests batch statement inserts
func TestFinancialsRepositoryBatch(t *testing.T) {
	// db := database.SetupTestDB(t)
	// defer database.TeardownTestDB(t, db)

	// repos, err := NewRepositories(db)
	// if err != nil {
	// 	t.Fatalf("failed to create repositories: %v", err)
	// }

	// ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	// defer cancel()

	// companyID := uuid.New()
	// years := make([]*models.HistoricalYear, 5)
	// for i := 0; i < 5; i++ {
	// 	years[i] = &models.HistoricalYear{
	// 		ID:         uuid.New(),
	// 		CompanyID:  companyID,
	// 		FiscalYear: 2020 + i,
	// 		Revenue:    100_000_000 * (1 + 0.04*float64(i)),
	// 		COGS:       55_000_000,
	// 		Opex:       20_000_000,
	// 	}
	// }

	// err = repos.Financials.InsertBatch(ctx, years)
	// if err != nil {
	// 	t.Fatalf("failed to batch insert financials: %v", err)
	// }

	// retrieved, err := repos.Financials.GetByCompanyID(ctx, companyID)
	// if err != nil {
	// 	t.Fatalf("failed to retrieve financials: %v", err)
	// }

	// if len(retrieved) != 5 {
	// 	t.Errorf("expected 5 fiscal years, got %d", len(retrieved))
	// }
	t.Skip(skipIntegrationMsg)
}

// TestAnalysisRunRepositoryDeduplication tests parameter-hash lookups
func TestAnalysisRunRepositoryDeduplication(t *testing.T) {
	// db := database.SetupTestDB(t)
	// defer database.TeardownTestDB(t, db)

	// repos, err := NewRepositories(db)
	// if err != nil {
	// 	t.Fatalf("failed to create repositories: %v", err)
	// }

	// ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	// defer cancel()

	// companyID := uuid.New()
	// run := &models.AnalysisRun{
	// 	ID:              uuid.New(),
	// 	CompanyID:       companyID,
	// 	ParameterHash:   "deadbeef",
	// 	Parameters:      []byte(`{}`),
	// 	ResilienceScore: 72.5,
	// 	MinDSCR:         1.31,
	// 	MaxLeverage:     3.2,
	// 	Scenarios:       []byte(`[]`),
	// }

	// err = repos.AnalysisRun.Create(ctx, run)
	// if err != nil {
	// 	t.Fatalf("failed to create analysis run: %v", err)
	// }

	// cached, err := repos.AnalysisRun.GetByParameterHash(ctx, companyID, "deadbeef")
	// if err != nil {
	// 	t.Fatalf("failed to look up run by hash: %v", err)
	// }

	// if cached.ID != run.ID {
	// 	t.Errorf("expected run ID %v, got %v", run.ID, cached.ID)
	// }
	t.Skip(skipIntegrationMsg)
}

package repository

import (
	"fmt"

	"github.com/yourusername/creditdesk/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Company     CompanyRepository
	Financials  FinancialsRepository
	AnalysisRun AnalysisRunRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Company:     NewPostgresCompanyRepository(db),
		Financials:  NewPostgresFinancialsRepository(db),
		AnalysisRun: NewPostgresAnalysisRunRepository(db),
	}, nil
}

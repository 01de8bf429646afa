package service

import (
	"fmt"
	"log"
	"time"

	"github.com/yourusername/creditdesk/internal/models"
)

// StatementValidator validates normalized statement data before persistence
type StatementValidator struct {
	logger *log.Logger
}

// NewStatementValidator creates a new statement validator
func NewStatementValidator(logger *log.Logger) *StatementValidator {
	return &StatementValidator{logger: logger}
}

// ValidateYear validates a single fiscal year for required fields and constraints
func (v *StatementValidator) ValidateYear(year *models.HistoricalYear) []string {
	var errors []string

	currentYear := time.Now().Year()
	if year.FiscalYear < 1900 || year.FiscalYear > currentYear+1 {
		errors = append(errors, fmt.Sprintf("fiscal_year out of range (1900-%d), got %d", currentYear+1, year.FiscalYear))
	}

	if year.Revenue <= 0 {
		errors = append(errors, fmt.Sprintf("revenue must be positive, got %.2f", year.Revenue))
	}

	if year.COGS < 0 {
		errors = append(errors, "cogs cannot be negative")
	}

	if year.Opex < 0 {
		errors = append(errors, "opex cannot be negative")
	}

	if year.Depreciation < 0 {
		errors = append(errors, "depreciation cannot be negative")
	}

	if year.InterestExpense < 0 {
		errors = append(errors, "interest_expense cannot be negative")
	}

	if year.TotalDebt < 0 {
		errors = append(errors, "total_debt cannot be negative")
	}

	if year.Cash < 0 {
		errors = append(errors, "cash cannot be negative")
	}

	// Sanity check: cost base wildly above revenue usually means a
	// unit mismatch in the source extract
	if year.Revenue > 0 && year.COGS+year.Opex > 10*year.Revenue {
		errors = append(errors, fmt.Sprintf("cost base %.2f implausible against revenue %.2f", year.COGS+year.Opex, year.Revenue))
	}

	return errors
}

// ValidateSeries validates a multi-year series for continuity and duplicates
func (v *StatementValidator) ValidateSeries(years []*models.HistoricalYear) []string {
	var errors []string

	if len(years) == 0 {
		return []string{"no fiscal years provided"}
	}

	seen := make(map[int]bool, len(years))
	minYear, maxYear := years[0].FiscalYear, years[0].FiscalYear
	for _, y := range years {
		if seen[y.FiscalYear] {
			errors = append(errors, fmt.Sprintf("duplicate fiscal year %d", y.FiscalYear))
		}
		seen[y.FiscalYear] = true

		if y.FiscalYear < minYear {
			minYear = y.FiscalYear
		}
		if y.FiscalYear > maxYear {
			maxYear = y.FiscalYear
		}
	}

	for fy := minYear; fy <= maxYear; fy++ {
		if !seen[fy] {
			errors = append(errors, fmt.Sprintf("missing fiscal year %d in series %d-%d", fy, minYear, maxYear))
		}
	}

	return errors
}

// ValidateCompany validates company metadata
func (v *StatementValidator) ValidateCompany(company *models.Company) []string {
	var errors []string

	if company.Name == "" {
		errors = append(errors, "company name is required")
	}

	if len(company.Name) > 200 {
		errors = append(errors, "company name exceeds 200 characters")
	}

	if len(company.Currency) != 3 {
		errors = append(errors, fmt.Sprintf("currency must be a 3-letter ISO code, got %q", company.Currency))
	}

	return errors
}

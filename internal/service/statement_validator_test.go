package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/yourusername/creditdesk/internal/models"
)

func validYear(fiscalYear int) *models.HistoricalYear {
	return &models.HistoricalYear{
		ID:              uuid.New(),
		CompanyID:       uuid.New(),
		FiscalYear:      fiscalYear,
		Revenue:         1200000,
		COGS:            480000,
		Opex:            360000,
		Depreciation:    60000,
		InterestExpense: 24000,
		Tax:             55000,
		NetIncome:       221000,
		TotalDebt:       400000,
		Cash:            120000,
	}
}

// TestValidateYearValid tests validation of a correct fiscal year
func TestValidateYearValid(t *testing.T) {
	validator := NewStatementValidator(nil)

	errors := validator.ValidateYear(validYear(2023))
	if len(errors) > 0 {
		t.Errorf("Expected no validation errors, got: %v", errors)
	}
}

// TestValidateYearInvalid tests rejection of broken fiscal years
func TestValidateYearInvalid(t *testing.T) {
	validator := NewStatementValidator(nil)

	tests := []struct {
		name   string
		mutate func(*models.HistoricalYear)
	}{
		{"Zero revenue", func(y *models.HistoricalYear) { y.Revenue = 0 }},
		{"Negative revenue", func(y *models.HistoricalYear) { y.Revenue = -100 }},
		{"Negative COGS", func(y *models.HistoricalYear) { y.COGS = -1 }},
		{"Negative interest", func(y *models.HistoricalYear) { y.InterestExpense = -500 }},
		{"Negative debt", func(y *models.HistoricalYear) { y.TotalDebt = -1 }},
		{"Negative cash", func(y *models.HistoricalYear) { y.Cash = -1 }},
		{"Ancient fiscal year", func(y *models.HistoricalYear) { y.FiscalYear = 1850 }},
		{"Far future fiscal year", func(y *models.HistoricalYear) { y.FiscalYear = 2200 }},
		{"Implausible cost base", func(y *models.HistoricalYear) { y.COGS = y.Revenue * 20 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year := validYear(2023)
			tt.mutate(year)
			if errors := validator.ValidateYear(year); len(errors) == 0 {
				t.Error("Expected validation errors, got none")
			}
		})
	}
}

// TestValidateSeries tests multi-year series checks
func TestValidateSeries(t *testing.T) {
	validator := NewStatementValidator(nil)

	t.Run("Contiguous series", func(t *testing.T) {
		years := []*models.HistoricalYear{validYear(2020), validYear(2021), validYear(2022)}
		if errors := validator.ValidateSeries(years); len(errors) > 0 {
			t.Errorf("Expected no errors, got: %v", errors)
		}
	})

	t.Run("Gap in series", func(t *testing.T) {
		years := []*models.HistoricalYear{validYear(2020), validYear(2022)}
		if errors := validator.ValidateSeries(years); len(errors) == 0 {
			t.Error("Expected gap error, got none")
		}
	})

	t.Run("Duplicate year", func(t *testing.T) {
		years := []*models.HistoricalYear{validYear(2021), validYear(2021)}
		if errors := validator.ValidateSeries(years); len(errors) == 0 {
			t.Error("Expected duplicate error, got none")
		}
	})

	t.Run("Empty series", func(t *testing.T) {
		if errors := validator.ValidateSeries(nil); len(errors) == 0 {
			t.Error("Expected error for empty series, got none")
		}
	})
}

// TestValidateCompany tests company metadata checks
func TestValidateCompany(t *testing.T) {
	validator := NewStatementValidator(nil)

	t.Run("Valid company", func(t *testing.T) {
		company := &models.Company{Name: "Acme Industrial", Sector: "industrials", Currency: "USD"}
		if errors := validator.ValidateCompany(company); len(errors) > 0 {
			t.Errorf("Expected no errors, got: %v", errors)
		}
	})

	t.Run("Missing name", func(t *testing.T) {
		company := &models.Company{Currency: "USD"}
		if errors := validator.ValidateCompany(company); len(errors) == 0 {
			t.Error("Expected error for missing name, got none")
		}
	})

	t.Run("Bad currency code", func(t *testing.T) {
		company := &models.Company{Name: "Acme", Currency: "DOLLARS"}
		if errors := validator.ValidateCompany(company); len(errors) == 0 {
			t.Error("Expected error for bad currency, got none")
		}
	})
}

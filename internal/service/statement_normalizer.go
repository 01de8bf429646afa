package service

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yourusername/creditdesk/internal/datasource"
	"github.com/yourusername/creditdesk/internal/models"
)

// StatementNormalizer converts raw provider statements to the internal
// historical-year model
type StatementNormalizer struct {
	sectorNameMap map[string]string // Maps provider sector names to canonical slugs
	logger        *log.Logger
}

// NewStatementNormalizer creates a new statement normalizer
func NewStatementNormalizer(logger *log.Logger) *StatementNormalizer {
	return &StatementNormalizer{
		sectorNameMap: buildSectorNameMap(),
		logger:        logger,
	}
}

// NormalizeStatement converts StatementData from any source to the internal HistoricalYear model
func (n *StatementNormalizer) NormalizeStatement(stmt *datasource.StatementData, companyID uuid.UUID) (*models.HistoricalYear, error) {
	if stmt == nil {
		return nil, fmt.Errorf("source statement is nil")
	}

	year := &models.HistoricalYear{
		ID:         uuid.New(),
		CompanyID:  companyID,
		FiscalYear: stmt.FiscalYear,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	fields := []struct {
		name string
		raw  string
		dest *float64
	}{
		{"revenue", stmt.Revenue, &year.Revenue},
		{"cogs", stmt.COGS, &year.COGS},
		{"opex", stmt.Opex, &year.Opex},
		{"depreciation", stmt.Depreciation, &year.Depreciation},
		{"interest_expense", stmt.InterestExpense, &year.InterestExpense},
		{"tax", stmt.Tax, &year.Tax},
		{"net_income", stmt.NetIncome, &year.NetIncome},
		{"capex", stmt.Capex, &year.Capex},
		{"ppe", stmt.PPE, &year.PPE},
		{"cash", stmt.Cash, &year.Cash},
		{"total_debt", stmt.TotalDebt, &year.TotalDebt},
		{"receivables", stmt.Receivables, &year.Receivables},
		{"inventory", stmt.Inventory, &year.Inventory},
		{"payables", stmt.Payables, &year.Payables},
	}

	for _, f := range fields {
		amount, err := n.NormalizeAmount(f.raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s %q for fiscal year %d: %w", f.name, f.raw, stmt.FiscalYear, err)
		}
		*f.dest = amount
	}

	return year, nil
}

// NormalizeCompany builds a Company model from provider statement metadata
func (n *StatementNormalizer) NormalizeCompany(stmt *datasource.StatementData) (*models.Company, error) {
	if stmt == nil {
		return nil, fmt.Errorf("source statement is nil")
	}

	name := sanitizeCompanyName(stmt.CompanyName)
	if name == "" {
		return nil, models.ErrCompanyNameRequired
	}

	return &models.Company{
		ID:        uuid.New(),
		Name:      name,
		Sector:    n.NormalizeSector(stmt.Sector),
		Currency:  normalizeCurrency(stmt.Currency),
		Active:    true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}, nil
}

// NormalizeAmount parses a provider amount string into a float. Providers
// send amounts with thousands separators, currency symbols, and
// accounting-style parentheses for negatives.
func (n *StatementNormalizer) NormalizeAmount(raw string) (float64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, nil
	}

	negative := false
	if strings.HasPrefix(trimmed, "(") && strings.HasSuffix(trimmed, ")") {
		negative = true
		trimmed = trimmed[1 : len(trimmed)-1]
	}

	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ',', '$', '£', '€', ' ':
			return -1
		}
		return r
	}, trimmed)

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("unparseable amount: %w", err)
	}

	if negative {
		d = d.Neg()
	}

	value, _ := d.Float64()
	return value, nil
}

// NormalizeSector converts provider-specific sector names to canonical slugs
func (n *StatementNormalizer) NormalizeSector(sector string) string {
	if sector == "" {
		return ""
	}

	// Try exact match first
	if canonical, ok := n.sectorNameMap[strings.ToUpper(strings.TrimSpace(sector))]; ok {
		return canonical
	}

	// Fall back to slugified form
	slug := strings.ToLower(strings.TrimSpace(sector))
	slug = strings.ReplaceAll(slug, " ", "_")
	slug = strings.ReplaceAll(slug, "-", "_")
	return slug
}

// sanitizeCompanyName removes extra whitespace from names
func sanitizeCompanyName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// normalizeCurrency uppercases ISO currency codes, defaulting to USD
func normalizeCurrency(currency string) string {
	trimmed := strings.ToUpper(strings.TrimSpace(currency))
	if trimmed == "" {
		return "USD"
	}
	return trimmed
}

// buildSectorNameMap returns mapping of sector name variations to canonical slugs
func buildSectorNameMap() map[string]string {
	return map[string]string{
		"TECHNOLOGY":             "technology",
		"TECH":                   "technology",
		"INFORMATION TECHNOLOGY": "technology",
		"SOFTWARE":               "technology",
		"HEALTHCARE":             "healthcare",
		"HEALTH CARE":            "healthcare",
		"PHARMA":                 "healthcare",
		"PHARMACEUTICALS":        "healthcare",
		"FINANCIALS":             "financials",
		"FINANCIAL SERVICES":     "financials",
		"BANKING":                "financials",
		"INDUSTRIALS":            "industrials",
		"INDUSTRIAL":             "industrials",
		"MANUFACTURING":          "industrials",
		"CONSUMER STAPLES":       "consumer_staples",
		"STAPLES":                "consumer_staples",
		"FOOD & BEVERAGE":        "consumer_staples",
		"CONSUMER DISCRETIONARY": "consumer_discretionary",
		"RETAIL":                 "consumer_discretionary",
		"CONSUMER CYCLICAL":      "consumer_discretionary",
		"ENERGY":                 "energy",
		"OIL & GAS":              "energy",
		"UTILITIES":              "utilities",
		"UTILITY":                "utilities",
		"MATERIALS":              "materials",
		"BASIC MATERIALS":        "materials",
		"CHEMICALS":              "materials",
		"REAL ESTATE":            "real_estate",
		"PROPERTY":               "real_estate",
		"COMMUNICATION SERVICES": "communication_services",
		"TELECOM":                "communication_services",
		"TELECOMMUNICATIONS":     "communication_services",
		"MEDIA":                  "communication_services",
	}
}

package datasource

import (
	"context"
	"errors"
	"time"
)

// ReferenceSource defines the interface for fetching market reference
// data used in cost-of-capital estimation
type ReferenceSource interface {
	// FetchReference retrieves current market reference rates
	FetchReference(ctx context.Context) (*MarketReference, error)

	// SectorBeta retrieves the levered equity beta estimate for a sector
	SectorBeta(ctx context.Context, sector string) (float64, error)

	// Name returns the name of the data source
	Name() string

	// IsEnabled returns whether this data source is currently enabled
	IsEnabled() bool
}

// StatementSource defines the interface for fetching historical
// financial statements from external providers or files
type StatementSource interface {
	// FetchStatements retrieves raw statement records for a company
	FetchStatements(ctx context.Context, companyName string) ([]StatementData, error)

	// Name returns the name of the data source
	Name() string
}

// MarketReference represents market-wide reference rates from any source
type MarketReference struct {
	RiskFreeRate      float64            `json:"risk_free_rate"`      // 10y government yield, fraction
	EquityRiskPremium float64            `json:"equity_risk_premium"` // market premium over risk-free, fraction
	SectorBetas       map[string]float64 `json:"sector_betas"`        // levered beta by sector slug
	AsOf              time.Time          `json:"as_of"`               // when the rates were published
	Source            string             `json:"source"`              // provider name
}

// StatementData represents one raw fiscal year as reported by a
// provider. Monetary amounts arrive as strings in provider formats and
// are parsed during normalization.
type StatementData struct {
	CompanyName     string `json:"company_name"`
	Sector          string `json:"sector"`
	Currency        string `json:"currency"`
	FiscalYear      int    `json:"fiscal_year"`
	Revenue         string `json:"revenue"`
	COGS            string `json:"cogs"`
	Opex            string `json:"opex"`
	Depreciation    string `json:"depreciation"`
	InterestExpense string `json:"interest_expense"`
	Tax             string `json:"tax"`
	NetIncome       string `json:"net_income"`
	Capex           string `json:"capex"`
	PPE             string `json:"ppe"`
	Cash            string `json:"cash"`
	TotalDebt       string `json:"total_debt"`
	Receivables     string `json:"receivables"`
	Inventory       string `json:"inventory"`
	Payables        string `json:"payables"`
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeUnknown              = "unknown"
)

// Error constructors
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
	ErrNetworkError         = errors.New("network error")
	ErrServerError          = errors.New("server error")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

package models

import "errors"

// Custom errors
var (
	ErrCompanyNameRequired = errors.New("company name is required")
	ErrNotFound            = errors.New("record not found")
	ErrDuplicateKey        = errors.New("duplicate key violation")
	ErrInvalidID           = errors.New("invalid ID format")
	ErrInvalidTranche      = errors.New("invalid debt tranche terms")
	ErrInsufficientData    = errors.New("insufficient historical data")
	ErrNonFiniteResult     = errors.New("non-finite valuation result")
	ErrWACCBelowGrowth     = errors.New("wacc must exceed terminal growth rate")
	ErrZeroCapitalBase     = errors.New("total capital is zero")
	ErrNonPositiveEBITDA   = errors.New("ebitda must be positive for debt sizing")
)

package service

import (
	"fmt"
	"sync"
	"time"
)

// IngestionMetrics tracks statistics about statement ingestion
type IngestionMetrics struct {
	mu               sync.RWMutex
	StartTime        time.Time
	Duration         time.Duration
	TotalStatements  int
	SuccessfulYears  int
	CompaniesCreated int
	Duplicates       int
	ValidationErrors int
	Errors           int
}

// NewIngestionMetrics creates a new metrics tracker
func NewIngestionMetrics() *IngestionMetrics {
	return &IngestionMetrics{
		StartTime: time.Now(),
	}
}

// Reset resets all metrics
func (m *IngestionMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StartTime = time.Now()
	m.Duration = 0
	m.TotalStatements = 0
	m.SuccessfulYears = 0
	m.CompaniesCreated = 0
	m.Duplicates = 0
	m.ValidationErrors = 0
	m.Errors = 0
}

// RecordYear increments successful year count
func (m *IngestionMetrics) RecordYear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SuccessfulYears++
}

// RecordCompany increments created company count
func (m *IngestionMetrics) RecordCompany() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CompaniesCreated++
}

// RecordDuplicate increments duplicate count
func (m *IngestionMetrics) RecordDuplicate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Duplicates++
}

// RecordError increments error count
func (m *IngestionMetrics) RecordError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors++
}

// RecordValidationError increments validation error count
func (m *IngestionMetrics) RecordValidationError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ValidationErrors++
}

// String returns a formatted string representation of metrics
func (m *IngestionMetrics) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	successRate := float64(0)
	if m.TotalStatements > 0 {
		successRate = float64(m.SuccessfulYears) / float64(m.TotalStatements) * 100
	}

	return fmt.Sprintf(
		"IngestionMetrics{Statements=%d, Years=%d (%.1f%%), Companies=%d, Duplicates=%d, ValidationErrors=%d, Errors=%d, Duration=%v}",
		m.TotalStatements,
		m.SuccessfulYears,
		successRate,
		m.CompaniesCreated,
		m.Duplicates,
		m.ValidationErrors,
		m.Errors,
		m.Duration,
	)
}

package datasource

import (
	"context"
	"strings"
	"time"
)

// StaticReferenceSource implements ReferenceSource with fixed rates
// from configuration. Used in development and as the fallback when the
// HTTP provider is unreachable.
type StaticReferenceSource struct {
	riskFreeRate      float64
	equityRiskPremium float64
	sectorBetas       map[string]float64
}

// NewStaticReferenceSource creates a reference source with fixed rates
func NewStaticReferenceSource(riskFreeRate, equityRiskPremium float64) *StaticReferenceSource {
	return &StaticReferenceSource{
		riskFreeRate:      riskFreeRate,
		equityRiskPremium: equityRiskPremium,
		sectorBetas:       defaultSectorBetas(),
	}
}

// Name returns the data source name
func (s *StaticReferenceSource) Name() string {
	return "static"
}

// IsEnabled returns whether this source is enabled
func (s *StaticReferenceSource) IsEnabled() bool {
	return true
}

// FetchReference returns the configured static rates
func (s *StaticReferenceSource) FetchReference(ctx context.Context) (*MarketReference, error) {
	_ = ctx
	return &MarketReference{
		RiskFreeRate:      s.riskFreeRate,
		EquityRiskPremium: s.equityRiskPremium,
		SectorBetas:       s.sectorBetas,
		AsOf:              time.Now().UTC(),
		Source:            "static",
	}, nil
}

// SectorBeta returns the static beta for a sector, defaulting to the
// market beta when the sector is unknown.
func (s *StaticReferenceSource) SectorBeta(ctx context.Context, sector string) (float64, error) {
	_ = ctx
	slug := strings.ToLower(strings.TrimSpace(sector))
	if beta, ok := s.sectorBetas[slug]; ok {
		return beta, nil
	}
	return 1.0, nil
}

// defaultSectorBetas returns levered beta estimates by sector. Values
// follow published sector averages rounded to two decimals.
func defaultSectorBetas() map[string]float64 {
	return map[string]float64{
		"consumer_staples":       0.65,
		"utilities":              0.70,
		"healthcare":             0.85,
		"telecommunications":     0.90,
		"industrials":            1.05,
		"materials":              1.10,
		"energy":                 1.15,
		"consumer_discretionary": 1.20,
		"financials":             1.25,
		"technology":             1.30,
		"real_estate":            0.95,
	}
}

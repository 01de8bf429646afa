package datasource

import (
	"context"
	"io"
	"log"
)

// FallbackReferenceSource tries a primary source and falls back to a
// secondary on any fetch error. The valuation path degrades to static
// rates instead of failing when the provider is down.
type FallbackReferenceSource struct {
	primary  ReferenceSource
	fallback ReferenceSource
	logger   *log.Logger
}

// NewFallbackReferenceSource wraps primary with a fallback source
func NewFallbackReferenceSource(primary, fallback ReferenceSource, logger *log.Logger) *FallbackReferenceSource {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &FallbackReferenceSource{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Name returns the primary source name
func (f *FallbackReferenceSource) Name() string {
	return f.primary.Name()
}

// IsEnabled returns whether the primary source is enabled
func (f *FallbackReferenceSource) IsEnabled() bool {
	return f.primary.IsEnabled()
}

// FetchReference fetches from the primary and falls back on error
func (f *FallbackReferenceSource) FetchReference(ctx context.Context) (*MarketReference, error) {
	ref, err := f.primary.FetchReference(ctx)
	if err == nil {
		return ref, nil
	}

	f.logger.Printf("Primary reference source %s failed (%v), using fallback", f.primary.Name(), err)
	return f.fallback.FetchReference(ctx)
}

// SectorBeta fetches from the primary and falls back on error
func (f *FallbackReferenceSource) SectorBeta(ctx context.Context, sector string) (float64, error) {
	beta, err := f.primary.SectorBeta(ctx, sector)
	if err == nil {
		return beta, nil
	}

	f.logger.Printf("Primary reference source %s failed (%v), using fallback", f.primary.Name(), err)
	return f.fallback.SectorBeta(ctx, sector)
}

package datasource

import (
	"fmt"
	"log"
	"time"

	"github.com/yourusername/creditdesk/internal/config"
)

// SourceType represents the type of reference data source
type SourceType string

const (
	// StaticSourceType serves fixed rates from configuration
	StaticSourceType SourceType = "static"
	// HTTPSourceType fetches rates from a reference data API
	HTTPSourceType SourceType = "http"
)

// Factory creates ReferenceSource implementations based on configuration
type Factory struct {
	logger *log.Logger
	config *config.Config
}

// NewFactory creates a new data source factory
func NewFactory(cfg *config.Config, logger *log.Logger) *Factory {
	return &Factory{
		logger: logger,
		config: cfg,
	}
}

// NewReferenceSource creates the configured market reference source
func (f *Factory) NewReferenceSource() (ReferenceSource, error) {
	dsCfg := f.config.Datasource

	switch SourceType(dsCfg.Provider) {
	case StaticSourceType:
		return NewStaticReferenceSource(dsCfg.FallbackRiskFree, dsCfg.FallbackERP), nil

	case HTTPSourceType:
		if dsCfg.BaseURL == "" {
			return nil, fmt.Errorf("reference data base URL is required for http provider")
		}
		httpCfg := DefaultReferenceClientConfig()
		httpCfg.Timeout = time.Duration(dsCfg.TimeoutSeconds) * time.Second
		httpCfg.MaxRetries = dsCfg.RetryAttempts
		httpCfg.RateLimit = dsCfg.RateLimitPerSec

		client := NewReferenceHTTPClient(httpCfg, dsCfg.APIKey, f.logger)
		ttl := time.Duration(dsCfg.CacheTTLSeconds) * time.Second
		return NewMarketReferenceClient(client, dsCfg.BaseURL, ttl, true, f.logger), nil

	default:
		return nil, fmt.Errorf("unknown reference data provider: %s", dsCfg.Provider)
	}
}

// NewReferenceSourceWithFallback wraps the configured source so that
// fetch failures fall back to static configuration rates.
func (f *Factory) NewReferenceSourceWithFallback() (ReferenceSource, error) {
	primary, err := f.NewReferenceSource()
	if err != nil {
		return nil, err
	}
	if primary.Name() == string(StaticSourceType) {
		return primary, nil
	}

	fallback := NewStaticReferenceSource(
		f.config.Datasource.FallbackRiskFree,
		f.config.Datasource.FallbackERP,
	)
	return NewFallbackReferenceSource(primary, fallback, f.logger), nil
}

// NewStatementSource creates a statement source reading from a file path
func (f *Factory) NewStatementSource(path string) (StatementSource, error) {
	if path == "" {
		return nil, fmt.Errorf("statements file path is required")
	}
	return NewFileStatementSource(path), nil
}

package datasource

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	dataSourceDisabledMsg = "data source is disabled"
	referenceCacheKey     = "market_reference"
)

// MarketReferenceClient implements ReferenceSource against an HTTP
// reference-rates API. Responses are cached so repeated valuations
// within the TTL reuse one fetch.
type MarketReferenceClient struct {
	httpClient *ReferenceHTTPClient
	baseURL    string
	enabled    bool
	cache      *cache.Cache
	logger     *log.Logger
}

// referenceResponse is the provider's wire format for reference rates
type referenceResponse struct {
	RiskFreeRate      float64            `json:"riskFreeRate"`
	EquityRiskPremium float64            `json:"equityRiskPremium"`
	SectorBetas       map[string]float64 `json:"sectorBetas"`
	AsOf              string             `json:"asOf"`
}

// NewMarketReferenceClient creates a new HTTP reference data client.
// Credentials live on the transport, not here.
func NewMarketReferenceClient(httpClient *ReferenceHTTPClient, baseURL string, cacheTTL time.Duration, enabled bool, logger *log.Logger) *MarketReferenceClient {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &MarketReferenceClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		enabled:    enabled,
		cache:      cache.New(cacheTTL, 2*cacheTTL),
		logger:     logger,
	}
}

// Name returns the data source name
func (c *MarketReferenceClient) Name() string {
	return "http"
}

// IsEnabled returns whether this source is enabled
func (c *MarketReferenceClient) IsEnabled() bool {
	return c.enabled
}

// FetchReference retrieves current market reference rates
func (c *MarketReferenceClient) FetchReference(ctx context.Context) (*MarketReference, error) {
	if !c.enabled {
		return nil, NewDataSourceError("http", ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}

	if cached, found := c.cache.Get(referenceCacheKey); found {
		return cached.(*MarketReference), nil
	}

	var wire referenceResponse
	if err := c.httpClient.GetJSON(ctx, c.baseURL+"/reference/rates", c.Name(), &wire); err != nil {
		return nil, err
	}

	ref, err := c.convertReference(&wire)
	if err != nil {
		return nil, err
	}

	c.cache.Set(referenceCacheKey, ref, cache.DefaultExpiration)
	return ref, nil
}

// SectorBeta retrieves the levered beta estimate for a sector,
// defaulting to the market beta when the sector is unknown.
func (c *MarketReferenceClient) SectorBeta(ctx context.Context, sector string) (float64, error) {
	ref, err := c.FetchReference(ctx)
	if err != nil {
		return 0, err
	}

	slug := strings.ToLower(strings.TrimSpace(sector))
	if beta, ok := ref.SectorBetas[slug]; ok {
		return beta, nil
	}

	c.logger.Printf("No beta for sector %q, using market beta", sector)
	return 1.0, nil
}

func (c *MarketReferenceClient) convertReference(wire *referenceResponse) (*MarketReference, error) {
	if wire.RiskFreeRate <= 0 || wire.RiskFreeRate > 1 {
		return nil, NewDataSourceError("http", ErrCodeInvalidData,
			fmt.Sprintf("risk-free rate %.4f out of range", wire.RiskFreeRate), nil)
	}
	if wire.EquityRiskPremium <= 0 || wire.EquityRiskPremium > 1 {
		return nil, NewDataSourceError("http", ErrCodeInvalidData,
			fmt.Sprintf("equity risk premium %.4f out of range", wire.EquityRiskPremium), nil)
	}

	asOf, err := time.Parse(time.RFC3339, wire.AsOf)
	if err != nil {
		asOf = time.Now().UTC()
	}

	betas := make(map[string]float64, len(wire.SectorBetas))
	for sector, beta := range wire.SectorBetas {
		if beta <= 0 {
			continue
		}
		betas[strings.ToLower(sector)] = beta
	}

	return &MarketReference{
		RiskFreeRate:      wire.RiskFreeRate,
		EquityRiskPremium: wire.EquityRiskPremium,
		SectorBetas:       betas,
		AsOf:              asOf,
		Source:            "http",
	}, nil
}

package service

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/yourusername/creditdesk/internal/engine"
	"github.com/yourusername/creditdesk/internal/metrics"
	"github.com/yourusername/creditdesk/internal/models"
)

// AnalysisCache memoizes analysis results by company and parameter
// hash, so repeated runs with unchanged assumptions skip the full
// projection and scenario grid.
type AnalysisCache struct {
	cache  *cache.Cache
	logger *log.Logger
}

// NewAnalysisCache creates a result cache with the given TTL
func NewAnalysisCache(ttl time.Duration, logger *log.Logger) *AnalysisCache {
	return &AnalysisCache{
		cache:  cache.New(ttl, 2*ttl),
		logger: logger,
	}
}

// Get returns a cached result for the company and parameter set, if any
func (c *AnalysisCache) Get(companyID uuid.UUID, params engine.ModelParameters) (*engine.Result, bool) {
	key, err := cacheKey(companyID, params)
	if err != nil {
		return nil, false
	}

	if cached, found := c.cache.Get(key); found {
		metrics.RecordCacheHit()
		return cached.(*engine.Result), true
	}
	return nil, false
}

// Put stores a result under the company and parameter set
func (c *AnalysisCache) Put(companyID uuid.UUID, params engine.ModelParameters, result *engine.Result) {
	key, err := cacheKey(companyID, params)
	if err != nil {
		if c.logger != nil {
			c.logger.Printf("Failed to build cache key: %v", err)
		}
		return
	}
	c.cache.Set(key, result, cache.DefaultExpiration)
}

// Invalidate drops all cached results for a company, called after new
// statements are ingested
func (c *AnalysisCache) Invalidate(companyID uuid.UUID) {
	prefix := companyID.String() + ":"
	for key := range c.cache.Items() {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			c.cache.Delete(key)
		}
	}
}

// Flush drops every cached result
func (c *AnalysisCache) Flush() {
	c.cache.Flush()
}

// ItemCount returns the number of cached results
func (c *AnalysisCache) ItemCount() int {
	return c.cache.ItemCount()
}

func cacheKey(companyID uuid.UUID, params engine.ModelParameters) (string, error) {
	hash, err := models.HashParameters(params)
	if err != nil {
		return "", fmt.Errorf("failed to hash parameters: %w", err)
	}
	return companyID.String() + ":" + hash, nil
}

package capacity

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/Atelier_Go/internal/domain"
	"github.com/osse101/Atelier_Go/internal/event"
	"github.com/osse101/Atelier_Go/internal/logger"
)

// CacheSchemaVersion is bumped when the cached result shape changes
const CacheSchemaVersion = "1.0"

// BatchResult is one fleet-wide analysis: the summary and the per-product reports in catalog order
type BatchResult struct {
	Summary domain.CapacitySummary
	Reports []domain.CapacityReport
}

type cachedEntry struct {
	Version  string
	Batch    *BatchResult
	Report   *domain.CapacityReport
	CachedAt time.Time
}

// Cache holds recent capacity results with time-based expiration.
// Ledger mutations must call Invalidate; RegisterInvalidation wires that to the event bus.
type Cache struct {
	lru *expirable.LRU[string, *cachedEntry]
}

// NewCache creates a cache holding at most size entries for ttl each
func NewCache(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		lru: expirable.NewLRU[string, *cachedEntry](size, nil, ttl),
	}
}

// GetBatch returns the cached fleet-wide result, if any
func (c *Cache) GetBatch() (*BatchResult, bool) {
	entry, ok := c.get(cacheKeyBatch)
	if !ok || entry.Batch == nil {
		return nil, false
	}
	return entry.Batch, true
}

// SetBatch stores the fleet-wide result
func (c *Cache) SetBatch(batch *BatchResult) {
	c.lru.Add(cacheKeyBatch, &cachedEntry{Version: CacheSchemaVersion, Batch: batch, CachedAt: time.Now()})
}

// GetReport returns a cached single-product report
func (c *Cache) GetReport(productID string) (*domain.CapacityReport, bool) {
	entry, ok := c.get(cacheKeyProductPrefix + productID)
	if !ok || entry.Report == nil {
		return nil, false
	}
	return entry.Report, true
}

// SetReport stores a single-product report
func (c *Cache) SetReport(report *domain.CapacityReport) {
	c.lru.Add(cacheKeyProductPrefix+report.ProductID, &cachedEntry{Version: CacheSchemaVersion, Report: report, CachedAt: time.Now()})
}

// Invalidate drops every cached result
func (c *Cache) Invalidate() {
	c.lru.Purge()
}

// Len returns the number of live entries
func (c *Cache) Len() int {
	return c.lru.Len()
}

func (c *Cache) get(key string) (*cachedEntry, bool) {
	entry, found := c.lru.Get(key)
	if !found {
		return nil, false
	}
	if entry.Version != CacheSchemaVersion {
		c.lru.Remove(key)
		return nil, false
	}
	return entry, true
}

// RegisterInvalidation purges the cache whenever the ledger changes
func RegisterInvalidation(bus event.Bus, cache *Cache) {
	handler := func(ctx context.Context, evt event.Event) error {
		cache.Invalidate()
		logger.FromContext(ctx).Debug(LogMsgCacheInvalidated, "event", evt.Type)
		return nil
	}
	bus.Subscribe(event.ProductionCommitted, handler)
	bus.Subscribe(event.StockAdjusted, handler)
}

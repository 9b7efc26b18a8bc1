package capacity

import "time"

// ==================== Summary Defaults ====================

const (
	// DefaultTopProducibleLimit is the number of products listed as most producible
	DefaultTopProducibleLimit = 5

	// DefaultCriticalThreshold marks products at or below this capacity as critical
	DefaultCriticalThreshold = 5
)

// ==================== Batch Defaults ====================

const (
	// DefaultAnalysisConcurrency bounds the number of products scored in parallel
	DefaultAnalysisConcurrency = 8

	// DefaultCacheSize is the number of batch results kept in the cache
	DefaultCacheSize = 4

	// DefaultCacheTTL bounds how long a batch result is served without recomputation
	DefaultCacheTTL = 5 * time.Minute

	// cacheKeyBatch is the cache key of the fleet-wide batch result
	cacheKeyBatch = "batch:active"

	cacheKeyProductPrefix = "product:"
)

// ==================== Messages ====================

const (
	MsgUndefinedResourceFmt = "%s '%s' undefined"
)

// Log messages
const (
	LogMsgReportServedFromCache = "Capacity report served from cache"
	LogMsgReportBuilt           = "Capacity report built"
	LogMsgProductDegraded       = "Product analyzed in degraded mode"
	LogMsgCacheInvalidated      = "Capacity cache invalidated"
)

// Error messages
const (
	ErrMsgBuildIndexFailed    = "failed to build catalog index: %w"
	ErrMsgListProductsFailed  = "failed to list products: %w"
	ErrMsgGetProductFailed    = "failed to get product: %w"
	ErrMsgFinishedStockFailed = "failed to read finished-good stock: %w"
)

// Tracing
const (
	tracerName = "atelier/capacity"
)

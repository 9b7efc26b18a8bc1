package bootstrap

import "time"

// =============================================================================
// Catalog Seed
// =============================================================================

const (
	// DefaultCatalogSeedPath is the JSON file synced into the catalog at startup
	DefaultCatalogSeedPath = "configs/catalog.json"
)

const (
	LogMsgSyncingCatalog     = "Syncing catalog from JSON config..."
	LogMsgCatalogSynced      = "Catalog synced successfully"
	LogMsgCatalogSeedMissing = "No catalog seed found, sync skipped"

	ErrMsgFailedLoadCatalog   = "failed to load catalog seed"
	ErrMsgInvalidCatalog      = "invalid catalog seed"
	ErrMsgFailedSyncMaterial  = "failed to sync material %s '%s'"
	ErrMsgFailedSyncProduct   = "failed to sync product %s"
	ErrMsgSeedKindFmt         = "material '%s' has kind %q which is not a raw-material kind"
	ErrMsgSeedMaterialNameFmt = "material #%d has no name"
	ErrMsgSeedDuplicateFmt    = "duplicate %s '%s'"
	ErrMsgSeedNegativeFmt     = "material '%s' has a negative quantity"
	ErrMsgSeedProductIDFmt    = "product #%d has no id"
	ErrMsgSeedCategoryFmt     = "product %s has unknown category %q"
	ErrMsgSeedRecipeFmt       = "product %s must define exactly the %s recipe"
	ErrMsgSeedUnitWeightFmt   = "product %s has a negative unit weight"
)

// =============================================================================
// Logger
// =============================================================================

const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingAtelier     = "Starting Atelier"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgEngineSettings      = "Engine settings loaded"
)

// =============================================================================
// Events
// =============================================================================

const (
	LogMsgEventSystemInitialized     = "Event system initialized"
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgCacheInvalidationWired     = "Capacity cache invalidation registered"

	// DirPermission is used for the dead-letter directory
	DirPermission = 0755

	ErrMsgFailedCreateDeadLetterDir      = "failed to create dead-letter directory"
	ErrMsgFailedCreateResilientPublisher = "failed to create resilient publisher"
)

// =============================================================================
// Tracing
// =============================================================================

const (
	TracerServiceName        = "atelier"
	LogMsgTracingEnabled     = "Tracing enabled"
	LogMsgTracingDisabled    = "Tracing disabled, OTEL_EXPORTER_OTLP_ENDPOINT not set"
	ErrMsgFailedOTLPExport   = "failed to create OTLP exporter"
	ErrMsgFailedOTLPResource = "failed to build tracing resource"
)

// =============================================================================
// Shutdown
// =============================================================================

const (
	// ShutdownTimeout bounds the whole graceful shutdown sequence
	ShutdownTimeout = 15 * time.Second

	LogMsgShuttingDownServer   = "Shutting down server..."
	LogMsgServerStopped        = "Server stopped"
	LogMsgServerForcedShutdown = "Server forced to shutdown"
	LogMsgTracerShutdownFailed = "Tracer provider shutdown failed"
	LogMsgClosingDatabase      = "Closing database pool"
	LogMsgPublisherFailed      = "Resilient publisher shutdown failed"
)

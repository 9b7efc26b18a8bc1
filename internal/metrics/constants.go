package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// MetricsPath is the scrape endpoint, excluded from HTTP metrics
const MetricsPath = "/metrics"

// UnmatchedRoute labels requests no route matched
const UnmatchedRoute = "unmatched"

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Production metric names
const (
	MetricNameProductionRuns     = "production_runs_total"
	MetricNameUnitsProduced      = "production_units_produced_total"
	MetricNameProductionDuration = "production_run_duration_seconds"
	MetricNameStockAdjustments   = "stock_adjustments_total"
)

// Capacity metric names
const (
	MetricNameCapacityBatchDuration = "capacity_batch_duration_seconds"
	MetricNameCapacityProducts      = "capacity_products_analyzed"
	MetricNameCapacityCacheHits     = "capacity_cache_hits_total"
	MetricNameCapacityCacheMisses   = "capacity_cache_misses_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Production metric help text
const (
	HelpTextProductionRuns     = "Total number of production runs by outcome"
	HelpTextUnitsProduced      = "Total finished units credited by committed runs"
	HelpTextProductionDuration = "Production run latency in seconds"
	HelpTextStockAdjustments   = "Total number of manual stock corrections"
)

// Capacity metric help text
const (
	HelpTextCapacityBatchDuration = "Fleet-wide capacity analysis latency in seconds"
	HelpTextCapacityProducts      = "Number of products scored by the last capacity batch"
	HelpTextCapacityCacheHits     = "Total capacity report requests served from cache"
	HelpTextCapacityCacheMisses   = "Total capacity report requests that required analysis"
)

// ============================================================================
// Labels
// ============================================================================

const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelType    = "type"
	LabelOutcome = "outcome"
	LabelProduct = "product"
	LabelKind    = "kind"
)

// ============================================================================
// Buckets
// ============================================================================

var (
	HTTPLatencyBuckets   = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}
	EngineLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1}
)

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgMetricsRecorded     = "Metrics recorded for event"
	LogMsgEventPayloadInvalid = "Event payload could not be decoded"
)

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Production Metrics
var (
	ProductionRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameProductionRuns,
			Help: HelpTextProductionRuns,
		},
		[]string{LabelOutcome},
	)

	UnitsProduced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameUnitsProduced,
			Help: HelpTextUnitsProduced,
		},
		[]string{LabelProduct},
	)

	ProductionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameProductionDuration,
			Help:    HelpTextProductionDuration,
			Buckets: EngineLatencyBuckets,
		},
	)

	StockAdjustments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameStockAdjustments,
			Help: HelpTextStockAdjustments,
		},
		[]string{LabelKind},
	)
)

// Capacity Metrics
var (
	CapacityBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameCapacityBatchDuration,
			Help:    HelpTextCapacityBatchDuration,
			Buckets: EngineLatencyBuckets,
		},
	)

	CapacityProductsAnalyzed = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameCapacityProducts,
			Help: HelpTextCapacityProducts,
		},
	)

	CapacityCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCapacityCacheHits,
			Help: HelpTextCapacityCacheHits,
		},
	)

	CapacityCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCapacityCacheMisses,
			Help: HelpTextCapacityCacheMisses,
		},
	)
)

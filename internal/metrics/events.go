package metrics

import (
	"context"

	"github.com/osse101/Atelier_Go/internal/event"
	"github.com/osse101/Atelier_Go/internal/logger"
)

// EventMetricsCollector subscribes to ledger events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all ledger-mutating events
func (e *EventMetricsCollector) Register(bus event.Bus) {
	bus.Subscribe(event.ProductionCommitted, e.HandleEvent)
	bus.Subscribe(event.StockAdjusted, e.HandleEvent)
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.ProductionCommitted:
		payload, err := event.DecodePayload[event.ProductionCommittedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadInvalid, "type", evt.Type, "error", err)
			return nil
		}
		UnitsProduced.WithLabelValues(payload.ProductID).Add(float64(payload.Units))

	case event.StockAdjusted:
		payload, err := event.DecodePayload[event.StockAdjustedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadInvalid, "type", evt.Type, "error", err)
			return nil
		}
		StockAdjustments.WithLabelValues(payload.Kind).Inc()
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}

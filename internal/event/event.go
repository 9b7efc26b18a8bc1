package event

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata map[string]interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata,omitempty"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if e.Metadata == nil {
		return nil
	}
	return e.Metadata[key]
}

// Ledger-mutating event types. Subscribers use them to invalidate derived data.
const (
	ProductionCommitted Type = "production.committed"
	StockAdjusted       Type = "stock.adjusted"
)

// Metadata keys
const (
	MetadataKeySource    = "source"
	MetadataKeyRequestID = "request_id"
)

// ConsumedLineV1 is one debit of a committed production run
type ConsumedLineV1 struct {
	Kind     string  `json:"kind"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
}

// ProductionCommittedPayloadV1 is the typed payload for production committed events
type ProductionCommittedPayloadV1 struct {
	RunID     string           `json:"run_id"`
	ProductID string           `json:"product_id"`
	Units     int              `json:"units"`
	Consumed  []ConsumedLineV1 `json:"consumed"`
	Timestamp int64            `json:"timestamp"`
}

// StockAdjustedPayloadV1 is the typed payload for stock correction events
type StockAdjustedPayloadV1 struct {
	Kind      string  `json:"kind"`
	Name      string  `json:"name"`
	Delta     float64 `json:"delta"`
	Balance   float64 `json:"balance"`
	Reason    string  `json:"reason"`
	Timestamp int64   `json:"timestamp"`
}

// NewProductionCommittedEvent creates a new production committed event
func NewProductionCommittedEvent(runID, productID string, units int, consumed []ConsumedLineV1, source string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ProductionCommitted,
		Payload: ProductionCommittedPayloadV1{
			RunID:     runID,
			ProductID: productID,
			Units:     units,
			Consumed:  consumed,
			Timestamp: time.Now().Unix(),
		},
		Metadata: Metadata{
			MetadataKeySource: source,
		},
	}
}

// NewStockAdjustedEvent creates a new stock adjusted event
func NewStockAdjustedEvent(kind, name string, delta, balance float64, reason string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    StockAdjusted,
		Payload: StockAdjustedPayloadV1{
			Kind:      kind,
			Name:      name,
			Delta:     delta,
			Balance:   balance,
			Reason:    reason,
			Timestamp: time.Now().Unix(),
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers.
// Handlers run synchronously so invalidations are visible when Publish returns.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

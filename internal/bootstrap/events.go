package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/osse101/Atelier_Go/internal/capacity"
	"github.com/osse101/Atelier_Go/internal/config"
	"github.com/osse101/Atelier_Go/internal/event"
	"github.com/osse101/Atelier_Go/internal/metrics"
)

// EventHandlerDependencies holds the dependencies needed for event handler registration.
type EventHandlerDependencies struct {
	EventBus      event.Bus
	CapacityCache *capacity.Cache
}

// InitializeEventSystem creates the in-process event bus and the resilient
// publisher that services publish through. The dead-letter directory is
// created if needed.
func InitializeEventSystem(cfg *config.Config) (event.Bus, *event.ResilientPublisher, error) {
	bus := event.NewMemoryBus()

	if err := os.MkdirAll(filepath.Dir(cfg.EventDeadLetterPath), DirPermission); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateDeadLetterDir, err)
	}

	publisher, err := event.NewResilientPublisher(bus, cfg.EventMaxRetries, cfg.EventRetryDelay, cfg.EventDeadLetterPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateResilientPublisher, err)
	}

	slog.Info(LogMsgEventSystemInitialized,
		"max_retries", cfg.EventMaxRetries,
		"retry_delay", cfg.EventRetryDelay,
		"deadletter_path", cfg.EventDeadLetterPath)

	return bus, publisher, nil
}

// RegisterEventHandlers wires the subscribers of ledger events:
// the metrics collector and the capacity cache invalidation.
func RegisterEventHandlers(deps EventHandlerDependencies) {
	metrics.NewEventMetricsCollector().Register(deps.EventBus)
	slog.Info(LogMsgMetricsCollectorRegistered)

	if deps.CapacityCache != nil {
		capacity.RegisterInvalidation(deps.EventBus, deps.CapacityCache)
		slog.Info(LogMsgCacheInvalidationWired)
	}
}

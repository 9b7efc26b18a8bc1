package production

import (
	"github.com/osse101/Atelier_Go/internal/domain"
	"github.com/osse101/Atelier_Go/internal/event"
)

// newProductionCommittedEvent builds the event published after a committed run
func newProductionCommittedEvent(run *domain.ProductionRun) event.Event {
	consumed := make([]event.ConsumedLineV1, 0, len(run.Consumed))
	for _, c := range run.Consumed {
		consumed = append(consumed, event.ConsumedLineV1{
			Kind:     string(c.Kind),
			Name:     c.ResourceName,
			Quantity: c.QuantityDebited,
		})
	}
	return event.NewProductionCommittedEvent(run.ID, run.ProductID, run.RequestedUnits, consumed, EventSource)
}

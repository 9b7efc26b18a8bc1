package repository

import (
	"context"

	"github.com/osse101/Atelier_Go/internal/domain"
)

// Ledger defines the stock ledger contract used by the engine
type Ledger interface {
	GetAvailable(ctx context.Context, kind domain.ResourceKind, name string) (float64, error)
	GetFinishedGoodStock(ctx context.Context, productID string) (int, error)
	// FinishedGoodStock returns a snapshot of every finished-good balance keyed by product ID
	FinishedGoodStock(ctx context.Context) (map[string]int, error)
	BeginTx(ctx context.Context) (LedgerTx, error)
}

// Balance is a locked ledger balance with its optimistic version
type Balance struct {
	Quantity        float64
	Version         int64
	UnlimitedSupply bool
}

// LedgerTx defines the ledger operations available inside one atomic commit.
// Every write appends exactly one movement record.
type LedgerTx interface {
	Tx
	// GetForUpdate locks and returns a raw-material balance.
	// Returns a *domain.MissingResourceError when the resource does not exist.
	GetForUpdate(ctx context.Context, kind domain.ResourceKind, name string) (Balance, error)
	// Debit decrements a raw-material balance, clamping at zero.
	// Returns a *domain.ConcurrentModificationError when expectedVersion no longer matches.
	Debit(ctx context.Context, kind domain.ResourceKind, name string, quantity float64, expectedVersion int64, reason, runID string) (domain.MovementRecord, error)
	// Credit increments a finished-good balance
	Credit(ctx context.Context, productID string, quantity int, reason, runID string) (domain.MovementRecord, error)
	// Adjust applies a signed correction to a raw-material balance, clamping at zero
	Adjust(ctx context.Context, kind domain.ResourceKind, name string, delta float64, reason string) (domain.MovementRecord, error)
}

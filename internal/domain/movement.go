package domain

import "time"

// MovementKind classifies a ledger movement
type MovementKind string

const (
	MovementIn         MovementKind = "in"
	MovementOut        MovementKind = "out"
	MovementCorrection MovementKind = "correction"
)

// MovementRecord is an append-only ledger entry. Records are never mutated after creation.
type MovementRecord struct {
	ID            int64        `json:"id"`
	Kind          MovementKind `json:"kind"`
	ResourceKind  ResourceKind `json:"resource_kind"`
	ResourceRef   string       `json:"resource_ref"`
	QuantityDelta float64      `json:"quantity_delta"`
	BalanceBefore float64      `json:"balance_before"`
	BalanceAfter  float64      `json:"balance_after"`
	Reason        string       `json:"reason"`
	RunID         string       `json:"run_id,omitempty"`
	Timestamp     time.Time    `json:"timestamp"`
}

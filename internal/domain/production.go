package domain

// RunOutcome is the terminal state of a production run
type RunOutcome string

const (
	OutcomeRejected  RunOutcome = "rejected"
	OutcomeCommitted RunOutcome = "committed"
)

// RunState is an intermediate state of the production state machine
type RunState string

const (
	StateValidating RunState = "validating"
	StateDebiting   RunState = "debiting"
	StateCrediting  RunState = "crediting"
	StateRejected   RunState = "rejected"
	StateCommitted  RunState = "committed"
)

// ConsumedResource is one debit performed by a committed run
type ConsumedResource struct {
	Kind            ResourceKind `json:"kind"`
	ResourceName    string       `json:"resource_name"`
	QuantityDebited float64      `json:"quantity_debited"`
}

// ProductionRun is the intent and outcome of converting requirements into finished goods
type ProductionRun struct {
	ID              string             `json:"id"`
	ProductID       string             `json:"product_id"`
	RequestedUnits  int                `json:"requested_units"`
	Consumed        []ConsumedResource `json:"consumed"`
	State           RunState           `json:"state"`
	Outcome         RunOutcome         `json:"outcome"`
	RejectionReason string             `json:"rejection_reason,omitempty"`
	Err             error              `json:"-"`
}

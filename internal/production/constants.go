package production

// Movement reasons recorded on the ledger
const (
	ReasonProductionDebit  = "production run %s: consumed for %d x %s"
	ReasonProductionCredit = "production run %s: produced %d x %s"
)

// EventSource identifies this service in event metadata
const EventSource = "production"

// Lock key layout
const (
	lockKeyFinishedGood = "finished_good:"
	lockKeySeparator    = ":"
)

// Log messages
const (
	LogMsgRunState      = "Production run state"
	LogMsgRunRejected   = "Production run rejected"
	LogMsgRunCommitted  = "Production run committed"
	LogMsgPublishFailed = "Failed to publish ledger event"
	LogMsgStockAdjusted = "Stock adjusted"
	LogMsgBeginTxFailed = "Failed to begin ledger transaction"
	LogMsgCommitFailed  = "Failed to commit ledger transaction"
)

// Error messages
const (
	ErrMsgGetProductFailed   = "failed to get product: %w"
	ErrMsgBuildIndexFailed   = "failed to build catalog index: %w"
	ErrMsgBeginTxFailed      = "failed to begin transaction: %w"
	ErrMsgReadBalanceFailed  = "failed to read balance of %s '%s': %w"
	ErrMsgDebitFailed        = "failed to debit %s '%s': %w"
	ErrMsgCreditFailed       = "failed to credit finished good %s: %w"
	ErrMsgCommitFailed       = "failed to commit transaction: %w"
	ErrMsgAdjustFailed       = "failed to adjust %s '%s': %w"
	ErrMsgRequestedUnitsFmt  = "%w: requested units must be positive, got %d"
	ErrMsgAdjustDeltaFmt     = "%w: adjustment delta must be non-zero"
	ErrMsgAdjustKindFmt      = "%w: %s is not a raw material kind"
	ErrMsgAdjustNameRequired = "%w: resource name is required"
	ErrMsgAdjustUnknownFmt   = "%w: %w"
	ErrMsgNoRequirementsFmt  = "product %s resolves to no requirements"
	ErrMsgUnboundedRecipeFmt = "product %s consumes no limited resource"
)

// Tracing
const (
	tracerName = "atelier/production"
)

package handler

// Client-facing error messages. They never expose internal error details.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgMissingPathParam      = "Missing %s path parameter"

	ErrMsgUnknownError           = "Unknown error"
	ErrMsgGenericServerError     = "Something went wrong"
	ErrMsgProductNotFound        = "Product not found"
	ErrMsgResourceNotFound       = "Resource not found"
	ErrMsgInvalidQuantity        = "Quantity must be positive"
	ErrMsgInsufficientStock      = "Not enough stock"
	ErrMsgInvalidRecipe          = "Recipe cannot be resolved against the catalog"
	ErrMsgConcurrentModification = "Stock changed while the run was in progress. Please retry."
)

// Success messages
const (
	MsgProductionCommitted = "Production committed"
	MsgProductionRejected  = "Production rejected"
	MsgStockAdjusted       = "Stock adjusted"
	MsgDatabaseUnavailable = "database connection failed"
)

// Health statuses
const (
	HealthStatusOK          = "ok"
	HealthStatusUnavailable = "unavailable"
)

// Operation names used in logs
const (
	OpCapacityReport = "Capacity report"
	OpProductReport  = "Product capacity report"
	OpProduction     = "Production run"
	OpAdjustStock    = "Stock adjustment"
)

// Log messages
const (
	LogMsgReadinessFailed      = "Readiness check failed"
	LogMsgEncodeResponseFailed = "Failed to encode JSON response"
	LogMsgWriteResponseFailed  = "Failed to write response buffer"
	LogMsgDecodeFailedFmt      = "Failed to decode %s request"
	LogMsgDecodedFmt           = "%s request decoded"
)

// Path parameters
const (
	ParamProductID = "productID"
)

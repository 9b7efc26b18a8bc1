package postgres

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction = "failed to begin transaction"
)

// Error Messages - Catalog Operations
const (
	ErrMsgFailedToListMaterials = "failed to list materials"
	ErrMsgFailedToScanMaterial  = "failed to scan material"
	ErrMsgFailedToListProducts  = "failed to list products"
	ErrMsgFailedToScanProduct   = "failed to scan product"
	ErrMsgFailedToGetProduct    = "failed to get product"
	ErrMsgFailedToDecodeRecipe  = "failed to decode recipe of product %s"
)

// Error Messages - Ledger Operations
const (
	ErrMsgFailedToGetBalance       = "failed to get balance"
	ErrMsgFailedToLockBalance      = "failed to lock balance"
	ErrMsgFailedToDebit            = "failed to debit"
	ErrMsgFailedToCredit           = "failed to credit finished good"
	ErrMsgFailedToAdjust           = "failed to adjust balance"
	ErrMsgFailedToRecordMovement   = "failed to record movement"
	ErrMsgFailedToGetFinishedStock = "failed to get finished-good stock"
	ErrMsgFailedToReadVersion      = "failed to read balance version"
)

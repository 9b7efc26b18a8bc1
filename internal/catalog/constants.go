package catalog

// Log messages
const (
	LogMsgIndexBuilt     = "Catalog index built"
	LogMsgDuplicateName  = "Duplicate raw material name in catalog, keeping first entry"
	LogMsgListKindFailed = "Failed to list raw materials"
)

// Error messages
const (
	ErrMsgListKindFailed = "failed to list %s materials: %w"
)

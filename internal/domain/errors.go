package domain

import (
	"errors"
	"fmt"
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Catalog errors
	ErrMsgProductNotFound            = "product not found"
	ErrMsgMissingResourceDefinition  = "missing resource definition"
	ErrMsgInvalidRecipeConfiguration = "invalid recipe configuration"

	// Ledger errors
	ErrMsgInsufficientStock      = "insufficient stock"
	ErrMsgConcurrentModification = "concurrent modification"
	ErrMsgResourceNotFound       = "resource not found"

	// Input errors
	ErrMsgInvalidQuantity = "invalid quantity"
	ErrMsgInvalidInput    = "invalid input"

	// Database/System errors
	ErrMsgTxClosed = "tx is closed"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context,
// or return one of the structured types below which unwrap to them.
var (
	ErrProductNotFound            = errors.New(ErrMsgProductNotFound)
	ErrMissingResourceDefinition  = errors.New(ErrMsgMissingResourceDefinition)
	ErrInvalidRecipeConfiguration = errors.New(ErrMsgInvalidRecipeConfiguration)
	ErrInsufficientStock          = errors.New(ErrMsgInsufficientStock)
	ErrConcurrentModification     = errors.New(ErrMsgConcurrentModification)
	ErrResourceNotFound           = errors.New(ErrMsgResourceNotFound)
	ErrInvalidQuantity            = errors.New(ErrMsgInvalidQuantity)
	ErrInvalidInput               = errors.New(ErrMsgInvalidInput)
)

// MissingResourceError reports a recipe line whose resource has no catalog entry
type MissingResourceError struct {
	Kind ResourceKind
	Name string
}

func (e *MissingResourceError) Error() string {
	return fmt.Sprintf("%s: %s '%s'", ErrMsgMissingResourceDefinition, e.Kind, e.Name)
}

func (e *MissingResourceError) Unwrap() error { return ErrMissingResourceDefinition }

// InvalidRecipeError reports a recipe that cannot be resolved as configured
type InvalidRecipeError struct {
	ProductID string
	Problems  []string
}

func (e *InvalidRecipeError) Error() string {
	return fmt.Sprintf("%s for product %s: %v", ErrMsgInvalidRecipeConfiguration, e.ProductID, e.Problems)
}

func (e *InvalidRecipeError) Unwrap() error { return ErrInvalidRecipeConfiguration }

// InsufficientStockError is raised when a production run needs more than is available
type InsufficientStockError struct {
	Kind      ResourceKind
	Resource  string
	Required  float64
	Available float64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s for %s '%s': required %g, available %g", ErrMsgInsufficientStock, e.Kind, e.Resource, e.Required, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// ConcurrentModificationError is raised when a balance changed between validation and debit
type ConcurrentModificationError struct {
	Kind            ResourceKind
	Resource        string
	ExpectedVersion int64
	ActualVersion   int64
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("%s on %s '%s': expected version %d, found %d", ErrMsgConcurrentModification, e.Kind, e.Resource, e.ExpectedVersion, e.ActualVersion)
}

func (e *ConcurrentModificationError) Unwrap() error { return ErrConcurrentModification }

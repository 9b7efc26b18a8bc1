package repository

import (
	"context"

	"github.com/osse101/Atelier_Go/internal/domain"
)

// CatalogStore defines the read contract of the product and raw-material catalog
type CatalogStore interface {
	// ListByKind returns every raw material of one kind with its current balance
	ListByKind(ctx context.Context, kind domain.ResourceKind) ([]domain.RawMaterial, error)
	// ListProducts returns products in catalog order
	ListProducts(ctx context.Context, activeOnly bool) ([]domain.Product, error)
	// GetProduct returns domain.ErrProductNotFound when no product has the id
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/Atelier_Go/internal/domain"
)

const (
	queryListMaterialsByKind = `
		SELECT material_id, kind, name, available_quantity, unlimited_supply,
		       recommended_dosage_percent, volume_ml, version
		FROM raw_materials
		WHERE kind = $1
		ORDER BY material_id`

	queryListProducts = `
		SELECT product_id, name, category, unit_weight_grams, active, recipe
		FROM products
		WHERE active OR NOT $1
		ORDER BY catalog_position`

	queryGetProduct = `
		SELECT product_id, name, category, unit_weight_grams, active, recipe
		FROM products
		WHERE product_id = $1`

	queryUpsertMaterial = `
		INSERT INTO raw_materials (kind, name, available_quantity, unlimited_supply, recommended_dosage_percent, volume_ml)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (kind, LOWER(name)) DO UPDATE
		SET unlimited_supply = EXCLUDED.unlimited_supply,
		    recommended_dosage_percent = EXCLUDED.recommended_dosage_percent,
		    volume_ml = EXCLUDED.volume_ml,
		    updated_at = NOW()`

	queryUpsertProduct = `
		INSERT INTO products (product_id, name, category, unit_weight_grams, active, recipe)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (product_id) DO UPDATE
		SET name = EXCLUDED.name,
		    category = EXCLUDED.category,
		    unit_weight_grams = EXCLUDED.unit_weight_grams,
		    active = EXCLUDED.active,
		    recipe = EXCLUDED.recipe`
)

// CatalogRepository implements repository.CatalogStore for PostgreSQL
type CatalogRepository struct {
	db *pgxpool.Pool
}

// NewCatalogRepository creates a new CatalogRepository
func NewCatalogRepository(db *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListByKind returns every raw material of one kind
func (r *CatalogRepository) ListByKind(ctx context.Context, kind domain.ResourceKind) ([]domain.RawMaterial, error) {
	rows, err := r.db.Query(ctx, queryListMaterialsByKind, string(kind))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListMaterials, err)
	}
	defer rows.Close()

	var materials []domain.RawMaterial
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToScanMaterial, err)
		}
		materials = append(materials, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListMaterials, err)
	}
	return materials, nil
}

// ListProducts returns products in catalog order
func (r *CatalogRepository) ListProducts(ctx context.Context, activeOnly bool) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx, queryListProducts, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListProducts, err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToScanProduct, err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListProducts, err)
	}
	return products, nil
}

// GetProduct returns a single product by id
func (r *CatalogRepository) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, queryGetProduct, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetProduct, err)
	}
	return &p, nil
}

// UpsertMaterial registers a raw material. Existing balances are left untouched.
func (r *CatalogRepository) UpsertMaterial(ctx context.Context, m domain.RawMaterial) error {
	_, err := r.db.Exec(ctx, queryUpsertMaterial,
		string(m.Kind), m.Name, m.AvailableQuantity, m.UnlimitedSupply, m.RecommendedDosagePercent, m.VolumeMl)
	return err
}

// UpsertProduct registers or replaces a product definition
func (r *CatalogRepository) UpsertProduct(ctx context.Context, p domain.Product) error {
	body, err := encodeRecipe(p)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, queryUpsertProduct,
		p.ID, p.Name, string(p.Category), p.UnitWeightGrams, p.Active, body)
	return err
}

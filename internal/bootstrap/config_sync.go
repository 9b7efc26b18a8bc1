package bootstrap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/osse101/Atelier_Go/internal/catalog"
	"github.com/osse101/Atelier_Go/internal/domain"
)

// CatalogSeed is the on-disk definition of raw materials and product recipes
type CatalogSeed struct {
	Materials []domain.RawMaterial `json:"materials"`
	Products  []domain.Product     `json:"products"`
}

// CatalogWriter registers catalog entries
type CatalogWriter interface {
	UpsertMaterial(ctx context.Context, m domain.RawMaterial) error
	UpsertProduct(ctx context.Context, p domain.Product) error
}

// CatalogSyncResult counts the entries written by a sync
type CatalogSyncResult struct {
	Materials int
	Products  int
}

// LoadCatalogSeed reads a catalog seed file. A missing file returns (nil, nil).
func LoadCatalogSeed(path string) (*CatalogSeed, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadCatalog, err)
	}

	var seed CatalogSeed
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadCatalog, err)
	}
	return &seed, nil
}

// Validate checks the structural rules the database schema would otherwise reject
// one row at a time
func (s *CatalogSeed) Validate() error {
	var errs []error

	seenMaterials := make(map[string]bool)
	for i, m := range s.Materials {
		if m.Name == "" {
			errs = append(errs, fmt.Errorf(ErrMsgSeedMaterialNameFmt, i))
			continue
		}
		if !m.Kind.IsRawMaterial() {
			errs = append(errs, fmt.Errorf(ErrMsgSeedKindFmt, m.Name, m.Kind))
		}
		if m.AvailableQuantity < 0 {
			errs = append(errs, fmt.Errorf(ErrMsgSeedNegativeFmt, m.Name))
		}
		key := string(m.Kind) + "|" + catalog.NormalizeName(m.Name)
		if seenMaterials[key] {
			errs = append(errs, fmt.Errorf(ErrMsgSeedDuplicateFmt, m.Kind, m.Name))
		}
		seenMaterials[key] = true
	}

	seenProducts := make(map[string]bool)
	for i, p := range s.Products {
		if p.ID == "" {
			errs = append(errs, fmt.Errorf(ErrMsgSeedProductIDFmt, i))
			continue
		}
		if seenProducts[p.ID] {
			errs = append(errs, fmt.Errorf(ErrMsgSeedDuplicateFmt, "product", p.ID))
		}
		seenProducts[p.ID] = true

		if p.UnitWeightGrams < 0 {
			errs = append(errs, fmt.Errorf(ErrMsgSeedUnitWeightFmt, p.ID))
		}

		switch p.Category {
		case domain.CategoryFormulated:
			if p.Formulated == nil || p.Cast != nil {
				errs = append(errs, fmt.Errorf(ErrMsgSeedRecipeFmt, p.ID, p.Category))
			}
		case domain.CategoryCast:
			if p.Cast == nil || p.Formulated != nil {
				errs = append(errs, fmt.Errorf(ErrMsgSeedRecipeFmt, p.ID, p.Category))
			}
		default:
			errs = append(errs, fmt.Errorf(ErrMsgSeedCategoryFmt, p.ID, p.Category))
		}
	}

	return errors.Join(errs...)
}

// SyncCatalog loads, validates, and upserts the catalog seed. Existing material
// balances are never overwritten; only new materials take the seeded quantity.
func SyncCatalog(ctx context.Context, w CatalogWriter, path string) (CatalogSyncResult, error) {
	slog.Info(LogMsgSyncingCatalog, "path", path)

	seed, err := LoadCatalogSeed(path)
	if err != nil {
		return CatalogSyncResult{}, err
	}
	if seed == nil {
		slog.Info(LogMsgCatalogSeedMissing, "path", path)
		return CatalogSyncResult{}, nil
	}

	if err := seed.Validate(); err != nil {
		return CatalogSyncResult{}, fmt.Errorf("%s: %w", ErrMsgInvalidCatalog, err)
	}

	var result CatalogSyncResult
	for _, m := range seed.Materials {
		if err := w.UpsertMaterial(ctx, m); err != nil {
			return result, fmt.Errorf(ErrMsgFailedSyncMaterial+": %w", m.Kind, m.Name, err)
		}
		result.Materials++
	}
	for _, p := range seed.Products {
		if err := w.UpsertProduct(ctx, p); err != nil {
			return result, fmt.Errorf(ErrMsgFailedSyncProduct+": %w", p.ID, err)
		}
		result.Products++
	}

	slog.Info(LogMsgCatalogSynced, "materials", result.Materials, "products", result.Products)
	return result, nil
}

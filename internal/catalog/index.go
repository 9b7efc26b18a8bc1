package catalog

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"

	"github.com/osse101/Atelier_Go/internal/domain"
	"github.com/osse101/Atelier_Go/internal/logger"
	"github.com/osse101/Atelier_Go/internal/repository"
)

// Index is an immutable, exact, case-insensitive lookup of raw materials per kind.
// It is built once per analysis batch and is safe for concurrent readers.
type Index struct {
	byKind map[domain.ResourceKind]map[string]domain.RawMaterial
	size   int
}

// NormalizeName folds a resource name into its lookup key.
// Matching is exact on the folded form; there is no substring matching.
func NormalizeName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// BuildIndex reads every raw-material kind concurrently and builds the lookup index
func BuildIndex(ctx context.Context, store repository.CatalogStore) (*Index, error) {
	results := make([][]domain.RawMaterial, len(domain.RawMaterialKinds))

	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range domain.RawMaterialKinds {
		g.Go(func() error {
			materials, err := store.ListByKind(gctx, kind)
			if err != nil {
				logger.FromContext(ctx).Error(LogMsgListKindFailed, "kind", kind, "error", err)
				return fmt.Errorf(ErrMsgListKindFailed, kind, err)
			}
			results[i] = materials
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	idx := NewIndex(ctx, results...)
	logger.FromContext(ctx).Debug(LogMsgIndexBuilt, "entries", idx.Len())
	return idx, nil
}

// NewIndex builds an index from already-loaded materials.
// Each material is filed under its own Kind.
func NewIndex(ctx context.Context, groups ...[]domain.RawMaterial) *Index {
	idx := &Index{
		byKind: make(map[domain.ResourceKind]map[string]domain.RawMaterial, len(domain.RawMaterialKinds)),
	}
	for _, group := range groups {
		for _, m := range group {
			entries, ok := idx.byKind[m.Kind]
			if !ok {
				entries = make(map[string]domain.RawMaterial)
				idx.byKind[m.Kind] = entries
			}
			key := NormalizeName(m.Name)
			if _, exists := entries[key]; exists {
				logger.FromContext(ctx).Warn(LogMsgDuplicateName, "kind", m.Kind, "name", m.Name)
				continue
			}
			entries[key] = m
			idx.size++
		}
	}
	return idx
}

// Lookup finds a raw material by kind and name
func (idx *Index) Lookup(kind domain.ResourceKind, name string) (domain.RawMaterial, bool) {
	if idx == nil {
		return domain.RawMaterial{}, false
	}
	m, ok := idx.byKind[kind][NormalizeName(name)]
	return m, ok
}

// Len returns the number of indexed materials
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return idx.size
}

package postgres

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/osse101/Atelier_Go/internal/domain"
)

// rowScanner is satisfied by pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMaterial(row rowScanner) (domain.RawMaterial, error) {
	var (
		m    domain.RawMaterial
		id   int64
		kind string
	)
	if err := row.Scan(&id, &kind, &m.Name, &m.AvailableQuantity, &m.UnlimitedSupply, &m.RecommendedDosagePercent, &m.VolumeMl, &m.Version); err != nil {
		return domain.RawMaterial{}, err
	}
	m.ID = strconv.FormatInt(id, 10)
	m.Kind = domain.ResourceKind(kind)
	return m, nil
}

// productRecipe is the JSON body of products.recipe
type productRecipe struct {
	Formulated *domain.FormulatedRecipe `json:"formulated,omitempty"`
	Cast       *domain.CastRecipe       `json:"cast,omitempty"`
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var (
		p        domain.Product
		category string
		raw      []byte
	)
	if err := row.Scan(&p.ID, &p.Name, &category, &p.UnitWeightGrams, &p.Active, &raw); err != nil {
		return domain.Product{}, err
	}
	p.Category = domain.Category(category)

	var body productRecipe
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &body); err != nil {
			return domain.Product{}, fmt.Errorf(ErrMsgFailedToDecodeRecipe+": %w", p.ID, err)
		}
	}
	p.Formulated = body.Formulated
	p.Cast = body.Cast
	return p, nil
}

// encodeRecipe produces the products.recipe value for a product
func encodeRecipe(p domain.Product) ([]byte, error) {
	return json.Marshal(productRecipe{Formulated: p.Formulated, Cast: p.Cast})
}

// nullableString maps empty strings to SQL NULL
func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

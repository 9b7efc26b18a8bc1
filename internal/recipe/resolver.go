package recipe

import (
	"fmt"
	"math"
	"strings"

	"github.com/osse101/Atelier_Go/internal/domain"
)

// Catalog is the read-only lookup the resolver needs from the catalog index
type Catalog interface {
	Lookup(kind domain.ResourceKind, name string) (domain.RawMaterial, bool)
}

// Settings holds the dosage tunables of the bill-of-material formulas
type Settings struct {
	FragranceGramsPerDrop   float64 `mapstructure:"fragrance_grams_per_drop"`
	AdditiveGramBasis       float64 `mapstructure:"additive_gram_basis"`
	AdditiveFallbackPercent float64 `mapstructure:"additive_fallback_percent"`
	DefaultMixFactor        float64 `mapstructure:"mix_factor"`
	DefaultWastagePercent   float64 `mapstructure:"wastage_percent"`
}

// DefaultSettings returns the standard dosage rules
func DefaultSettings() Settings {
	return Settings{
		FragranceGramsPerDrop:   DefaultFragranceGramsPerDrop,
		AdditiveGramBasis:       DefaultAdditiveGramBasis,
		AdditiveFallbackPercent: DefaultAdditiveFallbackPercent,
		DefaultMixFactor:        DefaultMixFactor,
		DefaultWastagePercent:   DefaultWastagePercent,
	}
}

// withDefaults fills zero or negative tunables
func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.FragranceGramsPerDrop <= 0 {
		s.FragranceGramsPerDrop = d.FragranceGramsPerDrop
	}
	if s.AdditiveGramBasis <= 0 {
		s.AdditiveGramBasis = d.AdditiveGramBasis
	}
	if s.AdditiveFallbackPercent <= 0 {
		s.AdditiveFallbackPercent = d.AdditiveFallbackPercent
	}
	if s.DefaultMixFactor <= 0 {
		s.DefaultMixFactor = d.DefaultMixFactor
	}
	if s.DefaultWastagePercent < 0 {
		s.DefaultWastagePercent = d.DefaultWastagePercent
	}
	return s
}

// Resolver expands product definitions into ordered resource requirements.
// It is stateless apart from its settings and safe for concurrent use.
type Resolver struct {
	settings Settings
}

// NewResolver creates a resolver with the given settings
func NewResolver(settings Settings) *Resolver {
	return &Resolver{settings: settings.withDefaults()}
}

var defaultResolver = NewResolver(DefaultSettings())

// Resolve expands a product with the default settings
func Resolve(product domain.Product, cat Catalog) ([]domain.ResourceRequirement, []Problem) {
	return defaultResolver.Resolve(product, cat)
}

// Resolve expands one product into its per-unit requirements, in emission order.
// It never fails: everything that prevents a clean resolution is returned as a problem.
func (r *Resolver) Resolve(product domain.Product, cat Catalog) ([]domain.ResourceRequirement, []Problem) {
	if product.UnitWeightGrams <= 0 {
		return nil, []Problem{invalid(fmt.Sprintf(MsgInvalidUnitWeightFmt, product.UnitWeightGrams))}
	}

	switch product.Category {
	case domain.CategoryFormulated:
		if product.Formulated == nil {
			return nil, []Problem{invalid(MsgMissingRecipe)}
		}
		return r.resolveFormulated(product.UnitWeightGrams, product.Formulated, cat)
	case domain.CategoryCast:
		if product.Cast == nil {
			return nil, []Problem{{Code: ProblemMissingConfiguration, Message: MsgMissingConfiguration}}
		}
		return r.resolveCast(product.UnitWeightGrams, product.Cast, cat)
	default:
		return nil, []Problem{invalid(fmt.Sprintf(MsgUnknownCategoryFmt, product.Category))}
	}
}

func (r *Resolver) resolveFormulated(weight int, rec *domain.FormulatedRecipe, cat Catalog) ([]domain.ResourceRequirement, []Problem) {
	var reqs []domain.ResourceRequirement
	var problems []Problem
	w := float64(weight)

	switch {
	case rec.HasDualBase():
		dual := rec.DualBase
		if dual.SplitPercentA+dual.SplitPercentB != 100 || dual.SplitPercentA < 0 || dual.SplitPercentB < 0 {
			problems = append(problems, invalid(fmt.Sprintf(MsgInvalidSplitFmt, dual.SplitPercentA, dual.SplitPercentB)))
			break
		}
		// Portions are rounded independently and may not add up to the unit weight exactly
		reqs = append(reqs,
			requirement(domain.KindBaseMaterial, dual.MaterialA, math.Round(w*float64(dual.SplitPercentA)/100)),
			requirement(domain.KindBaseMaterial, dual.MaterialB, math.Round(w*float64(dual.SplitPercentB)/100)),
		)
	case strings.TrimSpace(rec.BaseMaterial) != "":
		reqs = append(reqs, requirement(domain.KindBaseMaterial, rec.BaseMaterial, w))
	default:
		problems = append(problems, invalid(MsgMissingBaseMaterial))
	}

	if hasFragrance(rec.Fragrance) {
		reqs = append(reqs, requirement(domain.KindFragranceOil, rec.Fragrance, math.Ceil(w/r.settings.FragranceGramsPerDrop)))
	}

	if strings.TrimSpace(rec.Packaging) != "" {
		reqs = append(reqs, requirement(domain.KindPackaging, rec.Packaging, PackagingPerUnit))
	} else {
		problems = append(problems, invalid(MsgMissingPackaging))
	}

	for _, add := range rec.Additives {
		entity, found := cat.Lookup(domain.KindAdditive, add.Name)
		if !found {
			problems = append(problems, Problem{
				Code:    ProblemUndefinedResource,
				Message: fmt.Sprintf(MsgUndefinedAdditiveFmt, add.Name),
			})
		}
		reqs = append(reqs, requirement(domain.KindAdditive, add.Name, r.additiveGrams(w, add, entity, found)))
	}

	return reqs, problems
}

// additiveGrams applies the additive dosage rules in priority order
func (r *Resolver) additiveGrams(weight float64, add domain.AdditiveDose, entity domain.RawMaterial, found bool) float64 {
	switch add.Unit {
	case domain.AdditiveUnitGram:
		return math.Round(add.Amount * weight / r.settings.AdditiveGramBasis)
	case domain.AdditiveUnitPercent:
		return math.Round(weight * add.Amount / 100)
	}
	if found && entity.RecommendedDosagePercent != nil {
		return math.Round(weight * *entity.RecommendedDosagePercent / 100)
	}
	return math.Round(weight * r.settings.AdditiveFallbackPercent / 100)
}

func (r *Resolver) resolveCast(weight int, rec *domain.CastRecipe, cat Catalog) ([]domain.ResourceRequirement, []Problem) {
	hasMold := strings.TrimSpace(rec.Mold) != ""
	hasMaterial := strings.TrimSpace(rec.CastingMaterial) != ""
	if !hasMold && !hasMaterial {
		return nil, []Problem{{Code: ProblemMissingConfiguration, Message: MsgMissingConfiguration}}
	}

	mixFactor, wastage := r.castingConfig(rec.Config)

	// Without a usable mold volume the unit weight stands in for the fill volume
	fill := float64(weight)
	if hasMold {
		if mold, ok := cat.Lookup(domain.KindMold, rec.Mold); ok && mold.VolumeMl > 0 {
			fill = mold.VolumeMl
		}
	}
	requiredGrams := math.Round(fill * mixFactor * (1 + wastage/100))

	var reqs []domain.ResourceRequirement
	if hasMaterial {
		reqs = append(reqs, requirement(domain.KindCastingMaterial, rec.CastingMaterial, requiredGrams))
	}
	if hasMold {
		reqs = append(reqs, requirement(domain.KindMold, rec.Mold, 0))
	}

	for _, add := range rec.Additives {
		qty := add.MixRatio
		if add.Unit == domain.CastingAdditiveUnitPercent {
			qty = requiredGrams * add.MixRatio / 100
		}
		reqs = append(reqs, requirement(domain.KindCastingAdditive, add.Name, qty))
	}

	if strings.TrimSpace(rec.Packaging) != "" {
		reqs = append(reqs, requirement(domain.KindPackaging, rec.Packaging, PackagingPerUnit))
	}

	return reqs, nil
}

func (r *Resolver) castingConfig(cfg *domain.CastingConfig) (mixFactor, wastage float64) {
	mixFactor, wastage = r.settings.DefaultMixFactor, r.settings.DefaultWastagePercent
	if cfg == nil {
		return mixFactor, wastage
	}
	if cfg.MixFactor > 0 {
		mixFactor = cfg.MixFactor
	}
	if cfg.WastagePercent != nil && *cfg.WastagePercent >= 0 {
		wastage = *cfg.WastagePercent
	}
	return mixFactor, wastage
}

func hasFragrance(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	return n != FragranceSentinelNone && n != FragranceSentinelEmpty
}

func requirement(kind domain.ResourceKind, name string, qty float64) domain.ResourceRequirement {
	if qty < 0 {
		qty = 0
	}
	return domain.ResourceRequirement{
		Kind:            kind,
		Name:            name,
		QuantityPerUnit: qty,
		Unit:            domain.UnitFor(kind),
	}
}

func invalid(msg string) Problem {
	return Problem{Code: ProblemInvalidConfiguration, Message: msg}
}

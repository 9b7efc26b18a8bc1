package domain

// Category identifies the recipe shape of a finished good
type Category string

const (
	CategoryFormulated Category = "formulated" // soaps and other weight-dosed goods
	CategoryCast       Category = "cast"       // plaster and other mold-cast goods
)

// AdditiveUnit is the dosing unit of a formulated-good additive
type AdditiveUnit string

const (
	AdditiveUnitGram    AdditiveUnit = "gram"
	AdditiveUnitPercent AdditiveUnit = "percent"
)

// CastingAdditiveUnit is the dosing unit of a casting additive
type CastingAdditiveUnit string

const (
	CastingAdditiveUnitPercent  CastingAdditiveUnit = "percent"
	CastingAdditiveUnitAbsolute CastingAdditiveUnit = "absolute"
)

// Product is a finished-good recipe definition.
// Exactly one of Formulated or Cast is set, matching Category.
type Product struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Category        Category          `json:"category"`
	UnitWeightGrams int               `json:"unit_weight_grams"`
	Active          bool              `json:"active"`
	Formulated      *FormulatedRecipe `json:"formulated,omitempty"`
	Cast            *CastRecipe       `json:"cast,omitempty"`
}

// FormulatedRecipe is the bill of material of a formulated good
type FormulatedRecipe struct {
	BaseMaterial string         `json:"base_material,omitempty"`
	DualBase     *DualBase      `json:"dual_base,omitempty"`
	Fragrance    string         `json:"fragrance,omitempty"`
	Packaging    string         `json:"packaging"`
	Additives    []AdditiveDose `json:"additives,omitempty"`
}

// DualBase splits the unit weight between two base materials
type DualBase struct {
	MaterialA     string `json:"material_a"`
	MaterialB     string `json:"material_b"`
	SplitPercentA int    `json:"split_percent_a"`
	SplitPercentB int    `json:"split_percent_b"`
}

// AdditiveDose is one additive line of a formulated recipe.
// Unit may be empty, in which case the catalog dosage (or 1%) applies.
type AdditiveDose struct {
	Name   string       `json:"name"`
	Amount float64      `json:"amount"`
	Unit   AdditiveUnit `json:"unit,omitempty"`
}

// CastRecipe is the bill of material of a cast good
type CastRecipe struct {
	Mold            string                `json:"mold,omitempty"`
	CastingMaterial string                `json:"casting_material,omitempty"`
	Config          *CastingConfig        `json:"config,omitempty"`
	Additives       []CastingAdditiveDose `json:"additives,omitempty"`
	Packaging       string                `json:"packaging,omitempty"`
}

// CastingConfig tunes the casting material formula. A non-positive MixFactor
// and an absent WastagePercent fall back to defaults; an explicit zero wastage is kept.
type CastingConfig struct {
	MixFactor      float64  `json:"mix_factor"`
	WastagePercent *float64 `json:"wastage_percent,omitempty"`
}

// CastingAdditiveDose is one additive line of a cast recipe
type CastingAdditiveDose struct {
	Name     string              `json:"name"`
	MixRatio float64             `json:"mix_ratio"`
	Unit     CastingAdditiveUnit `json:"unit"`
}

// HasDualBase reports whether the formulated recipe uses a dual base split
func (r *FormulatedRecipe) HasDualBase() bool {
	return r != nil && r.DualBase != nil
}

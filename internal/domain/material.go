package domain

// ResourceKind identifies a raw-material collection (and the ledger accounts built on it)
type ResourceKind string

const (
	KindBaseMaterial    ResourceKind = "base_material"
	KindFragranceOil    ResourceKind = "fragrance_oil"
	KindPackaging       ResourceKind = "packaging"
	KindAdditive        ResourceKind = "additive"
	KindCastingMaterial ResourceKind = "casting_material"
	KindCastingAdditive ResourceKind = "casting_additive"
	KindMold            ResourceKind = "mold"

	// KindFinishedGood is the ledger account of produced goods, keyed by product ID
	KindFinishedGood ResourceKind = "finished_good"

	// KindStock is the limiting factor reported in degraded mode
	KindStock ResourceKind = "stock"
)

// RawMaterialKinds lists every catalog collection the index is built from
var RawMaterialKinds = []ResourceKind{
	KindBaseMaterial,
	KindFragranceOil,
	KindPackaging,
	KindAdditive,
	KindCastingMaterial,
	KindCastingAdditive,
	KindMold,
}

// IsRawMaterial reports whether k is one of the catalog raw-material kinds
func (k ResourceKind) IsRawMaterial() bool {
	for _, kind := range RawMaterialKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Unit is the measurement unit of a resource quantity
type Unit string

const (
	UnitGram  Unit = "g"
	UnitDrop  Unit = "drops"
	UnitPiece Unit = "pcs"
	UnitMl    Unit = "ml"
	UnitUnits Unit = "units"
)

// UnitFor returns the quantity unit used by a resource kind
func UnitFor(kind ResourceKind) Unit {
	switch kind {
	case KindFragranceOil:
		return UnitDrop
	case KindPackaging:
		return UnitPiece
	case KindMold:
		return UnitMl
	case KindFinishedGood, KindStock:
		return UnitUnits
	default:
		return UnitGram
	}
}

// RawMaterial is a catalog entity backed by a ledger balance
type RawMaterial struct {
	ID                       string       `json:"id"`
	Name                     string       `json:"name"`
	Kind                     ResourceKind `json:"kind"`
	AvailableQuantity        float64      `json:"available_quantity"`
	UnlimitedSupply          bool         `json:"unlimited_supply"`
	RecommendedDosagePercent *float64     `json:"recommended_dosage_percent,omitempty"`
	VolumeMl                 float64      `json:"volume_ml,omitempty"` // molds only
	Version                  int64        `json:"version"`
}

// ResourceRequirement is one line of a resolved bill of material, per produced unit
type ResourceRequirement struct {
	Kind            ResourceKind `json:"kind"`
	Name            string       `json:"name"`
	QuantityPerUnit float64      `json:"quantity_per_unit"`
	Unit            Unit         `json:"unit"`
}

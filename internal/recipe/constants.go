package recipe

// ==================== Dosage Defaults ====================

const (
	// DefaultFragranceGramsPerDrop is the unit weight covered by one drop of fragrance oil
	DefaultFragranceGramsPerDrop = 50

	// DefaultAdditiveGramBasis is the batch weight a gram-dosed additive amount refers to
	DefaultAdditiveGramBasis = 50

	// DefaultAdditiveFallbackPercent applies when neither the recipe nor the catalog sets a dosage
	DefaultAdditiveFallbackPercent = 1.0

	// DefaultMixFactor converts mold fill volume into casting mix volume
	DefaultMixFactor = 1.5

	// DefaultWastagePercent is added on top of the casting mix
	DefaultWastagePercent = 5.0

	// PackagingPerUnit is the number of packaging pieces per finished unit
	PackagingPerUnit = 1
)

// Fragrance values that mean "no fragrance"
const (
	FragranceSentinelNone  = "none"
	FragranceSentinelEmpty = ""
)

// ==================== Problem Messages ====================

const (
	MsgMissingConfiguration = "missing configuration"
	MsgMissingBaseMaterial  = "missing base material"
	MsgMissingPackaging     = "missing packaging"
	MsgMissingRecipe        = "missing recipe definition"
	MsgUndefinedAdditiveFmt = "additive '%s' undefined"
	MsgInvalidSplitFmt      = "invalid dual base split %d/%d"
	MsgUnknownCategoryFmt   = "unknown category '%s'"
	MsgInvalidUnitWeightFmt = "invalid unit weight %d"
)

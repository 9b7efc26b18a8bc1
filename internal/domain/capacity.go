package domain

import "time"

// RequirementStatus is a resolved requirement evaluated against the catalog snapshot
type RequirementStatus struct {
	ResourceRequirement
	AvailableQuantity float64 `json:"available_quantity"`
	MaxUnits          int     `json:"max_units"`
	Unbounded         bool    `json:"unbounded,omitempty"` // unlimited supply or zero consumption
	Sufficient        bool    `json:"sufficient"`
}

// CapacityReport is the producible capacity of one product
type CapacityReport struct {
	ProductID        string              `json:"product_id"`
	ProductName      string              `json:"product_name"`
	Category         Category            `json:"category"`
	MaxProducible    int                 `json:"max_producible"`
	LimitingFactor   *ResourceKind       `json:"limiting_factor"`
	LimitingResource string              `json:"limiting_resource,omitempty"`
	Requirements     []RequirementStatus `json:"requirements"`
	Problems         []string            `json:"problems"`
}

// IsProducible reports whether at least one unit can be produced
func (r CapacityReport) IsProducible() bool {
	return r.MaxProducible > 0
}

// CapacitySummary aggregates capacity reports across the catalog
type CapacitySummary struct {
	TotalProducts           int                  `json:"total_products"`
	ProducibleCount         int                  `json:"producible_count"`
	ProducibleRatePercent   int                  `json:"producible_rate_percent"`
	LimitingFactorHistogram map[ResourceKind]int `json:"limiting_factor_histogram"`
	TopProducible           []CapacityReport     `json:"top_producible"`
	CriticalProducts        []CapacityReport     `json:"critical_products"`
	GeneratedAt             time.Time            `json:"generated_at"`
}

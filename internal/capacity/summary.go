package capacity

import (
	"math"
	"sort"

	"github.com/osse101/Atelier_Go/internal/domain"
)

// SummarySettings tunes the fleet-wide aggregation
type SummarySettings struct {
	TopN              int `mapstructure:"top_n"`
	CriticalThreshold int `mapstructure:"critical_threshold"`
}

// DefaultSummarySettings returns the standard aggregation settings
func DefaultSummarySettings() SummarySettings {
	return SummarySettings{
		TopN:              DefaultTopProducibleLimit,
		CriticalThreshold: DefaultCriticalThreshold,
	}
}

// withDefaults fills each unset field on its own. An all-zero value means
// nothing was configured; otherwise a zero CriticalThreshold is kept.
func (s SummarySettings) withDefaults() SummarySettings {
	d := DefaultSummarySettings()
	if s == (SummarySettings{}) {
		return d
	}
	if s.TopN <= 0 {
		s.TopN = d.TopN
	}
	if s.CriticalThreshold < 0 {
		s.CriticalThreshold = d.CriticalThreshold
	}
	return s
}

// Summarize aggregates reports with the default settings
func Summarize(reports []domain.CapacityReport) domain.CapacitySummary {
	return DefaultSummarySettings().Summarize(reports)
}

// Summarize aggregates per-product reports, given in catalog order
func (s SummarySettings) Summarize(reports []domain.CapacityReport) domain.CapacitySummary {
	topN := s.TopN
	if topN <= 0 {
		topN = DefaultTopProducibleLimit
	}

	summary := domain.CapacitySummary{
		TotalProducts:           len(reports),
		LimitingFactorHistogram: make(map[domain.ResourceKind]int),
		TopProducible:           []domain.CapacityReport{},
		CriticalProducts:        []domain.CapacityReport{},
	}

	var producible []domain.CapacityReport
	for _, r := range reports {
		if r.IsProducible() {
			summary.ProducibleCount++
			producible = append(producible, r)
		}
		if r.LimitingFactor != nil {
			summary.LimitingFactorHistogram[*r.LimitingFactor]++
		}
		if r.MaxProducible <= s.CriticalThreshold {
			summary.CriticalProducts = append(summary.CriticalProducts, r)
		}
	}

	if summary.TotalProducts > 0 {
		summary.ProducibleRatePercent = int(math.Round(float64(summary.ProducibleCount) / float64(summary.TotalProducts) * 100))
	}

	// Stable sort keeps catalog order among equal capacities
	sort.SliceStable(producible, func(i, j int) bool {
		return producible[i].MaxProducible > producible[j].MaxProducible
	})
	if len(producible) > topN {
		producible = producible[:topN]
	}
	summary.TopProducible = append(summary.TopProducible, producible...)

	return summary
}

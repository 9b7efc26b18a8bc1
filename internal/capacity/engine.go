package capacity

import (
	"fmt"
	"math"
	"slices"

	"github.com/osse101/Atelier_Go/internal/domain"
	"github.com/osse101/Atelier_Go/internal/recipe"
)

// Engine provides pure capacity logic (no DB dependencies)
type Engine struct {
	resolver *recipe.Resolver
}

// NewEngine creates a new capacity engine
func NewEngine(resolver *recipe.Resolver) *Engine {
	if resolver == nil {
		resolver = recipe.NewResolver(recipe.DefaultSettings())
	}
	return &Engine{resolver: resolver}
}

// Evaluate resolves a product against the catalog and analyzes the result.
// finishedStock is the product's finished-good balance, used only in degraded mode.
func (e *Engine) Evaluate(product domain.Product, cat recipe.Catalog, finishedStock int) domain.CapacityReport {
	reqs, problems := e.resolver.Resolve(product, cat)
	return Analyze(product, reqs, problems, cat, finishedStock)
}

// Analyze computes the maximum producible units of one product and the resource that limits it.
// The first requirement (in emission order) reaching the minimum is the limiting factor.
func Analyze(product domain.Product, reqs []domain.ResourceRequirement, problems []recipe.Problem, cat recipe.Catalog, finishedStock int) domain.CapacityReport {
	report := domain.CapacityReport{
		ProductID:    product.ID,
		ProductName:  product.Name,
		Category:     product.Category,
		Requirements: make([]domain.RequirementStatus, 0, len(reqs)),
		Problems:     recipe.Messages(problems),
	}

	// Incomplete cast recipe: current stock is the capacity ceiling
	if len(reqs) == 0 && product.Category == domain.CategoryCast && recipe.HasCode(problems, recipe.ProblemMissingConfiguration) {
		report.MaxProducible = max(finishedStock, 0)
		report.LimitingFactor = kindPtr(domain.KindStock)
		return report
	}

	bounded := false
	minimum := 0
	for _, req := range reqs {
		status := domain.RequirementStatus{ResourceRequirement: req}

		entity, found := cat.Lookup(req.Kind, req.Name)
		switch {
		case !found:
			status.Sufficient = false
			status.MaxUnits = 0
			report.Problems = appendProblem(report.Problems, fmt.Sprintf(MsgUndefinedResourceFmt, req.Kind, req.Name))
		case entity.UnlimitedSupply || req.QuantityPerUnit == 0:
			status.AvailableQuantity = entity.AvailableQuantity
			status.Unbounded = true
			status.Sufficient = true
		default:
			status.AvailableQuantity = entity.AvailableQuantity
			status.MaxUnits = unitsFrom(entity.AvailableQuantity, req.QuantityPerUnit)
			status.Sufficient = status.MaxUnits > 0
		}

		if !status.Unbounded && (!bounded || status.MaxUnits < minimum) {
			bounded = true
			minimum = status.MaxUnits
			report.LimitingFactor = kindPtr(req.Kind)
			report.LimitingResource = req.Name
		}

		report.Requirements = append(report.Requirements, status)
	}

	// No bounded requirement means nothing to produce from, never unbounded production
	if !bounded {
		report.MaxProducible = 0
		return report
	}
	report.MaxProducible = minimum

	if recipe.HasBlocking(problems) && report.MaxProducible > 0 {
		report.MaxProducible = 0
		report.LimitingFactor = nil
		report.LimitingResource = ""
	}

	return report
}

// unitsFrom returns floor(available / perUnit) for positive perUnit
func unitsFrom(available, perUnit float64) int {
	if available <= 0 {
		return 0
	}
	units := math.Floor(available / perUnit)
	if units > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(units)
}

func appendProblem(problems []string, msg string) []string {
	if slices.Contains(problems, msg) {
		return problems
	}
	return append(problems, msg)
}

func kindPtr(k domain.ResourceKind) *domain.ResourceKind {
	return &k
}

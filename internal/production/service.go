package production

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/osse101/Atelier_Go/internal/catalog"
	"github.com/osse101/Atelier_Go/internal/concurrency"
	"github.com/osse101/Atelier_Go/internal/domain"
	"github.com/osse101/Atelier_Go/internal/event"
	"github.com/osse101/Atelier_Go/internal/logger"
	"github.com/osse101/Atelier_Go/internal/metrics"
	"github.com/osse101/Atelier_Go/internal/recipe"
	"github.com/osse101/Atelier_Go/internal/repository"
)

// Service defines the interface for ledger-mutating operations
type Service interface {
	Execute(ctx context.Context, productID string, requestedUnits int) (*domain.ProductionRun, error)
	AdjustStock(ctx context.Context, kind domain.ResourceKind, name string, delta float64, reason string) (*domain.MovementRecord, error)
}

type service struct {
	store       repository.CatalogStore
	ledger      repository.Ledger
	resolver    *recipe.Resolver
	lockManager *concurrency.LockManager
	bus         event.Bus
}

// NewService creates a new production service. bus may be nil.
func NewService(store repository.CatalogStore, ledger repository.Ledger, resolver *recipe.Resolver, lockManager *concurrency.LockManager, bus event.Bus) Service {
	if resolver == nil {
		resolver = recipe.NewResolver(recipe.DefaultSettings())
	}
	if lockManager == nil {
		lockManager = concurrency.NewLockManager()
	}
	return &service{
		store:       store,
		ledger:      ledger,
		resolver:    resolver,
		lockManager: lockManager,
		bus:         bus,
	}
}

// debitLine is one aggregated debit: the same resource named twice is debited once
type debitLine struct {
	kind    domain.ResourceKind
	name    string
	perUnit float64
	need    float64
	version int64
	skip    bool
}

// Execute converts requestedUnits worth of raw materials into finished goods.
// The run either commits every debit and the credit, or writes nothing.
func (s *service) Execute(ctx context.Context, productID string, requestedUnits int) (*domain.ProductionRun, error) {
	if requestedUnits <= 0 {
		return nil, fmt.Errorf(ErrMsgRequestedUnitsFmt, domain.ErrInvalidQuantity, requestedUnits)
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "production.Execute")
	defer span.End()
	span.SetAttributes(
		attribute.String("product.id", productID),
		attribute.Int("production.units", requestedUnits),
	)
	start := time.Now()
	defer func() { metrics.ProductionDuration.Observe(time.Since(start).Seconds()) }()

	run := &domain.ProductionRun{
		ID:             uuid.New().String(),
		ProductID:      productID,
		RequestedUnits: requestedUnits,
		Consumed:       []domain.ConsumedResource{},
	}
	log := logger.FromContext(ctx).With("run_id", run.ID, "product_id", productID)
	s.enter(ctx, run, domain.StateValidating)

	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf(ErrMsgGetProductFailed, err)
	}

	// Validating: resolve against live catalog data
	idx, err := catalog.BuildIndex(ctx, s.store)
	if err != nil {
		return s.reject(ctx, run, fmt.Errorf(ErrMsgBuildIndexFailed, err))
	}
	reqs, problems := s.resolver.Resolve(*product, idx)
	if err := recipeError(*product, reqs, problems, idx); err != nil {
		return s.reject(ctx, run, err)
	}

	lines := plan(reqs, requestedUnits, idx)
	if !consumesBounded(lines) {
		return s.reject(ctx, run, unboundedError(*product))
	}

	unlock := s.lockManager.LockAll(lockKeys(productID, lines)...)
	defer unlock()

	tx, err := s.ledger.BeginTx(ctx)
	if err != nil {
		log.Error(LogMsgBeginTxFailed, "error", err)
		return s.reject(ctx, run, fmt.Errorf(ErrMsgBeginTxFailed, err))
	}
	defer repository.SafeRollback(ctx, tx)

	// Every shortfall is found before rejecting. The one allowing the fewest
	// units is reported; ties go to the first in emission order.
	var shortfall *domain.InsufficientStockError
	shortUnits := 0
	for i := range lines {
		line := &lines[i]
		if line.skip {
			continue
		}
		bal, err := tx.GetForUpdate(ctx, line.kind, line.name)
		if err != nil {
			var missing *domain.MissingResourceError
			if errors.As(err, &missing) {
				return s.reject(ctx, run, err)
			}
			return s.reject(ctx, run, fmt.Errorf(ErrMsgReadBalanceFailed, line.kind, line.name, err))
		}
		if bal.UnlimitedSupply {
			line.skip = true
			continue
		}
		line.version = bal.Version
		if bal.Quantity < line.need {
			units := int(math.Floor(max(bal.Quantity, 0) / line.perUnit))
			if shortfall == nil || units < shortUnits {
				shortUnits = units
				shortfall = &domain.InsufficientStockError{
					Kind:      line.kind,
					Resource:  line.name,
					Required:  line.need,
					Available: bal.Quantity,
				}
			}
		}
	}
	if shortfall != nil {
		return s.reject(ctx, run, shortfall)
	}
	// The ledger may report unlimited supply the catalog snapshot did not
	if !consumesBounded(lines) {
		return s.reject(ctx, run, unboundedError(*product))
	}

	if err := ctx.Err(); err != nil {
		return s.reject(ctx, run, err)
	}

	s.enter(ctx, run, domain.StateDebiting)
	debitReason := fmt.Sprintf(ReasonProductionDebit, run.ID, requestedUnits, product.Name)
	for _, line := range lines {
		if line.skip {
			continue
		}
		rec, err := tx.Debit(ctx, line.kind, line.name, line.need, line.version, debitReason, run.ID)
		if err != nil {
			var conflict *domain.ConcurrentModificationError
			if errors.As(err, &conflict) {
				return s.reject(ctx, run, err)
			}
			return s.reject(ctx, run, fmt.Errorf(ErrMsgDebitFailed, line.kind, line.name, err))
		}
		run.Consumed = append(run.Consumed, domain.ConsumedResource{
			Kind:            line.kind,
			ResourceName:    line.name,
			QuantityDebited: -rec.QuantityDelta,
		})
	}

	s.enter(ctx, run, domain.StateCrediting)
	creditReason := fmt.Sprintf(ReasonProductionCredit, run.ID, requestedUnits, product.Name)
	if _, err := tx.Credit(ctx, productID, requestedUnits, creditReason, run.ID); err != nil {
		return s.reject(ctx, run, fmt.Errorf(ErrMsgCreditFailed, productID, err))
	}

	if err := tx.Commit(ctx); err != nil {
		log.Error(LogMsgCommitFailed, "error", err)
		return s.reject(ctx, run, fmt.Errorf(ErrMsgCommitFailed, err))
	}

	s.enter(ctx, run, domain.StateCommitted)
	run.Outcome = domain.OutcomeCommitted
	metrics.ProductionRuns.WithLabelValues(string(domain.OutcomeCommitted)).Inc()
	log.Info(LogMsgRunCommitted, "units", requestedUnits, "consumed", len(run.Consumed))

	s.publish(ctx, newProductionCommittedEvent(run))
	return run, nil
}

// reject finalizes a run that wrote nothing
func (s *service) reject(ctx context.Context, run *domain.ProductionRun, err error) (*domain.ProductionRun, error) {
	s.enter(ctx, run, domain.StateRejected)
	run.Outcome = domain.OutcomeRejected
	run.RejectionReason = err.Error()
	run.Err = err
	run.Consumed = []domain.ConsumedResource{}

	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	metrics.ProductionRuns.WithLabelValues(string(domain.OutcomeRejected)).Inc()
	logger.FromContext(ctx).Warn(LogMsgRunRejected,
		"run_id", run.ID,
		"product_id", run.ProductID,
		"units", run.RequestedUnits,
		"reason", run.RejectionReason)
	return run, err
}

func (s *service) enter(ctx context.Context, run *domain.ProductionRun, state domain.RunState) {
	run.State = state
	trace.SpanFromContext(ctx).AddEvent("production.state",
		trace.WithAttributes(attribute.String("state", string(state))))
	logger.FromContext(ctx).Debug(LogMsgRunState, "run_id", run.ID, "state", state)
}

// AdjustStock records a manual correction of a raw-material balance
func (s *service) AdjustStock(ctx context.Context, kind domain.ResourceKind, name string, delta float64, reason string) (*domain.MovementRecord, error) {
	switch {
	case !kind.IsRawMaterial():
		return nil, fmt.Errorf(ErrMsgAdjustKindFmt, domain.ErrInvalidInput, kind)
	case name == "":
		return nil, fmt.Errorf(ErrMsgAdjustNameRequired, domain.ErrInvalidInput)
	case delta == 0:
		return nil, fmt.Errorf(ErrMsgAdjustDeltaFmt, domain.ErrInvalidQuantity)
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "production.AdjustStock")
	defer span.End()

	unlock := s.lockManager.LockAll(resourceKey(kind, name))
	defer unlock()

	tx, err := s.ledger.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTxFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	rec, err := tx.Adjust(ctx, kind, name, delta, reason)
	if err != nil {
		span.RecordError(err)
		// the adjusted resource is the target itself, so an unknown name is a not-found
		var missing *domain.MissingResourceError
		if errors.As(err, &missing) {
			return nil, fmt.Errorf(ErrMsgAdjustUnknownFmt, domain.ErrResourceNotFound, err)
		}
		return nil, fmt.Errorf(ErrMsgAdjustFailed, kind, name, err)
	}
	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf(ErrMsgCommitFailed, err)
	}

	logger.FromContext(ctx).Info(LogMsgStockAdjusted,
		"kind", kind,
		"name", name,
		"delta", rec.QuantityDelta,
		"balance", rec.BalanceAfter,
		"reason", reason)

	s.publish(ctx, event.NewStockAdjustedEvent(string(kind), rec.ResourceRef, rec.QuantityDelta, rec.BalanceAfter, reason))
	return &rec, nil
}

// publish delivers a post-commit event; the ledger change stands even if a subscriber fails
func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.bus == nil {
		return
	}
	if id, ok := logger.RequestIDFromContext(ctx); ok {
		if evt.Metadata == nil {
			evt.Metadata = event.Metadata{}
		}
		evt.Metadata[event.MetadataKeyRequestID] = id
	}
	if err := s.bus.Publish(ctx, evt); err != nil {
		metrics.EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
		logger.FromContext(ctx).Error(LogMsgPublishFailed, "type", evt.Type, "error", err)
	}
}

// recipeError turns resolution problems into the typed error that rejects the run
func recipeError(product domain.Product, reqs []domain.ResourceRequirement, problems []recipe.Problem, cat recipe.Catalog) error {
	var configProblems []string
	for _, p := range problems {
		if p.Code != recipe.ProblemUndefinedResource {
			configProblems = append(configProblems, p.Message)
		}
	}
	if len(configProblems) > 0 {
		return &domain.InvalidRecipeError{ProductID: product.ID, Problems: configProblems}
	}

	for _, req := range reqs {
		if _, ok := cat.Lookup(req.Kind, req.Name); !ok {
			return &domain.MissingResourceError{Kind: req.Kind, Name: req.Name}
		}
	}

	if len(reqs) == 0 {
		return &domain.InvalidRecipeError{ProductID: product.ID, Problems: []string{fmt.Sprintf(ErrMsgNoRequirementsFmt, product.ID)}}
	}
	return nil
}

// plan scales requirements to the requested units, merging repeated resources in first-seen order
func plan(reqs []domain.ResourceRequirement, units int, cat recipe.Catalog) []debitLine {
	lines := make([]debitLine, 0, len(reqs))
	pos := make(map[string]int, len(reqs))

	for _, req := range reqs {
		entity, _ := cat.Lookup(req.Kind, req.Name)
		key := resourceKey(req.Kind, entity.Name)
		need := req.QuantityPerUnit * float64(units)

		if i, ok := pos[key]; ok {
			lines[i].perUnit += req.QuantityPerUnit
			lines[i].need += need
			continue
		}
		pos[key] = len(lines)
		lines = append(lines, debitLine{
			kind:    req.Kind,
			name:    entity.Name,
			perUnit: req.QuantityPerUnit,
			need:    need,
			skip:    entity.UnlimitedSupply,
		})
	}

	// Zero-quantity requirements (reusable molds) are never debited
	for i := range lines {
		if lines[i].need == 0 {
			lines[i].skip = true
		}
	}
	return lines
}

// consumesBounded reports whether at least one line debits a finite balance.
// A run that debits nothing would credit finished goods out of thin air.
func consumesBounded(lines []debitLine) bool {
	for _, line := range lines {
		if !line.skip {
			return true
		}
	}
	return false
}

func unboundedError(product domain.Product) error {
	return &domain.InvalidRecipeError{ProductID: product.ID, Problems: []string{fmt.Sprintf(ErrMsgUnboundedRecipeFmt, product.ID)}}
}

func lockKeys(productID string, lines []debitLine) []string {
	keys := make([]string, 0, len(lines)+1)
	for _, line := range lines {
		if !line.skip {
			keys = append(keys, resourceKey(line.kind, line.name))
		}
	}
	return append(keys, lockKeyFinishedGood+productID)
}

func resourceKey(kind domain.ResourceKind, name string) string {
	return string(kind) + lockKeySeparator + catalog.NormalizeName(name)
}

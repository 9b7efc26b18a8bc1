package capacity

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/osse101/Atelier_Go/internal/catalog"
	"github.com/osse101/Atelier_Go/internal/domain"
	"github.com/osse101/Atelier_Go/internal/logger"
	"github.com/osse101/Atelier_Go/internal/metrics"
	"github.com/osse101/Atelier_Go/internal/repository"
)

// Service defines the capacity reporting interface
type Service interface {
	Report(ctx context.Context) (*domain.CapacitySummary, []domain.CapacityReport, error)
	ProductReport(ctx context.Context, productID string) (*domain.CapacityReport, error)
	Invalidate()
}

// Config tunes batch analysis
type Config struct {
	Concurrency int
	Summary     SummarySettings
}

type service struct {
	store  repository.CatalogStore
	ledger repository.Ledger
	engine *Engine
	cache  *Cache
	cfg    Config
	now    func() time.Time
}

// NewService creates a capacity service. cache may be nil to disable caching.
func NewService(store repository.CatalogStore, ledger repository.Ledger, engine *Engine, cache *Cache, cfg Config) Service {
	if engine == nil {
		engine = NewEngine(nil)
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultAnalysisConcurrency
	}
	cfg.Summary = cfg.Summary.withDefaults()
	return &service{
		store:  store,
		ledger: ledger,
		engine: engine,
		cache:  cache,
		cfg:    cfg,
		now:    time.Now,
	}
}

// Report scores every active product against one catalog snapshot.
// Per-product problems are carried in the reports; only collaborator failures abort the batch.
func (s *service) Report(ctx context.Context) (*domain.CapacitySummary, []domain.CapacityReport, error) {
	log := logger.FromContext(ctx)

	if s.cache != nil {
		if batch, ok := s.cache.GetBatch(); ok {
			metrics.CapacityCacheHits.Inc()
			log.Debug(LogMsgReportServedFromCache, "products", len(batch.Reports))
			return &batch.Summary, batch.Reports, nil
		}
		metrics.CapacityCacheMisses.Inc()
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "capacity.Report")
	defer span.End()
	start := time.Now()

	var (
		idx      *catalog.Index
		products []domain.Product
		stock    map[string]int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if idx, err = catalog.BuildIndex(gctx, s.store); err != nil {
			return fmt.Errorf(ErrMsgBuildIndexFailed, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if products, err = s.store.ListProducts(gctx, true); err != nil {
			return fmt.Errorf(ErrMsgListProductsFailed, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if stock, err = s.ledger.FinishedGoodStock(gctx); err != nil {
			return fmt.Errorf(ErrMsgFinishedStockFailed, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	reports, err := s.analyzeAll(ctx, products, idx, stock)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	summary := s.cfg.Summary.Summarize(reports)
	summary.GeneratedAt = s.now()

	metrics.CapacityBatchDuration.Observe(time.Since(start).Seconds())
	metrics.CapacityProductsAnalyzed.Set(float64(len(reports)))
	span.SetAttributes(
		attribute.Int("capacity.products", summary.TotalProducts),
		attribute.Int("capacity.producible", summary.ProducibleCount),
	)
	log.Info(LogMsgReportBuilt,
		"products", summary.TotalProducts,
		"producible", summary.ProducibleCount,
		"duration", time.Since(start))

	if s.cache != nil {
		s.cache.SetBatch(&BatchResult{Summary: summary, Reports: reports})
	}

	return &summary, reports, nil
}

// analyzeAll scores products in parallel; each goroutine writes only its own slot so catalog order holds
func (s *service) analyzeAll(ctx context.Context, products []domain.Product, idx *catalog.Index, stock map[string]int) ([]domain.CapacityReport, error) {
	log := logger.FromContext(ctx)
	reports := make([]domain.CapacityReport, len(products))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i := range products {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p := products[i]
			reports[i] = s.engine.Evaluate(p, idx, stock[p.ID])
			if reports[i].LimitingFactor != nil && *reports[i].LimitingFactor == domain.KindStock {
				log.Debug(LogMsgProductDegraded, "product_id", p.ID)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// ProductReport scores one product against live catalog data
func (s *service) ProductReport(ctx context.Context, productID string) (*domain.CapacityReport, error) {
	if s.cache != nil {
		if report, ok := s.cache.GetReport(productID); ok {
			metrics.CapacityCacheHits.Inc()
			return report, nil
		}
		metrics.CapacityCacheMisses.Inc()
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "capacity.ProductReport")
	defer span.End()
	span.SetAttributes(attribute.String("product.id", productID))

	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf(ErrMsgGetProductFailed, err)
	}

	idx, err := catalog.BuildIndex(ctx, s.store)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf(ErrMsgBuildIndexFailed, err)
	}

	stock, err := s.ledger.GetFinishedGoodStock(ctx, productID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf(ErrMsgFinishedStockFailed, err)
	}

	report := s.engine.Evaluate(*product, idx, stock)
	if s.cache != nil {
		s.cache.SetReport(&report)
	}
	return &report, nil
}

// Invalidate drops cached results
func (s *service) Invalidate() {
	if s.cache != nil {
		s.cache.Invalidate()
	}
}

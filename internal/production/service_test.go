package production

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Atelier_Go/internal/concurrency"
	"github.com/osse101/Atelier_Go/internal/domain"
	"github.com/osse101/Atelier_Go/internal/event"
	"github.com/osse101/Atelier_Go/internal/logger"
	"github.com/osse101/Atelier_Go/internal/testing/leaktest"
)

func testMaterials() []domain.RawMaterial {
	return []domain.RawMaterial{
		{Name: "Goat Milk Base", Kind: domain.KindBaseMaterial, AvailableQuantity: 500},
		{Name: "Shea Base", Kind: domain.KindBaseMaterial, AvailableQuantity: 1000},
		{Name: "Lavender", Kind: domain.KindFragranceOil, AvailableQuantity: 9},
		{Name: "Kraft Box", Kind: domain.KindPackaging, AvailableQuantity: 3},
		{Name: "Tin", Kind: domain.KindPackaging, AvailableQuantity: 100},
		{Name: "Plaster", Kind: domain.KindCastingMaterial, AvailableQuantity: 3000},
		{Name: "Water", Kind: domain.KindCastingAdditive, UnlimitedSupply: true},
		{Name: "Round Mold", Kind: domain.KindMold, VolumeMl: 200, AvailableQuantity: 1},
	}
}

func soap() domain.Product {
	return domain.Product{
		ID: "P-1", Name: "Goat Milk Lavender", Category: domain.CategoryFormulated, UnitWeightGrams: 100, Active: true,
		Formulated: &domain.FormulatedRecipe{BaseMaterial: "Goat Milk Base", Fragrance: "Lavender", Packaging: "Kraft Box"},
	}
}

func coaster() domain.Product {
	return domain.Product{
		ID: "P-3", Name: "Coaster", Category: domain.CategoryCast, UnitWeightGrams: 150, Active: true,
		Cast: &domain.CastRecipe{
			Mold:            "Round Mold",
			CastingMaterial: "Plaster",
			Additives:       []domain.CastingAdditiveDose{{Name: "Water", MixRatio: 40, Unit: domain.CastingAdditiveUnitPercent}},
		},
	}
}

func setup(products ...domain.Product) (*MockLedger, Service, *event.MemoryBus) {
	ledger := NewMockLedger(testMaterials(), products...)
	bus := event.NewMemoryBus()
	svc := NewService(ledger, ledger, nil, concurrency.NewLockManager(), bus)
	return ledger, svc, bus
}

func TestExecute_RejectsWhenPackagingShort(t *testing.T) {
	ledger, svc, _ := setup(soap())
	before := ledger.Snapshot()

	run, err := svc.Execute(context.Background(), "P-1", 5)

	require.Error(t, err)
	var short *domain.InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, domain.KindPackaging, short.Kind)
	assert.Equal(t, "Kraft Box", short.Resource)
	assert.Equal(t, 5.0, short.Required)
	assert.Equal(t, 3.0, short.Available)

	require.NotNil(t, run)
	assert.Equal(t, domain.OutcomeRejected, run.Outcome)
	assert.Equal(t, domain.StateRejected, run.State)
	assert.Contains(t, run.RejectionReason, "Kraft Box")
	assert.Empty(t, run.Consumed)

	assert.Equal(t, before, ledger.Snapshot())
	assert.Empty(t, ledger.Movements())
}

func TestExecute_CommitsAndAccountsDebits(t *testing.T) {
	ledger, svc, bus := setup(soap())
	var published []event.Event
	bus.Subscribe(event.ProductionCommitted, func(ctx context.Context, evt event.Event) error {
		published = append(published, evt)
		return nil
	})

	run, err := svc.Execute(context.Background(), "P-1", 3)
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeCommitted, run.Outcome)
	assert.Equal(t, domain.StateCommitted, run.State)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, []domain.ConsumedResource{
		{Kind: domain.KindBaseMaterial, ResourceName: "Goat Milk Base", QuantityDebited: 300},
		{Kind: domain.KindFragranceOil, ResourceName: "Lavender", QuantityDebited: 6},
		{Kind: domain.KindPackaging, ResourceName: "Kraft Box", QuantityDebited: 3},
	}, run.Consumed)

	snap := ledger.Snapshot()
	assert.Equal(t, 200.0, snap["Goat Milk Base"])
	assert.Equal(t, 3.0, snap["Lavender"])
	assert.Equal(t, 0.0, snap["Kraft Box"])

	stock, err := ledger.GetFinishedGoodStock(context.Background(), "P-1")
	require.NoError(t, err)
	assert.Equal(t, 3, stock)

	movements := ledger.Movements()
	require.Len(t, movements, 4)
	for _, m := range movements[:3] {
		assert.Equal(t, domain.MovementOut, m.Kind)
		assert.Equal(t, run.ID, m.RunID)
	}
	assert.Equal(t, domain.MovementIn, movements[3].Kind)
	assert.Equal(t, 3.0, movements[3].QuantityDelta)

	require.Len(t, published, 1)
	payload, err := event.DecodePayload[event.ProductionCommittedPayloadV1](published[0].Payload)
	require.NoError(t, err)
	assert.Equal(t, run.ID, payload.RunID)
	assert.Equal(t, 3, payload.Units)
}

func TestExecute_EventCarriesRequestID(t *testing.T) {
	_, svc, bus := setup(soap())
	var published []event.Event
	bus.Subscribe(event.ProductionCommitted, func(ctx context.Context, evt event.Event) error {
		published = append(published, evt)
		return nil
	})

	ctx := logger.WithRequestID(context.Background(), "req-42")
	_, err := svc.Execute(ctx, "P-1", 1)
	require.NoError(t, err)

	require.Len(t, published, 1)
	assert.Equal(t, "req-42", published[0].GetMetadataValue(event.MetadataKeyRequestID))
	assert.Equal(t, EventSource, published[0].GetMetadataValue(event.MetadataKeySource))
}

func TestExecute_SkipsReusableAndUnlimitedResources(t *testing.T) {
	ledger, svc, _ := setup(coaster())

	run, err := svc.Execute(context.Background(), "P-3", 2)
	require.NoError(t, err)

	// round(200 * 1.5 * 1.05) = 315 grams per unit
	assert.Equal(t, []domain.ConsumedResource{
		{Kind: domain.KindCastingMaterial, ResourceName: "Plaster", QuantityDebited: 630},
	}, run.Consumed)

	snap := ledger.Snapshot()
	assert.Equal(t, 2370.0, snap["Plaster"])
	assert.Equal(t, 1.0, snap["Round Mold"])
	assert.Len(t, ledger.Movements(), 2)
}

func TestExecute_RejectsRecipeWithNothingToDebit(t *testing.T) {
	moldOnly := domain.Product{
		ID: "P-8", Name: "Mold Only", Category: domain.CategoryCast, UnitWeightGrams: 150, Active: true,
		Cast: &domain.CastRecipe{Mold: "Round Mold"},
	}
	moldAndWater := domain.Product{
		ID: "P-9", Name: "Mold And Water", Category: domain.CategoryCast, UnitWeightGrams: 150, Active: true,
		Cast: &domain.CastRecipe{
			Mold:      "Round Mold",
			Additives: []domain.CastingAdditiveDose{{Name: "Water", MixRatio: 40, Unit: domain.CastingAdditiveUnitPercent}},
		},
	}
	ledger, svc, _ := setup(moldOnly, moldAndWater)
	before := ledger.Snapshot()

	for _, productID := range []string{"P-8", "P-9"} {
		t.Run(productID, func(t *testing.T) {
			run, err := svc.Execute(context.Background(), productID, 1000)

			require.Error(t, err)
			var invalid *domain.InvalidRecipeError
			require.ErrorAs(t, err, &invalid)
			assert.ErrorIs(t, err, domain.ErrInvalidRecipeConfiguration)
			assert.Equal(t, productID, invalid.ProductID)

			require.NotNil(t, run)
			assert.Equal(t, domain.OutcomeRejected, run.Outcome)
			assert.Equal(t, domain.StateRejected, run.State)
			assert.Empty(t, run.Consumed)

			stock, err := ledger.GetFinishedGoodStock(context.Background(), productID)
			require.NoError(t, err)
			assert.Zero(t, stock)
		})
	}

	assert.Equal(t, before, ledger.Snapshot())
	assert.Empty(t, ledger.Movements())
}

func TestExecute_MergesRepeatedResource(t *testing.T) {
	p := domain.Product{
		ID: "P-2", Name: "Double Shea", Category: domain.CategoryFormulated, UnitWeightGrams: 100, Active: true,
		Formulated: &domain.FormulatedRecipe{
			DualBase:  &domain.DualBase{MaterialA: "Shea Base", MaterialB: "shea base", SplitPercentA: 50, SplitPercentB: 50},
			Fragrance: "none",
			Packaging: "Tin",
		},
	}
	ledger, svc, _ := setup(p)

	run, err := svc.Execute(context.Background(), "P-2", 4)
	require.NoError(t, err)

	require.Len(t, run.Consumed, 2)
	assert.Equal(t, 400.0, run.Consumed[0].QuantityDebited)
	assert.Equal(t, 600.0, ledger.Snapshot()["Shea Base"])
	assert.Len(t, ledger.Movements(), 3)
}

func TestExecute_InvalidQuantity(t *testing.T) {
	_, svc, _ := setup(soap())

	for _, units := range []int{0, -3} {
		run, err := svc.Execute(context.Background(), "P-1", units)
		assert.Nil(t, run)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	}
}

func TestExecute_ProductNotFound(t *testing.T) {
	_, svc, _ := setup(soap())

	run, err := svc.Execute(context.Background(), "missing", 1)
	assert.Nil(t, run)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestExecute_RecipeProblemsReject(t *testing.T) {
	undefinedPackaging := soap()
	undefinedPackaging.ID = "P-undef"
	undefinedPackaging.Formulated.Packaging = "Gift Bag"

	undefinedAdditive := soap()
	undefinedAdditive.ID = "P-add"
	undefinedAdditive.Formulated = &domain.FormulatedRecipe{
		BaseMaterial: "Goat Milk Base", Packaging: "Tin",
		Additives: []domain.AdditiveDose{{Name: "Glitter", Amount: 1, Unit: domain.AdditiveUnitPercent}},
	}

	badSplit := soap()
	badSplit.ID = "P-split"
	badSplit.Formulated = &domain.FormulatedRecipe{
		DualBase:  &domain.DualBase{MaterialA: "Shea Base", MaterialB: "Goat Milk Base", SplitPercentA: 70, SplitPercentB: 40},
		Packaging: "Tin",
	}

	unconfigured := domain.Product{ID: "P-cast", Name: "Mystery", Category: domain.CategoryCast, UnitWeightGrams: 100, Cast: &domain.CastRecipe{}}

	tests := []struct {
		name      string
		productID string
		wantErr   error
	}{
		{"undefined packaging", "P-undef", domain.ErrMissingResourceDefinition},
		{"undefined additive", "P-add", domain.ErrMissingResourceDefinition},
		{"invalid split", "P-split", domain.ErrInvalidRecipeConfiguration},
		{"missing cast configuration", "P-cast", domain.ErrInvalidRecipeConfiguration},
	}

	ledger, svc, _ := setup(undefinedPackaging, undefinedAdditive, badSplit, unconfigured)
	before := ledger.Snapshot()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run, err := svc.Execute(context.Background(), tt.productID, 1)
			assert.ErrorIs(t, err, tt.wantErr)
			require.NotNil(t, run)
			assert.Equal(t, domain.OutcomeRejected, run.Outcome)
			assert.Equal(t, err, run.Err)
		})
	}

	assert.Equal(t, before, ledger.Snapshot())
	assert.Empty(t, ledger.Movements())
}

func TestExecute_FailuresLeaveLedgerUntouched(t *testing.T) {
	tests := []struct {
		name   string
		inject func(m *MockLedger)
	}{
		{"begin tx", func(m *MockLedger) { m.shouldFailBeginTx = true }},
		{"third debit", func(m *MockLedger) { m.failDebitOn = "Kraft Box" }},
		{"credit", func(m *MockLedger) { m.shouldFailCredit = true }},
		{"commit", func(m *MockLedger) { m.shouldFailCommit = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger, svc, bus := setup(soap())
			published := 0
			bus.Subscribe(event.ProductionCommitted, func(ctx context.Context, evt event.Event) error {
				published++
				return nil
			})
			before := ledger.Snapshot()
			tt.inject(ledger)

			run, err := svc.Execute(context.Background(), "P-1", 2)
			require.Error(t, err)
			assert.Equal(t, domain.OutcomeRejected, run.Outcome)
			assert.Empty(t, run.Consumed)

			assert.Equal(t, before, ledger.Snapshot())
			assert.Empty(t, ledger.Movements())
			assert.Zero(t, published)

			// The same run succeeds once the fault clears
			ledger.ResetErrorFlags()
			run, err = svc.Execute(context.Background(), "P-1", 2)
			require.NoError(t, err)
			assert.Equal(t, domain.OutcomeCommitted, run.Outcome)
		})
	}
}

func TestExecute_ConcurrentModification(t *testing.T) {
	ledger, svc, _ := setup(soap())
	before := ledger.Snapshot()
	ledger.concurrentWriteOn = "Lavender"

	run, err := svc.Execute(context.Background(), "P-1", 1)

	var conflict *domain.ConcurrentModificationError
	require.ErrorAs(t, err, &conflict)
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)
	assert.Equal(t, "Lavender", conflict.Resource)
	assert.Equal(t, domain.OutcomeRejected, run.Outcome)
	assert.Equal(t, before, ledger.Snapshot())
}

func TestExecute_CancelledContext(t *testing.T) {
	ledger, svc, _ := setup(soap())
	before := ledger.Snapshot()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Execute(ctx, "P-1", 1)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, before, ledger.Snapshot())
	assert.Empty(t, ledger.Movements())
}

func TestExecute_ConcurrentRunsNeverOvercommit(t *testing.T) {
	checker := leaktest.NewGoroutineChecker(t)
	defer checker.Check(0)

	mats := testMaterials()
	for i := range mats {
		switch mats[i].Name {
		case "Goat Milk Base":
			mats[i].AvailableQuantity = 100000
		case "Lavender":
			mats[i].AvailableQuantity = 10000
		case "Kraft Box":
			mats[i].AvailableQuantity = 10
		}
	}
	ledger := NewMockLedger(mats, soap())
	svc := NewService(ledger, ledger, nil, concurrency.NewLockManager(), nil)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		committed int
		rejected  int
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Execute(context.Background(), "P-1", 1)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				committed++
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, committed)
	assert.Equal(t, 15, rejected)
	assert.Equal(t, 0.0, ledger.Snapshot()["Kraft Box"])
	stock, _ := ledger.GetFinishedGoodStock(context.Background(), "P-1")
	assert.Equal(t, 10, stock)
	assert.Len(t, ledger.Movements(), 40)
}

func TestAdjustStock(t *testing.T) {
	ledger, svc, bus := setup(soap())
	var got []event.Event
	bus.Subscribe(event.StockAdjusted, func(ctx context.Context, evt event.Event) error {
		got = append(got, evt)
		return nil
	})

	rec, err := svc.AdjustStock(context.Background(), domain.KindPackaging, "kraft box", 7, "delivery")
	require.NoError(t, err)

	assert.Equal(t, domain.MovementCorrection, rec.Kind)
	assert.Equal(t, "Kraft Box", rec.ResourceRef)
	assert.Equal(t, 3.0, rec.BalanceBefore)
	assert.Equal(t, 10.0, rec.BalanceAfter)
	assert.Equal(t, 10.0, ledger.Snapshot()["Kraft Box"])
	require.Len(t, got, 1)

	rec, err = svc.AdjustStock(context.Background(), domain.KindPackaging, "Kraft Box", -50, "recount")
	require.NoError(t, err)
	assert.Equal(t, 0.0, rec.BalanceAfter, "corrections clamp at zero")
	assert.Equal(t, -10.0, rec.QuantityDelta)
}

func TestAdjustStock_InvalidInput(t *testing.T) {
	_, svc, _ := setup(soap())
	ctx := context.Background()

	_, err := svc.AdjustStock(ctx, domain.KindFinishedGood, "P-1", 1, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.AdjustStock(ctx, domain.KindPackaging, "", 1, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.AdjustStock(ctx, domain.KindPackaging, "Tin", 0, "")
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = svc.AdjustStock(ctx, domain.KindPackaging, "Gift Bag", 1, "")
	assert.ErrorIs(t, err, domain.ErrResourceNotFound)
	assert.ErrorIs(t, err, domain.ErrMissingResourceDefinition)
}

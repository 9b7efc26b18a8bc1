package production

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/osse101/Atelier_Go/internal/catalog"
	"github.com/osse101/Atelier_Go/internal/domain"
	"github.com/osse101/Atelier_Go/internal/repository"
)

// MockLedger is an in-memory catalog and ledger with transactional staging
type MockLedger struct {
	sync.RWMutex
	materials map[string]*domain.RawMaterial
	matOrder  []string
	products  []domain.Product
	finished  map[string]int
	movements []domain.MovementRecord
	nextID    int64

	// Error injection for testing
	shouldFailBeginTx bool
	shouldFailCredit  bool
	shouldFailCommit  bool
	failDebitOn       string
	concurrentWriteOn string
}

func NewMockLedger(mats []domain.RawMaterial, products ...domain.Product) *MockLedger {
	m := &MockLedger{
		materials: make(map[string]*domain.RawMaterial),
		products:  products,
		finished:  make(map[string]int),
	}
	for _, mat := range mats {
		mat := mat
		key := ledgerKey(mat.Kind, mat.Name)
		m.materials[key] = &mat
		m.matOrder = append(m.matOrder, key)
	}
	return m
}

func ledgerKey(kind domain.ResourceKind, name string) string {
	return string(kind) + "|" + catalog.NormalizeName(name)
}

// ResetErrorFlags resets all error injection flags
func (m *MockLedger) ResetErrorFlags() {
	m.Lock()
	defer m.Unlock()
	m.shouldFailBeginTx = false
	m.shouldFailCredit = false
	m.shouldFailCommit = false
	m.failDebitOn = ""
	m.concurrentWriteOn = ""
}

// Snapshot returns every raw-material balance by name
func (m *MockLedger) Snapshot() map[string]float64 {
	m.RLock()
	defer m.RUnlock()
	out := make(map[string]float64, len(m.materials))
	for _, mat := range m.materials {
		out[mat.Name] = mat.AvailableQuantity
	}
	return out
}

// Movements returns a copy of the movement log
func (m *MockLedger) Movements() []domain.MovementRecord {
	m.RLock()
	defer m.RUnlock()
	return append([]domain.MovementRecord(nil), m.movements...)
}

func (m *MockLedger) ListByKind(ctx context.Context, kind domain.ResourceKind) ([]domain.RawMaterial, error) {
	m.RLock()
	defer m.RUnlock()
	var out []domain.RawMaterial
	for _, key := range m.matOrder {
		if mat := m.materials[key]; mat.Kind == kind {
			out = append(out, *mat)
		}
	}
	return out, nil
}

func (m *MockLedger) ListProducts(ctx context.Context, activeOnly bool) ([]domain.Product, error) {
	m.RLock()
	defer m.RUnlock()
	var out []domain.Product
	for _, p := range m.products {
		if !activeOnly || p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MockLedger) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	m.RLock()
	defer m.RUnlock()
	for i := range m.products {
		if m.products[i].ID == productID {
			p := m.products[i]
			return &p, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (m *MockLedger) GetAvailable(ctx context.Context, kind domain.ResourceKind, name string) (float64, error) {
	m.RLock()
	defer m.RUnlock()
	mat, ok := m.materials[ledgerKey(kind, name)]
	if !ok {
		return 0, &domain.MissingResourceError{Kind: kind, Name: name}
	}
	return mat.AvailableQuantity, nil
}

func (m *MockLedger) GetFinishedGoodStock(ctx context.Context, productID string) (int, error) {
	m.RLock()
	defer m.RUnlock()
	return m.finished[productID], nil
}

func (m *MockLedger) FinishedGoodStock(ctx context.Context) (map[string]int, error) {
	m.RLock()
	defer m.RUnlock()
	out := make(map[string]int, len(m.finished))
	for k, v := range m.finished {
		out[k] = v
	}
	return out, nil
}

func (m *MockLedger) BeginTx(ctx context.Context) (repository.LedgerTx, error) {
	m.RLock()
	defer m.RUnlock()
	if m.shouldFailBeginTx {
		return nil, errors.New("failed to begin transaction")
	}
	return &MockTx{
		repo:     m,
		staged:   make(map[string]float64),
		finished: make(map[string]int),
	}, nil
}

// MockTx stages writes and applies them on Commit
type MockTx struct {
	repo      *MockLedger
	staged    map[string]float64
	finished  map[string]int
	movements []domain.MovementRecord
	done      bool
}

func (tx *MockTx) current(key string) (*domain.RawMaterial, float64, bool) {
	mat, ok := tx.repo.materials[key]
	if !ok {
		return nil, 0, false
	}
	if qty, staged := tx.staged[key]; staged {
		return mat, qty, true
	}
	return mat, mat.AvailableQuantity, true
}

func (tx *MockTx) GetForUpdate(ctx context.Context, kind domain.ResourceKind, name string) (repository.Balance, error) {
	tx.repo.Lock()
	defer tx.repo.Unlock()
	key := ledgerKey(kind, name)
	mat, qty, ok := tx.current(key)
	if !ok {
		return repository.Balance{}, &domain.MissingResourceError{Kind: kind, Name: name}
	}
	bal := repository.Balance{Quantity: qty, Version: mat.Version, UnlimitedSupply: mat.UnlimitedSupply}
	if tx.repo.concurrentWriteOn == mat.Name {
		// Another process writes right after our read
		mat.Version++
	}
	return bal, nil
}

func (tx *MockTx) Debit(ctx context.Context, kind domain.ResourceKind, name string, quantity float64, expectedVersion int64, reason, runID string) (domain.MovementRecord, error) {
	tx.repo.Lock()
	defer tx.repo.Unlock()
	if tx.repo.failDebitOn == name {
		return domain.MovementRecord{}, errors.New("disk full")
	}
	key := ledgerKey(kind, name)
	mat, before, ok := tx.current(key)
	if !ok {
		return domain.MovementRecord{}, &domain.MissingResourceError{Kind: kind, Name: name}
	}
	if mat.Version != expectedVersion {
		return domain.MovementRecord{}, &domain.ConcurrentModificationError{Kind: kind, Resource: name, ExpectedVersion: expectedVersion, ActualVersion: mat.Version}
	}
	after := max(before-quantity, 0)
	tx.staged[key] = after
	rec := domain.MovementRecord{
		Kind: domain.MovementOut, ResourceKind: kind, ResourceRef: mat.Name,
		QuantityDelta: after - before, BalanceBefore: before, BalanceAfter: after,
		Reason: reason, RunID: runID, Timestamp: time.Now(),
	}
	tx.movements = append(tx.movements, rec)
	return rec, nil
}

func (tx *MockTx) Credit(ctx context.Context, productID string, quantity int, reason, runID string) (domain.MovementRecord, error) {
	tx.repo.Lock()
	defer tx.repo.Unlock()
	if tx.repo.shouldFailCredit {
		return domain.MovementRecord{}, errors.New("credit failed")
	}
	before := tx.repo.finished[productID] + tx.finished[productID]
	tx.finished[productID] += quantity
	rec := domain.MovementRecord{
		Kind: domain.MovementIn, ResourceKind: domain.KindFinishedGood, ResourceRef: productID,
		QuantityDelta: float64(quantity), BalanceBefore: float64(before), BalanceAfter: float64(before + quantity),
		Reason: reason, RunID: runID, Timestamp: time.Now(),
	}
	tx.movements = append(tx.movements, rec)
	return rec, nil
}

func (tx *MockTx) Adjust(ctx context.Context, kind domain.ResourceKind, name string, delta float64, reason string) (domain.MovementRecord, error) {
	tx.repo.Lock()
	defer tx.repo.Unlock()
	key := ledgerKey(kind, name)
	mat, before, ok := tx.current(key)
	if !ok {
		return domain.MovementRecord{}, &domain.MissingResourceError{Kind: kind, Name: name}
	}
	after := max(before+delta, 0)
	tx.staged[key] = after
	rec := domain.MovementRecord{
		Kind: domain.MovementCorrection, ResourceKind: kind, ResourceRef: mat.Name,
		QuantityDelta: after - before, BalanceBefore: before, BalanceAfter: after,
		Reason: reason, Timestamp: time.Now(),
	}
	tx.movements = append(tx.movements, rec)
	return rec, nil
}

func (tx *MockTx) Commit(ctx context.Context) error {
	tx.repo.Lock()
	defer tx.repo.Unlock()
	if tx.done {
		return errors.New(domain.ErrMsgTxClosed)
	}
	if tx.repo.shouldFailCommit {
		return errors.New("commit failed")
	}
	for key, qty := range tx.staged {
		mat := tx.repo.materials[key]
		mat.AvailableQuantity = qty
		mat.Version++
	}
	for id, qty := range tx.finished {
		tx.repo.finished[id] += qty
	}
	for _, rec := range tx.movements {
		tx.repo.nextID++
		rec.ID = tx.repo.nextID
		tx.repo.movements = append(tx.repo.movements, rec)
	}
	tx.done = true
	return nil
}

func (tx *MockTx) Rollback(ctx context.Context) error {
	tx.repo.Lock()
	defer tx.repo.Unlock()
	if tx.done {
		return errors.New(domain.ErrMsgTxClosed)
	}
	tx.done = true
	return nil
}

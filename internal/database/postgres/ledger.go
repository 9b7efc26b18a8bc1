package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/Atelier_Go/internal/domain"
	"github.com/osse101/Atelier_Go/internal/repository"
)

const (
	queryGetAvailable = `
		SELECT available_quantity
		FROM raw_materials
		WHERE kind = $1 AND LOWER(name) = LOWER($2)`

	queryGetFinishedStock = `
		SELECT quantity FROM finished_goods WHERE product_id = $1`

	queryListFinishedStock = `
		SELECT product_id, quantity FROM finished_goods`

	queryLockBalance = `
		SELECT available_quantity, version, unlimited_supply
		FROM raw_materials
		WHERE kind = $1 AND LOWER(name) = LOWER($2)
		FOR UPDATE`

	queryReadVersion = `
		SELECT version FROM raw_materials WHERE kind = $1 AND LOWER(name) = LOWER($2)`

	// queryDebit applies only when the version still matches the one observed at validation
	queryDebit = `
		WITH prev AS (
			SELECT material_id, name, available_quantity
			FROM raw_materials
			WHERE kind = $1 AND LOWER(name) = LOWER($2)
			FOR UPDATE
		)
		UPDATE raw_materials r
		SET available_quantity = GREATEST(r.available_quantity - $3, 0),
		    version = r.version + 1,
		    updated_at = NOW()
		FROM prev
		WHERE r.material_id = prev.material_id AND r.version = $4
		RETURNING prev.name, prev.available_quantity, r.available_quantity`

	queryAdjust = `
		WITH prev AS (
			SELECT material_id, name, available_quantity
			FROM raw_materials
			WHERE kind = $1 AND LOWER(name) = LOWER($2)
			FOR UPDATE
		)
		UPDATE raw_materials r
		SET available_quantity = GREATEST(r.available_quantity + $3, 0),
		    version = r.version + 1,
		    updated_at = NOW()
		FROM prev
		WHERE r.material_id = prev.material_id
		RETURNING prev.name, prev.available_quantity, r.available_quantity`

	queryCredit = `
		INSERT INTO finished_goods (product_id, quantity, version)
		VALUES ($1, $2, 1)
		ON CONFLICT (product_id) DO UPDATE
		SET quantity = finished_goods.quantity + EXCLUDED.quantity,
		    version = finished_goods.version + 1,
		    updated_at = NOW()
		RETURNING quantity`

	queryInsertMovement = `
		INSERT INTO stock_movements
			(kind, resource_kind, resource_ref, quantity_delta, balance_before, balance_after, reason, run_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING movement_id, created_at`
)

// LedgerRepository implements repository.Ledger for PostgreSQL
type LedgerRepository struct {
	db *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// GetAvailable returns the live balance of one raw material
func (r *LedgerRepository) GetAvailable(ctx context.Context, kind domain.ResourceKind, name string) (float64, error) {
	var qty float64
	if err := r.db.QueryRow(ctx, queryGetAvailable, string(kind), name).Scan(&qty); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, &domain.MissingResourceError{Kind: kind, Name: name}
		}
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToGetBalance, err)
	}
	return qty, nil
}

// GetFinishedGoodStock returns the finished-good balance of a product, 0 if never produced
func (r *LedgerRepository) GetFinishedGoodStock(ctx context.Context, productID string) (int, error) {
	var qty int
	if err := r.db.QueryRow(ctx, queryGetFinishedStock, productID).Scan(&qty); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToGetFinishedStock, err)
	}
	return qty, nil
}

// FinishedGoodStock returns a snapshot of every finished-good balance
func (r *LedgerRepository) FinishedGoodStock(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.Query(ctx, queryListFinishedStock)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetFinishedStock, err)
	}
	defer rows.Close()

	stock := make(map[string]int)
	for rows.Next() {
		var (
			id  string
			qty int
		)
		if err := rows.Scan(&id, &qty); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetFinishedStock, err)
		}
		stock[id] = qty
	}
	return stock, rows.Err()
}

// BeginTx starts a ledger transaction
func (r *LedgerRepository) BeginTx(ctx context.Context) (repository.LedgerTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	return &ledgerTx{tx: tx}, nil
}

// ledgerTx implements repository.LedgerTx
type ledgerTx struct {
	tx pgx.Tx
}

func (t *ledgerTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *ledgerTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// GetForUpdate locks a raw-material row until the transaction ends
func (t *ledgerTx) GetForUpdate(ctx context.Context, kind domain.ResourceKind, name string) (repository.Balance, error) {
	var bal repository.Balance
	err := t.tx.QueryRow(ctx, queryLockBalance, string(kind), name).Scan(&bal.Quantity, &bal.Version, &bal.UnlimitedSupply)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.Balance{}, &domain.MissingResourceError{Kind: kind, Name: name}
		}
		return repository.Balance{}, fmt.Errorf("%s: %w", ErrMsgFailedToLockBalance, err)
	}
	return bal, nil
}

// Debit decrements a balance, clamping at zero
func (t *ledgerTx) Debit(ctx context.Context, kind domain.ResourceKind, name string, quantity float64, expectedVersion int64, reason, runID string) (domain.MovementRecord, error) {
	var (
		ref           string
		before, after float64
	)
	err := t.tx.QueryRow(ctx, queryDebit, string(kind), name, quantity, expectedVersion).Scan(&ref, &before, &after)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.MovementRecord{}, t.debitConflict(ctx, kind, name, expectedVersion)
		}
		return domain.MovementRecord{}, fmt.Errorf("%s: %w", ErrMsgFailedToDebit, err)
	}

	return t.recordMovement(ctx, domain.MovementRecord{
		Kind:          domain.MovementOut,
		ResourceKind:  kind,
		ResourceRef:   ref,
		QuantityDelta: after - before,
		BalanceBefore: before,
		BalanceAfter:  after,
		Reason:        reason,
		RunID:         runID,
	})
}

// debitConflict explains why a debit matched no row
func (t *ledgerTx) debitConflict(ctx context.Context, kind domain.ResourceKind, name string, expectedVersion int64) error {
	var actual int64
	if err := t.tx.QueryRow(ctx, queryReadVersion, string(kind), name).Scan(&actual); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.MissingResourceError{Kind: kind, Name: name}
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToReadVersion, err)
	}
	return &domain.ConcurrentModificationError{
		Kind:            kind,
		Resource:        name,
		ExpectedVersion: expectedVersion,
		ActualVersion:   actual,
	}
}

// Credit increments a finished-good balance
func (t *ledgerTx) Credit(ctx context.Context, productID string, quantity int, reason, runID string) (domain.MovementRecord, error) {
	var after int
	if err := t.tx.QueryRow(ctx, queryCredit, productID, quantity).Scan(&after); err != nil {
		return domain.MovementRecord{}, fmt.Errorf("%s: %w", ErrMsgFailedToCredit, err)
	}

	return t.recordMovement(ctx, domain.MovementRecord{
		Kind:          domain.MovementIn,
		ResourceKind:  domain.KindFinishedGood,
		ResourceRef:   productID,
		QuantityDelta: float64(quantity),
		BalanceBefore: float64(after - quantity),
		BalanceAfter:  float64(after),
		Reason:        reason,
		RunID:         runID,
	})
}

// Adjust applies a signed correction, clamping at zero
func (t *ledgerTx) Adjust(ctx context.Context, kind domain.ResourceKind, name string, delta float64, reason string) (domain.MovementRecord, error) {
	var (
		ref           string
		before, after float64
	)
	if err := t.tx.QueryRow(ctx, queryAdjust, string(kind), name, delta).Scan(&ref, &before, &after); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.MovementRecord{}, &domain.MissingResourceError{Kind: kind, Name: name}
		}
		return domain.MovementRecord{}, fmt.Errorf("%s: %w", ErrMsgFailedToAdjust, err)
	}

	return t.recordMovement(ctx, domain.MovementRecord{
		Kind:          domain.MovementCorrection,
		ResourceKind:  kind,
		ResourceRef:   ref,
		QuantityDelta: after - before,
		BalanceBefore: before,
		BalanceAfter:  after,
		Reason:        reason,
	})
}

// recordMovement appends one movement row and fills its id and timestamp
func (t *ledgerTx) recordMovement(ctx context.Context, rec domain.MovementRecord) (domain.MovementRecord, error) {
	var createdAt time.Time
	err := t.tx.QueryRow(ctx, queryInsertMovement,
		string(rec.Kind), string(rec.ResourceKind), rec.ResourceRef,
		rec.QuantityDelta, rec.BalanceBefore, rec.BalanceAfter, rec.Reason, nullableString(rec.RunID),
	).Scan(&rec.ID, &createdAt)
	if err != nil {
		return domain.MovementRecord{}, fmt.Errorf("%s: %w", ErrMsgFailedToRecordMovement, err)
	}
	rec.Timestamp = createdAt
	return rec, nil
}

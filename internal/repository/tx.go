package repository

import (
	"context"
	"strings"

	"github.com/osse101/Atelier_Go/internal/domain"
	"github.com/osse101/Atelier_Go/internal/logger"
)

// Tx is the commit/rollback half of a ledger transaction
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// SafeRollback is meant to be deferred right after BeginTx. Rolling back a
// transaction that already committed is expected and stays quiet.
func SafeRollback(ctx context.Context, tx Tx) {
	err := tx.Rollback(ctx)
	if err == nil || strings.Contains(err.Error(), domain.ErrMsgTxClosed) {
		return
	}
	logger.FromContext(ctx).Error(LogMsgRollbackFailed, "error", err)
}

// LogMsgRollbackFailed is logged when a rollback fails for a reason other than
// the transaction already being closed
const LogMsgRollbackFailed = "Failed to roll back ledger transaction"

package repository

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/osse101/Atelier_Go/internal/domain"
)

type rollbackTx struct{ err error }

func (rollbackTx) Commit(context.Context) error     { return nil }
func (t rollbackTx) Rollback(context.Context) error { return t.err }

func TestSafeRollback(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		logged bool
	}{
		{"clean rollback", nil, false},
		{"already committed", errors.New(domain.ErrMsgTxClosed), false},
		{"wrapped closed", errors.New("rollback: " + domain.ErrMsgTxClosed), false},
		{"connection lost", errors.New("conn closed"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			prev := slog.Default()
			slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
			t.Cleanup(func() { slog.SetDefault(prev) })

			SafeRollback(context.Background(), rollbackTx{err: tt.err})

			if tt.logged {
				assert.Contains(t, buf.String(), LogMsgRollbackFailed)
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

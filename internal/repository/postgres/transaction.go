package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"docspace/internal/domain/repositories"
	"docspace/internal/repository/retry"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionManager implements the TransactionManager interface
type TransactionManager struct {
	pool   *pgxpool.Pool
	policy retry.Policy
	logger *slog.Logger
}

// NewTransactionManager creates a new transaction manager. Serialization
// failures, deadlocks and lost connections are retried according to policy.
func NewTransactionManager(pool *pgxpool.Pool, policy retry.Policy, logger *slog.Logger) repositories.TransactionManager {
	return &TransactionManager{pool: pool, policy: policy, logger: logger}
}

// ExecTx executes a function within a transaction. A context that already
// carries a transaction joins it.
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if repositories.InTx(ctx) {
		return fn(ctx)
	}
	return retry.Do(ctx, tm.policy, IsTransientError, tm.logger, func(ctx context.Context) error {
		return tm.attempt(ctx, fn)
	})
}

func (tm *TransactionManager) attempt(ctx context.Context, fn repositories.TxFn) error {
	tx, err := tm.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	// Defer rollback - safe even if commit succeeds
	defer func() {
		if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			tm.logger.Warn("rollback failed", "error", err)
		}
	}()

	// Store transaction in context so repositories can access it
	txCtx := repositories.SetTx(ctx, tx)

	if err := fn(txCtx); err != nil {
		return err
	}

	// Last point where cancellation is honored
	if err := ctx.Err(); err != nil {
		return err
	}

	// The commit runs to completion even if ctx is cancelled meanwhile
	if err := tx.Commit(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

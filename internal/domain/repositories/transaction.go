package repositories

import "context"

// TxFn is a function that runs within a transaction.
// It may be invoked more than once when a transient failure is retried,
// so it must not have side effects outside the transaction.
type TxFn func(ctx context.Context) error

// TransactionManager handles database transactions
type TransactionManager interface {
	// ExecTx executes fn within a transaction and commits it. Transient
	// failures (deadlock, serialization, lost connection) are retried a
	// bounded number of times. A call made with a context that already
	// carries a transaction joins it instead of opening a new one.
	// Cancellation is honored up to the commit; the commit itself runs to
	// completion.
	ExecTx(ctx context.Context, fn TxFn) error
}

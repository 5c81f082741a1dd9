package hierarchy

import "context"

// OpState is the stage a mutating operation has reached
type OpState string

const (
	StateValidating OpState = "validating"
	StateLocked     OpState = "locked"
	StateMutating   OpState = "mutating"
	StateCommitted  OpState = "committed"
	// StateRejected means the operation failed before any write
	StateRejected OpState = "rejected"
	// StateAborted means a write failed and the transaction was rolled back
	StateAborted OpState = "aborted"
)

// StateObserver is notified on every state transition
type StateObserver func(ctx context.Context, op string, state OpState)

// operation tracks one mutating call through its states
type operation struct {
	m        *mutator
	name     string
	tenantID string
	userID   string
	state    OpState
}

func (o *operation) enter(ctx context.Context, state OpState) {
	if o.state == state {
		return
	}
	o.state = state
	o.m.logger.Debug("operation state",
		"op", o.name,
		"tenant_id", o.tenantID,
		"state", state,
	)
	if o.m.observer != nil {
		o.m.observer(ctx, o.name, state)
	}
}

// finish moves the operation to its terminal state and returns err unchanged
func (o *operation) finish(ctx context.Context, err error) error {
	switch {
	case err == nil:
		o.enter(ctx, StateCommitted)
	case o.state == StateMutating:
		o.enter(ctx, StateAborted)
	default:
		o.enter(ctx, StateRejected)
	}
	return err
}

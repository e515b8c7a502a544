package utils

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// Recovery converts a panic raised anywhere down the stack into an
// ErrPanic result and reports it on the context logger.
type Recovery struct{}

var _ timelock.Decorator = Recovery{}

// NewRecovery returns the panic recovering decorator.
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns a panic into a failed check result.
func (Recovery) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx, next timelock.Checker) (_ *timelock.CheckResult, err error) {
	defer recovered(ctx, "check", tx, &err)
	return next.Check(ctx, db, tx)
}

// Deliver turns a panic into a failed deliver result.
func (Recovery) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx, next timelock.Deliverer) (_ *timelock.DeliverResult, err error) {
	defer recovered(ctx, "deliver", tx, &err)
	return next.Deliver(ctx, db, tx)
}

// recovered must be deferred directly, recover has no effect otherwise.
func recovered(ctx timelock.Context, phase string, tx timelock.Tx, err *error) {
	r := recover()
	if r == nil {
		return
	}
	*err = errors.Wrapf(errors.ErrPanic, "%v", r)

	path := "(missing)"
	if tx != nil {
		path = timelock.GetPath(tx)
	}
	timelock.GetLogger(ctx).Error("transaction panic", "phase", phase, "path", path, "panic", r)
}

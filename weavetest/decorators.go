package weavetest

import "github.com/iov-one/timelock"

// Decorator is a mock implementation of the timelock.Decorator interface.
//
// A non nil CheckErr or DeliverErr is returned instead of calling the next
// handler. Calls are counted whether they fail or not.
type Decorator struct {
	CheckErr   error
	DeliverErr error

	checks   int
	delivers int
}

var _ timelock.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx, next timelock.Checker) (*timelock.CheckResult, error) {
	d.checks++
	if err := d.CheckErr; err != nil {
		return &timelock.CheckResult{}, err
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx, next timelock.Deliverer) (*timelock.DeliverResult, error) {
	d.delivers++
	if err := d.DeliverErr; err != nil {
		return &timelock.DeliverResult{}, err
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CheckCallCount() int   { return d.checks }
func (d *Decorator) DeliverCallCount() int { return d.delivers }
func (d *Decorator) CallCount() int        { return d.checks + d.delivers }

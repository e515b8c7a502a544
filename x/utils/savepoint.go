package utils

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// Savepoint isolates all writes done by the wrapped handler. The writes are
// committed to the parent store only if the handler succeeds and discarded
// otherwise, so that a failing transaction leaves no partial effect.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ timelock.Decorator = Savepoint{}

// NewSavepoint creates a Savepoint decorator that is not active. Call
// OnCheck and/or OnDeliver to enable it.
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a savepoint that will trigger on CheckTx
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver returns a savepoint that will trigger on DeliverTx
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

// Check will optionally set a checkpoint
func (s Savepoint) Check(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx, next timelock.Checker) (*timelock.CheckResult, error) {
	cache, ok := s.cache(store, s.onCheck)
	if !ok {
		return next.Check(ctx, store, tx)
	}
	res, err := next.Check(ctx, cache, tx)
	if err := commit(cache, err); err != nil {
		return nil, err
	}
	return res, nil
}

// Deliver will optionally set a checkpoint
func (s Savepoint) Deliver(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx, next timelock.Deliverer) (*timelock.DeliverResult, error) {
	cache, ok := s.cache(store, s.onDeliver)
	if !ok {
		return next.Deliver(ctx, store, tx)
	}
	res, err := next.Deliver(ctx, cache, tx)
	if err := commit(cache, err); err != nil {
		return nil, err
	}
	return res, nil
}

func (Savepoint) cache(store timelock.KVStore, enabled bool) (timelock.KVCacheWrap, bool) {
	if !enabled {
		return nil, false
	}
	cstore, ok := store.(timelock.CacheableKVStore)
	if !ok {
		return nil, false
	}
	return cstore.CacheWrap(), true
}

// commit writes the cache if the handler succeeded. Otherwise all changes
// are dropped and the handler error is returned.
func commit(cache timelock.KVCacheWrap, handlerErr error) error {
	if handlerErr != nil {
		cache.Discard()
		return handlerErr
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "writing savepoint")
	}
	return nil
}

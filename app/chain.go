package app

import (
	"reflect"

	"github.com/iov-one/timelock"
)

// Decorators is an ordered stack of decorators waiting for the handler they
// will wrap. The zero value is an empty stack.
type Decorators struct {
	chain []timelock.Decorator
}

// ChainDecorators returns a stack of the given decorators. The first one is
// the outermost, so it sees a transaction first.
//
//	app.ChainDecorators(
//		utils.NewLogging(),
//		utils.NewRecovery(),
//		sigs.NewDecorator(),
//		utils.NewSavepoint().OnDeliver(),
//	).WithHandler(router)
//
// Nil decorators are skipped, which allows optional entries.
func ChainDecorators(chain ...timelock.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain returns a new stack with the decorators appended at the inner end.
// The receiver is never modified, so a common base stack can be extended in
// several ways.
func (d Decorators) Chain(chain ...timelock.Decorator) Decorators {
	next := make([]timelock.Decorator, len(d.chain), len(d.chain)+len(chain))
	copy(next, d.chain)
	for _, dec := range chain {
		if !isNilDecorator(dec) {
			next = append(next, dec)
		}
	}
	return Decorators{chain: next}
}

func isNilDecorator(d timelock.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler closes the stack with h and returns the resulting handler.
func (d Decorators) WithHandler(h timelock.Handler) timelock.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = decorated{dec: d.chain[i], next: h}
	}
	return h
}

// decorated runs one decorator in front of the rest of the stack.
type decorated struct {
	dec  timelock.Decorator
	next timelock.Handler
}

var _ timelock.Handler = decorated{}

func (s decorated) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	return s.dec.Check(ctx, db, tx, s.next)
}

func (s decorated) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	return s.dec.Deliver(ctx, db, tx, s.next)
}

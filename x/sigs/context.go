package sigs

import (
	"context"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/x"
)

//------------------- Context --------
// Add context information specific to this package

type contextKey int // local to the sigs module

const (
	contextKeySigners contextKey = iota
)

// withSigners is a private method, as only this module
// can add a signer
func withSigners(ctx timelock.Context, signers []timelock.Condition) timelock.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticate gives access to the conditions of all valid signatures
// of the transaction.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns who signed the current Context.
// May be empty
func (a Authenticate) GetConditions(ctx timelock.Context) []timelock.Condition {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeySigners).([]timelock.Condition)
	return val
}

// HasAddress returns true if the given address signed the
// current Context.
func (a Authenticate) HasAddress(ctx timelock.Context, addr timelock.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}

package x

import (
	"github.com/iov-one/timelock"
)

// Authenticator tells which conditions authorized the current transaction.
// Handlers receive it in their constructor, so the signature scheme can be
// replaced without touching them.
type Authenticator interface {
	// GetConditions returns all conditions fulfilled by the transaction.
	GetConditions(timelock.Context) []timelock.Condition
	// HasAddress checks if any fulfilled condition matches the address.
	HasAddress(timelock.Context, timelock.Address) bool
}

// MultiAuth merges the answers of several Authenticators.
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetConditions returns the conditions of every Authenticator, in order.
func (m MultiAuth) GetConditions(ctx timelock.Context) []timelock.Condition {
	var res []timelock.Condition
	for _, impl := range m.impls {
		res = append(res, impl.GetConditions(ctx)...)
	}
	return res
}

// HasAddress returns true if any Authenticator knows the address.
func (m MultiAuth) HasAddress(ctx timelock.Context, addr timelock.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner returns the first condition if any, otherwise nil.
func MainSigner(ctx timelock.Context, auth Authenticator) timelock.Condition {
	signers := auth.GetConditions(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

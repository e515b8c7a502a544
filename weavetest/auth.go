package weavetest

import (
	"context"
	"fmt"

	"github.com/iov-one/timelock"
)

// Auth is a mock x.Authenticator that always authenticates the same conditions,
// regardless of the context.
//
// Signer is a shortcut for the common single signer case. Signers and
// Signer are both considered, Signer being listed last.
type Auth struct {
	Signer  timelock.Condition
	Signers []timelock.Condition
}

func (a *Auth) GetConditions(timelock.Context) []timelock.Condition {
	if a.Signer == nil {
		return a.Signers
	}
	conds := make([]timelock.Condition, 0, len(a.Signers)+1)
	conds = append(conds, a.Signers...)
	return append(conds, a.Signer)
}

func (a *Auth) HasAddress(ctx timelock.Context, addr timelock.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

// CtxAuth is a mock x.Authenticator that keeps the conditions in the context,
// so that each request can carry different signers.
type CtxAuth struct {
	// Key the conditions are stored under in the context.
	Key string
}

// SetConditions returns a context authenticating given conditions.
func (a *CtxAuth) SetConditions(ctx timelock.Context, conds ...timelock.Condition) timelock.Context {
	return context.WithValue(ctx, a.Key, conds)
}

func (a *CtxAuth) GetConditions(ctx timelock.Context) []timelock.Condition {
	switch conds := ctx.Value(a.Key).(type) {
	case nil:
		return nil
	case []timelock.Condition:
		return conds
	default:
		panic(fmt.Sprintf("instead of []timelock.Condition got %T", conds))
	}
}

func (a *CtxAuth) HasAddress(ctx timelock.Context, addr timelock.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

func hasAddress(conds []timelock.Condition, addr timelock.Address) bool {
	for _, c := range conds {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}

package weavetest

import (
	"context"
	"testing"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/weavetest/assert"
)

func TestAuth(t *testing.T) {
	conds := []timelock.Condition{NewCondition(), NewCondition(), NewCondition()}

	cases := map[string]struct {
		auth Auth
		want []timelock.Condition
	}{
		"no signers": {
			auth: Auth{},
			want: nil,
		},
		"only signer": {
			auth: Auth{Signer: conds[0]},
			want: conds[:1],
		},
		"only signers": {
			auth: Auth{Signers: conds},
			want: conds,
		},
		"signers are listed before the signer": {
			auth: Auth{Signer: conds[2], Signers: conds[:2]},
			want: conds,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.auth.GetConditions(nil))
			for _, c := range tc.want {
				assert.Equal(t, true, tc.auth.HasAddress(nil, c.Address()))
			}
			assert.Equal(t, false, tc.auth.HasAddress(nil, RandomAddr(t)))
			assert.Equal(t, false, tc.auth.HasAddress(nil, NewCondition().Address()))
		})
	}
}

func TestCtxAuth(t *testing.T) {
	a := CtxAuth{Key: "auth"}
	ctx := context.Background()

	assert.Equal(t, 0, len(a.GetConditions(ctx)))
	assert.Equal(t, false, a.HasAddress(ctx, RandomAddr(t)))

	perms := []timelock.Condition{NewCondition(), NewCondition()}
	ctx = a.SetConditions(ctx, perms...)
	assert.Equal(t, perms, a.GetConditions(ctx))
	for _, p := range perms {
		assert.Equal(t, true, a.HasAddress(ctx, p.Address()))
	}
	assert.Equal(t, false, a.HasAddress(ctx, NewCondition().Address()))

	// Conditions are bound to the key.
	other := CtxAuth{Key: "other"}
	assert.Equal(t, false, other.HasAddress(ctx, perms[0].Address()))
}

package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/crypto"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/store"
	"github.com/iov-one/timelock/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecorator(t *testing.T) {
	kv := store.MemStore()
	checkKv := kv.CacheWrap()
	chainID := "deco-rator"
	ctx := timelock.WithChainID(context.Background(), chainID)

	signers := new(SigCheckHandler)
	d := NewDecorator()

	priv := crypto.GenPrivKeyEd25519()
	perm := priv.PublicKey().Condition()

	tx := NewStdTx([]byte("one"))
	sig, err := SignTx(priv, tx, chainID, 0)
	require.NoError(t, err)
	tx.Signatures = []*StdSignature{sig}

	res, err := d.Check(ctx, checkKv, tx, signers)
	require.NoError(t, err)
	assert.Equal(t, []timelock.Condition{perm}, signers.Signers)
	assert.Equal(t, int64(signatureVerifyCost), res.GasPayment)

	_, err = d.Deliver(ctx, kv, tx, signers)
	require.NoError(t, err)
	assert.Equal(t, []timelock.Condition{perm}, signers.Signers)

	// the same signature cannot be used twice
	_, err = d.Deliver(ctx, kv, tx, signers)
	assert.True(t, ErrInvalidSequence.Is(err))

	// a tx without signatures is rejected
	unsigned := NewStdTx([]byte("two"))
	_, err = d.Check(ctx, checkKv, unsigned, signers)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	// a tx that does not support signatures at all
	plain := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "sigs/test"}}
	_, err = d.Deliver(ctx, kv, plain, signers)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	// an invalid signature never reaches the handler
	signers.Signers = nil
	forged := NewStdTx([]byte("three"))
	forged.Signatures = []*StdSignature{sig}
	_, err = d.Check(ctx, kv.CacheWrap(), forged, signers)
	assert.True(t, errors.ErrUnauthorized.Is(err))
	assert.Empty(t, signers.Signers)
}

func TestAuthenticate(t *testing.T) {
	a := weavetest.NewCondition()
	b := weavetest.NewCondition()

	ctx := context.Background()
	auth := Authenticate{}
	assert.Empty(t, auth.GetConditions(ctx))
	assert.False(t, auth.HasAddress(ctx, a.Address()))

	ctx = withSigners(ctx, []timelock.Condition{a})
	assert.Equal(t, []timelock.Condition{a}, auth.GetConditions(ctx))
	assert.True(t, auth.HasAddress(ctx, a.Address()))
	assert.False(t, auth.HasAddress(ctx, b.Address()))
}

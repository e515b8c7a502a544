package cash

import (
	"context"
	"testing"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/store"
	"github.com/iov-one/timelock/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendHandler(t *testing.T) {
	perm := weavetest.NewCondition()
	perm2 := weavetest.NewCondition()

	cases := map[string]struct {
		signers        []timelock.Condition
		fund           uint64
		msg            timelock.Msg
		wantCheckErr   *errors.Error
		wantDeliverErr *errors.Error
		wantDest       uint64
	}{
		"successful send": {
			signers:  []timelock.Condition{perm},
			fund:     300,
			msg:      &SendMsg{Source: perm.Address(), Destination: perm2.Address(), Amount: 120, Memo: "pay"},
			wantDest: 120,
		},
		"wrong message type": {
			signers:        []timelock.Condition{perm},
			msg:            &weavetest.Msg{RoutePath: "cash/send"},
			wantCheckErr:   errors.ErrType,
			wantDeliverErr: errors.ErrType,
		},
		"invalid message": {
			signers:        []timelock.Condition{perm},
			msg:            &SendMsg{Source: perm.Address(), Destination: perm2.Address()},
			wantCheckErr:   errors.ErrInvalidAmount,
			wantDeliverErr: errors.ErrInvalidAmount,
		},
		"source must sign": {
			signers:        []timelock.Condition{perm2},
			fund:           300,
			msg:            &SendMsg{Source: perm.Address(), Destination: perm2.Address(), Amount: 120},
			wantCheckErr:   errors.ErrUnauthorized,
			wantDeliverErr: errors.ErrUnauthorized,
		},
		"not enough funds": {
			signers:        []timelock.Condition{perm},
			fund:           100,
			msg:            &SendMsg{Source: perm.Address(), Destination: perm2.Address(), Amount: 120},
			wantDeliverErr: errors.ErrInsufficientAmount,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			kv := store.MemStore()
			controller := NewController(NewBucket())
			if tc.fund > 0 {
				require.NoError(t, controller.CoinMint(kv, perm.Address(), tc.fund))
			}

			auth := &weavetest.Auth{Signers: tc.signers}
			h := NewSendHandler(auth, controller)
			tx := &weavetest.Tx{Msg: tc.msg}
			ctx := context.Background()

			cache := kv.CacheWrap()
			if _, err := h.Check(ctx, cache, tx); !tc.wantCheckErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			cache.Discard()

			if _, err := h.Deliver(ctx, kv, tx); !tc.wantDeliverErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}
			assert.Equal(t, tc.wantDest, balanceOf(t, controller, kv, perm2.Address()))
		})
	}
}

func TestQueryWallets(t *testing.T) {
	kv := store.MemStore()
	addr := weavetest.NewCondition().Address()
	controller := NewController(NewBucket())
	require.NoError(t, controller.CoinMint(kv, addr, 42))

	qr := timelock.NewQueryRouter()
	RegisterQuery(qr)
	h := qr.Handler("/wallets")
	require.NotNil(t, h)

	res, err := h.Query(kv, "", addr)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, NewBucket().DBKey(addr), res[0].Key)

	var w Wallet
	require.NoError(t, w.Unmarshal(res[0].Value))
	assert.Equal(t, uint64(42), w.Balance)
}

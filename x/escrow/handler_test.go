package escrow

import (
	"context"
	"testing"
	"time"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// router collects registered handlers by message path.
type router map[string]timelock.Handler

func (r router) Handle(m timelock.Msg, h timelock.Handler) {
	r[m.Path()] = h
}

func TestHandlers(t *testing.T) {
	f := newFixture(t)
	f.ctrl = NewController(f.cash, f.ledger, BlockClock{})
	stranger := weavetest.NewCondition()

	beforeDelay := startTime.Time().Add(time.Duration(releaseDelay-1) * time.Second)
	afterDelay := startTime.Time().Add(time.Duration(releaseDelay+1) * time.Second)

	// Steps are executed in order against the same database.
	steps := []struct {
		name           string
		signers        []timelock.Condition
		blockTime      time.Time
		msg            timelock.Msg
		wantCheckErr   *errors.Error
		wantDeliverErr *errors.Error
	}{
		{
			name:           "sender must sign native escrow creation",
			signers:        []timelock.Condition{stranger, f.receiver},
			msg:            f.createNativeMsg(5),
			wantCheckErr:   errors.ErrUnauthorized,
			wantDeliverErr: errors.ErrUnauthorized,
		},
		{
			name:           "malformed message",
			signers:        []timelock.Condition{f.sender},
			msg:            f.createNativeMsg(0),
			wantCheckErr:   errors.ErrInvalidAmount,
			wantDeliverErr: errors.ErrInvalidAmount,
		},
		{
			name:    "create native escrow",
			signers: []timelock.Condition{f.sender},
			msg:     f.createNativeMsg(5),
		},
		{
			name:           "sender cannot release",
			signers:        []timelock.Condition{f.sender, f.receiver},
			blockTime:      afterDelay,
			msg:            f.releaseNativeMsg(5),
			wantCheckErr:   errors.ErrUnauthorized,
			wantDeliverErr: errors.ErrUnauthorized,
		},
		{
			name:           "vault cannot release before delay",
			signers:        []timelock.Condition{f.vault},
			blockTime:      beforeDelay,
			msg:            f.releaseNativeMsg(5),
			wantDeliverErr: ErrTooEarly,
		},
		{
			name:      "vault releases native escrow",
			signers:   []timelock.Condition{f.vault},
			blockTime: afterDelay,
			msg:       f.releaseNativeMsg(5),
		},
		{
			name:           "native escrow is released once",
			signers:        []timelock.Condition{f.vault},
			blockTime:      afterDelay,
			msg:            f.releaseNativeMsg(5),
			wantDeliverErr: ErrAlreadySettled,
		},
		{
			name:    "create token escrow",
			signers: []timelock.Condition{f.sender},
			msg:     f.createTokenMsg(500),
		},
		{
			name:           "receiver must sign token release",
			signers:        []timelock.Condition{f.vault},
			blockTime:      afterDelay,
			msg:            f.releaseTokenMsg(500),
			wantCheckErr:   errors.ErrUnauthorized,
			wantDeliverErr: errors.ErrUnauthorized,
		},
		{
			name:           "vault must sign token release",
			signers:        []timelock.Condition{f.receiver},
			blockTime:      afterDelay,
			msg:            f.releaseTokenMsg(500),
			wantCheckErr:   errors.ErrUnauthorized,
			wantDeliverErr: errors.ErrUnauthorized,
		},
		{
			name:      "release token escrow",
			signers:   []timelock.Condition{f.vault, f.receiver},
			blockTime: afterDelay,
			msg:       f.releaseTokenMsg(500),
		},
		{
			name:           "only owner updates configuration",
			signers:        []timelock.Condition{f.sender},
			msg:            &UpdateConfigurationMsg{Patch: &Configuration{ReleaseDelaySeconds: 60}},
			wantCheckErr:   errors.ErrUnauthorized,
			wantDeliverErr: errors.ErrUnauthorized,
		},
		{
			name:    "owner updates configuration",
			signers: []timelock.Condition{f.owner},
			msg:     &UpdateConfigurationMsg{Patch: &Configuration{ReleaseDelaySeconds: 60}},
		},
	}

	r := make(router)
	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			auth := &weavetest.Auth{Signers: step.signers}
			RegisterRoutes(r, auth, f.ctrl)
			h := r[step.msg.Path()]
			require.NotNil(t, h)
			tx := &weavetest.Tx{Msg: step.msg}

			ctx := context.Background()
			if !step.blockTime.IsZero() {
				ctx = timelock.WithBlockTime(ctx, step.blockTime)
			}

			cache := f.db.CacheWrap()
			if _, err := h.Check(ctx, cache, tx); !step.wantCheckErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			cache.Discard()

			cache = f.db.CacheWrap()
			_, err := h.Deliver(ctx, cache, tx)
			if !step.wantDeliverErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}
			if err == nil {
				require.NoError(t, cache.Write())
			} else {
				cache.Discard()
			}
		})
	}

	assert.Equal(t, uint64(95), f.balance(t, f.sender))
	assert.Equal(t, uint64(0), f.balance(t, f.vault))
	assert.Equal(t, uint64(5), f.balance(t, f.receiver))
	assert.Equal(t, uint64(500), f.tokens(t, f.sender))
	assert.Equal(t, uint64(0), f.tokens(t, f.vault))
	assert.Equal(t, uint64(500), f.tokens(t, f.receiver))

	conf, err := loadConf(f.db)
	require.NoError(t, err)
	assert.Equal(t, &Configuration{Owner: f.owner.Address(), ReleaseDelaySeconds: 60}, conf)
}

func TestCreateReturnsKey(t *testing.T) {
	f := newFixture(t)
	r := make(router)
	RegisterRoutes(r, &weavetest.Auth{Signer: f.sender}, f.ctrl)

	res, err := r["escrow/create_native"].Deliver(context.Background(), f.db, &weavetest.Tx{Msg: f.createNativeMsg(5)})
	require.NoError(t, err)
	key, _, err := DeriveRecordKey(NativeSeed, f.sender.Address())
	require.NoError(t, err)
	assert.Equal(t, key, res.Data)
}

func TestQueries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	nativeKey, err := f.ctrl.CreateNative(ctx, f.db, f.createNativeMsg(5))
	require.NoError(t, err)
	tokenKey, err := f.ctrl.CreateToken(ctx, f.db, f.createTokenMsg(500))
	require.NoError(t, err)

	qr := timelock.NewQueryRouter()
	RegisterQuery(qr)

	res, err := qr.Handler("/escrows/native").Query(f.db, "", nativeKey)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, NewNativeBucket().DBKey(nativeKey), res[0].Key)

	res, err = qr.Handler("/escrows/token/receiver").Query(f.db, "", f.receiver.Address())
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, NewTokenBucket().DBKey(tokenKey), res[0].Key)

	res, err = qr.Handler("/escrows/native/receiver").Query(f.db, "", f.vault.Address())
	require.NoError(t, err)
	assert.Len(t, res, 0)
}

func TestUpdateConfigurationSkipsZeroFields(t *testing.T) {
	f := newFixture(t)
	r := make(router)
	RegisterRoutes(r, &weavetest.Auth{Signer: f.owner}, f.ctrl)

	// A zero delay in the patch is not applied, the stored one is kept.
	msg := &UpdateConfigurationMsg{Patch: &Configuration{ReleaseDelaySeconds: 0}}
	_, err := r[msg.Path()].Deliver(context.Background(), f.db, &weavetest.Tx{Msg: msg})
	require.NoError(t, err)

	conf, err := loadConf(f.db)
	require.NoError(t, err)
	assert.Equal(t, &Configuration{Owner: f.owner.Address(), ReleaseDelaySeconds: releaseDelay}, conf)
}

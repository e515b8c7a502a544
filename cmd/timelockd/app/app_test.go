package app

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/app"
	"github.com/iov-one/timelock/crypto"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/x/cash"
	"github.com/iov-one/timelock/x/escrow"
	"github.com/iov-one/timelock/x/fungible"
	"github.com/iov-one/timelock/x/sigs"
	"github.com/iov-one/timelock/x/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	chainID      = "timelock-test"
	releaseDelay = 10
)

type testChain struct {
	t      *testing.T
	app    app.BaseApp
	height int64
	now    time.Time
}

func newTestChain(t *testing.T, gen genesis) *testChain {
	t.Helper()

	application, err := Application("timelock", Stack(escrow.BlockClock{}, utils.NewMetrics(prometheus.NewRegistry())), TxDecoder, "", false)
	require.NoError(t, err)
	application.WithInit(app.ChainInitializers(
		cash.Initializer{},
		fungible.Initializer{},
		escrow.Initializer{},
	))
	application.WithLogger(log.NewNopLogger())

	state, err := json.Marshal(gen)
	require.NoError(t, err)
	application.InitChain(abci.RequestInitChain{
		ChainId:       chainID,
		AppStateBytes: state,
	})
	return &testChain{
		t:   t,
		app: application,
		now: time.Date(2019, 6, 10, 12, 0, 0, 0, time.UTC),
	}
}

// block delivers all transactions in a single block with given time and
// commits it.
func (c *testChain) block(at time.Time, txs ...*Tx) []abci.ResponseDeliverTx {
	c.t.Helper()

	c.height++
	c.app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{Height: c.height, Time: at, ChainID: chainID},
	})
	var res []abci.ResponseDeliverTx
	for _, tx := range txs {
		raw, err := tx.Marshal()
		require.NoError(c.t, err)
		res = append(res, c.app.DeliverTx(raw))
	}
	c.app.EndBlock(abci.RequestEndBlock{Height: c.height})
	c.app.Commit()
	return res
}

// tx builds a transaction with the message, signed by all keys using their
// current sequence.
func (c *testChain) tx(msg timelock.Msg, signers ...*crypto.PrivateKey) *Tx {
	c.t.Helper()

	tx := &Tx{}
	require.NoError(c.t, tx.SetMsg(msg))
	db := app.NewABCIStore(c.app)
	var signatures []*sigs.StdSignature
	for _, key := range signers {
		seq, err := sigs.NextNonce(db, key.PublicKey().Address())
		require.NoError(c.t, err)
		sig, err := sigs.SignTx(key, tx, chainID, seq)
		require.NoError(c.t, err)
		signatures = append(signatures, sig)
	}
	tx.Signatures = signatures
	return tx
}

func (c *testChain) balance(addr timelock.Address) uint64 {
	c.t.Helper()
	b, err := cash.NewController(cash.NewBucket()).Balance(app.NewABCIStore(c.app), addr)
	require.NoError(c.t, err)
	return b
}

func (c *testChain) tokens(owner, mint timelock.Address) uint64 {
	c.t.Helper()
	b, err := fungible.NewLedger().BalanceOf(app.NewABCIStore(c.app), fungible.HoldingAddress(owner, mint))
	require.NoError(c.t, err)
	return b
}

func assertCode(t testing.TB, want *errors.Error, res abci.ResponseDeliverTx) {
	t.Helper()
	if want == nil {
		assert.Equal(t, uint32(0), res.Code, res.Log)
		return
	}
	assert.Equal(t, want.ABCICode(), res.Code, res.Log)
}

func TestNativeEscrowLifecycle(t *testing.T) {
	sender := crypto.GenPrivKeyEd25519()
	receiver := crypto.GenPrivKeyEd25519()
	vault := crypto.GenPrivKeyEd25519()
	owner := crypto.GenPrivKeyEd25519()

	senderAddr := sender.PublicKey().Address()
	receiverAddr := receiver.PublicKey().Address()
	vaultAddr := vault.PublicKey().Address()

	chain := newTestChain(t, genesis{
		Cash: []cash.GenesisAccount{{Address: senderAddr, Balance: 100}},
		Conf: genesisConf{Escrow: escrow.Configuration{
			Owner:               owner.PublicKey().Address(),
			ReleaseDelaySeconds: releaseDelay,
		}},
	})
	start := chain.now

	create := &escrow.CreateNativeEscrowMsg{
		Sender:    senderAddr,
		Receiver:  receiverAddr,
		Vault:     vaultAddr,
		StartTime: timelock.AsUnixTime(start),
		Amount:    5,
	}
	res := chain.block(start, chain.tx(create, sender))
	assertCode(t, nil, res[0])
	key, _, err := escrow.DeriveRecordKey(escrow.NativeSeed, senderAddr)
	require.NoError(t, err)
	assert.Equal(t, key, res[0].Data)
	assert.Equal(t, uint64(95), chain.balance(senderAddr))
	assert.Equal(t, uint64(5), chain.balance(vaultAddr))

	// Only the vault can authorize the release.
	release := &escrow.ReleaseNativeEscrowMsg{
		Sender:   senderAddr,
		Receiver: receiverAddr,
		Vault:    vaultAddr,
		Amount:   5,
	}
	res = chain.block(start.Add(time.Second), chain.tx(release, receiver))
	assertCode(t, errors.ErrUnauthorized, res[0])

	res = chain.block(start.Add((releaseDelay-1)*time.Second), chain.tx(release, vault))
	assertCode(t, escrow.ErrTooEarly, res[0])
	assert.Equal(t, uint64(5), chain.balance(vaultAddr))
	assert.Equal(t, uint64(0), chain.balance(receiverAddr))

	res = chain.block(start.Add((releaseDelay+1)*time.Second), chain.tx(release, vault))
	assertCode(t, nil, res[0])
	assert.Equal(t, uint64(0), chain.balance(vaultAddr))
	assert.Equal(t, uint64(5), chain.balance(receiverAddr))
	assert.Equal(t, uint64(95), chain.balance(senderAddr))

	_, rec, err := escrow.NewController(cash.NewController(cash.NewBucket()), fungible.NewLedger(), escrow.BlockClock{}).
		NativeEscrow(app.NewABCIStore(chain.app), senderAddr)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, escrow.StateSettled, rec.State)

	res = chain.block(start.Add((releaseDelay+2)*time.Second), chain.tx(release, vault))
	assertCode(t, escrow.ErrAlreadySettled, res[0])
}

func TestTokenEscrowLifecycle(t *testing.T) {
	authority := crypto.GenPrivKeyEd25519()
	sender := crypto.GenPrivKeyEd25519()
	receiver := crypto.GenPrivKeyEd25519()
	vault := crypto.GenPrivKeyEd25519()

	senderAddr := sender.PublicKey().Address()
	receiverAddr := receiver.PublicKey().Address()
	vaultAddr := vault.PublicKey().Address()
	mint := fungible.MintAddress("TKN")

	chain := newTestChain(t, genesis{
		Conf: genesisConf{Escrow: escrow.Configuration{
			Owner:               authority.PublicKey().Address(),
			ReleaseDelaySeconds: releaseDelay,
		}},
	})
	start := chain.now

	// The collaborator layer sets up the mint and the holding accounts.
	res := chain.block(start,
		chain.tx(&fungible.CreateMintMsg{Authority: authority.PublicKey().Address(), Ticker: "TKN", Decimals: 6}, authority),
	)
	assertCode(t, nil, res[0])
	res = chain.block(start,
		chain.tx(&fungible.OpenAccountMsg{Owner: senderAddr, Mint: mint}, sender),
		chain.tx(&fungible.OpenAccountMsg{Owner: receiverAddr, Mint: mint}, receiver),
		chain.tx(&fungible.OpenAccountMsg{Owner: vaultAddr, Mint: mint}, vault),
	)
	for _, r := range res {
		assertCode(t, nil, r)
	}
	res = chain.block(start,
		chain.tx(&fungible.MintToMsg{Mint: mint, Destination: fungible.HoldingAddress(senderAddr, mint), Amount: 1000}, authority),
	)
	assertCode(t, nil, res[0])
	assert.Equal(t, uint64(1000), chain.tokens(senderAddr, mint))

	create := &escrow.CreateTokenEscrowMsg{
		Sender:        senderAddr,
		Receiver:      receiverAddr,
		Vault:         vaultAddr,
		StartTime:     timelock.AsUnixTime(start),
		Amount:        500,
		Mint:          mint,
		SenderAccount: fungible.HoldingAddress(senderAddr, mint),
		VaultAccount:  fungible.HoldingAddress(vaultAddr, mint),
	}
	res = chain.block(start, chain.tx(create, sender))
	assertCode(t, nil, res[0])
	assert.Equal(t, uint64(500), chain.tokens(senderAddr, mint))
	assert.Equal(t, uint64(500), chain.tokens(vaultAddr, mint))

	release := &escrow.ReleaseTokenEscrowMsg{
		Sender:          senderAddr,
		Receiver:        receiverAddr,
		Vault:           vaultAddr,
		Amount:          500,
		Mint:            mint,
		VaultAccount:    fungible.HoldingAddress(vaultAddr, mint),
		ReceiverAccount: fungible.HoldingAddress(receiverAddr, mint),
	}
	after := start.Add((releaseDelay + 1) * time.Second)

	// Both the vault and the receiver must sign the token release.
	res = chain.block(after, chain.tx(release, vault))
	assertCode(t, errors.ErrUnauthorized, res[0])
	assert.Equal(t, uint64(500), chain.tokens(vaultAddr, mint))

	res = chain.block(after, chain.tx(release, vault, receiver))
	assertCode(t, nil, res[0])
	assert.Equal(t, uint64(0), chain.tokens(vaultAddr, mint))
	assert.Equal(t, uint64(500), chain.tokens(receiverAddr, mint))
	assert.Equal(t, uint64(500), chain.tokens(senderAddr, mint))
}

func TestRejectsMalformedTx(t *testing.T) {
	owner := crypto.GenPrivKeyEd25519()
	chain := newTestChain(t, genesis{
		Conf: genesisConf{Escrow: escrow.Configuration{
			Owner:               owner.PublicKey().Address(),
			ReleaseDelaySeconds: releaseDelay,
		}},
	})

	chain.height++
	chain.app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{Height: chain.height, Time: chain.now, ChainID: chainID},
	})

	cases := map[string]struct {
		tx       *Tx
		wantCode uint32
	}{
		"no message": {
			tx:       &Tx{},
			wantCode: errors.ErrEmpty.ABCICode(),
		},
		"two messages": {
			tx: &Tx{
				SendMsg:                &cash.SendMsg{},
				ReleaseNativeEscrowMsg: &escrow.ReleaseNativeEscrowMsg{},
			},
			wantCode: errors.ErrInput.ABCICode(),
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			// A fresh key always signs with the first sequence.
			sig, err := sigs.SignTx(crypto.GenPrivKeyEd25519(), tc.tx, chainID, 0)
			require.NoError(t, err)
			tc.tx.Signatures = []*sigs.StdSignature{sig}
			raw, err := tc.tx.Marshal()
			require.NoError(t, err)
			res := chain.app.DeliverTx(raw)
			assert.Equal(t, tc.wantCode, res.Code, res.Log)
		})
	}

	unsigned, err := (&Tx{}).Marshal()
	require.NoError(t, err)
	res := chain.app.DeliverTx(unsigned)
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), res.Code, res.Log)
}

func TestGenInitOptions(t *testing.T) {
	_, err := GenInitOptions(nil)
	assert.True(t, errors.ErrEmpty.Is(err))

	_, err = GenInitOptions([]string{"soon"})
	assert.True(t, errors.ErrInput.Is(err))

	_, err = GenInitOptions([]string{"-5"})
	assert.True(t, errors.ErrInput.Is(err))

	addr := crypto.GenPrivKeyEd25519().PublicKey().Address()
	raw, err := GenInitOptions([]string{"3600", addr.String()})
	require.NoError(t, err)

	var gen genesis
	require.NoError(t, json.Unmarshal(raw, &gen))
	assert.Equal(t, []cash.GenesisAccount{{Address: addr, Balance: initialBalance}}, gen.Cash)
	assert.Equal(t, addr, gen.Conf.Escrow.Owner)
	assert.Equal(t, int64(3600), gen.Conf.Escrow.ReleaseDelaySeconds)

	// The generated options are a valid genesis. Queries read committed
	// state, so the genesis is visible only after the first block.
	chain := newTestChain(t, gen)
	chain.block(chain.now)
	assert.Equal(t, initialBalance, chain.balance(addr))
}

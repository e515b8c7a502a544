package fungible

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/x"
)

const (
	createMintCost  int64 = 100
	openAccountCost int64 = 50
	mintToCost      int64 = 50
	transferCost    int64 = 100
)

// RegisterRoutes registers handlers for all messages of this extension.
func RegisterRoutes(r timelock.Registry, auth x.Authenticator, ledger Controller) {
	r.Handle(&CreateMintMsg{}, &createMintHandler{auth: auth, ledger: ledger})
	r.Handle(&OpenAccountMsg{}, &openAccountHandler{auth: auth, ledger: ledger})
	r.Handle(&MintToMsg{}, &mintToHandler{auth: auth, ledger: ledger, mints: NewMintBucket()})
	r.Handle(&TransferMsg{}, &transferHandler{auth: auth, ledger: ledger})
}

// RegisterQuery registers the mint bucket as "/mints" and the holding bucket
// as "/holdings" together with its "/holdings/owner" index.
func RegisterQuery(qr timelock.QueryRouter) {
	NewMintBucket().Register("mints", qr)
	NewHoldingBucket().Register("holdings", qr)
}

type createMintHandler struct {
	auth   x.Authenticator
	ledger Controller
}

var _ timelock.Handler = (*createMintHandler)(nil)

func (h *createMintHandler) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &timelock.CheckResult{GasAllocated: createMintCost}, nil
}

func (h *createMintHandler) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	addr, err := h.ledger.CreateMint(db, &Mint{
		Ticker:    msg.Ticker,
		Authority: msg.Authority,
		Decimals:  msg.Decimals,
	})
	if err != nil {
		return nil, err
	}
	return &timelock.DeliverResult{Data: addr}, nil
}

func (h *createMintHandler) validate(ctx timelock.Context, tx timelock.Tx) (*CreateMintMsg, error) {
	var msg CreateMintMsg
	if err := timelock.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Authority) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "mint authority signature missing")
	}
	return &msg, nil
}

type openAccountHandler struct {
	auth   x.Authenticator
	ledger Controller
}

var _ timelock.Handler = (*openAccountHandler)(nil)

func (h *openAccountHandler) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &timelock.CheckResult{GasAllocated: openAccountCost}, nil
}

func (h *openAccountHandler) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	addr, err := h.ledger.OpenAccount(db, msg.Owner, msg.Mint)
	if err != nil {
		return nil, err
	}
	return &timelock.DeliverResult{Data: addr}, nil
}

func (h *openAccountHandler) validate(ctx timelock.Context, tx timelock.Tx) (*OpenAccountMsg, error) {
	var msg OpenAccountMsg
	if err := timelock.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	// Anyone can pay for opening an account, but someone must sign.
	if x.MainSigner(ctx, h.auth) == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "signature missing")
	}
	return &msg, nil
}

type mintToHandler struct {
	auth   x.Authenticator
	ledger Controller
	mints  MintBucket
}

var _ timelock.Handler = (*mintToHandler)(nil)

func (h *mintToHandler) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &timelock.CheckResult{GasAllocated: mintToCost}, nil
}

func (h *mintToHandler) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ledger.MintTo(db, msg.Mint, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	return &timelock.DeliverResult{}, nil
}

func (h *mintToHandler) validate(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*MintToMsg, error) {
	var msg MintToMsg
	if err := timelock.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	mint, err := h.mints.GetMint(db, msg.Mint)
	if err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, mint.Authority) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "mint authority signature missing")
	}
	return &msg, nil
}

type transferHandler struct {
	auth   x.Authenticator
	ledger Controller
}

var _ timelock.Handler = (*transferHandler)(nil)

func (h *transferHandler) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &timelock.CheckResult{GasAllocated: transferCost}, nil
}

func (h *transferHandler) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	msg, owner, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ledger.Transfer(db, msg.Source, msg.Destination, msg.Mint, msg.Amount, owner); err != nil {
		return nil, err
	}
	return &timelock.DeliverResult{}, nil
}

func (h *transferHandler) validate(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*TransferMsg, timelock.Address, error) {
	var msg TransferMsg
	if err := timelock.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	src, err := h.ledger.Account(db, msg.Source)
	if err != nil {
		return nil, nil, errors.Wrap(err, "source")
	}
	if !h.auth.HasAddress(ctx, src.Owner) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "source account owner signature missing")
	}
	return &msg, src.Owner, nil
}

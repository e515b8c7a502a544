package cash

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/x"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r timelock.Registry, auth x.Authenticator, control Controller) {
	r.Handle(&SendMsg{}, NewSendHandler(auth, control))
}

// RegisterQuery will register this bucket as "/wallets"
func RegisterQuery(qr timelock.QueryRouter) {
	NewBucket().Register("wallets", qr)
}

// SendHandler will handle sending coins
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ timelock.Handler = SendHandler{}

// NewSendHandler creates a handler for SendMsg
func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{
		auth:    auth,
		control: control,
	}
}

// Check just verifies it is properly formed and returns
// the cost of executing it
func (h SendHandler) Check(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &timelock.CheckResult{GasAllocated: sendTxCost}, nil
}

// Deliver moves the tokens from source to receiver if
// all preconditions are met
func (h SendHandler) Deliver(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.MoveCoins(store, msg.Source, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	return &timelock.DeliverResult{}, nil
}

func (h SendHandler) validate(ctx timelock.Context, tx timelock.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := timelock.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	// Make sure we have permission from the source.
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "account owner signature missing")
	}
	return &msg, nil
}

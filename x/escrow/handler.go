package escrow

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/gconf"
	"github.com/iov-one/timelock/x"
)

const (
	// pay escrow cost up-front
	createEscrowCost  int64 = 300
	releaseEscrowCost int64 = 0
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r timelock.Registry, auth x.Authenticator, ctrl *Controller) {
	policy := NewSignerPolicy(auth)
	r.Handle(&CreateNativeEscrowMsg{}, createNativeHandler{policy: policy, ctrl: ctrl})
	r.Handle(&ReleaseNativeEscrowMsg{}, releaseNativeHandler{policy: policy, ctrl: ctrl})
	r.Handle(&CreateTokenEscrowMsg{}, createTokenHandler{policy: policy, ctrl: ctrl})
	r.Handle(&ReleaseTokenEscrowMsg{}, releaseTokenHandler{policy: policy, ctrl: ctrl})
	r.Handle(&UpdateConfigurationMsg{}, NewConfigHandler(auth))
}

// RegisterQuery will register the native escrows as "/escrows/native" and
// the token escrows as "/escrows/token". Both can also be queried by
// receiver.
func RegisterQuery(qr timelock.QueryRouter) {
	NewNativeBucket().Register("escrows/native", qr)
	NewTokenBucket().Register("escrows/token", qr)
}

// NewConfigHandler returns a handler of UpdateConfigurationMsg.
func NewConfigHandler(auth x.Authenticator) timelock.Handler {
	return gconf.NewUpdateConfigurationHandler(configPkg, func() gconf.OwnedConfig { return &Configuration{} }, auth)
}

type createNativeHandler struct {
	policy SignerPolicy
	ctrl   *Controller
}

var _ timelock.Handler = createNativeHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h createNativeHandler) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &timelock.CheckResult{GasAllocated: createEscrowCost}, nil
}

// Deliver moves the funds from sender to the vault if all preconditions
// are met. The key of the created escrow is returned as data.
func (h createNativeHandler) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	key, err := h.ctrl.CreateNative(ctx, db, msg)
	if err != nil {
		return nil, err
	}
	return &timelock.DeliverResult{Data: key}, nil
}

func (h createNativeHandler) validate(ctx timelock.Context, tx timelock.Tx) (*CreateNativeEscrowMsg, error) {
	var msg CreateNativeEscrowMsg
	if err := timelock.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.policy.CanCreate(ctx, msg.Sender); err != nil {
		return nil, err
	}
	return &msg, nil
}

type releaseNativeHandler struct {
	policy SignerPolicy
	ctrl   *Controller
}

var _ timelock.Handler = releaseNativeHandler{}

func (h releaseNativeHandler) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &timelock.CheckResult{GasAllocated: releaseEscrowCost}, nil
}

// Deliver moves the deposit from the vault to the receiver if all
// preconditions are met.
func (h releaseNativeHandler) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.ReleaseNative(ctx, db, msg); err != nil {
		return nil, err
	}
	return &timelock.DeliverResult{}, nil
}

func (h releaseNativeHandler) validate(ctx timelock.Context, tx timelock.Tx) (*ReleaseNativeEscrowMsg, error) {
	var msg ReleaseNativeEscrowMsg
	if err := timelock.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.policy.CanReleaseNative(ctx, msg.Vault); err != nil {
		return nil, err
	}
	return &msg, nil
}

type createTokenHandler struct {
	policy SignerPolicy
	ctrl   *Controller
}

var _ timelock.Handler = createTokenHandler{}

func (h createTokenHandler) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &timelock.CheckResult{GasAllocated: createEscrowCost}, nil
}

func (h createTokenHandler) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	key, err := h.ctrl.CreateToken(ctx, db, msg)
	if err != nil {
		return nil, err
	}
	return &timelock.DeliverResult{Data: key}, nil
}

func (h createTokenHandler) validate(ctx timelock.Context, tx timelock.Tx) (*CreateTokenEscrowMsg, error) {
	var msg CreateTokenEscrowMsg
	if err := timelock.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.policy.CanCreate(ctx, msg.Sender); err != nil {
		return nil, err
	}
	return &msg, nil
}

type releaseTokenHandler struct {
	policy SignerPolicy
	ctrl   *Controller
}

var _ timelock.Handler = releaseTokenHandler{}

func (h releaseTokenHandler) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &timelock.CheckResult{GasAllocated: releaseEscrowCost}, nil
}

func (h releaseTokenHandler) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.ReleaseToken(ctx, db, msg); err != nil {
		return nil, err
	}
	return &timelock.DeliverResult{}, nil
}

func (h releaseTokenHandler) validate(ctx timelock.Context, tx timelock.Tx) (*ReleaseTokenEscrowMsg, error) {
	var msg ReleaseTokenEscrowMsg
	if err := timelock.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.policy.CanReleaseToken(ctx, msg.Vault, msg.Receiver); err != nil {
		return nil, err
	}
	return &msg, nil
}

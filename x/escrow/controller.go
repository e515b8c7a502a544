package escrow

import (
	"encoding/hex"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/x/cash"
	"github.com/iov-one/timelock/x/fungible"
)

// Controller runs the escrow lifecycle. It does not check signatures, see
// SignerPolicy for that. All operations must be executed within a
// transaction that is discarded on failure, because a failing operation may
// leave partial writes behind.
type Controller struct {
	cash   cash.Controller
	ledger fungible.Ledger
	clock  Clock
	native NativeBucket
	token  TokenBucket
}

// NewController returns a controller moving native funds with cashctrl and
// tokens with ledger.
func NewController(cashctrl cash.Controller, ledger fungible.Ledger, clock Clock) *Controller {
	return &Controller{
		cash:   cashctrl,
		ledger: ledger,
		clock:  clock,
		native: NewNativeBucket(),
		token:  NewTokenBucket(),
	}
}

// NativeEscrow returns the native escrow record of the sender together with
// its key. The record is nil if none exists.
func (c *Controller) NativeEscrow(db timelock.ReadOnlyKVStore, sender timelock.Address) ([]byte, *NativeEscrow, error) {
	key, _, err := DeriveRecordKey(NativeSeed, sender)
	if err != nil {
		return nil, nil, err
	}
	e, err := c.native.GetEscrow(db, key)
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot load escrow")
	}
	return key, e, nil
}

// TokenEscrow returns the token escrow record of the sender together with
// its key. The record is nil if none exists.
func (c *Controller) TokenEscrow(db timelock.ReadOnlyKVStore, sender timelock.Address) ([]byte, *TokenEscrow, error) {
	key, _, err := DeriveRecordKey(TokenSeed, sender)
	if err != nil {
		return nil, nil, err
	}
	e, err := c.token.GetEscrow(db, key)
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot load escrow")
	}
	return key, e, nil
}

// CreateNative moves the amount from the sender to the vault and records
// the escrow. The key of the new record is returned.
func (c *Controller) CreateNative(ctx timelock.Context, db timelock.KVStore, msg *CreateNativeEscrowMsg) ([]byte, error) {
	if msg.Amount == 0 {
		return nil, errors.Wrap(errors.ErrInvalidAmount, "zero amount")
	}
	key, bump, err := DeriveRecordKey(NativeSeed, msg.Sender)
	if err != nil {
		return nil, err
	}
	switch old, err := c.native.GetEscrow(db, key); {
	case err != nil:
		return nil, errors.Wrap(err, "cannot load escrow")
	case old != nil && old.State == StateLive:
		return nil, errors.Wrap(errors.ErrDuplicate, "live escrow exists")
	}

	// The vault balance must always equal the escrow amount.
	switch held, err := c.cash.Balance(db, msg.Vault); {
	case err != nil:
		return nil, err
	case held != 0:
		return nil, errors.Wrapf(errors.ErrState, "vault holds %d", held)
	}
	switch available, err := c.cash.Balance(db, msg.Sender); {
	case err != nil:
		return nil, err
	case available < msg.Amount:
		return nil, errors.Wrapf(errors.ErrInsufficientAmount, "balance %d, required %d", available, msg.Amount)
	}

	if err := c.cash.MoveCoins(db, msg.Sender, msg.Vault, msg.Amount); err != nil {
		return nil, errors.Wrap(err, "deposit")
	}
	e := &NativeEscrow{
		Sender:    msg.Sender,
		Receiver:  msg.Receiver,
		Vault:     msg.Vault,
		Amount:    msg.Amount,
		StartTime: msg.StartTime,
		Bump:      bump,
		State:     StateLive,
	}
	if err := c.native.SaveEscrow(db, key, e); err != nil {
		return nil, errors.Wrap(err, "cannot save escrow")
	}
	timelock.GetLogger(ctx).Info("escrow created",
		"kind", "native",
		"key", hex.EncodeToString(key),
		"sender", msg.Sender,
		"amount", msg.Amount)
	return key, nil
}

// ReleaseNative moves the full deposit from the vault to the receiver and
// marks the escrow settled.
func (c *Controller) ReleaseNative(ctx timelock.Context, db timelock.KVStore, msg *ReleaseNativeEscrowMsg) error {
	key, e, err := c.NativeEscrow(db, msg.Sender)
	if err != nil {
		return err
	}
	if e == nil {
		return errors.Wrap(errors.ErrNotFound, "no escrow")
	}
	if e.State == StateSettled {
		return errors.Wrapf(ErrAlreadySettled, "at %s", e.SettledAt)
	}
	if err := checkParties(e.Vault, e.Receiver, msg.Vault, msg.Receiver); err != nil {
		return err
	}
	now, err := c.releasable(ctx, db, e.StartTime)
	if err != nil {
		return err
	}
	if msg.Amount != e.Amount {
		return errors.Wrapf(ErrAmountMismatch, "requested %d, escrowed %d", msg.Amount, e.Amount)
	}
	switch held, err := c.cash.Balance(db, e.Vault); {
	case err != nil:
		return err
	case held != e.Amount:
		return errors.Wrapf(ErrAmountMismatch, "vault holds %d, escrowed %d", held, e.Amount)
	}

	if err := c.cash.MoveCoins(db, e.Vault, e.Receiver, e.Amount); err != nil {
		return errors.Wrap(err, "release")
	}
	e.State = StateSettled
	e.SettledAt = now
	if err := c.native.SaveEscrow(db, key, e); err != nil {
		return errors.Wrap(err, "cannot save escrow")
	}
	timelock.GetLogger(ctx).Info("escrow settled",
		"kind", "native",
		"key", hex.EncodeToString(key),
		"receiver", e.Receiver,
		"amount", e.Amount)
	return nil
}

// CreateToken moves the amount from the sender holding account to the vault
// holding account and records the escrow. The key of the new record is
// returned.
func (c *Controller) CreateToken(ctx timelock.Context, db timelock.KVStore, msg *CreateTokenEscrowMsg) ([]byte, error) {
	if msg.Amount == 0 {
		return nil, errors.Wrap(errors.ErrInvalidAmount, "zero amount")
	}
	key, bump, err := DeriveRecordKey(TokenSeed, msg.Sender)
	if err != nil {
		return nil, err
	}
	switch old, err := c.token.GetEscrow(db, key); {
	case err != nil:
		return nil, errors.Wrap(err, "cannot load escrow")
	case old != nil && old.State == StateLive:
		return nil, errors.Wrap(errors.ErrDuplicate, "live escrow exists")
	}

	senderAcc, err := c.holding(db, "sender", msg.SenderAccount, msg.Sender, msg.Mint)
	if err != nil {
		return nil, err
	}
	vaultAcc, err := c.holding(db, "vault", msg.VaultAccount, msg.Vault, msg.Mint)
	if err != nil {
		return nil, err
	}
	if vaultAcc.Amount != 0 {
		return nil, errors.Wrapf(errors.ErrState, "vault account holds %d", vaultAcc.Amount)
	}
	if senderAcc.Amount < msg.Amount {
		return nil, errors.Wrapf(errors.ErrInsufficientAmount, "balance %d, required %d", senderAcc.Amount, msg.Amount)
	}

	if err := c.ledger.Transfer(db, msg.SenderAccount, msg.VaultAccount, msg.Mint, msg.Amount, msg.Sender); err != nil {
		return nil, errors.Wrap(err, "deposit")
	}
	e := &TokenEscrow{
		Sender:    msg.Sender,
		Receiver:  msg.Receiver,
		Vault:     msg.Vault,
		Mint:      msg.Mint,
		Amount:    msg.Amount,
		StartTime: msg.StartTime,
		Bump:      bump,
		State:     StateLive,
	}
	if err := c.token.SaveEscrow(db, key, e); err != nil {
		return nil, errors.Wrap(err, "cannot save escrow")
	}
	timelock.GetLogger(ctx).Info("escrow created",
		"kind", "token",
		"key", hex.EncodeToString(key),
		"sender", msg.Sender,
		"mint", msg.Mint,
		"amount", msg.Amount)
	return key, nil
}

// ReleaseToken moves the full deposit from the vault holding account to the
// receiver holding account and marks the escrow settled.
func (c *Controller) ReleaseToken(ctx timelock.Context, db timelock.KVStore, msg *ReleaseTokenEscrowMsg) error {
	key, e, err := c.TokenEscrow(db, msg.Sender)
	if err != nil {
		return err
	}
	if e == nil {
		return errors.Wrap(errors.ErrNotFound, "no escrow")
	}
	if e.State == StateSettled {
		return errors.Wrapf(ErrAlreadySettled, "at %s", e.SettledAt)
	}
	if err := checkParties(e.Vault, e.Receiver, msg.Vault, msg.Receiver); err != nil {
		return err
	}
	if !e.Mint.Equals(msg.Mint) {
		return errors.Wrap(errors.ErrInput, "mint does not match")
	}
	vaultAcc, err := c.holding(db, "vault", msg.VaultAccount, e.Vault, e.Mint)
	if err != nil {
		return err
	}
	if _, err := c.holding(db, "receiver", msg.ReceiverAccount, e.Receiver, e.Mint); err != nil {
		return err
	}
	now, err := c.releasable(ctx, db, e.StartTime)
	if err != nil {
		return err
	}
	if msg.Amount != e.Amount {
		return errors.Wrapf(ErrAmountMismatch, "requested %d, escrowed %d", msg.Amount, e.Amount)
	}
	if vaultAcc.Amount != e.Amount {
		return errors.Wrapf(ErrAmountMismatch, "vault account holds %d, escrowed %d", vaultAcc.Amount, e.Amount)
	}

	if err := c.ledger.Transfer(db, msg.VaultAccount, msg.ReceiverAccount, e.Mint, e.Amount, e.Vault); err != nil {
		return errors.Wrap(err, "release")
	}
	e.State = StateSettled
	e.SettledAt = now
	if err := c.token.SaveEscrow(db, key, e); err != nil {
		return errors.Wrap(err, "cannot save escrow")
	}
	timelock.GetLogger(ctx).Info("escrow settled",
		"kind", "token",
		"key", hex.EncodeToString(key),
		"receiver", e.Receiver,
		"mint", e.Mint,
		"amount", e.Amount)
	return nil
}

// holding returns the holding account at addr, ensuring that it is owned by
// the owner and holds the mint.
func (c *Controller) holding(db timelock.ReadOnlyKVStore, role string, addr, owner, mint timelock.Address) (*fungible.HoldingAccount, error) {
	acc, err := c.ledger.Account(db, addr)
	if err != nil {
		return nil, errors.Wrapf(err, "%s account", role)
	}
	if !acc.Owner.Equals(owner) {
		return nil, errors.Wrapf(errors.ErrInput, "%s account owned by %s", role, acc.Owner)
	}
	if !acc.Mint.Equals(mint) {
		return nil, errors.Wrapf(errors.ErrInput, "%s account holds mint %s", role, acc.Mint)
	}
	return acc, nil
}

// releasable returns the current time if the release delay has elapsed
// since start.
func (c *Controller) releasable(ctx timelock.Context, db timelock.ReadOnlyKVStore, start timelock.UnixTime) (timelock.UnixTime, error) {
	conf, err := loadConf(db)
	if err != nil {
		return 0, err
	}
	threshold, err := start.AddSeconds(conf.ReleaseDelaySeconds)
	if err != nil {
		return 0, errors.Wrap(err, "release time")
	}
	now, err := c.clock.Now(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "current time")
	}
	if now < threshold {
		return 0, errors.Wrapf(ErrTooEarly, "releasable at %s", threshold)
	}
	return now, nil
}

// checkParties compares the vault and receiver of a release request with
// the recorded ones.
func checkParties(vault, receiver, reqVault, reqReceiver timelock.Address) error {
	if !vault.Equals(reqVault) {
		return errors.Wrap(errors.ErrUnauthorized, "not the escrow vault")
	}
	if !receiver.Equals(reqReceiver) {
		return errors.Wrap(errors.ErrInput, "not the escrow receiver")
	}
	return nil
}

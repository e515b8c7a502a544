package cash

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// Controller is the functionality needed by cash.Handler
// and other extensions that move native funds.
type Controller interface {
	Balance(timelock.ReadOnlyKVStore, timelock.Address) (uint64, error)
	MoveCoins(timelock.KVStore, timelock.Address, timelock.Address, uint64) error
	CoinMint(timelock.KVStore, timelock.Address, uint64) error
}

// BaseController is a simple implementation of Controller
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a basic controller implementation
func NewController(bucket Bucket) BaseController {
	return BaseController{bucket: bucket}
}

// Balance returns the amount held by the given address. An address that
// never received funds has a zero balance.
func (c BaseController) Balance(store timelock.ReadOnlyKVStore, addr timelock.Address) (uint64, error) {
	obj, err := c.bucket.Get(store, addr)
	if err != nil {
		return 0, errors.Wrap(err, "cannot get wallet")
	}
	if w := AsWallet(obj); w != nil {
		return w.Balance, nil
	}
	return 0, nil
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient
// coins, it fails.
func (c BaseController) MoveCoins(store timelock.KVStore, src, dest timelock.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "zero value")
	}

	sender, err := c.bucket.Get(store, src)
	if err != nil {
		return errors.Wrap(err, "cannot get sender wallet")
	}
	if sender == nil {
		return errors.Wrapf(errors.ErrInsufficientAmount, "empty account %s", src)
	}
	if err := AsWallet(sender).Subtract(amount); err != nil {
		return err
	}
	if err := c.bucket.Save(store, sender); err != nil {
		return errors.Wrap(err, "cannot save sender wallet")
	}

	// The recipient is loaded after saving the sender so that
	// sending to self is a noop.
	recipient, err := c.bucket.GetOrCreate(store, dest)
	if err != nil {
		return errors.Wrap(err, "cannot get recipient wallet")
	}
	if err := AsWallet(recipient).Add(amount); err != nil {
		return err
	}
	if err := c.bucket.Save(store, recipient); err != nil {
		return errors.Wrap(err, "cannot save recipient wallet")
	}
	return nil
}

// CoinMint attempts to add the given amount of coins to
// the destination address. Fails if it overflows the wallet.
func (c BaseController) CoinMint(store timelock.KVStore, dest timelock.Address, amount uint64) error {
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	recipient, err := c.bucket.GetOrCreate(store, dest)
	if err != nil {
		return errors.Wrap(err, "cannot get recipient wallet")
	}
	if err := AsWallet(recipient).Add(amount); err != nil {
		return err
	}
	return c.bucket.Save(store, recipient)
}

package cash

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Wallet holds the native currency balance of a single address.
type Wallet struct {
	Balance uint64 `json:"balance"`
}

var _ orm.Model = (*Wallet)(nil)

// Validate always succeeds, any balance is valid.
func (w *Wallet) Validate() error {
	return nil
}

func (w *Wallet) Marshal() ([]byte, error) {
	return timelock.MarshalBinary(w)
}

func (w *Wallet) Unmarshal(raw []byte) error {
	return timelock.UnmarshalBinary(raw, w)
}

// Add increases the balance, failing on overflow.
func (w *Wallet) Add(amount uint64) error {
	if w.Balance+amount < w.Balance {
		return errors.Wrapf(errors.ErrOverflow, "%d + %d", w.Balance, amount)
	}
	w.Balance += amount
	return nil
}

// Subtract decreases the balance. The balance can never go below zero.
func (w *Wallet) Subtract(amount uint64) error {
	if w.Balance < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "balance %d, required %d", w.Balance, amount)
	}
	w.Balance -= amount
	return nil
}

// NewWallet creates a wallet object with given balance stored under the
// address.
func NewWallet(addr timelock.Address, balance uint64) orm.Object {
	return orm.NewSimpleObj(addr, &Wallet{Balance: balance})
}

// AsWallet will safely type-cast any value from Bucket to a Wallet.
func AsWallet(obj orm.Object) *Wallet {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*Wallet)
}

// Bucket is a type-safe wrapper around orm.Bucket
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes a cash.Bucket with default name
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, NewWallet(nil, 0)),
	}
}

// GetOrCreate returns the wallet stored under given address or an empty
// one if it does not exist yet. A new wallet is not saved.
func (b Bucket) GetOrCreate(db timelock.ReadOnlyKVStore, addr timelock.Address) (orm.Object, error) {
	obj, err := b.Get(db, addr)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		obj = NewWallet(addr, 0)
	}
	return obj, nil
}

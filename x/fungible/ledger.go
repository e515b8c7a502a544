package fungible

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// Ledger is the token transfer service used by other extensions. It only
// moves tokens between existing holding accounts and never creates them.
type Ledger interface {
	// Account returns the holding account stored at given address. It
	// fails with ErrMissingTokenAccount if no such account exists.
	Account(db timelock.ReadOnlyKVStore, holding timelock.Address) (*HoldingAccount, error)
	// BalanceOf returns the amount of tokens held by the account.
	BalanceOf(db timelock.ReadOnlyKVStore, holding timelock.Address) (uint64, error)
	// Transfer moves amount of mint tokens between two holding accounts.
	// Authority must be the owner of the source account.
	Transfer(db timelock.KVStore, from, to, mint timelock.Address, amount uint64, authority timelock.Address) error
}

// Controller extends the Ledger with operations that create state. It is
// used by the message handlers and the genesis initializer.
type Controller interface {
	Ledger
	CreateMint(db timelock.KVStore, m *Mint) (timelock.Address, error)
	OpenAccount(db timelock.KVStore, owner, mint timelock.Address) (timelock.Address, error)
	MintTo(db timelock.KVStore, mint, holding timelock.Address, amount uint64) error
}

// BucketLedger is the Controller implementation storing the state in the
// mint and holding buckets.
type BucketLedger struct {
	mints    MintBucket
	holdings HoldingBucket
}

var _ Controller = (*BucketLedger)(nil)

// NewLedger returns a ledger using the default buckets.
func NewLedger() *BucketLedger {
	return &BucketLedger{
		mints:    NewMintBucket(),
		holdings: NewHoldingBucket(),
	}
}

func (l *BucketLedger) Account(db timelock.ReadOnlyKVStore, holding timelock.Address) (*HoldingAccount, error) {
	return l.holdings.GetAccount(db, holding)
}

func (l *BucketLedger) BalanceOf(db timelock.ReadOnlyKVStore, holding timelock.Address) (uint64, error) {
	acc, err := l.holdings.GetAccount(db, holding)
	if err != nil {
		return 0, err
	}
	return acc.Amount, nil
}

func (l *BucketLedger) Transfer(db timelock.KVStore, from, to, mint timelock.Address, amount uint64, authority timelock.Address) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "zero value")
	}
	src, err := l.holdings.GetAccount(db, from)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	if !src.Owner.Equals(authority) {
		return errors.Wrap(errors.ErrUnauthorized, "authority does not own the source account")
	}
	if !src.Mint.Equals(mint) {
		return errors.Wrapf(ErrTransferFailed, "source account holds mint %s", src.Mint)
	}
	if src.Amount < amount {
		return errors.Wrapf(ErrTransferFailed, "insufficient balance: %d < %d", src.Amount, amount)
	}
	src.Amount -= amount
	if err := l.holdings.SaveAccount(db, src); err != nil {
		return errors.Wrap(err, "cannot save source account")
	}

	// Loaded after saving the source so that a transfer to self is a
	// noop.
	dst, err := l.holdings.GetAccount(db, to)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if !dst.Mint.Equals(mint) {
		return errors.Wrapf(ErrTransferFailed, "destination account holds mint %s", dst.Mint)
	}
	if dst.Amount+amount < dst.Amount {
		return errors.Wrap(ErrTransferFailed, "destination balance overflow")
	}
	dst.Amount += amount
	if err := l.holdings.SaveAccount(db, dst); err != nil {
		return errors.Wrap(err, "cannot save destination account")
	}
	return nil
}

// CreateMint registers a new token type. Each ticker can be registered only
// once.
func (l *BucketLedger) CreateMint(db timelock.KVStore, m *Mint) (timelock.Address, error) {
	addr := MintAddress(m.Ticker)
	switch has, err := l.mints.Has(db, addr); {
	case err != nil:
		return nil, errors.Wrap(err, "cannot check mint")
	case has:
		return nil, errors.Wrapf(errors.ErrDuplicate, "mint %s", m.Ticker)
	}
	if err := l.mints.SaveMint(db, m); err != nil {
		return nil, err
	}
	return addr, nil
}

// OpenAccount creates the empty holding account of owner for given mint.
func (l *BucketLedger) OpenAccount(db timelock.KVStore, owner, mint timelock.Address) (timelock.Address, error) {
	if _, err := l.mints.GetMint(db, mint); err != nil {
		return nil, err
	}
	acc := &HoldingAccount{Owner: owner, Mint: mint}
	addr := acc.Address()
	switch has, err := l.holdings.Has(db, addr); {
	case err != nil:
		return nil, errors.Wrap(err, "cannot check account")
	case has:
		return nil, errors.Wrapf(errors.ErrDuplicate, "account %s", addr)
	}
	if err := l.holdings.SaveAccount(db, acc); err != nil {
		return nil, err
	}
	return addr, nil
}

// MintTo creates new tokens and deposits them into given holding account.
// The caller is responsible for checking the mint authority.
func (l *BucketLedger) MintTo(db timelock.KVStore, mint, holding timelock.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "zero value")
	}
	m, err := l.mints.GetMint(db, mint)
	if err != nil {
		return err
	}
	acc, err := l.holdings.GetAccount(db, holding)
	if err != nil {
		return err
	}
	if !acc.Mint.Equals(mint) {
		return errors.Wrapf(errors.ErrInput, "account holds mint %s", acc.Mint)
	}
	if m.Supply+amount < m.Supply || acc.Amount+amount < acc.Amount {
		return errors.Wrap(errors.ErrOverflow, "supply")
	}
	m.Supply += amount
	acc.Amount += amount
	if err := l.mints.SaveMint(db, m); err != nil {
		return err
	}
	return l.holdings.SaveAccount(db, acc)
}

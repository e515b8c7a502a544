package fungible

import (
	"regexp"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/orm"
)

const (
	mintBucketName    = "mint"
	holdingBucketName = "holding"

	// maxDecimals is the highest precision a token can declare.
	maxDecimals = 18
)

var isTicker = regexp.MustCompile(`^[A-Z]{3,4}$`).MatchString

// MintAddress returns the address of the mint with given ticker.
func MintAddress(ticker string) timelock.Address {
	return timelock.NewCondition("fungible", "mint", []byte(ticker)).Address()
}

// HoldingAddress returns the address of the holding account for the given
// owner and mint. There is exactly one such account per pair.
func HoldingAddress(owner, mint timelock.Address) timelock.Address {
	data := make([]byte, 0, len(owner)+len(mint))
	data = append(data, owner...)
	data = append(data, mint...)
	return timelock.NewCondition("fungible", "holding", data).Address()
}

// Mint describes a token type.
type Mint struct {
	Ticker string
	// Authority is the only address allowed to create new tokens.
	Authority timelock.Address
	Decimals  int32
	// Supply is the total amount of tokens in circulation.
	Supply uint64
}

var _ orm.Model = (*Mint)(nil)

func (m *Mint) Validate() error {
	if !isTicker(m.Ticker) {
		return errors.Wrapf(errors.ErrInput, "invalid ticker %q", m.Ticker)
	}
	if err := m.Authority.Validate(); err != nil {
		return errors.Wrap(err, "authority")
	}
	if m.Decimals < 0 || m.Decimals > maxDecimals {
		return errors.Wrapf(errors.ErrInput, "decimals must be between 0 and %d", maxDecimals)
	}
	return nil
}

func (m *Mint) Marshal() ([]byte, error) {
	return timelock.MarshalBinary(m)
}

func (m *Mint) Unmarshal(raw []byte) error {
	return timelock.UnmarshalBinary(raw, m)
}

// HoldingAccount is the balance of a single token type owned by a single
// address.
type HoldingAccount struct {
	Owner  timelock.Address
	Mint   timelock.Address
	Amount uint64
}

var _ orm.Model = (*HoldingAccount)(nil)

func (h *HoldingAccount) Validate() error {
	if err := h.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := h.Mint.Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	return nil
}

func (h *HoldingAccount) Marshal() ([]byte, error) {
	return timelock.MarshalBinary(h)
}

func (h *HoldingAccount) Unmarshal(raw []byte) error {
	return timelock.UnmarshalBinary(raw, h)
}

// Address returns the address this account is stored under.
func (h *HoldingAccount) Address() timelock.Address {
	return HoldingAddress(h.Owner, h.Mint)
}

// MintBucket stores mints under their address.
type MintBucket struct {
	orm.Bucket
}

// NewMintBucket returns a bucket for managing mints.
func NewMintBucket() MintBucket {
	return MintBucket{
		Bucket: orm.NewBucket(mintBucketName, orm.NewSimpleObj(nil, &Mint{})),
	}
}

// GetMint returns the mint stored under given address or ErrNotFound.
func (b MintBucket) GetMint(db timelock.ReadOnlyKVStore, addr timelock.Address) (*Mint, error) {
	obj, err := b.Get(db, addr)
	if err != nil {
		return nil, errors.Wrap(err, "cannot get mint")
	}
	if obj == nil || obj.Value() == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "mint %s", addr)
	}
	return obj.Value().(*Mint), nil
}

// SaveMint stores the mint under the address derived from its ticker.
func (b MintBucket) SaveMint(db timelock.KVStore, m *Mint) error {
	return b.Save(db, orm.NewSimpleObj(MintAddress(m.Ticker), m))
}

// HoldingBucket stores holding accounts under their derived address and
// indexes them by owner.
type HoldingBucket struct {
	orm.Bucket
}

// NewHoldingBucket returns a bucket for managing holding accounts.
func NewHoldingBucket() HoldingBucket {
	b := orm.NewBucket(holdingBucketName, orm.NewSimpleObj(nil, &HoldingAccount{})).
		WithIndex("owner", ownerIndexer, false)
	return HoldingBucket{Bucket: b}
}

func ownerIndexer(obj orm.Object) ([]byte, error) {
	if obj == nil {
		return nil, nil
	}
	h, ok := obj.Value().(*HoldingAccount)
	if !ok {
		return nil, errors.WithType(errors.ErrModel, obj.Value())
	}
	return h.Owner, nil
}

// GetAccount returns the holding account stored under given address or
// ErrMissingTokenAccount.
func (b HoldingBucket) GetAccount(db timelock.ReadOnlyKVStore, addr timelock.Address) (*HoldingAccount, error) {
	obj, err := b.Get(db, addr)
	if err != nil {
		return nil, errors.Wrap(err, "cannot get holding account")
	}
	if obj == nil || obj.Value() == nil {
		return nil, errors.Wrapf(ErrMissingTokenAccount, "account %s", addr)
	}
	return obj.Value().(*HoldingAccount), nil
}

// SaveAccount stores the account under its derived address.
func (b HoldingBucket) SaveAccount(db timelock.KVStore, h *HoldingAccount) error {
	return b.Save(db, orm.NewSimpleObj(h.Address(), h))
}

// ByOwner returns all holding accounts of given owner.
func (b HoldingBucket) ByOwner(db timelock.ReadOnlyKVStore, owner timelock.Address) ([]*HoldingAccount, error) {
	objs, err := b.GetIndexed(db, "owner", owner)
	if err != nil {
		return nil, err
	}
	res := make([]*HoldingAccount, 0, len(objs))
	for _, o := range objs {
		res = append(res, o.Value().(*HoldingAccount))
	}
	return res, nil
}

package sigs

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/crypto"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/orm"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// UserData keeps the public key of a signer together with the sequence
// that the next signature must use.
type UserData struct {
	Pubkey   *crypto.PublicKey
	Sequence int64
}

var _ orm.Model = (*UserData)(nil)

func (u *UserData) Validate() error {
	if u.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if u.Pubkey == nil {
		return errors.Wrap(errors.ErrEmpty, "pubkey")
	}
	return u.Pubkey.Validate()
}

func (u *UserData) Marshal() ([]byte, error) {
	return timelock.MarshalBinary(u)
}

func (u *UserData) Unmarshal(raw []byte) error {
	return timelock.UnmarshalBinary(raw, u)
}

// maxSequenceValue is limited by the client. The greatest supported nonce
// value at client side is
//   Number.MAX_SAFE_INTEGER = 9007199254740991 = 2^53 - 1
const maxSequenceValue = (1 << 53) - 1

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
// Before incrementing the sequence, this function is testing for a value
// overflow.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", u.Sequence, expected)
	}
	next := u.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

//-------------------- Object Wrapper -------

// AsUser will safely type-cast any value from Bucket to a UserData
func AsUser(obj orm.Object) *UserData {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*UserData)
}

// NewUser constructs an object from a pubkey
func NewUser(pubkey *crypto.PublicKey) orm.Object {
	var key timelock.Address
	if pubkey != nil {
		key = pubkey.Address()
	}
	return orm.NewSimpleObj(key, &UserData{Pubkey: pubkey})
}

// Bucket extends orm.Bucket with GetOrCreate
type Bucket struct {
	orm.Bucket
}

// NewBucket creates the proper bucket for this extension
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, NewUser(nil)),
	}
}

// GetOrCreate initializes a UserData if none exist for that key
func (b Bucket) GetOrCreate(db timelock.KVStore, pubkey *crypto.PublicKey) (orm.Object, error) {
	obj, err := b.Get(db, pubkey.Address())
	if err == nil && obj == nil {
		obj = NewUser(pubkey)
	}
	return obj, err
}

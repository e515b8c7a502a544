package escrow

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/orm"
)

const (
	nativeBucketName = "native_esc"
	tokenBucketName  = "token_esc"
)

// State is the lifecycle state of an escrow record.
type State int32

const (
	// StateLive is the state of an escrow whose funds are held by the
	// vault.
	StateLive State = 1
	// StateSettled is the state of an escrow that was released to the
	// receiver.
	StateSettled State = 2
)

func (s State) String() string {
	switch s {
	case StateLive:
		return "live"
	case StateSettled:
		return "settled"
	default:
		return "unknown"
	}
}

func (s State) validate() error {
	switch s {
	case StateLive, StateSettled:
		return nil
	default:
		return errors.Wrapf(errors.ErrState, "invalid state %d", s)
	}
}

// NativeEscrow is a deposit of the native currency.
type NativeEscrow struct {
	Sender    timelock.Address
	Receiver  timelock.Address
	Vault     timelock.Address
	Amount    uint64
	StartTime timelock.UnixTime
	Bump      uint32
	State     State
	SettledAt timelock.UnixTime
}

var _ orm.Model = (*NativeEscrow)(nil)

func (e *NativeEscrow) Validate() error {
	if err := validateParties(e.Sender, e.Receiver, e.Vault); err != nil {
		return err
	}
	if e.Amount == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "zero amount")
	}
	if err := e.StartTime.Validate(); err != nil {
		return errors.Wrap(err, "start time")
	}
	if err := e.State.validate(); err != nil {
		return err
	}
	if e.State == StateSettled && e.SettledAt.IsZero() {
		return errors.Wrap(errors.ErrState, "settled without time")
	}
	return nil
}

func (e *NativeEscrow) Marshal() ([]byte, error) {
	return timelock.MarshalBinary(e)
}

func (e *NativeEscrow) Unmarshal(raw []byte) error {
	return timelock.UnmarshalBinary(raw, e)
}

// TokenEscrow is a deposit of a fungible token.
type TokenEscrow struct {
	Sender    timelock.Address
	Receiver  timelock.Address
	Vault     timelock.Address
	Mint      timelock.Address
	Amount    uint64
	StartTime timelock.UnixTime
	Bump      uint32
	State     State
	SettledAt timelock.UnixTime
}

var _ orm.Model = (*TokenEscrow)(nil)

func (e *TokenEscrow) Validate() error {
	if err := validateParties(e.Sender, e.Receiver, e.Vault); err != nil {
		return err
	}
	if err := e.Mint.Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	if e.Amount == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "zero amount")
	}
	if err := e.StartTime.Validate(); err != nil {
		return errors.Wrap(err, "start time")
	}
	if err := e.State.validate(); err != nil {
		return err
	}
	if e.State == StateSettled && e.SettledAt.IsZero() {
		return errors.Wrap(errors.ErrState, "settled without time")
	}
	return nil
}

func (e *TokenEscrow) Marshal() ([]byte, error) {
	return timelock.MarshalBinary(e)
}

func (e *TokenEscrow) Unmarshal(raw []byte) error {
	return timelock.UnmarshalBinary(raw, e)
}

func validateParties(sender, receiver, vault timelock.Address) error {
	if err := sender.Validate(); err != nil {
		return errors.Wrap(err, "sender")
	}
	if err := receiver.Validate(); err != nil {
		return errors.Wrap(err, "receiver")
	}
	if err := vault.Validate(); err != nil {
		return errors.Wrap(err, "vault")
	}
	if vault.Equals(sender) || vault.Equals(receiver) {
		return errors.Wrap(errors.ErrInput, "vault must be a dedicated address")
	}
	return nil
}

// NativeBucket stores native escrows under their derived key.
type NativeBucket struct {
	orm.Bucket
}

// NewNativeBucket returns a bucket of native escrows indexed by receiver.
func NewNativeBucket() NativeBucket {
	b := orm.NewBucket(nativeBucketName, orm.NewSimpleObj(nil, &NativeEscrow{})).
		WithIndex("receiver", nativeReceiverIndexer, false)
	return NativeBucket{Bucket: b}
}

func nativeReceiverIndexer(obj orm.Object) ([]byte, error) {
	if obj == nil {
		return nil, nil
	}
	e, ok := obj.Value().(*NativeEscrow)
	if !ok {
		return nil, errors.WithType(errors.ErrModel, obj.Value())
	}
	return e.Receiver, nil
}

// GetEscrow returns the escrow stored under the key or nil.
func (b NativeBucket) GetEscrow(db timelock.ReadOnlyKVStore, key []byte) (*NativeEscrow, error) {
	obj, err := b.Get(db, key)
	if err != nil || obj == nil || obj.Value() == nil {
		return nil, err
	}
	return obj.Value().(*NativeEscrow), nil
}

// SaveEscrow stores the escrow under the key.
func (b NativeBucket) SaveEscrow(db timelock.KVStore, key []byte, e *NativeEscrow) error {
	return b.Save(db, orm.NewSimpleObj(key, e))
}

// TokenBucket stores token escrows under their derived key.
type TokenBucket struct {
	orm.Bucket
}

// NewTokenBucket returns a bucket of token escrows indexed by receiver.
func NewTokenBucket() TokenBucket {
	b := orm.NewBucket(tokenBucketName, orm.NewSimpleObj(nil, &TokenEscrow{})).
		WithIndex("receiver", tokenReceiverIndexer, false)
	return TokenBucket{Bucket: b}
}

func tokenReceiverIndexer(obj orm.Object) ([]byte, error) {
	if obj == nil {
		return nil, nil
	}
	e, ok := obj.Value().(*TokenEscrow)
	if !ok {
		return nil, errors.WithType(errors.ErrModel, obj.Value())
	}
	return e.Receiver, nil
}

// GetEscrow returns the escrow stored under the key or nil.
func (b TokenBucket) GetEscrow(db timelock.ReadOnlyKVStore, key []byte) (*TokenEscrow, error) {
	obj, err := b.Get(db, key)
	if err != nil || obj == nil || obj.Value() == nil {
		return nil, err
	}
	return obj.Value().(*TokenEscrow), nil
}

// SaveEscrow stores the escrow under the key.
func (b TokenBucket) SaveEscrow(db timelock.KVStore, key []byte, e *TokenEscrow) error {
	return b.Save(db, orm.NewSimpleObj(key, e))
}

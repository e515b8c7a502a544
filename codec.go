package timelock

import (
	"reflect"

	"github.com/iov-one/timelock/errors"
	amino "github.com/tendermint/go-amino"
)

// schemaVersion prefixes every binary encoded value. It allows to change the
// encoding of stored entities in the future and guarantees that a zero value
// serializes to a non empty byte slice.
const schemaVersion byte = 1

var cdc = amino.NewCodec()

// MarshalBinary serializes given structure using the amino binary encoding.
// All messages, transactions and models use this function in their Marshal
// implementation.
func MarshalBinary(v interface{}) ([]byte, error) {
	raw, err := cdc.MarshalBinaryBare(v)
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return append([]byte{schemaVersion}, raw...), nil
}

// UnmarshalBinary is the counterpart of MarshalBinary. Destination must be a
// pointer.
func UnmarshalBinary(raw []byte, dest interface{}) error {
	if len(raw) == 0 {
		return errors.Wrap(errors.ErrModel, "empty serialization")
	}
	if raw[0] != schemaVersion {
		return errors.Wrapf(errors.ErrModel, "unsupported schema version %d", raw[0])
	}
	if len(raw) == 1 {
		// Zero value. Amino refuses to decode empty bytes.
		v := reflect.ValueOf(dest)
		if v.Kind() != reflect.Ptr || v.IsNil() {
			return errors.Wrap(errors.ErrType, "destination must be a non nil pointer")
		}
		v.Elem().Set(reflect.Zero(v.Elem().Type()))
		return nil
	}
	if err := cdc.UnmarshalBinaryBare(raw[1:], dest); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return nil
}

package timelock

import (
	"reflect"

	"github.com/iov-one/timelock/errors"
)

// assignMsg copies the value pointed by msg into destination. Destination
// must be a pointer to the same type that the message pointer points to.
func assignMsg(msg Msg, destination interface{}) error {
	src := reflect.ValueOf(msg)
	dst := reflect.ValueOf(destination)
	if dst.Kind() != reflect.Ptr || dst.IsNil() {
		return errors.Wrap(errors.ErrType, "destination must be a non nil pointer")
	}
	if src.Kind() != reflect.Ptr || src.IsNil() {
		return errors.Wrap(errors.ErrType, "message must be a non nil pointer")
	}
	if src.Type() != dst.Type() {
		return errors.Wrapf(errors.ErrType, "want %T message, got %T", destination, msg)
	}
	dst.Elem().Set(src.Elem())
	return nil
}

package escrow

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// Clock provides the current time.
type Clock interface {
	Now(timelock.Context) (timelock.UnixTime, error)
}

// BlockClock returns the time of the block being processed.
type BlockClock struct{}

var _ Clock = BlockClock{}

func (BlockClock) Now(ctx timelock.Context) (timelock.UnixTime, error) {
	now, err := timelock.BlockTime(ctx)
	if err != nil {
		return 0, errors.Wrap(errors.ErrState, err.Error())
	}
	return timelock.AsUnixTime(now), nil
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func(timelock.Context) (timelock.UnixTime, error)

func (fn ClockFunc) Now(ctx timelock.Context) (timelock.UnixTime, error) {
	return fn(ctx)
}

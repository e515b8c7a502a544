package escrow

import (
	"github.com/iov-one/timelock/errors"
)

// x/escrow reserves 1010 ~ 1019.
var (
	ErrTooEarly       = errors.Register(1010, "release too early")
	ErrAmountMismatch = errors.Register(1011, "amount mismatch")
	ErrAlreadySettled = errors.Register(1012, "escrow already settled")
)

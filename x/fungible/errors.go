package fungible

import (
	"github.com/iov-one/timelock/errors"
)

// x/fungible reserves 1020 ~ 1029.
var (
	ErrMissingTokenAccount = errors.Register(1020, "missing token account")
	ErrTransferFailed      = errors.Register(1021, "ledger transfer failed")
)

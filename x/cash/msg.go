package cash

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

const (
	sendTxCost int64 = 100

	maxMemoSize int = 128
)

// SendMsg moves the native currency between two addresses.
type SendMsg struct {
	Source      timelock.Address `json:"source"`
	Destination timelock.Address `json:"destination"`
	Amount      uint64           `json:"amount"`
	Memo        string           `json:"memo,omitempty"`
}

// Ensure we implement the Msg interface
var _ timelock.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "cash/send"
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "non-positive SendMsg")
	}
	if err := m.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if len(m.Memo) > maxMemoSize {
		return errors.Wrap(errors.ErrInput, "memo too long")
	}
	return nil
}

func (m *SendMsg) Marshal() ([]byte, error) {
	return timelock.MarshalBinary(m)
}

func (m *SendMsg) Unmarshal(raw []byte) error {
	return timelock.UnmarshalBinary(raw, m)
}

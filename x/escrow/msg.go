package escrow

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

var (
	_ timelock.Msg = (*CreateNativeEscrowMsg)(nil)
	_ timelock.Msg = (*ReleaseNativeEscrowMsg)(nil)
	_ timelock.Msg = (*CreateTokenEscrowMsg)(nil)
	_ timelock.Msg = (*ReleaseTokenEscrowMsg)(nil)
)

// CreateNativeEscrowMsg deposits native currency of the sender into the
// vault.
type CreateNativeEscrowMsg struct {
	Sender    timelock.Address  `json:"sender"`
	Receiver  timelock.Address  `json:"receiver"`
	Vault     timelock.Address  `json:"vault"`
	StartTime timelock.UnixTime `json:"start_time"`
	Amount    uint64            `json:"amount"`
}

func (CreateNativeEscrowMsg) Path() string {
	return "escrow/create_native"
}

func (m *CreateNativeEscrowMsg) Validate() error {
	if err := validateParties(m.Sender, m.Receiver, m.Vault); err != nil {
		return err
	}
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "zero amount")
	}
	return validateStartTime(m.StartTime)
}

func (m *CreateNativeEscrowMsg) Marshal() ([]byte, error) {
	return timelock.MarshalBinary(m)
}

func (m *CreateNativeEscrowMsg) Unmarshal(raw []byte) error {
	return timelock.UnmarshalBinary(raw, m)
}

// ReleaseNativeEscrowMsg moves the deposit of the sender from the vault to
// the receiver.
type ReleaseNativeEscrowMsg struct {
	Sender   timelock.Address `json:"sender"`
	Receiver timelock.Address `json:"receiver"`
	Vault    timelock.Address `json:"vault"`
	Amount   uint64           `json:"amount"`
}

func (ReleaseNativeEscrowMsg) Path() string {
	return "escrow/release_native"
}

func (m *ReleaseNativeEscrowMsg) Validate() error {
	if err := validateParties(m.Sender, m.Receiver, m.Vault); err != nil {
		return err
	}
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "zero amount")
	}
	return nil
}

func (m *ReleaseNativeEscrowMsg) Marshal() ([]byte, error) {
	return timelock.MarshalBinary(m)
}

func (m *ReleaseNativeEscrowMsg) Unmarshal(raw []byte) error {
	return timelock.UnmarshalBinary(raw, m)
}

// CreateTokenEscrowMsg deposits tokens from the sender holding account into
// the vault holding account.
type CreateTokenEscrowMsg struct {
	Sender        timelock.Address  `json:"sender"`
	Receiver      timelock.Address  `json:"receiver"`
	Vault         timelock.Address  `json:"vault"`
	StartTime     timelock.UnixTime `json:"start_time"`
	Amount        uint64            `json:"amount"`
	Mint          timelock.Address  `json:"mint"`
	SenderAccount timelock.Address  `json:"sender_account"`
	VaultAccount  timelock.Address  `json:"vault_account"`
}

func (CreateTokenEscrowMsg) Path() string {
	return "escrow/create_token"
}

func (m *CreateTokenEscrowMsg) Validate() error {
	if err := validateParties(m.Sender, m.Receiver, m.Vault); err != nil {
		return err
	}
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "zero amount")
	}
	if err := validateStartTime(m.StartTime); err != nil {
		return err
	}
	if err := m.Mint.Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	if err := m.SenderAccount.Validate(); err != nil {
		return errors.Wrap(err, "sender account")
	}
	if err := m.VaultAccount.Validate(); err != nil {
		return errors.Wrap(err, "vault account")
	}
	return nil
}

func (m *CreateTokenEscrowMsg) Marshal() ([]byte, error) {
	return timelock.MarshalBinary(m)
}

func (m *CreateTokenEscrowMsg) Unmarshal(raw []byte) error {
	return timelock.UnmarshalBinary(raw, m)
}

// ReleaseTokenEscrowMsg moves the deposit of the sender from the vault
// holding account to the receiver holding account.
type ReleaseTokenEscrowMsg struct {
	Sender          timelock.Address `json:"sender"`
	Receiver        timelock.Address `json:"receiver"`
	Vault           timelock.Address `json:"vault"`
	Amount          uint64           `json:"amount"`
	Mint            timelock.Address `json:"mint"`
	VaultAccount    timelock.Address `json:"vault_account"`
	ReceiverAccount timelock.Address `json:"receiver_account"`
}

func (ReleaseTokenEscrowMsg) Path() string {
	return "escrow/release_token"
}

func (m *ReleaseTokenEscrowMsg) Validate() error {
	if err := validateParties(m.Sender, m.Receiver, m.Vault); err != nil {
		return err
	}
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "zero amount")
	}
	if err := m.Mint.Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	if err := m.VaultAccount.Validate(); err != nil {
		return errors.Wrap(err, "vault account")
	}
	if err := m.ReceiverAccount.Validate(); err != nil {
		return errors.Wrap(err, "receiver account")
	}
	return nil
}

func (m *ReleaseTokenEscrowMsg) Marshal() ([]byte, error) {
	return timelock.MarshalBinary(m)
}

func (m *ReleaseTokenEscrowMsg) Unmarshal(raw []byte) error {
	return timelock.UnmarshalBinary(raw, m)
}

func validateStartTime(t timelock.UnixTime) error {
	if t.IsZero() {
		return errors.Wrap(errors.ErrInput, "start time required")
	}
	if err := t.Validate(); err != nil {
		return errors.Wrap(err, "start time")
	}
	return nil
}

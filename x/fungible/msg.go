package fungible

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

var (
	_ timelock.Msg = (*CreateMintMsg)(nil)
	_ timelock.Msg = (*OpenAccountMsg)(nil)
	_ timelock.Msg = (*MintToMsg)(nil)
	_ timelock.Msg = (*TransferMsg)(nil)
)

// CreateMintMsg registers a new token type.
type CreateMintMsg struct {
	Authority timelock.Address `json:"authority"`
	Ticker    string           `json:"ticker"`
	Decimals  int32            `json:"decimals"`
}

func (CreateMintMsg) Path() string {
	return "fungible/create_mint"
}

func (m *CreateMintMsg) Validate() error {
	mint := Mint{Ticker: m.Ticker, Authority: m.Authority, Decimals: m.Decimals}
	return mint.Validate()
}

func (m *CreateMintMsg) Marshal() ([]byte, error) {
	return timelock.MarshalBinary(m)
}

func (m *CreateMintMsg) Unmarshal(raw []byte) error {
	return timelock.UnmarshalBinary(raw, m)
}

// OpenAccountMsg creates the holding account of the owner for the mint.
// The owner does not have to sign it, which allows opening accounts for
// addresses that cannot sign.
type OpenAccountMsg struct {
	Owner timelock.Address `json:"owner"`
	Mint  timelock.Address `json:"mint"`
}

func (OpenAccountMsg) Path() string {
	return "fungible/open_account"
}

func (m *OpenAccountMsg) Validate() error {
	if err := m.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := m.Mint.Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	return nil
}

func (m *OpenAccountMsg) Marshal() ([]byte, error) {
	return timelock.MarshalBinary(m)
}

func (m *OpenAccountMsg) Unmarshal(raw []byte) error {
	return timelock.UnmarshalBinary(raw, m)
}

// MintToMsg creates new tokens in the destination holding account. It must
// be signed by the mint authority.
type MintToMsg struct {
	Mint        timelock.Address `json:"mint"`
	Destination timelock.Address `json:"destination"`
	Amount      uint64           `json:"amount"`
}

func (MintToMsg) Path() string {
	return "fungible/mint_to"
}

func (m *MintToMsg) Validate() error {
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "zero value")
	}
	if err := m.Mint.Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	return nil
}

func (m *MintToMsg) Marshal() ([]byte, error) {
	return timelock.MarshalBinary(m)
}

func (m *MintToMsg) Unmarshal(raw []byte) error {
	return timelock.UnmarshalBinary(raw, m)
}

// TransferMsg moves tokens between two holding accounts. It must be signed
// by the owner of the source account.
type TransferMsg struct {
	Source      timelock.Address `json:"source"`
	Destination timelock.Address `json:"destination"`
	Mint        timelock.Address `json:"mint"`
	Amount      uint64           `json:"amount"`
}

func (TransferMsg) Path() string {
	return "fungible/transfer"
}

func (m *TransferMsg) Validate() error {
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "zero value")
	}
	if err := m.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if err := m.Mint.Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	return nil
}

func (m *TransferMsg) Marshal() ([]byte, error) {
	return timelock.MarshalBinary(m)
}

func (m *TransferMsg) Unmarshal(raw []byte) error {
	return timelock.UnmarshalBinary(raw, m)
}

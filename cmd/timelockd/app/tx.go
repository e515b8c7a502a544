package app

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/x/cash"
	"github.com/iov-one/timelock/x/escrow"
	"github.com/iov-one/timelock/x/fungible"
	"github.com/iov-one/timelock/x/sigs"
)

// Tx is the transaction understood by the application. Exactly one of the
// message fields must be set.
type Tx struct {
	Signatures []*sigs.StdSignature

	SendMsg                *cash.SendMsg
	CreateMintMsg          *fungible.CreateMintMsg
	OpenAccountMsg         *fungible.OpenAccountMsg
	MintToMsg              *fungible.MintToMsg
	TransferMsg            *fungible.TransferMsg
	CreateNativeEscrowMsg  *escrow.CreateNativeEscrowMsg
	ReleaseNativeEscrowMsg *escrow.ReleaseNativeEscrowMsg
	CreateTokenEscrowMsg   *escrow.CreateTokenEscrowMsg
	ReleaseTokenEscrowMsg  *escrow.ReleaseTokenEscrowMsg
	UpdateConfigurationMsg *escrow.UpdateConfigurationMsg
}

// make sure tx fulfills all interfaces
var _ timelock.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (timelock.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// GetMsg returns the single message carried by the transaction.
func (tx *Tx) GetMsg() (timelock.Msg, error) {
	var msgs []timelock.Msg
	// make sure to cover all message fields
	if tx.SendMsg != nil {
		msgs = append(msgs, tx.SendMsg)
	}
	if tx.CreateMintMsg != nil {
		msgs = append(msgs, tx.CreateMintMsg)
	}
	if tx.OpenAccountMsg != nil {
		msgs = append(msgs, tx.OpenAccountMsg)
	}
	if tx.MintToMsg != nil {
		msgs = append(msgs, tx.MintToMsg)
	}
	if tx.TransferMsg != nil {
		msgs = append(msgs, tx.TransferMsg)
	}
	if tx.CreateNativeEscrowMsg != nil {
		msgs = append(msgs, tx.CreateNativeEscrowMsg)
	}
	if tx.ReleaseNativeEscrowMsg != nil {
		msgs = append(msgs, tx.ReleaseNativeEscrowMsg)
	}
	if tx.CreateTokenEscrowMsg != nil {
		msgs = append(msgs, tx.CreateTokenEscrowMsg)
	}
	if tx.ReleaseTokenEscrowMsg != nil {
		msgs = append(msgs, tx.ReleaseTokenEscrowMsg)
	}
	if tx.UpdateConfigurationMsg != nil {
		msgs = append(msgs, tx.UpdateConfigurationMsg)
	}

	switch len(msgs) {
	case 0:
		return nil, errors.Wrap(errors.ErrEmpty, "no message")
	case 1:
		return msgs[0], nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "%d messages in one transaction", len(msgs))
	}
}

// SetMsg places the message in the matching field. Any previously set
// message is cleared.
func (tx *Tx) SetMsg(msg timelock.Msg) error {
	*tx = Tx{Signatures: tx.Signatures}
	switch m := msg.(type) {
	case *cash.SendMsg:
		tx.SendMsg = m
	case *fungible.CreateMintMsg:
		tx.CreateMintMsg = m
	case *fungible.OpenAccountMsg:
		tx.OpenAccountMsg = m
	case *fungible.MintToMsg:
		tx.MintToMsg = m
	case *fungible.TransferMsg:
		tx.TransferMsg = m
	case *escrow.CreateNativeEscrowMsg:
		tx.CreateNativeEscrowMsg = m
	case *escrow.ReleaseNativeEscrowMsg:
		tx.ReleaseNativeEscrowMsg = m
	case *escrow.CreateTokenEscrowMsg:
		tx.CreateTokenEscrowMsg = m
	case *escrow.ReleaseTokenEscrowMsg:
		tx.ReleaseTokenEscrowMsg = m
	case *escrow.UpdateConfigurationMsg:
		tx.UpdateConfigurationMsg = m
	default:
		return errors.WithType(errors.ErrMsg, msg)
	}
	return nil
}

// GetSignatures returns all signatures attached to the transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign...
func (tx *Tx) GetSignBytes() ([]byte, error) {
	// temporarily unset the signatures, as the sign bytes
	// should only come from the data itself, not previous signatures
	sigs := tx.Signatures
	tx.Signatures = nil

	bz, err := tx.Marshal()

	// reset the signatures after calculating the bytes
	tx.Signatures = sigs
	return bz, err
}

func (tx *Tx) Marshal() ([]byte, error) {
	return timelock.MarshalBinary(tx)
}

func (tx *Tx) Unmarshal(raw []byte) error {
	return timelock.UnmarshalBinary(raw, tx)
}

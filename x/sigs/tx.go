package sigs

import (
	"github.com/iov-one/timelock/crypto"
	"github.com/iov-one/timelock/errors"
)

// SignedTx represents a transaction that contains signatures,
// which can be verified by the sigs.Decorator
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the Msg.
	//
	// Helpful to store original, unparsed bytes here, just in case.
	GetSignBytes() ([]byte, error)

	// Signatures returns the signature of signers who signed the Msg.
	GetSignatures() []*StdSignature
}

// StdSignature is a signature of the transaction together with the public
// key that created it and the sequence it was made for.
type StdSignature struct {
	Sequence  int64
	Pubkey    *crypto.PublicKey
	Signature *crypto.Signature
}

// Validate ensures the StdSignature meets basic standards
func (s *StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if s.Pubkey == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if err := s.Pubkey.Validate(); err != nil {
		return errors.Wrap(errors.ErrUnauthorized, "invalid public key")
	}
	if s.Signature == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}

package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/crypto"
	"github.com/iov-one/timelock/errors"
)

// signCodeV1 prefixes every signed message. It changes whenever the layout
// built by BuildSignBytes does.
var signCodeV1 = [4]byte{0, 0xCA, 0xFE, 0}

// VerifyTxSignatures checks every signature of the transaction and bumps
// the sequence of each signer. It returns the signer conditions in the
// order of the signatures. A single invalid signature fails the whole
// transaction.
func VerifyTxSignatures(db timelock.KVStore, tx SignedTx, chainID string) ([]timelock.Condition, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	sigs := tx.GetSignatures()
	signers := make([]timelock.Condition, 0, len(sigs))
	for i, sig := range sigs {
		signer, err := VerifySignature(db, sig, payload, chainID)
		if err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
		signers = append(signers, signer)
	}
	return signers, nil
}

// VerifySignature checks one signature of the payload on the given chain.
// On success the signer account sequence is incremented, so the same
// signature is never accepted twice.
func VerifySignature(db timelock.KVStore, sig *StdSignature, payload []byte, chainID string) (timelock.Condition, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	signed, err := BuildSignBytes(payload, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}

	bucket := NewBucket()
	obj, err := bucket.GetOrCreate(db, sig.Pubkey)
	if err != nil {
		return nil, errors.Wrap(err, "load signer")
	}
	user := AsUser(obj)
	if !user.Pubkey.Verify(signed, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if err := bucket.Save(db, obj); err != nil {
		return nil, errors.Wrap(err, "save signer")
	}
	return user.Pubkey.Condition(), nil
}

// BuildSignBytes returns the digest that is signed for a transaction.
//
//	sign code | len(chain id) | chain id | sequence        | payload
//	4 bytes   | uint8         | ascii    | int64 big endian | serialized tx
//
// The result is the sha512 of the above, so that the signer always gets an
// input of the same length.
func BuildSignBytes(payload []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	}
	if !timelock.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}

	h := sha512.New()
	h.Write(signCodeV1[:])
	h.Write([]byte{uint8(len(chainID))})
	h.Write([]byte(chainID))
	var nonce [8]byte
	binary.BigEndian.PutUint64(nonce[:], uint64(seq))
	h.Write(nonce[:])
	h.Write(payload)
	return h.Sum(nil), nil
}

// SignTx signs the transaction for the chain with the given sequence.
func SignTx(signer crypto.Signer, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	digest, err := BuildSignBytes(payload, chainID, seq)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(digest)
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	return &StdSignature{
		Pubkey:    signer.PublicKey(),
		Signature: sig,
		Sequence:  seq,
	}, nil
}

// NextNonce returns the sequence the signer must use in its next signature.
// An address that never signed starts at zero.
func NextNonce(db timelock.ReadOnlyKVStore, signer timelock.Address) (int64, error) {
	obj, err := NewBucket().Get(db, signer)
	if err != nil {
		return 0, errors.Wrap(err, "bucket get")
	}
	if u := AsUser(obj); u != nil {
		return u.Sequence, nil
	}
	return 0, nil
}

package escrow

import (
	"crypto/sha256"
	"encoding/binary"

	"filippo.io/edwards25519"
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

const (
	// NativeSeed is the tag of native currency escrow record keys.
	NativeSeed = "escrow_seed"
	// TokenSeed is the tag of fungible token escrow record keys.
	TokenSeed = "token_escrow_seed"

	keyDomain = "timelock/escrow"
)

// DeriveRecordKey returns the key of the escrow record of given sender. The
// bump is searched from 255 down until the digest is not a valid ed25519
// point, so that no private key can ever exist for the derived key.
//
// Derivation is deterministic. The same tag and sender always produce the
// same key and bump.
func DeriveRecordKey(tag string, sender timelock.Address) ([]byte, uint32, error) {
	if err := sender.Validate(); err != nil {
		return nil, 0, errors.Wrap(err, "sender")
	}
	for bump := uint32(255); ; bump-- {
		key := recordKey(tag, sender, bump)
		if !isOnCurve(key) {
			return key, bump, nil
		}
		if bump == 0 {
			break
		}
	}
	return nil, 0, errors.Wrap(errors.ErrState, "no valid bump")
}

func recordKey(tag string, sender timelock.Address, bump uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], bump)

	h := sha256.New()
	h.Write([]byte(tag))
	h.Write(sender)
	h.Write(b[:])
	h.Write([]byte(keyDomain))
	return h.Sum(nil)
}

func isOnCurve(key []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(key)
	return err == nil
}

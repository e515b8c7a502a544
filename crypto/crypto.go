/*
Package crypto provides the ed25519 keys and signatures used to
authenticate transactions. A public key is turned into a
timelock.Condition, and so into an Address, that identifies the signer.
*/
package crypto

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"golang.org/x/crypto/ed25519"
)

// ExtensionName is used for the Conditions we get from signatures
const ExtensionName = "sigs"

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

// PublicKey is an ed25519 public key.
type PublicKey struct {
	Ed25519 []byte
}

// Verify verifies the signature was created with this message and public key
func (p *PublicKey) Verify(message []byte, sig *Signature) bool {
	if sig == nil || len(sig.Ed25519) != ed25519.SignatureSize {
		return false
	}
	if len(p.Ed25519) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p.Ed25519), message, sig.Ed25519)
}

// Condition encodes the public key into a condition. An empty key
// has no condition.
func (p *PublicKey) Condition() timelock.Condition {
	if len(p.Ed25519) == 0 {
		return nil
	}
	return timelock.NewCondition(ExtensionName, "ed25519", p.Ed25519)
}

// Address returns the address controlled by this public key.
func (p *PublicKey) Address() timelock.Address {
	c := p.Condition()
	if c == nil {
		return nil
	}
	return c.Address()
}

// Validate returns an error if this is not a valid ed25519 public key.
func (p *PublicKey) Validate() error {
	if len(p.Ed25519) != ed25519.PublicKeySize {
		return errors.Wrapf(errors.ErrInput, "public key must be %d bytes", ed25519.PublicKeySize)
	}
	return nil
}

func (p *PublicKey) Marshal() ([]byte, error) {
	return timelock.MarshalBinary(p)
}

func (p *PublicKey) Unmarshal(raw []byte) error {
	return timelock.UnmarshalBinary(raw, p)
}

// PrivateKey is an ed25519 private key.
type PrivateKey struct {
	Ed25519 []byte
}

var _ Signer = (*PrivateKey)(nil)

// Sign returns a matching signature for this private key
func (p *PrivateKey) Sign(message []byte) (*Signature, error) {
	if len(p.Ed25519) != ed25519.PrivateKeySize {
		return nil, errors.Wrap(errors.ErrInput, "invalid private key")
	}
	sig := ed25519.Sign(ed25519.PrivateKey(p.Ed25519), message)
	return &Signature{Ed25519: sig}, nil
}

// PublicKey returns the corresponding PublicKey
func (p *PrivateKey) PublicKey() *PublicKey {
	if len(p.Ed25519) != ed25519.PrivateKeySize {
		return &PublicKey{}
	}
	pub := ed25519.PrivateKey(p.Ed25519).Public().(ed25519.PublicKey)
	return &PublicKey{Ed25519: pub}
}

// Signature is an ed25519 signature.
type Signature struct {
	Ed25519 []byte
}

func (s *Signature) Marshal() ([]byte, error) {
	return timelock.MarshalBinary(s)
}

func (s *Signature) Unmarshal(raw []byte) error {
	return timelock.UnmarshalBinary(raw, s)
}

// GenPrivKeyEd25519 returns a random new private key
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: priv}
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
//
// Panics if the seed is not ed25519.SeedSize long.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	return &PrivateKey{Ed25519: ed25519.NewKeyFromSeed(seed)}
}

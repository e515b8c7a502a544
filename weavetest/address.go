package weavetest

import (
	"crypto/rand"
	"testing"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/crypto"
)

// RandomAddr returns a valid random address generated on the fly. It is not
// derived from any key, so no signature can ever authorize it.
func RandomAddr(t testing.TB) timelock.Address {
	t.Helper()
	raw := make([]byte, timelock.AddressLength)
	if _, err := rand.Read(raw); err != nil {
		t.Fatalf("cannot generate a random address: %s", err)
	}
	return timelock.Address(raw)
}

// NewCondition returns the signature condition of a freshly generated key.
func NewCondition() timelock.Condition {
	return crypto.GenPrivKeyEd25519().PublicKey().Condition()
}

package escrow

import (
	"testing"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveRecordKey(t *testing.T) {
	alice := weavetest.NewCondition().Address()
	bob := weavetest.NewCondition().Address()

	key, bump, err := DeriveRecordKey(NativeSeed, alice)
	require.NoError(t, err)
	assert.Len(t, key, 32)
	assert.True(t, bump <= 255)
	assert.False(t, isOnCurve(key), "derived key must not be a valid public key")
	assert.Equal(t, key, recordKey(NativeSeed, alice, bump))

	// deterministic
	again, againBump, err := DeriveRecordKey(NativeSeed, alice)
	require.NoError(t, err)
	assert.Equal(t, key, again)
	assert.Equal(t, bump, againBump)

	// every bump above the chosen one must produce a curve point
	for b := uint32(255); b > bump; b-- {
		assert.True(t, isOnCurve(recordKey(NativeSeed, alice, b)), "bump %d", b)
	}

	token, _, err := DeriveRecordKey(TokenSeed, alice)
	require.NoError(t, err)
	assert.NotEqual(t, key, token)

	other, _, err := DeriveRecordKey(NativeSeed, bob)
	require.NoError(t, err)
	assert.NotEqual(t, key, other)

	_, _, err = DeriveRecordKey(NativeSeed, timelock.Address("short"))
	assert.True(t, errors.ErrInput.Is(err))
}

func TestDeriveRecordKeyManySenders(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		sender := weavetest.NewCondition().Address()
		key, _, err := DeriveRecordKey(NativeSeed, sender)
		require.NoError(t, err)
		require.False(t, isOnCurve(key))
		require.False(t, seen[string(key)], "collision")
		seen[string(key)] = true
	}
}

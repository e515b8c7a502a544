package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dbm "github.com/tendermint/tendermint/libs/db"

	"github.com/iov-one/timelock/store"
)

func assertGetHas(t testing.TB, kv store.ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	require.NoError(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	require.NoError(t, err)
	assert.Equal(t, has, exists)
}

func TestCommitStoreCommitAndReload(t *testing.T) {
	tmpDir, err := ioutil.TempDir("", "iavl-adapter-")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	commit, err := NewCommitStore(tmpDir, "state")
	require.NoError(t, err)
	require.NoError(t, commit.LoadLatestVersion())

	k, v := []byte("escrow"), []byte("locked")
	cache := commit.CacheWrap()
	require.NoError(t, cache.Set(k, v))

	// nothing visible until the cache is written and committed
	got, err := commit.Get(k)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, cache.Write())
	id, err := commit.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id.Version)
	assert.NotEmpty(t, id.Hash)

	got, err = commit.Get(k)
	require.NoError(t, err)
	assert.Equal(t, v, got)

	latest, err := commit.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, id, latest)
}

func TestAdapterCacheGetSet(t *testing.T) {
	commit := NewCommitStoreFromDB(dbm.NewMemDB())
	base := commit.Adapter()

	k, v := []byte("french"), []byte("fry")
	assertGetHas(t, base, k, nil, false)
	require.NoError(t, base.Set(k, v))
	assertGetHas(t, base, k, v, true)

	cache := base.CacheWrap()
	k2, v2 := []byte("LA"), []byte("Dodgers")
	require.NoError(t, cache.Set(k2, v2))
	require.NoError(t, cache.Delete(k))
	assertGetHas(t, cache, k, nil, false)
	assertGetHas(t, base, k, v, true)
	assertGetHas(t, base, k2, nil, false)

	require.NoError(t, cache.Write())
	assertGetHas(t, base, k, nil, false)
	assertGetHas(t, base, k2, v2, true)
}

func TestAdapterIterator(t *testing.T) {
	commit := NewCommitStoreFromDB(dbm.NewMemDB())
	base := commit.Adapter()
	for _, k := range []string{"a", "b", "c", "d"} {
		require.NoError(t, base.Set([]byte(k), []byte(k)))
	}

	it, err := base.Iterator([]byte("b"), []byte("d"))
	require.NoError(t, err)
	var keys []string
	for ; it.Valid(); require.NoError(t, it.Next()) {
		keys = append(keys, string(it.Key()))
	}
	it.Close()
	assert.Equal(t, []string{"b", "c"}, keys)

	it, err = base.ReverseIterator(nil, nil)
	require.NoError(t, err)
	keys = nil
	for ; it.Valid(); require.NoError(t, it.Next()) {
		keys = append(keys, string(it.Key()))
	}
	it.Close()
	assert.Equal(t, []string{"d", "c", "b", "a"}, keys)
}

package iavl

import (
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"

	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/store"
)

// DefaultCacheSize is the number of iavl nodes kept in memory.
const DefaultCacheSize = 10000

// CommitStore manages a iavl committed state
type CommitStore struct {
	tree *iavl.MutableTree
}

var _ store.CommitKVStore = CommitStore{}

// NewCommitStore creates a new store with disk backing. The database is
// kept in the <dir>/<name>.db leveldb directory.
func NewCommitStore(dir, name string) (CommitStore, error) {
	db, err := dbm.NewGoLevelDB(name, dir)
	if err != nil {
		return CommitStore{}, errors.Wrapf(errors.ErrDatabase, "open %s in %s: %s", name, dir, err)
	}
	return NewCommitStoreFromDB(db), nil
}

// NewCommitStoreFromDB creates a store backed by any tendermint database,
// a dbm.NewMemDB() for example.
func NewCommitStoreFromDB(db dbm.DB) CommitStore {
	return CommitStore{tree: iavl.NewMutableTree(db, DefaultCacheSize)}
}

// Get returns the value at last committed state
// returns nil iff key doesn't exist. Panics on nil key.
func (s CommitStore) Get(key []byte) ([]byte, error) {
	_, val := s.tree.GetVersioned(key, s.tree.Version())
	return val, nil
}

// Commit the next version to disk, and returns info
func (s CommitStore) Commit() (store.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return store.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return store.CommitID{
		Version: version,
		Hash:    hash,
	}, nil
}

// LoadLatestVersion loads the latest persisted version.
// If there was a crash during the last commit, it is guaranteed
// to return a stable state, even if older.
func (s CommitStore) LoadLatestVersion() error {
	if _, err := s.tree.Load(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// LatestVersion returns info on the latest version saved to disk
func (s CommitStore) LatestVersion() (store.CommitID, error) {
	return store.CommitID{
		Version: s.tree.Version(),
		Hash:    s.tree.Hash(),
	}, nil
}

// CacheWrap gives us a savepoint to perform actions
func (s CommitStore) CacheWrap() store.KVCacheWrap {
	return s.Adapter().CacheWrap()
}

// Adapter returns a store that reads and writes the working tree.
// All writes will be persisted with the next Commit.
func (s CommitStore) Adapter() store.CacheableKVStore {
	return adapter{tree: s.tree}
}

// adapter converts the working iavl.MutableTree into a store.KVStore
type adapter struct {
	tree *iavl.MutableTree
}

var _ store.CacheableKVStore = adapter{}

// Get returns nil iff key doesn't exist. Panics on nil key.
func (a adapter) Get(key []byte) ([]byte, error) {
	_, val := a.tree.Get(key)
	return val, nil
}

// Has checks if a key exists. Panics on nil key.
func (a adapter) Has(key []byte) (bool, error) {
	return a.tree.Has(key), nil
}

// Set adds a new value
func (a adapter) Set(key, value []byte) error {
	// iavl refuses nil values.
	if value == nil {
		value = []byte{}
	}
	a.tree.Set(key, value)
	return nil
}

// Delete removes from the tree
func (a adapter) Delete(key []byte) error {
	a.tree.Remove(key)
	return nil
}

// NewBatch returns a batch that can write multiple ops to the tree
func (a adapter) NewBatch() store.Batch {
	return store.NewNonAtomicBatch(a)
}

// CacheWrap wraps us once again, with btree
func (a adapter) CacheWrap() store.KVCacheWrap {
	return store.NewBTreeCacheWrap(a, a.NewBatch(), nil)
}

// Iterator over a domain of keys in ascending order.
func (a adapter) Iterator(start, end []byte) (store.Iterator, error) {
	return a.iterate(start, end, true), nil
}

// ReverseIterator over a domain of keys in descending order.
func (a adapter) ReverseIterator(start, end []byte) (store.Iterator, error) {
	return a.iterate(start, end, false), nil
}

// iterate loads the whole range into memory. Ranges queried by the
// application are bound to a single bucket prefix.
func (a adapter) iterate(start, end []byte, ascending bool) store.Iterator {
	var res []store.Model
	a.tree.IterateRange(start, end, ascending, func(key, value []byte) bool {
		res = append(res, store.Pair(key, value))
		return false
	})
	return store.NewSliceIterator(res)
}

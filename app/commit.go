package app

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// stateStore keeps the last committed state and the two pending views built
// on top of it. Checks and deliveries never see each other writes, and only
// the deliver view is persisted on commit.
type stateStore struct {
	committed timelock.CommitKVStore
	deliver   timelock.KVCacheWrap
	check     timelock.KVCacheWrap
}

// newStateStore loads the latest version of the backing store. A store that
// cannot be loaded leaves the application unusable, so it panics.
func newStateStore(backing timelock.CommitKVStore) *stateStore {
	if err := backing.LoadLatestVersion(); err != nil {
		panic(err)
	}
	st := &stateStore{committed: backing}
	st.reset()
	return st
}

func (st *stateStore) reset() {
	st.deliver = st.committed.CacheWrap()
	st.check = st.committed.CacheWrap()
}

// latest returns the height and hash of the last commit.
func (st *stateStore) latest() (timelock.CommitID, error) {
	return st.committed.LatestVersion()
}

// snapshot returns a throwaway view of the committed state.
func (st *stateStore) snapshot() timelock.KVStore {
	return st.committed.CacheWrap()
}

// commit persists all delivered changes, drops pending checks and starts
// the next block from the new state.
func (st *stateStore) commit() (timelock.CommitID, error) {
	if err := st.deliver.Write(); err != nil {
		return timelock.CommitID{}, errors.Wrap(err, "write delivered state")
	}
	st.check.Discard()

	id, err := st.committed.Commit()
	if err != nil {
		return id, errors.Wrap(err, "commit")
	}
	st.reset()
	return id, nil
}

// chainIDKey is stored next to the application data. The "_tl:" prefix is
// reserved for internal records.
var chainIDKey = []byte("_tl:chainID")

// loadChainID returns the chain id written at genesis or an empty string.
func loadChainID(db timelock.ReadOnlyKVStore) (string, error) {
	raw, err := db.Get(chainIDKey)
	if err != nil {
		return "", errors.Wrap(err, "load chain id")
	}
	return string(raw), nil
}

// saveChainID writes the chain id once. Changing it afterwards is refused.
func saveChainID(db timelock.KVStore, chainID string) error {
	if !timelock.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	switch exists, err := db.Has(chainIDKey); {
	case err != nil:
		return errors.Wrap(err, "load chain id")
	case exists:
		return errors.Wrap(errors.ErrUnauthorized, "can't modify chain id after genesis init")
	}
	return errors.Wrap(db.Set(chainIDKey, []byte(chainID)), "save chain id")
}

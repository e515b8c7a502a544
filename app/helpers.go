package app

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/store"
	abci "github.com/tendermint/tendermint/abci/types"
)

// ABCIStore exposes the abci.Query interface as a ReadOnlyKVStore. It can be
// wrapped with a bucket to reuse key, index and parse logic on the client
// side.
type ABCIStore struct {
	app abci.Application
}

var _ timelock.ReadOnlyKVStore = (*ABCIStore)(nil)

// NewABCIStore returns a store reading the committed state of app.
func NewABCIStore(app abci.Application) *ABCIStore {
	return &ABCIStore{app: app}
}

// Get will query for exactly one value over the abci store.
func (a *ABCIStore) Get(key []byte) ([]byte, error) {
	query := a.app.Query(abci.RequestQuery{
		Path: "/",
		Data: key,
	})
	if query.Code != 0 {
		return nil, errors.Wrapf(errors.ErrDatabase, "query (code %d): %s", query.Code, query.Log)
	}
	var value ResultSet
	if err := value.Unmarshal(query.Value); err != nil {
		return nil, errors.Wrap(err, "unmarshal result set")
	}
	switch len(value.Results) {
	case 0:
		return nil, nil
	case 1:
		return value.Results[0], nil
	default:
		return nil, errors.Wrapf(errors.ErrState, "%d results for a key", len(value.Results))
	}
}

// Has returns true if the given key in in the abci app store
func (a *ABCIStore) Has(key []byte) (bool, error) {
	val, err := a.Get(key)
	return len(val) > 0, err
}

// Iterator attempts to do a range iteration over the store.
// Only listing everything is supported.
func (a *ABCIStore) Iterator(start, end []byte) (timelock.Iterator, error) {
	if start != nil || end != nil {
		return nil, errors.Wrap(errors.ErrHuman, "iterator only implemented for entire range")
	}

	query := a.app.Query(abci.RequestQuery{
		Path: "/?prefix",
		Data: nil,
	})
	if query.Code != 0 {
		return nil, errors.Wrapf(errors.ErrDatabase, "query (code %d): %s", query.Code, query.Log)
	}
	models, err := toModels(query.Key, query.Value)
	if err != nil {
		return nil, errors.Wrap(err, "cannot convert to model")
	}
	return store.NewSliceIterator(models), nil
}

// ReverseIterator is not supported.
func (a *ABCIStore) ReverseIterator(start, end []byte) (timelock.Iterator, error) {
	return nil, errors.Wrap(errors.ErrHuman, "reverse iterator not implemented")
}

func toModels(keys, values []byte) ([]timelock.Model, error) {
	var k, v ResultSet
	if err := k.Unmarshal(keys); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal keys")
	}
	if err := v.Unmarshal(values); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal values")
	}
	return JoinResults(&k, &v)
}

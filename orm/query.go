package orm

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// ConsumeIterator will read all remaining data into an
// array and close the iterator
func ConsumeIterator(itr timelock.Iterator) ([]timelock.Model, error) {
	defer itr.Close()

	var res []timelock.Model
	for itr.Valid() {
		res = append(res, timelock.Pair(itr.Key(), itr.Value()))
		if err := itr.Next(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// queryPrefix returns all models whose key starts with given prefix,
// in ascending key order.
func queryPrefix(db timelock.ReadOnlyKVStore, prefix []byte) ([]timelock.Model, error) {
	itr, err := db.Iterator(prefixRange(prefix))
	if err != nil {
		return nil, err
	}
	return ConsumeIterator(itr)
}

// prefixRange turns a prefix into (start, end) to create
// and iterator
func prefixRange(prefix []byte) ([]byte, []byte) {
	// special case: no prefix is whole range
	if len(prefix) == 0 {
		return nil, nil
	}

	// copy the prefix and update last byte
	end := make([]byte, len(prefix))
	copy(end, prefix)
	l := len(end) - 1
	end[l]++

	// wait, what if that overflowed?....
	for end[l] == 0 && l > 0 {
		l--
		end[l]++
	}

	// okay, funny guy, you gave us FFF, no end to this range...
	if l == 0 && end[0] == 0 {
		end = nil
	}
	return prefix, end
}

// RegisterKeyQuery exposes raw store access under the "/" path. Keys are
// not prefixed with any bucket name.
func RegisterKeyQuery(qr timelock.QueryRouter) {
	qr.Register("/", keyQuery{})
}

type keyQuery struct{}

func (keyQuery) Query(db timelock.ReadOnlyKVStore, mod string, data []byte) ([]timelock.Model, error) {
	switch mod {
	case timelock.KeyQueryMod:
		value, err := db.Get(data)
		if err != nil || value == nil {
			return nil, err
		}
		return []timelock.Model{timelock.Pair(data, value)}, nil
	case timelock.PrefixQueryMod:
		return queryPrefix(db, data)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}

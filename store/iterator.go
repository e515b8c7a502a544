package store

import "bytes"

// side tells which of the merged iterators holds the current key.
type side int

const (
	sideNone side = iota
	sideCache
	sideParent
	// sideBoth means the cache overwrites the parent entry.
	sideBoth
)

// cacheIter merges the pending writes of a cache with the iterator of the
// store below it. Pending entries win over parent entries of the same key,
// and pending deletes hide them.
type cacheIter struct {
	pending []entry
	parent  Iterator
	reverse bool
}

var _ Iterator = (*cacheIter)(nil)

func newCacheIter(pending []entry, parent Iterator, reverse bool) (*cacheIter, error) {
	it := &cacheIter{pending: pending, parent: parent, reverse: reverse}
	if err := it.skipDeleted(); err != nil {
		it.Close()
		return nil, err
	}
	return it, nil
}

func (it *cacheIter) current() side {
	cacheOK := len(it.pending) > 0
	parentOK := it.parent != nil && it.parent.Valid()
	switch {
	case !cacheOK && !parentOK:
		return sideNone
	case !parentOK:
		return sideCache
	case !cacheOK:
		return sideParent
	}

	cmp := bytes.Compare(it.pending[0].key, it.parent.Key())
	if it.reverse {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return sideCache
	case cmp > 0:
		return sideParent
	default:
		return sideBoth
	}
}

func (it *cacheIter) Valid() bool {
	return it.current() != sideNone
}

// Next panics if the iterator is not valid.
func (it *cacheIter) Next() error {
	if err := it.advance(it.current()); err != nil {
		return err
	}
	return it.skipDeleted()
}

func (it *cacheIter) advance(s side) error {
	switch s {
	case sideNone:
		panic("iterator advanced past the end")
	case sideCache:
		it.pending = it.pending[1:]
		return nil
	case sideBoth:
		it.pending = it.pending[1:]
	}
	return it.parent.Next()
}

// skipDeleted moves past pending deletes together with the parent entries
// they hide.
func (it *cacheIter) skipDeleted() error {
	for {
		s := it.current()
		if s != sideCache && s != sideBoth {
			return nil
		}
		if !it.pending[0].deleted {
			return nil
		}
		if err := it.advance(s); err != nil {
			return err
		}
	}
}

func (it *cacheIter) Key() []byte {
	switch it.current() {
	case sideCache, sideBoth:
		return it.pending[0].key
	case sideParent:
		return it.parent.Key()
	default:
		panic("iterator advanced past the end")
	}
}

func (it *cacheIter) Value() []byte {
	switch it.current() {
	case sideCache, sideBoth:
		return it.pending[0].value
	case sideParent:
		return it.parent.Value()
	default:
		panic("iterator advanced past the end")
	}
}

func (it *cacheIter) Close() {
	if it.parent != nil {
		it.parent.Close()
	}
	it.pending = nil
}

package orm

import (
	"bytes"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// Index is a secondary index of a bucket.
type Index interface {
	timelock.QueryHandler

	// Name returns the name of this index.
	Name() string

	// Update updates the index. It should be called when any of the bucket
	// entities has changed in the store.
	//
	// prev == nil means insert
	// save == nil means delete
	// both == nil is error
	// if both != nil and prev.Key() != save.Key() this is an error
	Update(db timelock.KVStore, prev Object, save Object) error

	// GetAt returns all primary keys of the entities indexed under given
	// value.
	GetAt(db timelock.ReadOnlyKVStore, index []byte) ([][]byte, error)
}

const indexPrefix = "_i."

// Indexer calculates the secondary index key for a given object.
// A nil key means the object is not indexed.
type Indexer func(Object) ([]byte, error)

// compactIndex stores all references for a given index value
// serialized under a single key. For an unique index the value is
// the primary key, otherwise a MultiRef with all primary keys.
type compactIndex struct {
	name   string
	id     []byte
	unique bool
	index  Indexer
	refKey func([]byte) []byte
}

var _ Index = compactIndex{}

// NewIndex constructs an index.
// Indexer calculates the index for an object
// unique enforces a unique constraint on the index
// refKey calculates the absolute dbkey for a ref
func NewIndex(name string, indexer Indexer, unique bool, refKey func([]byte) []byte) Index {
	return compactIndex{
		name:   name,
		id:     append([]byte(indexPrefix), []byte(name+":")...),
		index:  indexer,
		unique: unique,
		refKey: refKey,
	}
}

func (i compactIndex) Name() string {
	return i.name
}

// indexKey is the full key we store in the db, including prefix
func (i compactIndex) indexKey(key []byte) []byte {
	l := len(i.id)
	out := make([]byte, l+len(key))
	copy(out, i.id)
	copy(out[l:], key)
	return out
}

// Update handles updating the reference to the object in
// the secondary index.
func (i compactIndex) Update(db timelock.KVStore, prev Object, save Object) error {
	switch {
	case prev == nil && save == nil:
		return errors.Wrap(errors.ErrHuman, "update requires at least one non-nil object")
	case prev == nil:
		key, err := i.index(save)
		if err != nil || key == nil {
			return err
		}
		return i.insert(db, key, save.Key())
	case save == nil:
		key, err := i.index(prev)
		if err != nil || key == nil {
			return err
		}
		return i.remove(db, key, prev.Key())
	default:
		return i.move(db, prev, save)
	}
}

func (i compactIndex) move(db timelock.KVStore, prev Object, save Object) error {
	if !bytes.Equal(prev.Key(), save.Key()) {
		return errors.Wrap(errors.ErrImmutable, "cannot modify the primary key of an object")
	}
	oldKey, err := i.index(prev)
	if err != nil {
		return err
	}
	newKey, err := i.index(save)
	if err != nil {
		return err
	}
	if bytes.Equal(oldKey, newKey) {
		return nil
	}
	if oldKey != nil {
		if err := i.remove(db, oldKey, prev.Key()); err != nil {
			return err
		}
	}
	if newKey != nil {
		return i.insert(db, newKey, save.Key())
	}
	return nil
}

func (i compactIndex) insert(db timelock.KVStore, key []byte, pk []byte) error {
	dbkey := i.indexKey(key)
	cur, err := db.Get(dbkey)
	if err != nil {
		return err
	}

	if i.unique {
		if cur != nil {
			return errors.Wrapf(errors.ErrDuplicate, "index %s", i.name)
		}
		return db.Set(dbkey, pk)
	}

	refs := new(MultiRef)
	if cur != nil {
		if err := refs.Unmarshal(cur); err != nil {
			return err
		}
	}
	if err := refs.Add(pk); err != nil {
		return err
	}
	raw, err := refs.Marshal()
	if err != nil {
		return err
	}
	return db.Set(dbkey, raw)
}

func (i compactIndex) remove(db timelock.KVStore, key []byte, pk []byte) error {
	dbkey := i.indexKey(key)
	cur, err := db.Get(dbkey)
	if err != nil {
		return err
	}
	if cur == nil {
		return errors.Wrapf(errors.ErrNotFound, "index %s", i.name)
	}

	if i.unique {
		if !bytes.Equal(cur, pk) {
			return errors.Wrapf(errors.ErrNotFound, "index %s does not reference the key", i.name)
		}
		return db.Delete(dbkey)
	}

	refs := new(MultiRef)
	if err := refs.Unmarshal(cur); err != nil {
		return err
	}
	if err := refs.Remove(pk); err != nil {
		return err
	}
	if len(refs.Refs) == 0 {
		return db.Delete(dbkey)
	}
	raw, err := refs.Marshal()
	if err != nil {
		return err
	}
	return db.Set(dbkey, raw)
}

// GetAt returns all primary keys stored under given index value.
func (i compactIndex) GetAt(db timelock.ReadOnlyKVStore, index []byte) ([][]byte, error) {
	val, err := db.Get(i.indexKey(index))
	if err != nil || val == nil {
		return nil, err
	}
	return i.decodeRefs(val)
}

func (i compactIndex) decodeRefs(val []byte) ([][]byte, error) {
	if i.unique {
		return [][]byte{val}, nil
	}
	var refs MultiRef
	if err := refs.Unmarshal(val); err != nil {
		return nil, err
	}
	return refs.Refs, nil
}

// getPrefix returns all references that have an index that
// begins with a given prefix
func (i compactIndex) getPrefix(db timelock.ReadOnlyKVStore, prefix []byte) ([][]byte, error) {
	models, err := queryPrefix(db, i.indexKey(prefix))
	if err != nil {
		return nil, err
	}
	var data [][]byte
	for _, m := range models {
		refs, err := i.decodeRefs(m.Value)
		if err != nil {
			return nil, err
		}
		data = append(data, refs...)
	}
	return data, nil
}

// Query handles queries from the QueryRouter. The referenced models
// are returned, not the index entries.
func (i compactIndex) Query(db timelock.ReadOnlyKVStore, mod string, data []byte) ([]timelock.Model, error) {
	var (
		refs [][]byte
		err  error
	)
	switch mod {
	case timelock.KeyQueryMod:
		refs, err = i.GetAt(db, data)
	case timelock.PrefixQueryMod:
		refs, err = i.getPrefix(db, data)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
	if err != nil {
		return nil, err
	}
	return i.loadRefs(db, refs)
}

func (i compactIndex) loadRefs(db timelock.ReadOnlyKVStore, refs [][]byte) ([]timelock.Model, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	res := make([]timelock.Model, 0, len(refs))
	for _, ref := range refs {
		key := i.refKey(ref)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		res = append(res, timelock.Pair(key, value))
	}
	return res, nil
}

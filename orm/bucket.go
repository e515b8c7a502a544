/*
Package orm maps typed objects onto prefixed ranges of a key value store.

Every Bucket owns the keys starting with its name followed by a colon and
stores a single object type there. Buckets may carry secondary indexes that
are kept in sync on every write.
*/
package orm

import (
	"fmt"
	"regexp"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

var bucketName = regexp.MustCompile(`^[a-z_]{3,10}$`)

// Bucket stores objects cloned from proto under a name prefix.
// Extension packages wrap it in a type safe bucket of their own.
type Bucket struct {
	name    string
	prefix  []byte
	proto   Cloneable
	indexes map[string]Index
}

var _ timelock.QueryHandler = Bucket{}

// NewBucket panics if name is not 3 to 10 lowercase letters or underscores.
func NewBucket(name string, proto Cloneable) Bucket {
	if !bucketName.MatchString(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}
	prefix := make([]byte, 0, len(name)+1)
	prefix = append(prefix, name...)
	return Bucket{name: name, prefix: append(prefix, ':'), proto: proto}
}

// Name is the bucket name, also used as the key prefix.
func (b Bucket) Name() string {
	return b.name
}

// Register exposes the bucket under /path and every index under
// /path/<index>. An empty path falls back to the bucket name.
func (b Bucket) Register(path string, r timelock.QueryRouter) {
	if path == "" {
		path = b.name
	}
	path = "/" + path
	r.Register(path, b)
	for name, idx := range b.indexes {
		r.Register(path+"/"+name, idx)
	}
}

// Query supports key and prefix lookups. A key miss returns no models.
func (b Bucket) Query(db timelock.ReadOnlyKVStore, mod string, data []byte) ([]timelock.Model, error) {
	if mod == timelock.PrefixQueryMod {
		return queryPrefix(db, b.DBKey(data))
	}
	if mod != timelock.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
	key := b.DBKey(data)
	raw, err := db.Get(key)
	switch {
	case err != nil:
		return nil, err
	case raw == nil:
		return nil, nil
	}
	return []timelock.Model{timelock.Pair(key, raw)}, nil
}

// DBKey returns a freshly allocated prefixed key, so the result is never
// aliased with another call.
func (b Bucket) DBKey(key []byte) []byte {
	out := make([]byte, 0, len(b.prefix)+len(key))
	out = append(out, b.prefix...)
	return append(out, key...)
}

// Get returns nil without an error when nothing is stored under key.
func (b Bucket) Get(db timelock.ReadOnlyKVStore, key []byte) (Object, error) {
	raw, err := db.Get(b.DBKey(key))
	if err != nil || raw == nil {
		return nil, err
	}
	return b.Parse(key, raw)
}

// Has reports whether key is present without decoding the value.
func (b Bucket) Has(db timelock.ReadOnlyKVStore, key []byte) (bool, error) {
	return db.Has(b.DBKey(key))
}

// Parse decodes value into a fresh clone of the bucket prototype.
func (b Bucket) Parse(key, value []byte) (Object, error) {
	obj := b.proto.Clone()
	if err := obj.Value().Unmarshal(value); err != nil {
		return nil, errors.Wrapf(err, "%s bucket", b.name)
	}
	obj.SetKey(key)
	return obj, nil
}

// Save validates obj, refreshes the indexes and writes the value.
func (b Bucket) Save(db timelock.KVStore, obj Object) error {
	if err := obj.Validate(); err != nil {
		return errors.Wrapf(err, "invalid %s model", b.name)
	}
	raw, err := obj.Value().Marshal()
	if err != nil {
		return err
	}
	if err := b.reindex(db, obj.Key(), obj); err != nil {
		return err
	}
	return db.Set(b.DBKey(obj.Key()), raw)
}

// Delete drops key and its index entries.
func (b Bucket) Delete(db timelock.KVStore, key []byte) error {
	if err := b.reindex(db, key, nil); err != nil {
		return err
	}
	return db.Delete(b.DBKey(key))
}

// reindex moves every index from the stored object to next. A nil next
// removes the entries.
func (b Bucket) reindex(db timelock.KVStore, key []byte, next Object) error {
	if len(b.indexes) == 0 {
		return nil
	}
	prev, err := b.Get(db, key)
	if err != nil {
		return err
	}
	if prev == nil && next == nil {
		return nil
	}
	for _, idx := range b.indexes {
		if err := idx.Update(db, prev, next); err != nil {
			return err
		}
	}
	return nil
}

// WithIndex returns a copy of the bucket that also maintains the named
// index. Registering the same name twice panics.
func (b Bucket) WithIndex(name string, indexer Indexer, unique bool) Bucket {
	if _, dup := b.indexes[name]; dup {
		panic(fmt.Sprintf("Index %s registered twice", name))
	}
	indexes := map[string]Index{
		name: NewIndex(b.name+"_"+name, indexer, unique, b.DBKey),
	}
	for n, idx := range b.indexes {
		indexes[n] = idx
	}
	b.indexes = indexes
	return b
}

// GetIndexed loads every object referenced by key in the named index.
func (b Bucket) GetIndexed(db timelock.ReadOnlyKVStore, name string, key []byte) ([]Object, error) {
	idx, ok := b.indexes[name]
	if !ok {
		return nil, errors.Wrap(ErrInvalidIndex, name)
	}
	refs, err := idx.GetAt(db, key)
	if err != nil || len(refs) == 0 {
		return nil, err
	}
	objs := make([]Object, 0, len(refs))
	for _, ref := range refs {
		obj, err := b.Get(db, ref)
		if err != nil {
			return nil, err
		}
		objs = append(objs, obj)
	}
	return objs, nil
}

package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/timelock/errors"
)

// MemStore returns an in memory store without any persistence.
func MemStore() CacheableKVStore {
	var empty EmptyKVStore
	return NewBTreeCacheWrap(empty, empty.NewBatch(), nil)
}

// BTreeCacheWrap keeps pending writes in a btree on top of a read only
// store. Reads see the pending writes first. Every write is also recorded
// in a batch that Write flushes to the underlying store.
type BTreeCacheWrap struct {
	tree  *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap returns a cache over kv that writes through batch. A
// nil free list allocates a new one. Nested caches share the list of their
// parent.
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(btree.DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		tree:  btree.NewWithFreeList(2, free),
		free:  free,
		back:  kv,
		batch: batch,
	}
}

// CacheWrap stacks another cache on top of this one.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

// NewBatch returns a batch writing into this cache.
func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes the pending writes and empties the cache.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops the pending writes. Tree nodes go back to the free list.
func (b BTreeCacheWrap) Discard() {
	for b.tree.DeleteMin() != nil {
	}
}

func (b BTreeCacheWrap) Set(key, value []byte) error {
	if key == nil {
		return errors.Wrap(errors.ErrDatabase, "nil key")
	}
	b.tree.ReplaceOrInsert(entry{key: key, value: value})
	return b.batch.Set(key, value)
}

func (b BTreeCacheWrap) Delete(key []byte) error {
	if key == nil {
		return errors.Wrap(errors.ErrDatabase, "nil key")
	}
	b.tree.ReplaceOrInsert(entry{key: key, deleted: true})
	return b.batch.Delete(key)
}

// pendingAt returns the cached write of key, if any.
func (b BTreeCacheWrap) pendingAt(key []byte) (entry, bool) {
	item := b.tree.Get(entry{key: key})
	if item == nil {
		return entry{}, false
	}
	return item.(entry), true
}

func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	e, ok := b.pendingAt(key)
	switch {
	case !ok:
		return b.back.Get(key)
	case e.deleted:
		return nil, nil
	default:
		return e.value, nil
	}
}

func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	e, ok := b.pendingAt(key)
	if !ok {
		return b.back.Has(key)
	}
	return !e.deleted, nil
}

// Iterator merges the pending writes in [start, end) with the underlying
// store, in ascending key order.
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newCacheIter(b.pending(start, end), parent, false)
}

// ReverseIterator is Iterator in descending key order.
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	entries := b.pending(start, end)
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return newCacheIter(entries, parent, true)
}

// pending returns the cached writes with a key in [start, end), ascending.
// A nil bound is open.
func (b BTreeCacheWrap) pending(start, end []byte) []entry {
	var res []entry
	visit := func(i btree.Item) bool {
		res = append(res, i.(entry))
		return true
	}
	switch {
	case start == nil && end == nil:
		b.tree.Ascend(visit)
	case start == nil:
		b.tree.AscendLessThan(entry{key: end}, visit)
	case end == nil:
		b.tree.AscendGreaterOrEqual(entry{key: start}, visit)
	default:
		b.tree.AscendRange(entry{key: start}, entry{key: end}, visit)
	}
	return res
}

// entry is a pending write. A deleted entry hides the key of the underlying
// store.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = entry{}

func (e entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(entry).key) < 0
}

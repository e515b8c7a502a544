package store

// SliceIterator iterates over models already loaded in memory, in the
// order of the slice.
type SliceIterator struct {
	data []Model
}

var _ Iterator = (*SliceIterator)(nil)

// NewSliceIterator returns an iterator over data.
func NewSliceIterator(data []Model) *SliceIterator {
	return &SliceIterator{data: data}
}

func (s *SliceIterator) Valid() bool {
	return len(s.data) > 0
}

// Next panics if the iterator is not valid.
func (s *SliceIterator) Next() error {
	s.mustBeValid()
	s.data = s.data[1:]
	return nil
}

func (s *SliceIterator) Key() []byte {
	s.mustBeValid()
	return s.data[0].Key
}

func (s *SliceIterator) Value() []byte {
	s.mustBeValid()
	return s.data[0].Value
}

func (s *SliceIterator) Close() {
	s.data = nil
}

func (s *SliceIterator) mustBeValid() {
	if len(s.data) == 0 {
		panic("iterator advanced past the end")
	}
}

// EmptyKVStore holds no data and ignores all writes. It is the bottom layer
// of MemStore.
type EmptyKVStore struct{}

var _ KVStore = EmptyKVStore{}

func (EmptyKVStore) Get([]byte) ([]byte, error) { return nil, nil }
func (EmptyKVStore) Has([]byte) (bool, error)   { return false, nil }
func (EmptyKVStore) Set(_, _ []byte) error      { return nil }
func (EmptyKVStore) Delete([]byte) error        { return nil }

func (EmptyKVStore) Iterator(_, _ []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

func (EmptyKVStore) ReverseIterator(_, _ []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

func (e EmptyKVStore) NewBatch() Batch {
	return NewNonAtomicBatch(e)
}

// NonAtomicBatch records writes and replays them on Write. A failure in the
// middle of Write leaves the earlier writes applied, so it must only wrap
// in memory stores.
type NonAtomicBatch struct {
	out SetDeleter
	ops []batchOp
}

var _ Batch = (*NonAtomicBatch)(nil)

// batchOp is a set, or a delete when del is true.
type batchOp struct {
	key   []byte
	value []byte
	del   bool
}

// NewNonAtomicBatch returns an empty batch writing to out.
func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, batchOp{key: key, value: value})
	return nil
}

func (b *NonAtomicBatch) Delete(key []byte) error {
	b.ops = append(b.ops, batchOp{key: key, del: true})
	return nil
}

// Write applies all recorded operations in order and resets the batch.
func (b *NonAtomicBatch) Write() error {
	for _, op := range b.ops {
		var err error
		if op.del {
			err = b.out.Delete(op.key)
		} else {
			err = b.out.Set(op.key, op.value)
		}
		if err != nil {
			return err
		}
	}
	b.ops = nil
	return nil
}

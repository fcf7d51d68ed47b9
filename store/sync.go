package store

import "sync"

// SyncStore serializes all access to a store that is not safe for
// concurrent use, such as MemStore or the iavl adapter. Several components
// holding their own locks may then share a single state.
type SyncStore struct {
	mu sync.Mutex
	kv KVStore
}

var _ CacheableKVStore = (*SyncStore)(nil)

// NewSyncStore wraps kv. All later access to kv must go through the
// returned store.
func NewSyncStore(kv KVStore) *SyncStore {
	return &SyncStore{kv: kv}
}

func (s *SyncStore) Get(key []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Get(key)
}

func (s *SyncStore) Has(key []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Has(key)
}

func (s *SyncStore) Set(key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Set(key, value)
}

func (s *SyncStore) Delete(key []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Delete(key)
}

// Iterator returns an iterator over a snapshot of the range. Iterators of
// the wrapped stores load the range when created, so holding the lock for
// the duration of this call is enough.
func (s *SyncStore) Iterator(start, end []byte) (Iterator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(s.kv.Iterator(start, end))
}

func (s *SyncStore) ReverseIterator(start, end []byte) (Iterator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(s.kv.ReverseIterator(start, end))
}

func (s *SyncStore) snapshot(it Iterator, err error) (Iterator, error) {
	if err != nil {
		return nil, err
	}
	defer it.Close()
	var data []Model
	for ; it.Valid(); err = it.Next() {
		if err != nil {
			return nil, err
		}
		data = append(data, Model{Key: it.Key(), Value: it.Value()})
	}
	if err != nil {
		return nil, err
	}
	return NewSliceIterator(data), nil
}

// NewBatch returns a batch that is applied while holding the lock, so that
// no reader observes a partially written batch.
func (s *SyncStore) NewBatch() Batch {
	return &syncBatch{NonAtomicBatch: NewNonAtomicBatch(s.kv), mu: &s.mu}
}

// CacheWrap returns a cache written with a single locked batch.
func (s *SyncStore) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(s, s.NewBatch(), nil)
}

type syncBatch struct {
	*NonAtomicBatch
	mu *sync.Mutex
}

func (b *syncBatch) Write() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.NonAtomicBatch.Write()
}

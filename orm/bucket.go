/*
Package orm provides a thin, type agnostic layer over a KVStore.

The state space is split into prefixed sections called buckets. Each bucket
holds a single type of object under a primary key and may maintain
secondary indexes that are updated together with the object.
*/
package orm

import (
	"fmt"
	"regexp"

	msig "github.com/bhau7233/MSig"
	"github.com/bhau7233/MSig/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,20}$`).MatchString

// Bucket is a prefixed subspace of the database holding objects of a single
// type. It should be embedded in a type safe wrapper.
type Bucket struct {
	name    string
	prefix  []byte
	proto   Cloneable
	indexes map[string]Index
}

// NewBucket returns a bucket storing clones of proto. It panics when the
// name is not a valid bucket name.
func NewBucket(name string, proto Cloneable) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("illegal bucket name: %q", name))
	}
	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
		proto:  proto,
	}
}

// Name returns the bucket name.
func (b Bucket) Name() string {
	return b.name
}

// DBKey returns the full database key of an object. A new slice is always
// allocated so that consecutive calls never share memory.
func (b Bucket) DBKey(key []byte) []byte {
	out := make([]byte, len(b.prefix)+len(key))
	copy(out, b.prefix)
	copy(out[len(b.prefix):], key)
	return out
}

// Get returns the object stored under key or nil if there is none.
func (b Bucket) Get(db msig.ReadOnlyKVStore, key []byte) (Object, error) {
	raw, err := db.Get(b.DBKey(key))
	if err != nil {
		return nil, errors.Wrap(err, "bucket get")
	}
	if raw == nil {
		return nil, nil
	}
	return b.Parse(key, raw)
}

// Has returns true if an object is stored under key.
func (b Bucket) Has(db msig.ReadOnlyKVStore, key []byte) (bool, error) {
	ok, err := db.Has(b.DBKey(key))
	return ok, errors.Wrap(err, "bucket has")
}

// Parse builds an object from a primary key and a serialized value.
func (b Bucket) Parse(key, value []byte) (Object, error) {
	obj := b.proto.Clone()
	if err := obj.Value().Unmarshal(value); err != nil {
		return nil, errors.Wrapf(err, "bucket %s", b.name)
	}
	obj.SetKey(key)
	return obj, nil
}

// Save validates and writes the object, updating all indexes.
func (b Bucket) Save(db msig.KVStore, obj Object) error {
	if err := obj.Validate(); err != nil {
		return err
	}
	raw, err := obj.Value().Marshal()
	if err != nil {
		return err
	}
	if len(b.indexes) > 0 {
		prev, err := b.Get(db, obj.Key())
		if err != nil {
			return err
		}
		for _, idx := range b.indexes {
			if err := idx.Update(db, prev, obj); err != nil {
				return errors.Wrapf(err, "index %s", idx.Name())
			}
		}
	}
	if err := db.Set(b.DBKey(obj.Key()), raw); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Sequence returns a sequence scoped to this bucket.
func (b Bucket) Sequence(name string) Sequence {
	return NewSequence(b.name, name)
}

// WithIndex returns a copy of this bucket maintaining an additional index.
// It panics if an index of that name is already registered.
func (b Bucket) WithIndex(name string, indexer Indexer, unique bool) Bucket {
	if _, ok := b.indexes[name]; ok {
		panic(fmt.Sprintf("index %s registered twice", name))
	}
	indexes := make(map[string]Index, len(b.indexes)+1)
	for n, i := range b.indexes {
		indexes[n] = i
	}
	indexes[name] = NewIndex(b.name+"_"+name, indexer, unique)
	b.indexes = indexes
	return b
}

// GetIndexed returns all objects indexed under value by the named index,
// ordered by their primary key.
func (b Bucket) GetIndexed(db msig.ReadOnlyKVStore, name string, value []byte) ([]Object, error) {
	idx, ok := b.indexes[name]
	if !ok {
		return nil, errors.Wrapf(errors.ErrHuman, "unknown index %q", name)
	}
	keys, err := idx.Keys(db, value)
	if err != nil {
		return nil, err
	}
	objs := make([]Object, 0, len(keys))
	for _, key := range keys {
		obj, err := b.Get(db, key)
		if err != nil {
			return nil, err
		}
		if obj == nil {
			return nil, errors.Wrapf(errors.ErrState, "index %s references missing key %X", name, key)
		}
		objs = append(objs, obj)
	}
	return objs, nil
}

// Visit calls fn for every object, in primary key order, starting with the
// first key not lower than start. Iteration ends when fn returns false.
func (b Bucket) Visit(db msig.ReadOnlyKVStore, start []byte, fn func(Object) bool) error {
	it, err := db.Iterator(b.DBKey(start), PrefixEnd(b.prefix))
	if err != nil {
		return errors.Wrap(err, "bucket iterator")
	}
	defer it.Close()

	for ; it.Valid(); err = it.Next() {
		if err != nil {
			return errors.Wrap(err, "bucket iterator")
		}
		obj, err := b.Parse(it.Key()[len(b.prefix):], it.Value())
		if err != nil {
			return err
		}
		if !fn(obj) {
			return nil
		}
	}
	return errors.Wrap(err, "bucket iterator")
}

// PrefixEnd returns the smallest key greater than every key starting with
// prefix. It returns nil (no upper bound) for a prefix of 0xFF bytes.
func PrefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xFF {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

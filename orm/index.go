package orm

import (
	"bytes"
	"encoding/binary"

	msig "github.com/bhau7233/MSig"
	"github.com/bhau7233/MSig/errors"
)

// Indexer calculates the secondary index value of an object. A nil value
// means the object is not indexed.
type Indexer func(Object) ([]byte, error)

// Index maintains a secondary index of a bucket.
type Index struct {
	name    string
	prefix  []byte
	indexer Indexer
	unique  bool
}

// NewIndex returns an index storing references under "_i.<name>:".
func NewIndex(name string, indexer Indexer, unique bool) Index {
	return Index{
		name:    name,
		prefix:  []byte("_i." + name + ":"),
		indexer: indexer,
		unique:  unique,
	}
}

// Name returns the index name.
func (i Index) Name() string {
	return i.name
}

// valuePrefix is the common prefix of all references of given value. The
// value is length prefixed so that a value is never a prefix of another.
func (i Index) valuePrefix(value []byte) []byte {
	out := make([]byte, len(i.prefix)+2+len(value))
	n := copy(out, i.prefix)
	binary.BigEndian.PutUint16(out[n:], uint16(len(value)))
	copy(out[n+2:], value)
	return out
}

func (i Index) refKey(value, key []byte) []byte {
	return append(i.valuePrefix(value), key...)
}

// Update moves the reference of an object after it changed. prev is nil
// for a new object and save is nil for a deleted one.
func (i Index) Update(db msig.KVStore, prev, save Object) error {
	if prev == nil && save == nil {
		return errors.Wrap(errors.ErrHuman, "update requires at least one object")
	}
	if prev != nil && save != nil && !bytes.Equal(prev.Key(), save.Key()) {
		return errors.Wrap(errors.ErrImmutable, "primary key changed")
	}

	var before, after []byte
	var err error
	if prev != nil {
		if before, err = i.indexer(prev); err != nil {
			return err
		}
	}
	if save != nil {
		if after, err = i.indexer(save); err != nil {
			return err
		}
	}
	if prev != nil && save != nil && bytes.Equal(before, after) {
		return nil
	}

	if before != nil {
		if err := db.Delete(i.refKey(before, prev.Key())); err != nil {
			return errors.Wrap(errors.ErrDatabase, err.Error())
		}
	}
	if after != nil {
		if i.unique {
			keys, err := i.Keys(db, after)
			if err != nil {
				return err
			}
			if len(keys) > 0 {
				return errors.Wrapf(errors.ErrDuplicate, "index %s: value %X", i.name, after)
			}
		}
		if err := db.Set(i.refKey(after, save.Key()), []byte{1}); err != nil {
			return errors.Wrap(errors.ErrDatabase, err.Error())
		}
	}
	return nil
}

// Keys returns the primary keys of all objects indexed under value, in
// ascending order.
func (i Index) Keys(db msig.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	prefix := i.valuePrefix(value)
	it, err := db.Iterator(prefix, PrefixEnd(prefix))
	if err != nil {
		return nil, errors.Wrap(err, "index iterator")
	}
	defer it.Close()

	var keys [][]byte
	for ; it.Valid(); err = it.Next() {
		if err != nil {
			return nil, errors.Wrap(err, "index iterator")
		}
		keys = append(keys, append([]byte(nil), it.Key()[len(prefix):]...))
	}
	return keys, errors.Wrap(err, "index iterator")
}

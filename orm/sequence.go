package orm

import (
	"encoding/binary"

	msig "github.com/bhau7233/MSig"
	"github.com/bhau7233/MSig/errors"
)

// Sequence is a persistent counter. Every next value is greater than the
// previous one, both as an integer and when comparing the 8 byte encoding.
type Sequence struct {
	id []byte
}

// NewSequence returns a counter stored under "_s.<bucket>:<name>".
func NewSequence(bucket, name string) Sequence {
	return Sequence{id: []byte("_s." + bucket + ":" + name)}
}

// NextVal increments the sequence and returns the new value encoded.
func (s Sequence) NextVal(db msig.KVStore) ([]byte, error) {
	_, raw, err := s.increment(db, 1)
	return raw, err
}

// NextInt increments the sequence and returns the new value.
func (s Sequence) NextInt(db msig.KVStore) (uint64, error) {
	val, _, err := s.increment(db, 1)
	return val, err
}

// Latest returns the last value given out, zero if none was. The sequence
// is not modified.
func (s Sequence) Latest(db msig.ReadOnlyKVStore) (uint64, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, errors.Wrap(err, "read sequence")
	}
	return DecodeSequence(raw)
}

func (s Sequence) increment(db msig.KVStore, inc uint64) (uint64, []byte, error) {
	val, err := s.Latest(db)
	if err != nil {
		return 0, nil, err
	}
	if val+inc < val {
		return 0, nil, errors.Wrap(errors.ErrOverflow, "sequence")
	}
	val += inc
	raw := EncodeSequence(val)
	if err := db.Set(s.id, raw); err != nil {
		return 0, nil, errors.Wrap(err, "write sequence")
	}
	return val, raw, nil
}

// EncodeSequence returns the big endian 8 byte representation of val.
func EncodeSequence(val uint64) []byte {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, val)
	return raw
}

// DecodeSequence reverses EncodeSequence. A nil value decodes to zero.
func DecodeSequence(raw []byte) (uint64, error) {
	if raw == nil {
		return 0, nil
	}
	if len(raw) != 8 {
		return 0, errors.Wrapf(errors.ErrInput, "sequence must be 8 bytes, got %d", len(raw))
	}
	return binary.BigEndian.Uint64(raw), nil
}

package orm

import (
	"testing"

	"github.com/bhau7233/MSig/errors"
	"github.com/bhau7233/MSig/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	Owner []byte
	Text  string
	Count int64
}

var _ Model = (*note)(nil)

func (n *note) Validate() error {
	if n.Text == "" {
		return errors.Field("Text", errors.ErrEmpty, "required")
	}
	return nil
}

func (n *note) Marshal() ([]byte, error) { return MarshalModel(n) }
func (n *note) Unmarshal(raw []byte) error { return UnmarshalModel(raw, n) }

func (n *note) Copy() Model {
	cpy := *n
	cpy.Owner = append([]byte(nil), n.Owner...)
	return &cpy
}

func newNoteBucket(unique bool) Bucket {
	return NewBucket("note", NewSimpleObj(nil, &note{})).
		WithIndex("owner", func(obj Object) ([]byte, error) {
			return obj.Value().(*note).Owner, nil
		}, unique)
}

func TestSimpleObj(t *testing.T) {
	obj := NewSimpleObj([]byte("k"), &note{Owner: []byte("a"), Text: "hi"})
	require.NoError(t, obj.Validate())

	cpy := obj.Clone()
	cpy.Value().(*note).Owner[0] = 'z'
	assert.Equal(t, []byte("a"), obj.Value().(*note).Owner)

	assert.Error(t, NewSimpleObj(nil, &note{Text: "x"}).Validate())
	assert.Error(t, NewSimpleObj([]byte("k"), nil).Validate())
	err := NewSimpleObj([]byte("k"), &note{}).Validate()
	assert.True(t, errors.ErrEmpty.Is(err))
}

func TestCodec(t *testing.T) {
	in := &note{Owner: []byte{1, 2}, Text: "pay", Count: 7}
	raw, err := in.Marshal()
	require.NoError(t, err)

	var out note
	require.NoError(t, out.Unmarshal(raw))
	assert.Equal(t, *in, out)

	// Zero value survives a round trip as well.
	raw, err = (&note{}).Marshal()
	require.NoError(t, err)
	require.NoError(t, out.Unmarshal(raw))
	assert.Equal(t, note{}, out)

	assert.True(t, errors.ErrModel.Is(out.Unmarshal(nil)))
	assert.True(t, errors.ErrModel.Is(out.Unmarshal([]byte{9, 9})))
}

func TestBucketSaveGet(t *testing.T) {
	db := store.MemStore()
	b := newNoteBucket(false)

	obj, err := b.Get(db, []byte("missing"))
	require.NoError(t, err)
	assert.Nil(t, obj)

	require.NoError(t, b.Save(db, NewSimpleObj([]byte("one"), &note{Owner: []byte("a"), Text: "x"})))
	require.NoError(t, b.Save(db, NewSimpleObj([]byte("two"), &note{Owner: []byte("b"), Text: "y"})))
	require.NoError(t, b.Save(db, NewSimpleObj([]byte("three"), &note{Owner: []byte("a"), Text: "z"})))

	obj, err = b.Get(db, []byte("two"))
	require.NoError(t, err)
	assert.Equal(t, "y", obj.Value().(*note).Text)

	ok, err := b.Has(db, []byte("three"))
	require.NoError(t, err)
	assert.True(t, ok)

	err = b.Save(db, NewSimpleObj([]byte("bad"), &note{}))
	assert.True(t, errors.ErrEmpty.Is(err))

	cases := map[string]struct {
		owner string
		want  []string
	}{
		"two entries":  {owner: "a", want: []string{"one", "three"}},
		"single entry":  {owner: "b", want: []string{"two"}},
		"no entries":   {owner: "c", want: nil},
		"prefix only":  {owner: "", want: nil},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			objs, err := b.GetIndexed(db, "owner", []byte(tc.owner))
			require.NoError(t, err)
			var keys []string
			for _, o := range objs {
				keys = append(keys, string(o.Key()))
			}
			assert.Equal(t, tc.want, keys)
		})
	}

	// Moving an object updates its reference.
	require.NoError(t, b.Save(db, NewSimpleObj([]byte("one"), &note{Owner: []byte("b"), Text: "x"})))
	objs, err := b.GetIndexed(db, "owner", []byte("b"))
	require.NoError(t, err)
	assert.Len(t, objs, 2)
	objs, err = b.GetIndexed(db, "owner", []byte("a"))
	require.NoError(t, err)
	assert.Len(t, objs, 1)

	_, err = b.GetIndexed(db, "unknown", nil)
	assert.True(t, errors.ErrHuman.Is(err))
}

func TestUniqueIndex(t *testing.T) {
	db := store.MemStore()
	b := newNoteBucket(true)

	require.NoError(t, b.Save(db, NewSimpleObj([]byte("one"), &note{Owner: []byte("a"), Text: "x"})))
	// Saving the same object again is not a conflict.
	require.NoError(t, b.Save(db, NewSimpleObj([]byte("one"), &note{Owner: []byte("a"), Text: "y"})))

	err := b.Save(db, NewSimpleObj([]byte("two"), &note{Owner: []byte("a"), Text: "x"}))
	assert.True(t, errors.ErrDuplicate.Is(err))
}

func TestBucketVisit(t *testing.T) {
	db := store.MemStore()
	b := newNoteBucket(false)
	other := NewBucket("other", NewSimpleObj(nil, &note{}))

	for _, k := range []string{"a", "b", "c", "d"} {
		require.NoError(t, b.Save(db, NewSimpleObj([]byte(k), &note{Text: k})))
	}
	require.NoError(t, other.Save(db, NewSimpleObj([]byte("e"), &note{Text: "e"})))

	collect := func(start []byte, limit int) []string {
		var res []string
		err := b.Visit(db, start, func(obj Object) bool {
			res = append(res, obj.Value().(*note).Text)
			return len(res) < limit
		})
		require.NoError(t, err)
		return res
	}

	assert.Equal(t, []string{"a", "b", "c", "d"}, collect(nil, 10))
	assert.Equal(t, []string{"c", "d"}, collect([]byte("c"), 10))
	assert.Equal(t, []string{"a", "b"}, collect(nil, 2))
}

func TestSequence(t *testing.T) {
	db := store.MemStore()
	s := NewSequence("note", "id")

	latest, err := s.Latest(db)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), latest)

	for want := uint64(1); want <= 3; want++ {
		got, err := s.NextInt(db)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	raw, err := s.NextVal(db)
	require.NoError(t, err)
	assert.Equal(t, EncodeSequence(4), raw)

	// Sequences of other buckets are independent.
	n, err := NewSequence("other", "id").NextInt(db)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)

	_, err = DecodeSequence([]byte{1})
	assert.True(t, errors.ErrInput.Is(err))
}

func TestPrefixEnd(t *testing.T) {
	assert.Equal(t, []byte("b"), PrefixEnd([]byte("a")))
	assert.Equal(t, []byte{1, 3}, PrefixEnd([]byte{1, 2, 0xFF}))
	assert.Nil(t, PrefixEnd([]byte{0xFF, 0xFF}))
}

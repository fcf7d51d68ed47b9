package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSuite runs the same set of checks against any CacheableKVStore
// implementation. Both the memory store and the iavl adapter use it.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns a fresh store and a function releasing it.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

// NewTestSuite returns a suite testing stores created by constructor.
func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{makeBase: constructor}
}

// GetSet checks that cached writes are visible only through the cache
// until written.
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	k, v := []byte("french"), []byte("fry")
	AssertGetHas(t, base, k, nil, false)
	require.NoError(t, base.Set(k, v))
	AssertGetHas(t, base, k, v, true)

	cache := base.CacheWrap()
	AssertGetHas(t, cache, k, v, true)

	k2, v2 := []byte("LA"), []byte("Dodgers")
	require.NoError(t, cache.Set(k2, v2))
	require.NoError(t, cache.Delete(k))
	AssertGetHas(t, cache, k2, v2, true)
	AssertGetHas(t, cache, k, nil, false)
	AssertGetHas(t, base, k2, nil, false)
	AssertGetHas(t, base, k, v, true)

	require.NoError(t, cache.Write())
	AssertGetHas(t, base, k2, v2, true)
	AssertGetHas(t, base, k, nil, false)
}

// Discard checks that a discarded cache leaves no trace.
func (s *TestSuite) Discard(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	k, v := []byte("tx"), []byte("pending")
	require.NoError(t, base.Set(k, v))

	cache := base.CacheWrap()
	require.NoError(t, cache.Set(k, []byte("executed")))
	require.NoError(t, cache.Set([]byte("event"), []byte("execution")))
	cache.Discard()

	AssertGetHas(t, base, k, v, true)
	AssertGetHas(t, base, []byte("event"), nil, false)

	// A discarded cache must not write anything later on.
	require.NoError(t, cache.Write())
	AssertGetHas(t, base, k, v, true)
}

// Iterate checks that ranges combine cached and stored entries in both
// directions.
func (s *TestSuite) Iterate(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	for _, k := range []string{"a", "c", "e", "g"} {
		require.NoError(t, base.Set([]byte(k), []byte("base-"+k)))
	}
	cache := base.CacheWrap()
	require.NoError(t, cache.Set([]byte("b"), []byte("cache-b")))
	require.NoError(t, cache.Set([]byte("c"), []byte("cache-c")))
	require.NoError(t, cache.Delete([]byte("e")))

	cases := map[string]struct {
		start, end []byte
		reverse    bool
		want       []Model
	}{
		"full ascending": {
			want: models("a", "base-a", "b", "cache-b", "c", "cache-c", "g", "base-g"),
		},
		"full descending": {
			reverse: true,
			want:    models("g", "base-g", "c", "cache-c", "b", "cache-b", "a", "base-a"),
		},
		"bounded ascending": {
			start: []byte("b"),
			end:   []byte("g"),
			want:  models("b", "cache-b", "c", "cache-c"),
		},
		"bounded descending": {
			start:   []byte("b"),
			end:     []byte("g"),
			reverse: true,
			want:    models("c", "cache-c", "b", "cache-b"),
		},
		"open end": {
			start: []byte("d"),
			want:  models("g", "base-g"),
		},
		"open start": {
			end:  []byte("c"),
			want: models("a", "base-a", "b", "cache-b"),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var (
				it  Iterator
				err error
			)
			if tc.reverse {
				it, err = cache.ReverseIterator(tc.start, tc.end)
			} else {
				it, err = cache.Iterator(tc.start, tc.end)
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, ReadAll(t, it))
		})
	}
}

// AssertGetHas checks both Get and Has of a key.
func AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	require.NoError(t, err)
	require.Equal(t, val, got)
	exists, err := kv.Has(key)
	require.NoError(t, err)
	require.Equal(t, has, exists)
}

// ReadAll consumes and closes the iterator.
func ReadAll(t testing.TB, it Iterator) []Model {
	t.Helper()
	defer it.Close()
	var res []Model
	for ; it.Valid(); require.NoError(t, it.Next()) {
		res = append(res, Model{Key: it.Key(), Value: it.Value()})
	}
	return res
}

func models(kv ...string) []Model {
	res := make([]Model, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		res = append(res, Model{Key: []byte(kv[i]), Value: []byte(kv[i+1])})
	}
	return res
}

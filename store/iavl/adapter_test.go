package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/bhau7233/MSig/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeBase() (store.CacheableKVStore, func()) {
	commit := NewMemCommitStore()
	return commit.Adapter(), commit.Close
}

func TestAdapterSuite(t *testing.T) {
	suite := store.NewTestSuite(makeBase)
	t.Run("get set", suite.GetSet)
	t.Run("discard", suite.Discard)
	t.Run("iterate", suite.Iterate)
}

func TestCommitAndReload(t *testing.T) {
	dir, err := ioutil.TempDir("", "msig-iavl-")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	commit, err := NewCommitStore(dir, "state")
	require.NoError(t, err)
	require.NoError(t, commit.LoadLatestVersion())

	cache := commit.CacheWrap()
	require.NoError(t, cache.Set([]byte("owner"), []byte("alice")))
	require.NoError(t, cache.Write())

	id, err := commit.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id.Version)
	assert.NotEmpty(t, id.Hash)

	// Discarded changes never reach the tree.
	cache = commit.CacheWrap()
	require.NoError(t, cache.Set([]byte("owner"), []byte("mallory")))
	cache.Discard()
	commit.Close()

	reopened, err := NewCommitStore(dir, "state")
	require.NoError(t, err)
	defer reopened.Close()
	require.NoError(t, reopened.LoadLatestVersion())

	latest, err := reopened.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, id, latest)

	val, err := reopened.Get([]byte("owner"))
	require.NoError(t, err)
	assert.Equal(t, []byte("alice"), val)
}

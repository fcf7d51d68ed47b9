package app

import (
	"os"
	"path/filepath"

	msig "github.com/bhau7233/MSig"
	"github.com/bhau7233/MSig/errors"
	"github.com/bhau7233/MSig/store"
	"github.com/bhau7233/MSig/store/iavl"
)

// State is the persisted state of a custody pool deployment. Writes go
// through Store and become durable with Commit.
type State struct {
	commit  *iavl.CommitStore
	kv      *store.SyncStore
	chainID string
}

// OpenState loads the latest committed state kept in the home directory,
// creating an empty one if none exists.
func OpenState(home string) (*State, error) {
	dir := filepath.Join(home, "data")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "create %s: %s", dir, err)
	}
	commit, err := iavl.NewCommitStore(dir, "state")
	if err != nil {
		return nil, err
	}
	return newState(commit)
}

// NewMemState returns a state that is never persisted.
func NewMemState() (*State, error) {
	return newState(iavl.NewMemCommitStore())
}

func newState(commit *iavl.CommitStore) (*State, error) {
	if err := commit.LoadLatestVersion(); err != nil {
		commit.Close()
		return nil, errors.Wrap(err, "load state")
	}
	s := &State{
		commit: commit,
		kv:     store.NewSyncStore(commit.Adapter()),
	}
	chainID, err := loadChainID(s.kv)
	if err != nil {
		commit.Close()
		return nil, err
	}
	s.chainID = chainID
	return s, nil
}

// ChainID returns the deployment name, empty until InitChain succeeds.
func (s *State) ChainID() string {
	return s.chainID
}

// Store returns the working state. It is safe for concurrent use.
func (s *State) Store() msig.CacheableKVStore {
	return s.kv
}

// InitChain loads the genesis into an empty state and commits it. Nothing
// is written if any initializer fails.
func (s *State) InitChain(gen *Genesis, init msig.Initializer) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrImmutable, "state initialized for %s", s.chainID)
	}
	if len(gen.AppState) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app_state not set in genesis")
	}

	cache := s.kv.CacheWrap()
	if err := saveChainID(cache, gen.ChainID); err != nil {
		cache.Discard()
		return err
	}
	if err := init.FromGenesis(gen.AppState, cache); err != nil {
		cache.Discard()
		return errors.Wrap(err, "genesis")
	}
	if err := cache.Write(); err != nil {
		return err
	}
	if _, err := s.Commit(); err != nil {
		return err
	}
	s.chainID = gen.ChainID
	return nil
}

// Commit persists the working state as a new version. It must not run
// concurrently with writes.
func (s *State) Commit() (store.CommitID, error) {
	return s.commit.Commit()
}

// LatestVersion returns the last committed version.
func (s *State) LatestVersion() (store.CommitID, error) {
	return s.commit.LatestVersion()
}

// Close releases the database.
func (s *State) Close() {
	s.commit.Close()
}

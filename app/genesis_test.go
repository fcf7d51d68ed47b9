package app

import (
	"fmt"
	"testing"

	msig "github.com/bhau7233/MSig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dummyKey = "dummy"

type dummyInit struct{}

func (dummyInit) FromGenesis(opts msig.Options, kv msig.KVStore) error {
	var value string
	if err := opts.ReadOptions(dummyKey, &value); err != nil {
		return err
	}
	return kv.Set([]byte(dummyKey), []byte(value))
}

type countInit struct {
	called int
}

func (c *countInit) FromGenesis(opts msig.Options, kv msig.KVStore) error {
	c.called++
	return nil
}

func TestInitChain(t *testing.T) {
	cases := []struct {
		file         string
		parseError   bool
		initErr      bool
		expectChain  string
		expectCalled int
		expectValue  []byte
	}{
		// no such file
		0: {"bad_file.json", true, true, "", 0, nil},
		// proper parse
		1: {"testdata/genesis.json", false, false, "test-chain-67", 1, []byte("secret")},
		// parse genesis, bad init
		2: {"testdata/bad_genesis.json", false, true, "", 0, nil},
	}

	for i, tc := range cases {
		t.Run(fmt.Sprintf("case-%d", i), func(t *testing.T) {
			gen, err := LoadGenesis(tc.file)
			if tc.parseError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			c := new(countInit)
			init := ChainInitializers(dummyInit{}, c)
			state, err := NewMemState()
			require.NoError(t, err)
			defer state.Close()
			assert.Equal(t, "", state.ChainID())

			err = state.InitChain(gen, init)
			if tc.initErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.expectChain, state.ChainID())
			assert.Equal(t, tc.expectCalled, c.called)
			val, err := state.Store().Get([]byte(dummyKey))
			require.NoError(t, err)
			assert.Equal(t, tc.expectValue, val)

			// A second genesis is always rejected.
			if !tc.initErr {
				assert.Error(t, state.InitChain(gen, init))
			}
		})
	}
}

func TestChainID(t *testing.T) {
	state, err := NewMemState()
	require.NoError(t, err)
	defer state.Close()

	err = state.InitChain(&Genesis{ChainID: "x", AppState: msig.Options{dummyKey: []byte(`"a"`)}}, dummyInit{})
	assert.Error(t, err)
	assert.Equal(t, "", state.ChainID())

	err = state.InitChain(&Genesis{ChainID: "valid-chain"}, dummyInit{})
	assert.Error(t, err)
}

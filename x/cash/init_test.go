package cash

import (
	"encoding/json"
	"testing"

	msig "github.com/bhau7233/MSig"
	"github.com/bhau7233/MSig/coin"
	"github.com/bhau7233/MSig/errors"
	"github.com/bhau7233/MSig/msigtest"
	"github.com/bhau7233/MSig/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenesis(t *testing.T) {
	addr := msigtest.NewAddress(1)

	cases := map[string]struct {
		genesis string
		wantErr *errors.Error
		want    []coin.Coin
	}{
		"string and object coins": {
			genesis: `[{"address": "` + addr.String() + `", "coins": ["2 IOV", {"whole": 3, "ticker": "ETH"}]}]`,
			want:    []coin.Coin{coin.NewCoin(3, 0, "ETH"), coin.NewCoin(2, 0, "IOV")},
		},
		"no accounts": {
			genesis: `[]`,
		},
		"negative coin": {
			genesis: `[{"address": "` + addr.String() + `", "coins": [{"whole": -3, "ticker": "ETH"}]}]`,
			wantErr: errors.ErrAmount,
		},
		"bad address": {
			genesis: `[{"address": "AABB", "coins": ["2 IOV"]}]`,
			wantErr: errors.ErrInput,
		},
		"malformed": {
			genesis: `{"address": 1}`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			opts := msig.Options{"cash": json.RawMessage(tc.genesis)}
			err := Initializer{}.FromGenesis(opts, db)
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)
				return
			}
			require.NoError(t, err)

			got, err := NewController(NewBucket()).Balance(db, addr)
			require.NoError(t, err)
			assert.ElementsMatch(t, tc.want, got)
		})
	}
}

package cash

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	msig "github.com/bhau7233/MSig"
	"github.com/bhau7233/MSig/coin"
	"github.com/bhau7233/MSig/errors"
	"github.com/bhau7233/MSig/msigtest"
	"github.com/bhau7233/MSig/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeWithFunds returns a thread safe store where addr holds amount.
func storeWithFunds(t testing.TB, addr msig.Address, amount coin.Coin) msig.CacheableKVStore {
	t.Helper()
	db := store.NewSyncStore(store.MemStore())
	genesis := msig.Options{
		"cash": json.RawMessage(fmt.Sprintf(`[{"address": %q, "coins": [%q]}]`, addr, amount)),
	}
	require.NoError(t, Initializer{}.FromGenesis(genesis, db))
	return db
}

func TestPool(t *testing.T) {
	ctx := context.Background()
	poolAddr := msigtest.NewAddress(1)
	alice := msigtest.NewAddress(2)
	db := storeWithFunds(t, poolAddr, coin.NewCoin(10, 0, "IOV"))
	ctrl := NewController(NewBucket())
	pool := NewPool(db, ctrl, poolAddr, "IOV")
	assert.Equal(t, poolAddr, pool.Address())

	balance, err := pool.CurrentBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, coin.NewCoin(10, 0, "IOV"), balance)

	require.NoError(t, pool.Transfer(ctx, alice, coin.NewCoin(3, 0, "IOV")))
	require.NoError(t, pool.Transfer(ctx, alice, coin.NewCoin(0, 0, "IOV")))

	err = pool.Transfer(ctx, alice, coin.NewCoin(8, 0, "IOV"))
	assert.True(t, errors.ErrAmount.Is(err), "unexpected error: %+v", err)
	err = pool.Transfer(ctx, alice, coin.NewCoin(1, 0, "ETH"))
	assert.True(t, errors.ErrCurrency.Is(err), "unexpected error: %+v", err)

	require.NoError(t, pool.Deposit(ctx, alice, coin.NewCoin(1, 0, "IOV")))

	balance, err = pool.CurrentBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, coin.NewCoin(8, 0, "IOV"), balance)

	got, err := ctrl.Balance(db, alice)
	require.NoError(t, err)
	assert.Equal(t, []coin.Coin{coin.NewCoin(2, 0, "IOV")}, got)

	require.NoError(t, pool.Transfer(ctx, alice, coin.NewCoin(8, 0, "IOV")))
	balance, err = pool.CurrentBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, coin.Coin{Ticker: "IOV"}, balance)
}

func TestPoolConcurrentTransfers(t *testing.T) {
	ctx := context.Background()
	poolAddr := msigtest.NewAddress(1)
	db := storeWithFunds(t, poolAddr, coin.NewCoin(10, 0, "IOV"))
	ctrl := NewController(NewBucket())
	pool := NewPool(db, ctrl, poolAddr, "IOV")

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(dst msig.Address) {
			defer wg.Done()
			if err := pool.Transfer(ctx, dst, coin.NewCoin(1, 0, "IOV")); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}(msigtest.NewAddress(uint64(100 + i)))
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	balance, err := pool.CurrentBalance(ctx)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

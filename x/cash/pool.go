package cash

import (
	"context"
	"sync"

	msig "github.com/bhau7233/MSig"
	"github.com/bhau7233/MSig/coin"
	"github.com/bhau7233/MSig/errors"
)

// Pool gives access to the funds held by the custody pool address. All
// balance changes are written atomically through a cache wrap.
type Pool struct {
	mu     sync.Mutex
	db     msig.CacheableKVStore
	ctrl   Controller
	addr   msig.Address
	ticker string
}

// NewPool returns a pool of funds held by addr, counting only coins of
// given ticker.
func NewPool(db msig.CacheableKVStore, ctrl Controller, addr msig.Address, ticker string) *Pool {
	return &Pool{
		db:     db,
		ctrl:   ctrl,
		addr:   addr,
		ticker: ticker,
	}
}

// Address returns the address of the pool.
func (p *Pool) Address() msig.Address {
	return p.addr
}

// CurrentBalance returns the funds held by the pool.
func (p *Pool) CurrentBalance(ctx context.Context) (coin.Coin, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	coins, err := p.ctrl.Balance(p.db, p.addr)
	if err != nil {
		return coin.Coin{}, err
	}
	for _, c := range coins {
		if c.Ticker == p.ticker {
			return c, nil
		}
	}
	return coin.Coin{Ticker: p.ticker}, nil
}

// Transfer moves amount from the pool to dst. Moving a zero amount is a
// no-op.
func (p *Pool) Transfer(ctx context.Context, dst msig.Address, amount coin.Coin) error {
	if amount.IsZero() {
		return nil
	}
	return p.move(ctx, p.addr, dst, amount)
}

// Deposit moves amount from src into the pool.
func (p *Pool) Deposit(ctx context.Context, src msig.Address, amount coin.Coin) error {
	return p.move(ctx, src, p.addr, amount)
}

func (p *Pool) move(ctx context.Context, src, dst msig.Address, amount coin.Coin) error {
	if amount.Ticker != p.ticker {
		return errors.Wrapf(errors.ErrCurrency, "pool holds %s, got %s", p.ticker, amount.Ticker)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	cache := p.db.CacheWrap()
	if err := p.ctrl.MoveCoins(cache, src, dst, amount); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return err
	}
	msig.GetLogger(ctx).Debug("coins moved", "src", src, "dst", dst, "amount", amount)
	return nil
}

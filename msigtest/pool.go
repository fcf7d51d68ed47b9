package msigtest

import (
	"context"
	"sync"

	msig "github.com/bhau7233/MSig"
	"github.com/bhau7233/MSig/coin"
	"github.com/bhau7233/MSig/errors"
)

// Payment is a transfer recorded by Pool.
type Payment struct {
	Destination msig.Address
	Amount      coin.Coin
}

// Pool is an in memory custody pool whose transfers can be scripted to
// fail or panic. It is safe for concurrent use.
type Pool struct {
	mu       sync.Mutex
	balance  coin.Coin
	payments []Payment
	fail     error
	panicVal interface{}

	// OnTransfer, if set, is called at the beginning of every transfer
	// without any lock held. It can call back into the code under test.
	OnTransfer func(ctx context.Context, dst msig.Address, amount coin.Coin)
}

// NewPool returns a pool holding balance.
func NewPool(balance coin.Coin) *Pool {
	return &Pool{balance: balance}
}

// FailWith makes every following transfer return err. Use nil to restore
// successful transfers.
func (p *Pool) FailWith(err error) {
	p.mu.Lock()
	p.fail = err
	p.mu.Unlock()
}

// PanicWith makes every following transfer panic with v. Use nil to
// restore normal transfers.
func (p *Pool) PanicWith(v interface{}) {
	p.mu.Lock()
	p.panicVal = v
	p.mu.Unlock()
}

// SetBalance overwrites the pool balance.
func (p *Pool) SetBalance(c coin.Coin) {
	p.mu.Lock()
	p.balance = c
	p.mu.Unlock()
}

// Payments returns all successful transfers in order.
func (p *Pool) Payments() []Payment {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Payment(nil), p.payments...)
}

func (p *Pool) CurrentBalance(ctx context.Context) (coin.Coin, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.balance, nil
}

func (p *Pool) Transfer(ctx context.Context, dst msig.Address, amount coin.Coin) error {
	if p.OnTransfer != nil {
		p.OnTransfer(ctx, dst, amount)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.panicVal != nil {
		panic(p.panicVal)
	}
	if p.fail != nil {
		return p.fail
	}
	left, err := p.balance.Subtract(amount)
	if err != nil {
		return err
	}
	if !left.IsNonNegative() {
		return errors.Wrapf(errors.ErrAmount, "balance %s, requested %s", p.balance, amount)
	}
	p.balance = left
	p.payments = append(p.payments, Payment{Destination: dst.Clone(), Amount: amount})
	return nil
}

func (p *Pool) Deposit(ctx context.Context, src msig.Address, amount coin.Coin) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	total, err := p.balance.Add(amount)
	if err != nil {
		return err
	}
	p.balance = total
	return nil
}

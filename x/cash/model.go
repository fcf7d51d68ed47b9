package cash

import (
	"sort"

	msig "github.com/bhau7233/MSig"
	"github.com/bhau7233/MSig/coin"
	"github.com/bhau7233/MSig/errors"
	"github.com/bhau7233/MSig/orm"
)

// BucketName is where the balances are stored.
const BucketName = "cash"

// Wallet holds at most one coin per ticker, ordered by ticker.
type Wallet struct {
	Coins []coin.Coin `json:"coins"`
}

var _ orm.Model = (*Wallet)(nil)

// Validate requires all coins to be valid, positive and unique per ticker.
func (w *Wallet) Validate() error {
	var err error
	for i, c := range w.Coins {
		if e := c.Validate(); e != nil {
			err = errors.AppendField(err, "Coins", e)
			continue
		}
		if !c.IsPositive() {
			err = errors.AppendField(err, "Coins", errors.Wrapf(errors.ErrAmount, "non positive %s", c))
		}
		if i > 0 && w.Coins[i-1].Ticker >= c.Ticker {
			err = errors.AppendField(err, "Coins", errors.Wrap(errors.ErrState, "not sorted or duplicated ticker"))
		}
	}
	return err
}

func (w *Wallet) Marshal() ([]byte, error) {
	return orm.MarshalModel(w)
}

func (w *Wallet) Unmarshal(raw []byte) error {
	return orm.UnmarshalModel(raw, w)
}

// Copy returns an independent copy of the wallet.
func (w *Wallet) Copy() orm.Model {
	return &Wallet{Coins: append([]coin.Coin(nil), w.Coins...)}
}

// Balance returns the amount of given ticker held. The result is a zero
// coin of that ticker if none is held.
func (w *Wallet) Balance(ticker string) coin.Coin {
	for _, c := range w.Coins {
		if c.Ticker == ticker {
			return c
		}
	}
	return coin.Coin{Ticker: ticker}
}

// Add adds amount, which can be negative, to the balance. The balance of a
// coin may not drop below zero and a zero balance is removed.
func (w *Wallet) Add(amount coin.Coin) error {
	i := sort.Search(len(w.Coins), func(i int) bool { return w.Coins[i].Ticker >= amount.Ticker })
	if i == len(w.Coins) || w.Coins[i].Ticker != amount.Ticker {
		if amount.IsZero() {
			return nil
		}
		if !amount.IsPositive() {
			return errors.Wrapf(errors.ErrAmount, "no %s funds", amount.Ticker)
		}
		w.Coins = append(w.Coins, coin.Coin{})
		copy(w.Coins[i+1:], w.Coins[i:])
		w.Coins[i] = amount
		return nil
	}

	sum, err := w.Coins[i].Add(amount)
	if err != nil {
		return err
	}
	switch {
	case !sum.IsNonNegative():
		return errors.Wrapf(errors.ErrAmount, "insufficient %s funds", amount.Ticker)
	case sum.IsZero():
		w.Coins = append(w.Coins[:i], w.Coins[i+1:]...)
	default:
		w.Coins[i] = sum
	}
	return nil
}

// Bucket stores wallets by owner address.
type Bucket struct {
	orm.Bucket
}

// NewBucket returns a bucket managing wallets.
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, orm.NewSimpleObj(nil, &Wallet{})),
	}
}

// Get returns the wallet of given address. A missing wallet is returned as
// an empty one.
func (b Bucket) Get(db msig.ReadOnlyKVStore, addr msig.Address) (*Wallet, error) {
	obj, err := b.Bucket.Get(db, addr)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return &Wallet{}, nil
	}
	w, ok := obj.Value().(*Wallet)
	if !ok {
		return nil, errors.WithType(errors.ErrType, obj.Value())
	}
	return w, nil
}

// Save writes the wallet of given address.
func (b Bucket) Save(db msig.KVStore, addr msig.Address, w *Wallet) error {
	if err := addr.Validate(); err != nil {
		return errors.Field("Address", err, "wallet owner")
	}
	return b.Bucket.Save(db, orm.NewSimpleObj(addr, w))
}

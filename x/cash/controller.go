package cash

import (
	msig "github.com/bhau7233/MSig"
	"github.com/bhau7233/MSig/coin"
	"github.com/bhau7233/MSig/errors"
)

// Controller is the functionality needed to manage balances.
type Controller interface {
	// Balance returns all coins held by given address.
	Balance(db msig.ReadOnlyKVStore, addr msig.Address) ([]coin.Coin, error)
	// MoveCoins moves a positive amount from src to dest. It fails if src
	// does not hold enough coins.
	MoveCoins(db msig.KVStore, src, dest msig.Address, amount coin.Coin) error
	// IssueCoins adds amount, which may be negative, to the balance of
	// dest.
	IssueCoins(db msig.KVStore, dest msig.Address, amount coin.Coin) error
}

// BaseController implements Controller on top of a wallet bucket.
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a controller using given bucket.
func NewController(bucket Bucket) BaseController {
	return BaseController{bucket: bucket}
}

func (c BaseController) Balance(db msig.ReadOnlyKVStore, addr msig.Address) ([]coin.Coin, error) {
	w, err := c.bucket.Get(db, addr)
	if err != nil {
		return nil, err
	}
	return w.Coins, nil
}

func (c BaseController) MoveCoins(db msig.KVStore, src, dest msig.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non positive amount %s", amount)
	}
	if src.Equals(dest) {
		return errors.Wrap(errors.ErrInput, "source and destination are the same")
	}

	sender, err := c.bucket.Get(db, src)
	if err != nil {
		return err
	}
	if err := sender.Add(amount.Negative()); err != nil {
		return errors.Wrapf(err, "sender %s", src)
	}
	recipient, err := c.bucket.Get(db, dest)
	if err != nil {
		return err
	}
	if err := recipient.Add(amount); err != nil {
		return errors.Wrapf(err, "recipient %s", dest)
	}

	if err := c.bucket.Save(db, src, sender); err != nil {
		return err
	}
	return c.bucket.Save(db, dest, recipient)
}

func (c BaseController) IssueCoins(db msig.KVStore, dest msig.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	w, err := c.bucket.Get(db, dest)
	if err != nil {
		return err
	}
	if err := w.Add(amount); err != nil {
		return err
	}
	return c.bucket.Save(db, dest, w)
}

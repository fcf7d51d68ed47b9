package cash

import (
	msig "github.com/bhau7233/MSig"
	"github.com/bhau7233/MSig/coin"
	"github.com/bhau7233/MSig/errors"
)

const optKey = "cash"

// GenesisAccount is a single wallet declared in the genesis file.
type GenesisAccount struct {
	Address msig.Address `json:"address"`
	Coins   []coin.Coin  `json:"coins"`
}

// Initializer loads initial balances from the genesis file.
type Initializer struct{}

var _ msig.Initializer = Initializer{}

// FromGenesis issues the coins of every declared account.
func (Initializer) FromGenesis(opts msig.Options, kv msig.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return err
	}
	ctrl := NewController(NewBucket())
	for i, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		for _, c := range acct.Coins {
			if !c.IsPositive() {
				return errors.Wrapf(errors.ErrAmount, "account %d: non positive %s", i, c)
			}
			if err := ctrl.IssueCoins(kv, acct.Address, c); err != nil {
				return errors.Wrapf(err, "account %d", i)
			}
		}
	}
	return nil
}

package multisig

import (
	msig "github.com/bhau7233/MSig"
	"github.com/bhau7233/MSig/coin"
	"github.com/bhau7233/MSig/errors"
	"github.com/bhau7233/MSig/gconf"
	"github.com/bhau7233/MSig/orm"
)

// ConfigKey is the genesis and the configuration store key of this
// package.
const ConfigKey = "multisig"

// Configuration describes a custody pool deployment. It is set once from
// the genesis file and cannot be changed afterwards.
type Configuration struct {
	Owners    []msig.Address `json:"owners"`
	Threshold int32          `json:"threshold"`
	// Ticker is the only currency held by the pool.
	Ticker string `json:"ticker"`
	// Pool is the address holding the funds.
	Pool msig.Address `json:"pool"`
	// FreezeExecuted rejects revocations on executed transactions.
	FreezeExecuted bool `json:"freeze_executed"`
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	if _, err := c.Registry(); err != nil {
		return err
	}
	var err error
	if !coin.IsCC(c.Ticker) {
		err = errors.AppendField(err, "Ticker", errors.Wrapf(ErrInvalidConfig, "invalid ticker %q", c.Ticker))
	}
	if c.Pool.IsZero() {
		err = errors.AppendField(err, "Pool", errors.Wrap(ErrInvalidConfig, "null address"))
	} else {
		err = errors.AppendField(err, "Pool", c.Pool.Validate())
	}
	return err
}

func (c *Configuration) Marshal() ([]byte, error) {
	return orm.MarshalModel(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return orm.UnmarshalModel(raw, c)
}

// Registry returns the owner registry described by this configuration.
func (c *Configuration) Registry() (*Registry, error) {
	return NewRegistry(c.Owners, int(c.Threshold))
}

// LoadConfiguration returns the configuration saved in db.
func LoadConfiguration(db gconf.ReadStore) (*Configuration, error) {
	var c Configuration
	if err := gconf.Load(db, ConfigKey, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// NewEngine returns an engine for this deployment, moving the funds through
// pool.
func (c *Configuration) NewEngine(db msig.CacheableKVStore, pool Pool, opts ...Option) (*Engine, error) {
	reg, err := c.Registry()
	if err != nil {
		return nil, err
	}
	base := []Option{
		WithTicker(c.Ticker),
		WithFreezeExecuted(c.FreezeExecuted),
		WithDepositor(pool),
	}
	return NewEngine(db, reg, pool, pool, append(base, opts...)...), nil
}

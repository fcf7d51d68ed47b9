package app

import (
	"context"

	msig "github.com/bhau7233/MSig"
	"github.com/bhau7233/MSig/coin"
	"github.com/bhau7233/MSig/errors"
	"github.com/bhau7233/MSig/x/cash"
	"github.com/bhau7233/MSig/x/multisig"
	"github.com/tendermint/tendermint/libs/log"
)

// Initializers returns the genesis initializers of all extensions.
func Initializers() msig.Initializer {
	return ChainInitializers(
		&multisig.Initializer{},
		cash.Initializer{},
	)
}

// App serves a custody pool deployment.
type App struct {
	state  *State
	logger log.Logger
	conf   *multisig.Configuration
	ctrl   cash.Controller
	pool   *cash.Pool
	engine *multisig.Engine
}

// New returns an App on top of an initialized state.
func New(state *State, logger log.Logger) (*App, error) {
	if state.ChainID() == "" {
		return nil, errors.Wrap(errors.ErrState, "state not initialized, load a genesis first")
	}
	conf, err := multisig.LoadConfiguration(state.Store())
	if err != nil {
		return nil, errors.Wrap(err, "pool configuration")
	}

	a := &App{
		state:  state,
		logger: logger.With("chain", state.ChainID()),
		conf:   conf,
		ctrl:   cash.NewController(cash.NewBucket()),
	}
	a.pool = cash.NewPool(state.Store(), a.ctrl, conf.Pool, conf.Ticker)
	a.engine, err = conf.NewEngine(state.Store(), a.pool, multisig.WithListener(a.logEvent))
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (a *App) logEvent(e multisig.Event) {
	a.logger.Debug("event",
		"seq", e.Sequence,
		"kind", e.Kind,
		"tx", e.TransactionID,
		"actor", e.Actor)
}

// Context returns ctx carrying the application logger and chain id.
func (a *App) Context(ctx context.Context) context.Context {
	ctx = msig.WithLogger(ctx, a.logger)
	return msig.WithChainID(ctx, a.state.ChainID())
}

// Engine returns the authorization engine.
func (a *App) Engine() *multisig.Engine {
	return a.engine
}

// Configuration returns the pool configuration.
func (a *App) Configuration() *multisig.Configuration {
	return a.conf
}

// Wallet returns all coins held by addr.
func (a *App) Wallet(addr msig.Address) ([]coin.Coin, error) {
	return a.ctrl.Balance(a.state.Store(), addr)
}

// Commit persists all changes done so far.
func (a *App) Commit() error {
	id, err := a.state.Commit()
	if err != nil {
		return err
	}
	a.logger.Debug("state committed", "version", id.Version, "hash", id.Hash)
	return nil
}

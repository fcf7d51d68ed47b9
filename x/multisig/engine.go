package multisig

import (
	"context"
	"fmt"
	"sync"

	msig "github.com/bhau7233/MSig"
	"github.com/bhau7233/MSig/coin"
	"github.com/bhau7233/MSig/errors"
)

// BalanceOracle reports the funds held by the custody pool.
type BalanceOracle interface {
	CurrentBalance(ctx context.Context) (coin.Coin, error)
}

// PaymentTransfer moves funds out of the custody pool. A nil error means
// the funds were moved.
type PaymentTransfer interface {
	Transfer(ctx context.Context, dst msig.Address, amount coin.Coin) error
}

// Depositor moves funds into the custody pool.
type Depositor interface {
	Deposit(ctx context.Context, src msig.Address, amount coin.Coin) error
}

// Pool is a collaborator implementing all pool operations.
type Pool interface {
	BalanceOracle
	PaymentTransfer
	Depositor
}

// Outcome tells if a call moved funds.
type Outcome int

const (
	// OutcomeNone means no execution was attempted.
	OutcomeNone Outcome = iota
	// OutcomeExecuted means the funds were transferred.
	OutcomeExecuted
	// OutcomeFailed means an execution was attempted but no funds were
	// moved. The transaction remains approved and can be executed again.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeExecuted:
		return "executed"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result is returned by the calls that may execute a transaction.
type Result struct {
	TransactionID uint64
	Confirmations int
	Outcome       Outcome
	// Log explains a failed execution.
	Log string
}

// Option configures an Engine.
type Option func(*Engine)

// WithTicker restricts proposals and deposits to coins of given ticker.
func WithTicker(ticker string) Option {
	return func(e *Engine) { e.ticker = ticker }
}

// WithFreezeExecuted rejects revocations of executed transactions with
// ErrAlreadyExecuted. By default such a revocation only updates the
// confirmation set.
func WithFreezeExecuted(freeze bool) Option {
	return func(e *Engine) { e.freezeExecuted = freeze }
}

// WithDepositor enables Deposit.
func WithDepositor(d Depositor) Option {
	return func(e *Engine) { e.depositor = d }
}

// WithListener registers fn to be called with every event, in log order,
// after the call that emitted it was committed. fn is called without any
// engine lock held.
func WithListener(fn func(Event)) Option {
	return func(e *Engine) { e.listener = fn }
}

// Engine authorizes and applies all operations on the transactions of a
// custody pool. It is safe for concurrent use. Calls are serialized except
// for the transfer itself, during which the transaction is in the
// executing state and rejects any other execution or confirmation.
type Engine struct {
	mu sync.Mutex

	db       msig.CacheableKVStore
	registry *Registry
	txs      *TransactionBucket
	events   *EventBucket

	balance   BalanceOracle
	transfer  PaymentTransfer
	depositor Depositor
	listener  func(Event)

	ticker         string
	freezeExecuted bool
}

// NewEngine returns an engine keeping its state in db.
func NewEngine(db msig.CacheableKVStore, registry *Registry, balance BalanceOracle, transfer PaymentTransfer, opts ...Option) *Engine {
	e := &Engine{
		db:       db,
		registry: registry,
		txs:      NewTransactionBucket(),
		events:   NewEventBucket(),
		balance:  balance,
		transfer: transfer,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Registry returns the owner registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Owners returns the owners in registration order.
func (e *Engine) Owners() []msig.Address {
	return e.registry.Owners()
}

// Threshold returns the quorum threshold.
func (e *Engine) Threshold() int {
	return e.registry.Threshold()
}

func (e *Engine) validateAmount(amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if !amount.IsNonNegative() {
		return errors.Wrapf(errors.ErrAmount, "negative amount %s", amount)
	}
	if e.ticker != "" && amount.Ticker != e.ticker {
		return errors.Wrapf(errors.ErrCurrency, "pool holds %s, got %s", e.ticker, amount.Ticker)
	}
	return nil
}

// Propose creates a new pending transaction paying amount to dst and
// returns its id. The pool must hold at least amount at the time of the
// proposal.
func (e *Engine) Propose(ctx context.Context, caller, dst msig.Address, amount coin.Coin) (uint64, error) {
	if err := e.registry.authorize(caller); err != nil {
		return 0, err
	}
	if dst.IsZero() {
		return 0, errors.Wrap(ErrInvalidDestination, "null address")
	}
	if err := dst.Validate(); err != nil {
		return 0, errors.Wrap(ErrInvalidDestination, err.Error())
	}
	if err := e.validateAmount(amount); err != nil {
		return 0, err
	}

	var events []Event
	defer func() { e.notify(events) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	balance, err := e.balance.CurrentBalance(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "pool balance")
	}
	if !balance.IsGTE(amount) {
		return 0, errors.Wrapf(ErrInsufficientFunds, "pool holds %s, %s requested", balance, amount)
	}

	var id uint64
	committed, err := e.update(func(db msig.KVStore) ([]Event, error) {
		tx := &Transaction{
			Destination: dst.Clone(),
			Amount:      amount,
			Status:      StatusPending,
		}
		var err error
		if id, err = e.txs.Create(db, tx); err != nil {
			return nil, err
		}
		return []Event{{
			Kind:          EventNewTransaction,
			TransactionID: id,
			Destination:   tx.Destination,
			Amount:        amount,
		}}, nil
	})
	if err != nil {
		return 0, err
	}
	events = committed

	proposalsCounter.Inc()
	msig.GetLogger(ctx).Info("transaction proposed",
		"tx", id, "owner", caller, "destination", dst, "amount", amount)
	return id, nil
}

// Confirm adds the confirmation of caller to a transaction. When the
// confirmation completes the quorum the transaction is executed within
// this call and the result reports the outcome. A confirmation that would
// execute an executed transaction again is rejected.
func (e *Engine) Confirm(ctx context.Context, caller msig.Address, id uint64) (Result, error) {
	if err := e.registry.authorize(caller); err != nil {
		return Result{}, err
	}
	res, err := e.run(ctx, id, func(tx *Transaction) ([]Event, bool, error) {
		if err := tx.confirm(caller); err != nil {
			return nil, false, err
		}
		quorum := len(tx.Confirmations) >= e.registry.Threshold()
		switch {
		case tx.Status == StatusExecuting:
			return nil, false, errors.Wrapf(ErrAlreadyExecuted, "transaction %d execution in progress", id)
		case tx.Status == StatusExecuted && (quorum || e.freezeExecuted):
			return nil, false, errors.Wrapf(ErrAlreadyExecuted, "transaction %d is executed", id)
		}
		events := []Event{{
			Kind:          EventConfirmation,
			TransactionID: id,
			Actor:         caller.Clone(),
		}}
		return events, quorum, nil
	})
	if err != nil {
		return res, err
	}

	confirmationsCounter.Inc()
	msig.GetLogger(ctx).Debug("transaction confirmed",
		"tx", id, "owner", caller, "confirmations", res.Confirmations)
	return res, nil
}

// Execute attempts the transfer of an approved transaction. Use it to retry
// an execution that failed.
func (e *Engine) Execute(ctx context.Context, caller msig.Address, id uint64) (Result, error) {
	if err := e.registry.authorize(caller); err != nil {
		return Result{}, err
	}
	return e.run(ctx, id, func(tx *Transaction) ([]Event, bool, error) {
		if tx.Status != StatusPending {
			return nil, false, errors.Wrapf(ErrAlreadyExecuted, "transaction %d is %s", id, tx.Status)
		}
		if n, t := len(tx.Confirmations), e.registry.Threshold(); n < t {
			return nil, false, errors.Wrapf(ErrQuorum, "%d of %d confirmations", n, t)
		}
		return nil, true, nil
	})
}

// Revoke removes the confirmation of caller. It never affects funds that
// were already moved.
func (e *Engine) Revoke(ctx context.Context, caller msig.Address, id uint64) error {
	if err := e.registry.authorize(caller); err != nil {
		return err
	}

	var events []Event
	defer func() { e.notify(events) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	committed, err := e.update(func(db msig.KVStore) ([]Event, error) {
		tx, err := e.txs.GetTx(db, id)
		if err != nil {
			return nil, err
		}
		switch {
		case tx.Status == StatusExecuting:
			return nil, errors.Wrapf(ErrAlreadyExecuted, "transaction %d execution in progress", id)
		case tx.Status == StatusExecuted && e.freezeExecuted:
			return nil, errors.Wrapf(ErrAlreadyExecuted, "transaction %d is executed", id)
		}
		if err := tx.revoke(caller); err != nil {
			return nil, err
		}
		if err := e.txs.Update(db, id, tx); err != nil {
			return nil, err
		}
		return []Event{{
			Kind:          EventRevocation,
			TransactionID: id,
			Actor:         caller.Clone(),
		}}, nil
	})
	if err != nil {
		return err
	}
	events = committed

	revocationsCounter.Inc()
	msig.GetLogger(ctx).Debug("confirmation revoked", "tx", id, "owner", caller)
	return nil
}

// Deposit moves amount from sender into the pool. Anyone can deposit.
func (e *Engine) Deposit(ctx context.Context, sender msig.Address, amount coin.Coin) error {
	if e.depositor == nil {
		return errors.Wrap(errors.ErrHuman, "deposits are not enabled")
	}
	if err := sender.Validate(); err != nil {
		return errors.Field("Sender", err, "invalid sender")
	}
	if err := e.validateAmount(amount); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "deposit must be positive")
	}

	var events []Event
	defer func() { e.notify(events) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.depositor.Deposit(ctx, sender, amount); err != nil {
		return errors.Wrap(err, "deposit")
	}
	committed, err := e.update(func(db msig.KVStore) ([]Event, error) {
		return []Event{{
			Kind:   EventDeposit,
			Actor:  sender.Clone(),
			Amount: amount,
		}}, nil
	})
	if err != nil {
		return err
	}
	events = committed
	msig.GetLogger(ctx).Info("deposit", "sender", sender, "amount", amount)
	return nil
}

// update runs fn in a cache wrap and appends the returned events to the
// log. Everything is written only if no error occurred. It must be called
// with the engine lock held. The stored events are returned.
func (e *Engine) update(fn func(db msig.KVStore) ([]Event, error)) ([]Event, error) {
	cache := e.db.CacheWrap()
	events, err := fn(cache)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	for i := range events {
		if err := e.events.Append(cache, &events[i]); err != nil {
			cache.Discard()
			return nil, errors.Wrap(err, "append event")
		}
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "commit")
	}
	return events, nil
}

// mutation changes a transaction and tells if an execution must be
// attempted afterwards.
type mutation func(tx *Transaction) (events []Event, execute bool, err error)

// run applies a mutation to a transaction and, if requested, executes it.
//
// The execution is split into three steps. With the lock held the balance
// is checked and the transaction is switched to the executing state. The
// transfer is done without the lock, so that it cannot deadlock on a
// nested call, which is rejected by the executing state instead. Finally,
// with the lock held again, the outcome is recorded. A panic of the
// transfer restores the transaction as it was before the call and logs a
// revocation for every confirmation the call added.
func (e *Engine) run(ctx context.Context, id uint64, mutate mutation) (Result, error) {
	var events []Event
	defer func() { e.notify(events) }()

	e.mu.Lock()
	locked := true
	defer func() {
		if locked {
			e.mu.Unlock()
		}
	}()

	prev, err := e.txs.GetTx(e.db, id)
	if err != nil {
		return Result{}, err
	}
	tx := prev.Copy().(*Transaction)
	pending, execute, err := mutate(tx)
	if err != nil {
		return Result{}, err
	}
	res := Result{TransactionID: id, Confirmations: len(tx.Confirmations)}

	if !execute {
		committed, err := e.update(func(db msig.KVStore) ([]Event, error) {
			return pending, e.txs.Update(db, id, tx)
		})
		if err != nil {
			return Result{}, err
		}
		events = committed
		return res, nil
	}

	balance, err := e.balance.CurrentBalance(ctx)
	if err != nil {
		return Result{}, errors.Wrap(err, "pool balance")
	}
	if !balance.IsGTE(tx.Amount) {
		res.Outcome = OutcomeFailed
		res.Log = fmt.Sprintf("pool holds %s, %s requested", balance, tx.Amount)
		tx.Attempts++
		pending = append(pending, Event{Kind: EventExecutionFailure, TransactionID: id})
		committed, err := e.update(func(db msig.KVStore) ([]Event, error) {
			return pending, e.txs.Update(db, id, tx)
		})
		if err != nil {
			return Result{}, err
		}
		events = committed
		executionsCounter.WithLabelValues("failed").Inc()
		msig.GetLogger(ctx).Error("transaction execution failed", "tx", id, "reason", res.Log)
		return res, nil
	}

	// The confirmation is logged together with the state it produced, so
	// that calls made during the transfer are logged after it.
	tx.Status = StatusExecuting
	started, err := e.update(func(db msig.KVStore) ([]Event, error) {
		return pending, e.txs.Update(db, id, tx)
	})
	if err != nil {
		return Result{}, err
	}
	pending = nil

	locked = false
	e.mu.Unlock()
	e.notify(started)
	inFlightGauge.Inc()
	transferErr := safeTransfer(ctx, e.transfer, tx.Destination, tx.Amount)
	inFlightGauge.Dec()
	e.mu.Lock()
	locked = true

	if errors.ErrPanic.Is(transferErr) {
		executionsCounter.WithLabelValues("panic").Inc()
		committed, err := e.update(func(db msig.KVStore) ([]Event, error) {
			return revocations(started), e.txs.Update(db, id, prev)
		})
		if err != nil {
			return Result{}, errors.Append(transferErr, errors.Wrap(err, "rollback"))
		}
		events = committed
		msig.GetLogger(ctx).Error("transfer interrupted, call rolled back", "tx", id, "err", transferErr)
		return Result{}, transferErr
	}

	if transferErr == nil {
		tx.Status = StatusExecuted
		res.Outcome = OutcomeExecuted
		pending = append(pending, Event{Kind: EventExecution, TransactionID: id})
	} else {
		tx.Status = StatusPending
		tx.Attempts++
		res.Outcome = OutcomeFailed
		res.Log = transferErr.Error()
		pending = append(pending, Event{Kind: EventExecutionFailure, TransactionID: id})
	}
	committed, err := e.update(func(db msig.KVStore) ([]Event, error) {
		return pending, e.txs.Update(db, id, tx)
	})
	if err != nil {
		return Result{}, err
	}
	events = committed

	logger := msig.GetLogger(ctx)
	if res.Outcome == OutcomeExecuted {
		executionsCounter.WithLabelValues("executed").Inc()
		logger.Info("transaction executed", "tx", id, "destination", tx.Destination, "amount", tx.Amount)
	} else {
		executionsCounter.WithLabelValues("failed").Inc()
		logger.Error("transaction execution failed", "tx", id, "reason", res.Log)
	}
	return res, nil
}

// revocations returns the events undoing the confirmations found in
// events.
func revocations(events []Event) []Event {
	var res []Event
	for _, ev := range events {
		if ev.Kind != EventConfirmation {
			continue
		}
		res = append(res, Event{
			Kind:          EventRevocation,
			TransactionID: ev.TransactionID,
			Actor:         ev.Actor.Clone(),
		})
	}
	return res
}

// safeTransfer converts a panic of the transfer into an ErrPanic error.
func safeTransfer(ctx context.Context, t PaymentTransfer, dst msig.Address, amount coin.Coin) (err error) {
	defer errors.Recover(&err)
	return t.Transfer(ctx, dst, amount)
}

func (e *Engine) notify(events []Event) {
	if e.listener == nil {
		return
	}
	for _, ev := range events {
		e.listener(ev)
	}
}

package multisig

import (
	"context"

	msig "github.com/bhau7233/MSig"
	"github.com/bhau7233/MSig/coin"
	"github.com/bhau7233/MSig/errors"
)

// TransactionQuery selects a page of transactions. A transaction in the
// executing state is counted as executed.
type TransactionQuery struct {
	// From is the first transaction id to consider.
	From uint64
	// Limit is the maximum number of returned transactions. Non positive
	// means no limit.
	Limit    int
	Pending  bool
	Executed bool
}

func (q TransactionQuery) match(tx *Transaction) bool {
	if tx.Status == StatusPending {
		return q.Pending
	}
	return q.Executed
}

// TransactionCount returns the number of transactions ever proposed. Ids
// are assigned from 0 to TransactionCount() - 1.
func (e *Engine) TransactionCount(ctx context.Context) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.txs.Count(e.db)
}

// Transaction returns the view of a single transaction.
func (e *Engine) Transaction(ctx context.Context, id uint64) (TransactionView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	tx, err := e.txs.GetTx(e.db, id)
	if err != nil {
		return TransactionView{}, err
	}
	return newView(id, tx, e.registry.Threshold()), nil
}

// ConfirmationCount returns the number of owners currently confirming a
// transaction.
func (e *Engine) ConfirmationCount(ctx context.Context, id uint64) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	tx, err := e.txs.GetTx(e.db, id)
	if err != nil {
		return 0, err
	}
	return len(tx.Confirmations), nil
}

// Confirmations returns the confirming owners in registration order.
func (e *Engine) Confirmations(ctx context.Context, id uint64) ([]msig.Address, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	tx, err := e.txs.GetTx(e.db, id)
	if err != nil {
		return nil, err
	}
	res := make([]msig.Address, 0, len(tx.Confirmations))
	for _, o := range e.registry.Owners() {
		if tx.IsConfirmedBy(o) {
			res = append(res, o)
		}
	}
	return res, nil
}

// IsConfirmed returns true if owner confirms the transaction. It fails
// only for an unknown transaction.
func (e *Engine) IsConfirmed(ctx context.Context, id uint64, owner msig.Address) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	tx, err := e.txs.GetTx(e.db, id)
	if err != nil {
		return false, err
	}
	return tx.IsConfirmedBy(owner), nil
}

// Transactions returns the transactions matching the query, ordered by id.
func (e *Engine) Transactions(ctx context.Context, q TransactionQuery) ([]TransactionView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var res []TransactionView
	threshold := e.registry.Threshold()
	err := e.txs.Visit(e.db, q.From, func(id uint64, tx *Transaction) bool {
		if q.match(tx) {
			res = append(res, newView(id, tx, threshold))
		}
		return q.Limit <= 0 || len(res) < q.Limit
	})
	if err != nil {
		return nil, errors.Wrap(err, "transactions")
	}
	return res, nil
}

// CountTransactions returns the number of pending and/or executed
// transactions.
func (e *Engine) CountTransactions(ctx context.Context, pending, executed bool) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	q := TransactionQuery{Pending: pending, Executed: executed}
	var n int
	err := e.txs.Visit(e.db, 0, func(_ uint64, tx *Transaction) bool {
		if q.match(tx) {
			n++
		}
		return true
	})
	return n, err
}

// TransactionsTo returns all transactions paying to dst, ordered by id.
func (e *Engine) TransactionsTo(ctx context.Context, dst msig.Address) ([]TransactionView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids, err := e.txs.ByDestination(e.db, dst)
	if err != nil {
		return nil, err
	}
	res := make([]TransactionView, 0, len(ids))
	for _, id := range ids {
		tx, err := e.txs.GetTx(e.db, id)
		if err != nil {
			return nil, err
		}
		res = append(res, newView(id, tx, e.registry.Threshold()))
	}
	return res, nil
}

// Events returns up to limit events with a sequence greater than after.
func (e *Engine) Events(ctx context.Context, after uint64, limit int) ([]Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.events.After(e.db, after, limit)
}

// Balance returns the current pool balance.
func (e *Engine) Balance(ctx context.Context) (coin.Coin, error) {
	return e.balance.CurrentBalance(ctx)
}

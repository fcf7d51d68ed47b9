package multisig

import (
	"bytes"
	"sort"

	msig "github.com/bhau7233/MSig"
	"github.com/bhau7233/MSig/coin"
	"github.com/bhau7233/MSig/errors"
	"github.com/bhau7233/MSig/orm"
)

// Status is the execution state of a transaction.
type Status int32

const (
	// StatusPending is the state of a transaction that was not executed
	// yet. It is approved when it holds enough confirmations.
	StatusPending Status = iota
	// StatusExecuting is set while the transfer is in flight.
	StatusExecuting
	// StatusExecuted is terminal. The funds were transferred.
	StatusExecuted
)

var statusNames = map[Status]string{
	StatusPending:   "pending",
	StatusExecuting: "executing",
	StatusExecuted:  "executed",
}

func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return "unknown"
}

// Transaction is a proposed disbursement of pool funds. It is never
// deleted, only its confirmations and status change.
type Transaction struct {
	Destination msig.Address `json:"destination"`
	Amount      coin.Coin    `json:"amount"`
	Status      Status       `json:"status"`
	// Confirmations is the set of confirming owners, sorted by address.
	Confirmations []msig.Address `json:"confirmations"`
	// Attempts counts failed execution attempts.
	Attempts uint32 `json:"attempts"`
}

var _ orm.Model = (*Transaction)(nil)

func (t *Transaction) Validate() error {
	var err error
	if t.Destination.IsZero() {
		err = errors.AppendField(err, "Destination", ErrInvalidDestination)
	} else {
		err = errors.AppendField(err, "Destination", t.Destination.Validate())
	}
	if e := t.Amount.Validate(); e != nil {
		err = errors.AppendField(err, "Amount", e)
	} else if !t.Amount.IsNonNegative() {
		err = errors.AppendField(err, "Amount", errors.Wrap(errors.ErrAmount, "negative"))
	}
	if _, ok := statusNames[t.Status]; !ok {
		err = errors.AppendField(err, "Status", errors.Wrapf(errors.ErrState, "unknown status %d", t.Status))
	}
	for i, c := range t.Confirmations {
		if i > 0 && bytes.Compare(t.Confirmations[i-1], c) >= 0 {
			err = errors.AppendField(err, "Confirmations", errors.Wrap(errors.ErrState, "not a sorted set"))
			break
		}
	}
	return err
}

func (t *Transaction) Marshal() ([]byte, error) {
	return orm.MarshalModel(t)
}

func (t *Transaction) Unmarshal(raw []byte) error {
	return orm.UnmarshalModel(raw, t)
}

func (t *Transaction) Copy() orm.Model {
	confirmations := make([]msig.Address, len(t.Confirmations))
	for i, c := range t.Confirmations {
		confirmations[i] = c.Clone()
	}
	return &Transaction{
		Destination:   t.Destination.Clone(),
		Amount:        t.Amount,
		Status:        t.Status,
		Confirmations: confirmations,
		Attempts:      t.Attempts,
	}
}

func (t *Transaction) search(owner msig.Address) (int, bool) {
	i := sort.Search(len(t.Confirmations), func(i int) bool {
		return bytes.Compare(t.Confirmations[i], owner) >= 0
	})
	return i, i < len(t.Confirmations) && t.Confirmations[i].Equals(owner)
}

// IsConfirmedBy returns true if owner confirmed this transaction.
func (t *Transaction) IsConfirmedBy(owner msig.Address) bool {
	_, ok := t.search(owner)
	return ok
}

// confirm adds owner to the confirmation set.
func (t *Transaction) confirm(owner msig.Address) error {
	i, ok := t.search(owner)
	if ok {
		return errors.Wrapf(ErrAlreadyConfirmed, "by %s", owner)
	}
	t.Confirmations = append(t.Confirmations, nil)
	copy(t.Confirmations[i+1:], t.Confirmations[i:])
	t.Confirmations[i] = owner.Clone()
	return nil
}

// revoke removes owner from the confirmation set.
func (t *Transaction) revoke(owner msig.Address) error {
	i, ok := t.search(owner)
	if !ok {
		return errors.Wrapf(ErrNotConfirmed, "by %s", owner)
	}
	t.Confirmations = append(t.Confirmations[:i], t.Confirmations[i+1:]...)
	return nil
}

// TransactionView is the read only representation of a transaction.
type TransactionView struct {
	ID            uint64       `json:"id"`
	Destination   msig.Address `json:"destination"`
	Amount        coin.Coin    `json:"amount"`
	Status        Status       `json:"status"`
	Executed      bool         `json:"executed"`
	Confirmations int          `json:"confirmations"`
	Approved      bool         `json:"approved"`
	Attempts      uint32       `json:"attempts"`
}

func newView(id uint64, t *Transaction, threshold int) TransactionView {
	return TransactionView{
		ID:            id,
		Destination:   t.Destination.Clone(),
		Amount:        t.Amount,
		Status:        t.Status,
		Executed:      t.Status != StatusPending,
		Confirmations: len(t.Confirmations),
		Approved:      t.Status == StatusPending && len(t.Confirmations) >= threshold,
		Attempts:      t.Attempts,
	}
}

// EventKind tells what happened.
type EventKind int32

const (
	EventDeposit EventKind = iota + 1
	EventNewTransaction
	EventConfirmation
	EventRevocation
	EventExecution
	EventExecutionFailure
)

var eventNames = map[EventKind]string{
	EventDeposit:          "Deposit",
	EventNewTransaction:   "NewTransaction",
	EventConfirmation:     "Confirmation",
	EventRevocation:       "Revocation",
	EventExecution:        "Execution",
	EventExecutionFailure: "ExecutionFailure",
}

func (k EventKind) String() string {
	if n, ok := eventNames[k]; ok {
		return n
	}
	return "Unknown"
}

// Event is an entry of the append only log. Only the fields relevant to
// the kind are set:
//
//   Deposit           Actor (sender), Amount
//   NewTransaction    TransactionID, Destination, Amount
//   Confirmation      Actor (owner), TransactionID
//   Revocation        Actor (owner), TransactionID
//   Execution         TransactionID
//   ExecutionFailure  TransactionID
type Event struct {
	// Sequence is the position in the log, starting at 1.
	Sequence      uint64       `json:"sequence"`
	Kind          EventKind    `json:"kind"`
	TransactionID uint64       `json:"transaction_id"`
	Actor         msig.Address `json:"actor,omitempty"`
	Destination   msig.Address `json:"destination,omitempty"`
	Amount        coin.Coin    `json:"amount"`
}

var _ orm.Model = (*Event)(nil)

func (e *Event) Validate() error {
	if _, ok := eventNames[e.Kind]; !ok {
		return errors.Field("Kind", errors.ErrState, "unknown event kind %d", e.Kind)
	}
	return nil
}

func (e *Event) Marshal() ([]byte, error) {
	return orm.MarshalModel(e)
}

func (e *Event) Unmarshal(raw []byte) error {
	return orm.UnmarshalModel(raw, e)
}

func (e *Event) Copy() orm.Model {
	cpy := *e
	cpy.Actor = e.Actor.Clone()
	cpy.Destination = e.Destination.Clone()
	return &cpy
}

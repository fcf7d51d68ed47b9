package multisig

import (
	"testing"

	msig "github.com/bhau7233/MSig"
	"github.com/bhau7233/MSig/coin"
	"github.com/bhau7233/MSig/errors"
	"github.com/bhau7233/MSig/msigtest"
	"github.com/bhau7233/MSig/msigtest/assert"
	"github.com/bhau7233/MSig/store"
)

func TestTransactionValidate(t *testing.T) {
	owners := msigtest.SequenceAddresses(2)
	sorted := owners
	if string(sorted[0]) > string(sorted[1]) {
		sorted = []msig.Address{owners[1], owners[0]}
	}

	cases := map[string]struct {
		tx        Transaction
		wantField string
		wantErr   *errors.Error
	}{
		"valid": {
			tx: Transaction{Destination: msigtest.NewAddress(1), Amount: iov(1), Confirmations: sorted},
		},
		"executing": {
			tx: Transaction{Destination: msigtest.NewAddress(1), Amount: iov(1), Status: StatusExecuting},
		},
		"null destination": {
			tx:        Transaction{Destination: make(msig.Address, msig.AddressLength), Amount: iov(1)},
			wantField: "Destination",
			wantErr:   ErrInvalidDestination,
		},
		"negative amount": {
			tx:        Transaction{Destination: msigtest.NewAddress(1), Amount: iov(-1)},
			wantField: "Amount",
			wantErr:   errors.ErrAmount,
		},
		"invalid ticker": {
			tx:        Transaction{Destination: msigtest.NewAddress(1), Amount: coin.NewCoin(1, 0, "x")},
			wantField: "Amount",
			wantErr:   errors.ErrCurrency,
		},
		"unknown status": {
			tx:        Transaction{Destination: msigtest.NewAddress(1), Amount: iov(1), Status: 7},
			wantField: "Status",
			wantErr:   errors.ErrState,
		},
		"unsorted confirmations": {
			tx:        Transaction{Destination: msigtest.NewAddress(1), Amount: iov(1), Confirmations: []msig.Address{sorted[1], sorted[0]}},
			wantField: "Confirmations",
			wantErr:   errors.ErrState,
		},
		"duplicated confirmation": {
			tx:        Transaction{Destination: msigtest.NewAddress(1), Amount: iov(1), Confirmations: []msig.Address{sorted[0], sorted[0]}},
			wantField: "Confirmations",
			wantErr:   errors.ErrState,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.tx.Validate()
			if tc.wantErr == nil {
				assert.Nil(t, err)
				return
			}
			assert.FieldError(t, err, tc.wantField, tc.wantErr)
		})
	}
}

func TestTransactionConfirmationSet(t *testing.T) {
	owners := msigtest.SequenceAddresses(4)
	tx := &Transaction{Destination: msigtest.NewAddress(1), Amount: iov(1)}

	for _, o := range []msig.Address{owners[3], owners[0], owners[2]} {
		assert.Nil(t, tx.confirm(o))
	}
	assert.IsErr(t, ErrAlreadyConfirmed, tx.confirm(owners[0]))
	assert.Nil(t, tx.Validate())
	assert.Equal(t, 3, len(tx.Confirmations))

	assert.Equal(t, true, tx.IsConfirmedBy(owners[2]))
	assert.Equal(t, false, tx.IsConfirmedBy(owners[1]))

	assert.IsErr(t, ErrNotConfirmed, tx.revoke(owners[1]))
	assert.Nil(t, tx.revoke(owners[2]))
	assert.Equal(t, false, tx.IsConfirmedBy(owners[2]))
	assert.Nil(t, tx.Validate())

	cpy := tx.Copy().(*Transaction)
	assert.Nil(t, cpy.confirm(owners[1]))
	assert.Equal(t, 2, len(tx.Confirmations))
}

func TestTransactionBucket(t *testing.T) {
	db := store.MemStore()
	b := NewTransactionBucket()
	dst := msigtest.NewAddress(1)
	other := msigtest.NewAddress(2)

	count, err := b.Count(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), count)

	for i, d := range []msig.Address{dst, other, dst} {
		id, err := b.Create(db, &Transaction{Destination: d, Amount: iov(int64(i))})
		assert.Nil(t, err)
		assert.Equal(t, uint64(i), id)
	}
	count, err = b.Count(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(3), count)

	tx, err := b.GetTx(db, 1)
	assert.Nil(t, err)
	assert.Equal(t, other, tx.Destination)

	_, err = b.GetTx(db, 3)
	assert.IsErr(t, errors.ErrNotFound, err)

	tx.Status = StatusExecuted
	tx.Attempts = 2
	assert.Nil(t, b.Update(db, 1, tx))
	got, err := b.GetTx(db, 1)
	assert.Nil(t, err)
	assert.Equal(t, tx, got)

	ids, err := b.ByDestination(db, dst)
	assert.Nil(t, err)
	assert.Equal(t, []uint64{0, 2}, ids)

	var visited []uint64
	err = b.Visit(db, 1, func(id uint64, tx *Transaction) bool {
		visited = append(visited, id)
		return true
	})
	assert.Nil(t, err)
	assert.Equal(t, []uint64{1, 2}, visited)
}

func TestEventBucket(t *testing.T) {
	db := store.MemStore()
	b := NewEventBucket()

	for i := 0; i < 5; i++ {
		e := Event{Kind: EventConfirmation, TransactionID: uint64(i), Actor: msigtest.NewAddress(1)}
		assert.Nil(t, b.Append(db, &e))
		assert.Equal(t, uint64(i+1), e.Sequence)
	}

	all, err := b.After(db, 0, 0)
	assert.Nil(t, err)
	assert.Equal(t, 5, len(all))

	page, err := b.After(db, 1, 2)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(page))
	assert.Equal(t, uint64(2), page[0].Sequence)
	assert.Equal(t, uint64(3), page[1].Sequence)

	none, err := b.After(db, 5, 10)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(none))

	err = b.Append(db, &Event{Kind: 42})
	assert.FieldError(t, err, "Kind", errors.ErrState)
}

func TestViewApproval(t *testing.T) {
	owners := msigtest.SequenceAddresses(2)
	tx := &Transaction{Destination: msigtest.NewAddress(1), Amount: iov(1)}
	assert.Nil(t, tx.confirm(owners[0]))

	cases := map[string]struct {
		status       Status
		threshold    int
		wantApproved bool
		wantExecuted bool
	}{
		"below threshold": {status: StatusPending, threshold: 2},
		"approved":        {status: StatusPending, threshold: 1, wantApproved: true},
		"executing":       {status: StatusExecuting, threshold: 1, wantExecuted: true},
		"executed":        {status: StatusExecuted, threshold: 1, wantExecuted: true},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			cpy := tx.Copy().(*Transaction)
			cpy.Status = tc.status
			v := newView(7, cpy, tc.threshold)
			assert.Equal(t, uint64(7), v.ID)
			assert.Equal(t, 1, v.Confirmations)
			assert.Equal(t, tc.wantApproved, v.Approved)
			assert.Equal(t, tc.wantExecuted, v.Executed)
		})
	}
}

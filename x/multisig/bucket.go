package multisig

import (
	"math"

	msig "github.com/bhau7233/MSig"
	"github.com/bhau7233/MSig/errors"
	"github.com/bhau7233/MSig/orm"
)

const (
	// TransactionBucketName is where the transactions are stored.
	TransactionBucketName = "msig_tx"
	// EventBucketName is where the event log is stored.
	EventBucketName = "msig_event"
)

// TransactionBucket stores transactions under their 8 byte big endian id.
// The id of the next transaction equals the number of transactions.
type TransactionBucket struct {
	orm.Bucket
	seq orm.Sequence
}

// NewTransactionBucket returns a bucket indexing transactions by
// destination.
func NewTransactionBucket() *TransactionBucket {
	b := orm.NewBucket(TransactionBucketName, orm.NewSimpleObj(nil, &Transaction{})).
		WithIndex("destination", destinationIndex, false)
	return &TransactionBucket{
		Bucket: b,
		seq:    b.Sequence("id"),
	}
}

func destinationIndex(obj orm.Object) ([]byte, error) {
	tx, ok := obj.Value().(*Transaction)
	if !ok {
		return nil, errors.WithType(errors.ErrType, obj.Value())
	}
	return tx.Destination, nil
}

// Count returns the number of transactions ever created.
func (b *TransactionBucket) Count(db msig.ReadOnlyKVStore) (uint64, error) {
	return b.seq.Latest(db)
}

// Create stores a new transaction under the next id.
func (b *TransactionBucket) Create(db msig.KVStore, tx *Transaction) (uint64, error) {
	n, err := b.seq.NextInt(db)
	if err != nil {
		return 0, errors.Wrap(err, "transaction id")
	}
	id := n - 1
	if err := b.Save(db, orm.NewSimpleObj(orm.EncodeSequence(id), tx)); err != nil {
		return 0, err
	}
	return id, nil
}

// GetTx returns the transaction of given id. It fails with ErrNotFound
// for an id that was never assigned.
func (b *TransactionBucket) GetTx(db msig.ReadOnlyKVStore, id uint64) (*Transaction, error) {
	obj, err := b.Get(db, orm.EncodeSequence(id))
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "transaction %d", id)
	}
	tx, ok := obj.Value().(*Transaction)
	if !ok {
		return nil, errors.WithType(errors.ErrType, obj.Value())
	}
	return tx, nil
}

// Update writes a modified transaction. The transaction must exist.
func (b *TransactionBucket) Update(db msig.KVStore, id uint64, tx *Transaction) error {
	return b.Save(db, orm.NewSimpleObj(orm.EncodeSequence(id), tx))
}

// Visit calls fn for transactions in ascending id order, starting at
// from, until fn returns false.
func (b *TransactionBucket) Visit(db msig.ReadOnlyKVStore, from uint64, fn func(id uint64, tx *Transaction) bool) error {
	var ferr error
	err := b.Bucket.Visit(db, orm.EncodeSequence(from), func(obj orm.Object) bool {
		id, err := orm.DecodeSequence(obj.Key())
		if err != nil {
			ferr = err
			return false
		}
		return fn(id, obj.Value().(*Transaction))
	})
	if err != nil {
		return err
	}
	return ferr
}

// ByDestination returns the ids of all transactions paying to dst.
func (b *TransactionBucket) ByDestination(db msig.ReadOnlyKVStore, dst msig.Address) ([]uint64, error) {
	objs, err := b.GetIndexed(db, "destination", dst)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(objs))
	for _, obj := range objs {
		id, err := orm.DecodeSequence(obj.Key())
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// EventBucket is the append only event log.
type EventBucket struct {
	orm.Bucket
	seq orm.Sequence
}

// NewEventBucket returns the event log bucket.
func NewEventBucket() *EventBucket {
	b := orm.NewBucket(EventBucketName, orm.NewSimpleObj(nil, &Event{}))
	return &EventBucket{
		Bucket: b,
		seq:    b.Sequence("seq"),
	}
}

// Append assigns the next sequence to the event and stores it.
func (b *EventBucket) Append(db msig.KVStore, e *Event) error {
	n, err := b.seq.NextInt(db)
	if err != nil {
		return errors.Wrap(err, "event sequence")
	}
	e.Sequence = n
	return b.Save(db, orm.NewSimpleObj(orm.EncodeSequence(n), e))
}

// After returns up to limit events with a sequence greater than after.
// A non positive limit returns all of them.
func (b *EventBucket) After(db msig.ReadOnlyKVStore, after uint64, limit int) ([]Event, error) {
	if after == math.MaxUint64 {
		return nil, nil
	}
	var res []Event
	err := b.Visit(db, orm.EncodeSequence(after+1), func(obj orm.Object) bool {
		res = append(res, *obj.Value().(*Event))
		return limit <= 0 || len(res) < limit
	})
	return res, err
}

package orm

import (
	msig "github.com/bhau7233/MSig"
)

// Object is what is stored in the bucket. The key is joined with the bucket
// prefix to build the database key. The value is the serialized model.
type Object interface {
	Keyed
	Cloneable
	// Validate returns error if the object is not in a valid state to be
	// persisted.
	msig.Validater
	Value() Model
}

// Keyed is anything that can identify itself.
type Keyed interface {
	Key() []byte
	SetKey([]byte)
}

// Cloneable will create a new object that can be loaded into.
type Cloneable interface {
	Clone() Object
}

// Model is the data kept inside of an object. It must be a pointer so that
// Unmarshal can load into it.
type Model interface {
	msig.Validater
	msig.Persistent
	Copy() Model
}

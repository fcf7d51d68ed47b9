package orm

import (
	"github.com/bhau7233/MSig/errors"
)

// SimpleObj combines a key and a model. It is the only Object
// implementation needed by buckets of this module.
type SimpleObj struct {
	key   []byte
	value Model
}

var _ Object = (*SimpleObj)(nil)

// NewSimpleObj returns an object of given key and value.
func NewSimpleObj(key []byte, value Model) *SimpleObj {
	return &SimpleObj{key: key, value: value}
}

// Value returns the model stored in this object.
func (o SimpleObj) Value() Model {
	return o.value
}

// Key returns the key this object is stored under.
func (o SimpleObj) Key() []byte {
	return o.key
}

// SetKey updates the key.
func (o *SimpleObj) SetKey(key []byte) {
	o.key = key
}

// Validate requires both key and value and delegates to the value
// validation.
func (o SimpleObj) Validate() error {
	if len(o.key) == 0 {
		return errors.Field("Key", errors.ErrEmpty, "missing key")
	}
	if o.value == nil {
		return errors.Field("Value", errors.ErrEmpty, "missing value")
	}
	return errors.Field("Value", o.value.Validate(), "invalid value")
}

// Clone returns a deep copy of this object.
func (o *SimpleObj) Clone() Object {
	res := &SimpleObj{}
	if o.value != nil {
		res.value = o.value.Copy()
	}
	if len(o.key) > 0 {
		res.key = append([]byte(nil), o.key...)
	}
	return res
}
